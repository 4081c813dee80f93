package auction

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ksred/auction-api/internal/bidding"
	"github.com/ksred/auction-api/internal/types"
	"github.com/ksred/auction-api/pkg/response"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrInvalidPrices = errors.New("invalid auction price configuration")
	ErrNotSeller     = errors.New("only the seller may perform this action")
)

const defaultDurationHours = 24

// Service handles auction listing and lifecycle transitions. Transitions of
// existing auctions run inside the same per-auction serialization domain the
// bidding engine uses, so no reader-triggered or concurrent mutation can
// interleave with a live cascade.
type Service struct {
	db     *Database
	actors *bidding.ActorRegistry
}

func NewService(gormDB *gorm.DB, actors *bidding.ActorRegistry) *Service {
	return &Service{
		db:     NewDatabase(gormDB),
		actors: actors,
	}
}

// CreateAuction validates price relationships and persists a new auction.
// Auctions requiring a seller agreement start in pending_agreement; the
// rest go live immediately, matching the admin listing flow.
func (s *Service) CreateAuction(sellerID string, req *CreateRequest) (*types.Auction, error) {
	if req.StartingPrice < 0 {
		return nil, fmt.Errorf("%w: starting price cannot be negative", ErrInvalidPrices)
	}
	if req.BuyItNowPrice != nil && *req.BuyItNowPrice <= req.StartingPrice {
		return nil, fmt.Errorf("%w: buy it now price must be higher than starting price", ErrInvalidPrices)
	}
	if req.ReservePrice != nil && *req.ReservePrice < req.StartingPrice {
		return nil, fmt.Errorf("%w: reserve price cannot be lower than starting price", ErrInvalidPrices)
	}

	increment := req.BidIncrement
	if increment <= 0 {
		increment = 1.00
	}

	currency := req.Currency
	if currency == "" {
		currency = "NGN"
	}

	auctionType := req.AuctionType
	if auctionType == "" {
		if req.ReservePrice != nil {
			auctionType = types.AuctionTypeReserve
		} else {
			auctionType = types.AuctionTypePureSale
		}
	}

	now := time.Now()
	startTime := now
	if req.StartTime != nil {
		startTime = *req.StartTime
	}

	var endTime time.Time
	switch {
	case req.EndTime != nil:
		endTime = *req.EndTime
	case req.DurationHours > 0:
		endTime = startTime.Add(time.Duration(req.DurationHours) * time.Hour)
	default:
		endTime = startTime.Add(defaultDurationHours * time.Hour)
	}

	status := types.StatusActive
	if req.RequireAgreement {
		status = types.StatusPendingAgreement
	}

	auction := &types.Auction{
		AuctionID:     "AUC_" + uuid.New().String(),
		Title:         req.Title,
		Description:   req.Description,
		StartingPrice: req.StartingPrice,
		CurrentPrice:  req.StartingPrice,
		BidIncrement:  increment,
		ReservePrice:  req.ReservePrice,
		BuyItNowPrice: req.BuyItNowPrice,
		Currency:      currency,
		AuctionType:   auctionType,
		Status:        status,
		StartTime:     startTime,
		EndTime:       endTime,
		SellerID:      sellerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.db.CreateAuction(auction); err != nil {
		return nil, fmt.Errorf("failed to create auction: %w", err)
	}

	log.Info().
		Str("auction_id", auction.AuctionID).
		Str("seller_id", sellerID).
		Str("status", auction.Status).
		Float64("starting_price", auction.StartingPrice).
		Msg("auction created")
	return auction, nil
}

// GetAuction returns an auction with its recent bid history.
func (s *Service) GetAuction(auctionID string) (*DetailResponse, error) {
	auction, err := s.db.GetAuction(auctionID)
	if err != nil {
		return nil, err
	}

	bids, err := s.db.GetRecentBids(auctionID, 10)
	if err != nil {
		return nil, err
	}

	return &DetailResponse{Auction: auction, Bids: bids}, nil
}

// ListActive returns all active auctions, newest first.
func (s *Service) ListActive() ([]types.Auction, error) {
	return s.db.GetAuctionsByStatus(types.StatusActive)
}

// ListBySeller returns all auctions listed by a seller.
func (s *Service) ListBySeller(sellerID string) ([]types.Auction, error) {
	return s.db.GetAuctionsBySeller(sellerID)
}

// Publish moves a draft auction to active.
func (s *Service) Publish(auctionID, sellerID string) (*types.Auction, error) {
	var published *types.Auction
	err := s.actors.Do(auctionID, func() error {
		auction, err := s.db.GetAuction(auctionID)
		if err != nil {
			return err
		}
		if auction.SellerID != sellerID {
			return ErrNotSeller
		}
		if auction.Status != types.StatusDraft {
			return bidding.ErrInvalidTransition
		}

		auction.Status = types.StatusActive
		auction.UpdatedAt = time.Now()
		if err := s.db.UpdateAuction(auction); err != nil {
			return fmt.Errorf("failed to publish auction: %w", err)
		}
		published = auction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return published, nil
}

// Cancel cancels an active auction. Allowed only while no bid has ever been
// accepted; once bidding has started the auction must run its course.
func (s *Service) Cancel(auctionID, sellerID string) (*types.Auction, error) {
	var cancelled *types.Auction
	err := s.actors.Do(auctionID, func() error {
		auction, err := s.db.GetAuction(auctionID)
		if err != nil {
			return err
		}
		if auction.SellerID != sellerID {
			return ErrNotSeller
		}
		if auction.Status != types.StatusActive && auction.Status != types.StatusDraft &&
			auction.Status != types.StatusPendingAgreement {
			return bidding.ErrInvalidTransition
		}

		count, err := s.db.CountBids(auctionID)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: cannot cancel an auction with bids", bidding.ErrInvalidTransition)
		}

		auction.Status = types.StatusCancelled
		auction.UpdatedAt = time.Now()
		if err := s.db.UpdateAuction(auction); err != nil {
			return fmt.Errorf("failed to cancel auction: %w", err)
		}
		cancelled = auction
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("auction_id", auctionID).Msg("auction cancelled")
	return cancelled, nil
}

// GinHandlers contains HTTP handlers for auction endpoints
type GinHandlers struct {
	service *Service
}

func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{service: service}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, bidding.ErrAuctionNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, ErrNotSeller):
		response.Forbidden(c, err.Error())
	case errors.Is(err, ErrInvalidPrices), errors.Is(err, bidding.ErrInvalidTransition):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}

// CreateAuctionHandler handles POST requests to list a new auction
func (h *GinHandlers) CreateAuctionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("clientID")
		if sellerID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		var req CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		auction, err := h.service.CreateAuction(sellerID, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, auction)
	}
}

// GetAuctionHandler handles GET requests for a single auction with history
func (h *GinHandlers) GetAuctionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := h.service.GetAuction(c.Param("auction_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, detail)
	}
}

// ListActiveHandler handles GET requests for all active auctions
func (h *GinHandlers) ListActiveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		auctions, err := h.service.ListActive()
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, auctions)
	}
}

// MyAuctionsHandler handles GET requests for the caller's auctions
func (h *GinHandlers) MyAuctionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("clientID")
		if sellerID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		auctions, err := h.service.ListBySeller(sellerID)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, auctions)
	}
}

// PublishAuctionHandler handles PATCH requests to publish a draft auction
func (h *GinHandlers) PublishAuctionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("clientID")
		if sellerID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		auction, err := h.service.Publish(c.Param("auction_id"), sellerID)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, auction)
	}
}

// CancelAuctionHandler handles PATCH requests to cancel an auction
func (h *GinHandlers) CancelAuctionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("clientID")
		if sellerID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		auction, err := h.service.Cancel(c.Param("auction_id"), sellerID)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, auction)
	}
}
