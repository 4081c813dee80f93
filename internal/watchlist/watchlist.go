package watchlist

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ksred/auction-api/internal/bidding"
	"github.com/ksred/auction-api/internal/types"
	"github.com/ksred/auction-api/pkg/response"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrAlreadyWatching = errors.New("auction already in watchlist")

const defaultPageSize = 10

// endingSoonWindow is how far ahead an active auction's close counts as
// ending soon in watchlist stats.
const endingSoonWindow = 24 * time.Hour

// Service manages per-user auction watchlists. Watches are advisory reads
// over auction state and never touch the bidding path, so no per-auction
// serialization is involved.
type Service struct {
	db *Database
}

func NewService(gormDB *gorm.DB) *Service {
	return &Service{db: NewDatabase(gormDB)}
}

// Add puts an auction on the user's watchlist. A previously removed watch for
// the same auction is reactivated with its preferences intact.
func (s *Service) Add(userID, auctionID string) (*WatchItem, error) {
	logger := log.With().
		Str("user_id", userID).
		Str("auction_id", auctionID).
		Logger()

	if _, err := s.db.GetAuction(auctionID); err != nil {
		return nil, err
	}

	existing, err := s.db.GetWatch(userID, auctionID)
	if err == nil {
		if existing.IsActive {
			return nil, ErrAlreadyWatching
		}
		existing.IsActive = true
		existing.UpdatedAt = time.Now()
		if err := s.db.UpdateWatch(existing); err != nil {
			return nil, err
		}
		logger.Info().Str("watch_id", existing.WatchID).Msg("watchlist entry reactivated")
		return existing, nil
	}
	if !errors.Is(err, ErrWatchNotFound) {
		return nil, err
	}

	now := time.Now()
	item := &WatchItem{
		WatchID:            "WTC_" + uuid.New().String(),
		UserID:             userID,
		AuctionID:          auctionID,
		IsActive:           true,
		NotifyBidUpdates:   true,
		NotifyPriceChanges: true,
		NotifyEndingSoon:   true,
		NotifyAuctionEnded: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.db.CreateWatch(item); err != nil {
		return nil, err
	}

	logger.Info().Str("watch_id", item.WatchID).Msg("auction added to watchlist")
	return item, nil
}

// Remove deactivates the user's watch on an auction. The row survives so the
// auction can be watched again later.
func (s *Service) Remove(userID, auctionID string) error {
	item, err := s.db.GetActiveWatch(userID, auctionID)
	if err != nil {
		return err
	}

	item.IsActive = false
	item.UpdatedAt = time.Now()
	if err := s.db.UpdateWatch(item); err != nil {
		return err
	}

	log.Info().
		Str("user_id", userID).
		Str("auction_id", auctionID).
		Msg("auction removed from watchlist")
	return nil
}

// IsWatching reports whether the user has an active watch on the auction.
func (s *Service) IsWatching(userID, auctionID string) (bool, error) {
	_, err := s.db.GetActiveWatch(userID, auctionID)
	if err != nil {
		if errors.Is(err, ErrWatchNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List returns a page of the user's active watches with their auctions,
// newest watch first. Watches whose auction was cancelled are filtered out
// of the page but still count toward pagination totals.
func (s *Service) List(userID string, page, limit int) (*ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}

	items, err := s.db.GetActiveWatches(userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.db.CountActiveWatches(userID)
	if err != nil {
		return nil, err
	}

	auctionIDs := make([]string, 0, len(items))
	for _, item := range items {
		auctionIDs = append(auctionIDs, item.AuctionID)
	}
	auctions, err := s.db.GetAuctions(auctionIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]types.Auction, len(auctions))
	for _, a := range auctions {
		byID[a.AuctionID] = a
	}

	details := make([]WatchDetail, 0, len(items))
	for _, item := range items {
		auction, ok := byID[item.AuctionID]
		if !ok || auction.Status == types.StatusCancelled {
			continue
		}
		details = append(details, WatchDetail{Watch: item, Auction: auction})
	}

	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return &ListResponse{
		Items: details,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

// UpdatePreferences merges partial notification preferences into the user's
// watch. Omitted fields keep their stored value.
func (s *Service) UpdatePreferences(userID, auctionID string, prefs *NotificationPreferences) (*WatchItem, error) {
	item, err := s.db.GetActiveWatch(userID, auctionID)
	if err != nil {
		return nil, err
	}

	if prefs.BidUpdates != nil {
		item.NotifyBidUpdates = *prefs.BidUpdates
	}
	if prefs.PriceChanges != nil {
		item.NotifyPriceChanges = *prefs.PriceChanges
	}
	if prefs.EndingSoon != nil {
		item.NotifyEndingSoon = *prefs.EndingSoon
	}
	if prefs.AuctionEnded != nil {
		item.NotifyAuctionEnded = *prefs.AuctionEnded
	}
	item.UpdatedAt = time.Now()

	if err := s.db.UpdateWatch(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Stats summarizes the user's active watchlist: how many watched auctions
// are live, how many close within the ending-soon window, and the combined
// current price of everything watched.
func (s *Service) Stats(userID string) (*StatsResponse, error) {
	items, err := s.db.GetActiveWatches(userID, 0, -1)
	if err != nil {
		return nil, err
	}

	auctionIDs := make([]string, 0, len(items))
	for _, item := range items {
		auctionIDs = append(auctionIDs, item.AuctionID)
	}
	auctions, err := s.db.GetAuctions(auctionIDs)
	if err != nil {
		return nil, err
	}

	stats := &StatsResponse{}
	soonCutoff := time.Now().Add(endingSoonWindow)
	for _, a := range auctions {
		stats.TotalItems++
		stats.TotalValue += a.CurrentPrice
		if a.Status == types.StatusActive {
			stats.ActiveAuctions++
			if a.EndTime.Before(soonCutoff) {
				stats.EndingSoon++
			}
		}
	}
	return stats, nil
}

// WatchDetail pairs a watch with its auction for list responses.
type WatchDetail struct {
	Watch   WatchItem     `json:"watch"`
	Auction types.Auction `json:"auction"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type ListResponse struct {
	Items      []WatchDetail `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

type StatsResponse struct {
	TotalItems     int     `json:"total_items"`
	ActiveAuctions int     `json:"active_auctions"`
	EndingSoon     int     `json:"ending_soon"`
	TotalValue     float64 `json:"total_value"`
}

// GinHandlers contains HTTP handlers for watchlist endpoints
type GinHandlers struct {
	service *Service
}

func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{service: service}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrWatchNotFound), errors.Is(err, bidding.ErrAuctionNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, ErrAlreadyWatching):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}

// AddHandler handles POST requests to watch an auction
func (h *GinHandlers) AddHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("clientID")
		if userID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		var req AddRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		item, err := h.service.Add(userID, req.AuctionID)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, item)
	}
}

// RemoveHandler handles DELETE requests to stop watching an auction
func (h *GinHandlers) RemoveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("clientID")
		if userID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		if err := h.service.Remove(userID, c.Param("auction_id")); err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, gin.H{"auction_id": c.Param("auction_id"), "removed": true})
	}
}

// ListHandler handles GET requests for the user's watchlist
func (h *GinHandlers) ListHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("clientID")
		if userID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))

		list, err := h.service.List(userID, page, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, list)
	}
}

// CheckHandler handles GET requests asking whether an auction is watched
func (h *GinHandlers) CheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("clientID")
		if userID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		watching, err := h.service.IsWatching(userID, c.Param("auction_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, gin.H{"in_watchlist": watching})
	}
}

// UpdateNotificationsHandler handles PUT requests for notification preferences
func (h *GinHandlers) UpdateNotificationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("clientID")
		if userID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		var prefs NotificationPreferences
		if err := c.ShouldBindJSON(&prefs); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		item, err := h.service.UpdatePreferences(userID, c.Param("auction_id"), &prefs)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, item)
	}
}

// StatsHandler handles GET requests for watchlist statistics
func (h *GinHandlers) StatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("clientID")
		if userID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		stats, err := h.service.Stats(userID)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, stats)
	}
}
