package agreement

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

var ErrNotAgreementSeller = errors.New("only the auction seller may accept the agreement")

// Service handles the seller-agreement gate. Auction state transitions run
// through the shared per-auction serialization domain.
type Service struct {
	db        *Database
	auctionDB *gorm.DB
	actors    *bidding.ActorRegistry
}

func NewService(gormDB *gorm.DB, actors *bidding.ActorRegistry) *Service {
	return &Service{
		db:        NewDatabase(gormDB),
		auctionDB: gormDB,
		actors:    actors,
	}
}

func (s *Service) getAuction(auctionID string) (*types.Auction, error) {
	var auction types.Auction
	if err := s.auctionDB.Where("auction_id = ?", auctionID).First(&auction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bidding.ErrAuctionNotFound
		}
		return nil, err
	}
	return &auction, nil
}

// CreateAgreement gates an auction behind seller sign-off, moving it to
// pending_agreement. Idempotent: an existing agreement is returned as is.
func (s *Service) CreateAgreement(auctionID string) (*SellerAgreement, error) {
	if existing, err := s.db.GetAgreementByAuction(auctionID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrAgreementNotFound) {
		return nil, err
	}

	var agreement *SellerAgreement
	err := s.actors.Do(auctionID, func() error {
		auction, err := s.getAuction(auctionID)
		if err != nil {
			return err
		}
		if auction.Status != types.StatusDraft && auction.Status != types.StatusActive {
			return bidding.ErrInvalidTransition
		}

		now := time.Now()
		agreement = &SellerAgreement{
			AgreementID: "AGR_" + uuid.New().String(),
			AuctionID:   auctionID,
			SellerID:    auction.SellerID,
			Status:      StatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.db.CreateAgreement(agreement); err != nil {
			return fmt.Errorf("failed to create seller agreement: %w", err)
		}

		auction.Status = types.StatusPendingAgreement
		auction.UpdatedAt = now
		if err := s.auctionDB.Save(auction).Error; err != nil {
			return fmt.Errorf("failed to gate auction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("agreement_id", agreement.AgreementID).
		Str("auction_id", auctionID).
		Msg("seller agreement created, auction gated")
	return agreement, nil
}

// Accept records the seller's acceptances. Once every term is accepted the
// agreement completes and the auction goes live.
func (s *Service) Accept(agreementID, sellerID string, req *AcceptRequest) (*SellerAgreement, error) {
	agreement, err := s.db.GetAgreement(agreementID)
	if err != nil {
		return nil, err
	}
	if agreement.SellerID != sellerID {
		return nil, ErrNotAgreementSeller
	}

	err = s.actors.Do(agreement.AuctionID, func() error {
		now := time.Now()
		agreement.TermsAccepted = req.TermsAccepted
		agreement.CommissionAccepted = req.CommissionAccepted
		agreement.PaymentAccepted = req.PaymentAccepted
		agreement.UpdatedAt = now

		if !agreement.IsComplete() {
			// Partial acceptance resets completion.
			agreement.Status = StatusPending
			agreement.CompletedAt = nil
			return s.db.UpdateAgreement(agreement)
		}

		agreement.Status = StatusCompleted
		agreement.CompletedAt = &now

		auction, err := s.getAuction(agreement.AuctionID)
		if err != nil {
			return err
		}
		if auction.Status != types.StatusPendingAgreement {
			return s.db.UpdateAgreement(agreement)
		}

		auction.Status = types.StatusActive
		auction.UpdatedAt = now
		if err := s.db.CompleteWithAuction(agreement, auction); err != nil {
			return fmt.Errorf("failed to complete agreement: %w", err)
		}

		log.Info().
			Str("agreement_id", agreement.AgreementID).
			Str("auction_id", agreement.AuctionID).
			Msg("seller agreement completed, auction live")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return agreement, nil
}

// GetByAuction returns the agreement gating an auction, if any.
func (s *Service) GetByAuction(auctionID string) (*SellerAgreement, error) {
	return s.db.GetAgreementByAuction(auctionID)
}

// GinHandlers contains HTTP handlers for seller-agreement endpoints
type GinHandlers struct {
	service *Service
}

func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{service: service}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAgreementNotFound), errors.Is(err, bidding.ErrAuctionNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, ErrNotAgreementSeller):
		response.Forbidden(c, err.Error())
	case errors.Is(err, bidding.ErrInvalidTransition):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}

// CreateAgreementHandler handles POST requests to gate an auction. Internal.
func (h *GinHandlers) CreateAgreementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		agreement, err := h.service.CreateAgreement(c.Param("auction_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, agreement)
	}
}

// AcceptAgreementHandler handles POST requests for seller acceptance
func (h *GinHandlers) AcceptAgreementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("clientID")
		if sellerID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		var req AcceptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		agreement, err := h.service.Accept(c.Param("agreement_id"), sellerID, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, agreement)
	}
}

// GetAgreementHandler handles GET requests for an auction's agreement
func (h *GinHandlers) GetAgreementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		agreement, err := h.service.GetByAuction(c.Param("auction_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, agreement)
	}
}
