package bidding

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/ksred/auction-api/pkg/response"
)

// GinHandlers contains HTTP handlers for bidding endpoints
type GinHandlers struct {
	engine *Engine
}

func NewGinHandlers(engine *Engine) *GinHandlers {
	return &GinHandlers{engine: engine}
}

// respondError maps engine errors onto the standard response envelope.
// Validation failures are client errors; only unknown failures become 500s.
func respondError(c *gin.Context, err error) {
	var tooLow *BidTooLowError
	var insufficient *InsufficientBalanceError

	switch {
	case errors.Is(err, ErrAuctionNotFound), errors.Is(err, ErrProxyNotFound):
		response.NotFound(c, err.Error())
	case errors.As(err, &tooLow),
		errors.As(err, &insufficient),
		errors.Is(err, ErrAuctionNotActive),
		errors.Is(err, ErrSelfBidForbidden),
		errors.Is(err, ErrProxyBelowFloor),
		errors.Is(err, ErrBuyNowUnavailable),
		errors.Is(err, ErrInvalidTransition):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrOracleUnavailable):
		response.ServiceUnavailable(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}

type placeBidRequest struct {
	AuctionID string  `json:"auction_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
	Currency  string  `json:"currency"`
}

// PlaceBidHandler handles POST requests to place a bid
func (h *GinHandlers) PlaceBidHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		bidderID := c.GetString("clientID")
		if bidderID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		var req placeBidRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		if req.Amount <= 0 {
			response.BadRequest(c, "Bid amount must be positive")
			return
		}

		resp, err := h.engine.PlaceBid(req.AuctionID, bidderID, req.Amount, req.Currency)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, resp)
	}
}

type setProxyBidRequest struct {
	AuctionID string  `json:"auction_id" binding:"required"`
	MaxAmount float64 `json:"max_amount" binding:"required"`
	Currency  string  `json:"currency"`
}

// SetProxyBidHandler handles POST requests to set or update a max bid
func (h *GinHandlers) SetProxyBidHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		bidderID := c.GetString("clientID")
		if bidderID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		var req setProxyBidRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		if req.MaxAmount <= 0 {
			response.BadRequest(c, "Max bid amount must be positive")
			return
		}

		resp, err := h.engine.SetProxyBid(req.AuctionID, bidderID, req.MaxAmount, req.Currency)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, resp)
	}
}

// CancelProxyBidHandler handles DELETE requests to cancel the caller's max bid
func (h *GinHandlers) CancelProxyBidHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		bidderID := c.GetString("clientID")
		if bidderID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		auctionID := c.Param("auction_id")
		if err := h.engine.CancelProxyBid(auctionID, bidderID); err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, gin.H{"message": "Max bid cancelled successfully"})
	}
}

// BuyNowHandler handles POST requests to buy an auction at its fixed price
func (h *GinHandlers) BuyNowHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		buyerID := c.GetString("clientID")
		if buyerID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		auctionID := c.Param("auction_id")
		resp, err := h.engine.BuyNow(auctionID, buyerID)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, resp)
	}
}

// ExpireHandler handles POST requests to expire a due auction. Internal;
// the sweeper normally drives this, but support can trigger it on demand.
func (h *GinHandlers) ExpireHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		auctionID := c.Param("auction_id")
		resp, err := h.engine.ExpireIfDue(auctionID)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, resp)
	}
}

// CanBidHandler handles GET requests for bid eligibility
func (h *GinHandlers) CanBidHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("clientID")
		if userID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		resp, err := h.engine.CanBid(c.Param("auction_id"), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, resp)
	}
}

// AuctionBidsHandler handles GET requests for an auction's bid history
func (h *GinHandlers) AuctionBidsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		bids, err := h.engine.BidsForAuction(c.Param("auction_id"), 0)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, bids)
	}
}

// HighestBidHandler handles GET requests for an auction's highest bid
func (h *GinHandlers) HighestBidHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		bid, err := h.engine.HighestBid(c.Param("auction_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, bid)
	}
}

// MyBidsHandler handles GET requests for the caller's bid history
func (h *GinHandlers) MyBidsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		bidderID := c.GetString("clientID")
		if bidderID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		bids, err := h.engine.BidsForBidder(bidderID)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, bids)
	}
}

// MyProxyBidHandler handles GET requests for the caller's max bid on an auction
func (h *GinHandlers) MyProxyBidHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		bidderID := c.GetString("clientID")
		if bidderID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		proxy, err := h.engine.ActiveProxyFor(c.Param("auction_id"), bidderID)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, proxy)
	}
}

// MyActiveProxiesHandler handles GET requests for all of the caller's max bids
func (h *GinHandlers) MyActiveProxiesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		bidderID := c.GetString("clientID")
		if bidderID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		proxies, err := h.engine.ActiveProxiesForBidder(bidderID)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, proxies)
	}
}

// AuctionProxiesHandler handles GET requests for an auction's active max
// bids in resolution order. Internal surface.
func (h *GinHandlers) AuctionProxiesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		proxies, err := h.engine.ActiveProxiesForAuction(c.Param("auction_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, proxies)
	}
}
