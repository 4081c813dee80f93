package auction

import (
	"time"

	"github.com/ksred/auction-api/internal/types"
)

// CreateRequest carries the fields needed to list a new auction.
type CreateRequest struct {
	Title            string   `json:"title" binding:"required"`
	Description      string   `json:"description"`
	StartingPrice    float64  `json:"starting_price" binding:"required"`
	BidIncrement     float64  `json:"bid_increment"`
	ReservePrice     *float64 `json:"reserve_price"`
	BuyItNowPrice    *float64 `json:"buy_it_now_price"`
	Currency         string   `json:"currency"`
	AuctionType      string   `json:"auction_type"`
	DurationHours    int      `json:"duration_hours"`
	StartTime        *time.Time `json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
	RequireAgreement bool     `json:"require_agreement"`
}

// DetailResponse bundles an auction with its recent bid history.
type DetailResponse struct {
	Auction *types.Auction `json:"auction"`
	Bids    []types.Bid    `json:"bids"`
}
