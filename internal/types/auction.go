package types

import (
	"time"

	"gorm.io/gorm"
)

// Auction statuses
const (
	StatusDraft            = "draft"
	StatusPendingAgreement = "pending_agreement"
	StatusActive           = "active"
	StatusEnded            = "ended"
	StatusCancelled        = "cancelled"
	StatusSold             = "sold"
)

// Auction types
const (
	AuctionTypePureSale = "pure_sale"
	AuctionTypeReserve  = "reserve"
)

type Auction struct {
	gorm.Model      `json:"-"`
	AuctionID       string     `gorm:"uniqueIndex" json:"auction_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	StartingPrice   float64    `json:"starting_price"`
	CurrentPrice    float64    `json:"current_price"`
	BidIncrement    float64    `json:"bid_increment"`
	ReservePrice    *float64   `json:"reserve_price,omitempty"`
	BuyItNowPrice   *float64   `json:"buy_it_now_price,omitempty"`
	Currency        string     `json:"currency"` // NGN or USD
	AuctionType     string     `json:"auction_type"` // pure_sale or reserve
	Status          string     `json:"status"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	SellerID        string     `json:"seller_id"`
	WinnerID        *string    `json:"winner_id,omitempty"`
	SoldViaBuyItNow bool       `json:"sold_via_buy_it_now"`
	ReserveMet      bool       `json:"reserve_met"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsActive reports whether the auction is open for bidding at the given time.
func (a *Auction) IsActive(now time.Time) bool {
	return a.Status == StatusActive && now.Before(a.EndTime)
}

// IsReserveMet reports whether the reserve has been satisfied. Pure-sale
// auctions and auctions without a reserve price always satisfy it.
func (a *Auction) IsReserveMet() bool {
	if a.AuctionType == AuctionTypePureSale || a.ReservePrice == nil {
		return true
	}
	return a.CurrentPrice >= *a.ReservePrice
}

// CanBuyItNow reports whether Buy It Now is available.
func (a *Auction) CanBuyItNow(now time.Time) bool {
	return a.IsActive(now) && a.BuyItNowPrice != nil && *a.BuyItNowPrice > 0
}

type Bid struct {
	gorm.Model `json:"-"`
	BidID      string    `gorm:"uniqueIndex" json:"bid_id"`
	AuctionID  string    `gorm:"index" json:"auction_id"`
	BidderID   string    `gorm:"index" json:"bidder_id"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	IsBuyItNow bool      `json:"is_buy_it_now"`
	IsAutoBid  bool      `json:"is_auto_bid"`
	ProxyBidID *string   `json:"proxy_bid_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type ProxyBid struct {
	gorm.Model        `json:"-"`
	ProxyBidID        string    `gorm:"uniqueIndex" json:"proxy_bid_id"`
	AuctionID         string    `gorm:"index:idx_proxy_auction_bidder" json:"auction_id"`
	BidderID          string    `gorm:"index:idx_proxy_auction_bidder" json:"bidder_id"`
	MaxAmount         float64   `json:"max_amount"`
	Currency          string    `json:"currency"`
	IsActive          bool      `gorm:"index" json:"is_active"`
	LastAutoBidAmount float64   `json:"last_auto_bid_amount"`
	AutoBidCount      int       `json:"auto_bid_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
