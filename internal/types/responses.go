package types

import "time"

// BidResponse is returned from PlaceBid once the proxy cascade has settled.
// NewPrice and NewWinner reflect the final state, which may differ from the
// accepted bid when a standing proxy immediately counter-bid.
type BidResponse struct {
	Bid       *Bid    `json:"bid"`
	NewPrice  float64 `json:"new_price"`
	NewWinner string  `json:"new_winner"`
	AutoBids  []Bid   `json:"auto_bids,omitempty"`
}

// ProxyBidResponse is returned from SetProxyBid after immediate resolution.
type ProxyBidResponse struct {
	ProxyBid  *ProxyBid `json:"proxy_bid"`
	NewPrice  float64   `json:"new_price"`
	NewWinner string    `json:"new_winner,omitempty"`
}

// SaleResponse is returned from BuyNow.
type SaleResponse struct {
	AuctionID     string    `json:"auction_id"`
	BuyerID       string    `json:"buyer_id"`
	PurchasePrice float64   `json:"purchase_price"`
	Currency      string    `json:"currency"`
	Timestamp     time.Time `json:"timestamp"`
}

// ExpiryResponse is returned from ExpireIfDue.
type ExpiryResponse struct {
	AuctionID  string  `json:"auction_id"`
	Status     string  `json:"status"`
	ReserveMet bool    `json:"reserve_met"`
	WinnerID   *string `json:"winner_id,omitempty"`
	FinalPrice float64 `json:"final_price"`
	Expired    bool    `json:"expired"`
}

// EligibilityResponse reports whether a user may bid on an auction and what
// the next acceptable bid would cost them.
type EligibilityResponse struct {
	CanBid          bool     `json:"can_bid"`
	UserBalance     float64  `json:"user_balance"`
	RequiredBalance float64  `json:"required_balance"`
	MinimumBid      float64  `json:"minimum_bid"`
	CurrentPrice    float64  `json:"current_price"`
	Currency        string   `json:"currency"`
	Reasons         []string `json:"reasons,omitempty"`
}
