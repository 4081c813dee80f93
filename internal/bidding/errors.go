package bidding

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the bidding engine. Every validation failure
// is reported synchronously to the caller; nothing is retried in the
// background on a bidder's behalf.
var (
	ErrAuctionNotFound   = errors.New("auction not found")
	ErrAuctionNotActive  = errors.New("auction is not active")
	ErrSelfBidForbidden  = errors.New("cannot bid on your own auction")
	ErrInvalidTransition = errors.New("invalid auction state transition")
	ErrOracleUnavailable = errors.New("balance oracle unavailable")
	ErrProxyBelowFloor   = errors.New("max bid must be higher than current price")
	ErrProxyNotFound     = errors.New("no active max bid for this auction")
	ErrBuyNowUnavailable = errors.New("buy it now is not available for this auction")
)

// errResolutionStuck signals that the proxy resolution loop exceeded its
// safety bound. This is an engine bug, never a user error: the intent is
// aborted without mutating state.
var errResolutionStuck = errors.New("proxy resolution exceeded iteration bound")

// BidTooLowError is returned when a bid does not beat the current price.
// It carries the minimum acceptable amount so the caller can surface it.
type BidTooLowError struct {
	CurrentPrice float64
	MinimumBid   float64
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid amount must be higher than current price of %.2f (minimum %.2f)", e.CurrentPrice, e.MinimumBid)
}

// InsufficientBalanceError is returned when a bidder's available balance
// does not cover the reserve fraction of their bid, or the full amount for
// Buy It Now.
type InsufficientBalanceError struct {
	Required float64
	Current  float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: need at least %.2f, current balance is %.2f", e.Required, e.Current)
}
