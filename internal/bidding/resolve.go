package bidding

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ksred/auction-api/internal/ledger"
	"github.com/ksred/auction-api/internal/types"
	"github.com/rs/zerolog/log"
)

// maxResolutionIterations bounds the cascade loop. Each iteration either
// deactivates a proxy or raises the price by a full increment, so a run this
// long means the loop invariant is broken and the intent must be aborted.
const maxResolutionIterations = 10000

// resolveProxies settles the auto-bid cascade after any change to the
// auction's price or winner. It runs synchronously inside the owning actor's
// critical section, mutating the in-memory auction and proxy snapshot, and
// returns the auto-bids it appended. Nothing is persisted here; the caller
// commits the whole intent atomically afterwards.
//
// Each round the highest-priority losing proxy (max amount descending,
// earliest registration wins ties) counter-bids the smaller of
// currentPrice+increment and its ceiling. Proxies that can no longer beat
// the price, or whose bidder fails the balance check, are deactivated. A
// proxy that bids its exact ceiling is deactivated too, but keeps the lead
// it just took. The loop re-evaluates after every auto-bid because a second
// proxy may now need to respond.
func (e *Engine) resolveProxies(auction *types.Auction, proxies []*types.ProxyBid) ([]types.Bid, error) {
	var autoBids []types.Bid

	for iterations := 0; ; iterations++ {
		if iterations >= maxResolutionIterations {
			log.Error().
				Str("auction_id", auction.AuctionID).
				Float64("current_price", auction.CurrentPrice).
				Msg("proxy resolution exceeded iteration bound, aborting intent")
			return nil, errResolutionStuck
		}

		top := nextCandidate(proxies, auction.WinnerID)
		if top == nil {
			return autoBids, nil
		}

		nextAmount := auction.CurrentPrice + auction.BidIncrement
		if nextAmount > top.MaxAmount {
			nextAmount = top.MaxAmount
		}

		if nextAmount <= auction.CurrentPrice {
			// Exhausted: the proxy cannot beat the current price anymore.
			top.IsActive = false
			top.UpdatedAt = time.Now()
			continue
		}

		balance, err := e.oracle.GetBalance(top.BidderID)
		if err != nil {
			if errors.Is(err, ledger.ErrAccountNotFound) {
				balance = 0
			} else {
				return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
			}
		}
		if balance < nextAmount*e.reserveFraction {
			top.IsActive = false
			top.UpdatedAt = time.Now()
			log.Debug().
				Str("auction_id", auction.AuctionID).
				Str("bidder_id", top.BidderID).
				Float64("balance", balance).
				Msg("proxy deactivated: insufficient balance for auto-bid")
			continue
		}

		proxyID := top.ProxyBidID
		autoBid := types.Bid{
			BidID:      "BID_" + uuid.New().String(),
			AuctionID:  auction.AuctionID,
			BidderID:   top.BidderID,
			Amount:     nextAmount,
			Currency:   top.Currency,
			IsAutoBid:  true,
			ProxyBidID: &proxyID,
			Timestamp:  time.Now(),
		}
		autoBids = append(autoBids, autoBid)

		auction.CurrentPrice = nextAmount
		bidderID := top.BidderID
		auction.WinnerID = &bidderID

		top.LastAutoBidAmount = nextAmount
		top.AutoBidCount++
		top.UpdatedAt = time.Now()
		if nextAmount >= top.MaxAmount {
			// Fully spent, but already winning at its ceiling.
			top.IsActive = false
		}
	}
}

// nextCandidate returns the highest-priority active proxy whose bidder is
// not already the current winner. The slice holds resolution order.
func nextCandidate(proxies []*types.ProxyBid, winnerID *string) *types.ProxyBid {
	for _, p := range proxies {
		if !p.IsActive {
			continue
		}
		if winnerID != nil && p.BidderID == *winnerID {
			continue
		}
		return p
	}
	return nil
}
