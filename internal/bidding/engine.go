package bidding

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ksred/auction-api/internal/config"
	"github.com/ksred/auction-api/internal/ledger"
	"github.com/ksred/auction-api/internal/types"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Engine owns every mutation of auction state. All intents for one auction
// are serialized through the actor registry and settle their full proxy
// cascade before returning, so callers always observe a consistent price
// and winner.
type Engine struct {
	db              *Database
	oracle          ledger.Oracle
	actors          *ActorRegistry
	reserveFraction float64
}

func NewEngine(gormDB *gorm.DB, oracle ledger.Oracle, actors *ActorRegistry) *Engine {
	return &Engine{
		db:              NewDatabase(gormDB),
		oracle:          oracle,
		actors:          actors,
		reserveFraction: config.ReserveFraction,
	}
}

// Actors exposes the serialization registry so lifecycle transitions
// performed by other services run in the same per-auction domain.
func (e *Engine) Actors() *ActorRegistry {
	return e.actors
}

// PlaceBid validates and accepts a manual bid, then resolves the proxy
// cascade it triggers. The response reflects the fully settled state.
func (e *Engine) PlaceBid(auctionID, bidderID string, amount float64, currency string) (*types.BidResponse, error) {
	logger := log.With().
		Str("auction_id", auctionID).
		Str("bidder_id", bidderID).
		Float64("amount", amount).
		Str("service", "bidding").
		Logger()

	var resp *types.BidResponse
	err := e.actors.Do(auctionID, func() error {
		auction, err := e.db.GetAuction(auctionID)
		if err != nil {
			return err
		}

		now := time.Now()
		if !auction.IsActive(now) {
			return ErrAuctionNotActive
		}
		if auction.SellerID == bidderID {
			return ErrSelfBidForbidden
		}
		if amount <= auction.CurrentPrice {
			return &BidTooLowError{
				CurrentPrice: auction.CurrentPrice,
				MinimumBid:   auction.CurrentPrice + auction.BidIncrement,
			}
		}

		required := amount * e.reserveFraction
		balance, err := e.getBalance(bidderID)
		if err != nil {
			return err
		}
		if balance < required {
			return &InsufficientBalanceError{Required: required, Current: balance}
		}

		if currency == "" {
			currency = auction.Currency
		}

		bid := types.Bid{
			BidID:     "BID_" + uuid.New().String(),
			AuctionID: auctionID,
			BidderID:  bidderID,
			Amount:    amount,
			Currency:  currency,
			Timestamp: now,
		}

		auction.CurrentPrice = amount
		winner := bidderID
		auction.WinnerID = &winner
		auction.UpdatedAt = now

		proxies, err := e.db.GetActiveProxies(auctionID)
		if err != nil {
			return err
		}

		autoBids, err := e.resolveProxies(auction, proxies)
		if err != nil {
			return err
		}

		bids := append([]types.Bid{bid}, autoBids...)
		if err := e.db.CommitIntent(auction, bids, proxies); err != nil {
			return fmt.Errorf("failed to commit bid intent: %w", err)
		}

		resp = &types.BidResponse{
			Bid:       &bids[0],
			NewPrice:  auction.CurrentPrice,
			NewWinner: *auction.WinnerID,
			AutoBids:  autoBids,
		}
		return nil
	})
	if err != nil {
		logger.Debug().Err(err).Msg("bid rejected")
		return nil, err
	}

	logger.Info().
		Float64("new_price", resp.NewPrice).
		Str("new_winner", resp.NewWinner).
		Int("auto_bids", len(resp.AutoBids)).
		Msg("bid accepted")
	return resp, nil
}

// SetProxyBid registers or updates the caller's standing maximum bid and
// immediately resolves the cascade it may trigger. A previously cancelled
// proxy is reactivated rather than duplicated, preserving its audit trail.
func (e *Engine) SetProxyBid(auctionID, bidderID string, maxAmount float64, currency string) (*types.ProxyBidResponse, error) {
	logger := log.With().
		Str("auction_id", auctionID).
		Str("bidder_id", bidderID).
		Float64("max_amount", maxAmount).
		Str("service", "bidding").
		Logger()

	var resp *types.ProxyBidResponse
	err := e.actors.Do(auctionID, func() error {
		auction, err := e.db.GetAuction(auctionID)
		if err != nil {
			return err
		}

		now := time.Now()
		if !auction.IsActive(now) {
			return ErrAuctionNotActive
		}
		if auction.SellerID == bidderID {
			return ErrSelfBidForbidden
		}
		if maxAmount <= auction.CurrentPrice {
			return ErrProxyBelowFloor
		}

		required := maxAmount * e.reserveFraction
		balance, err := e.getBalance(bidderID)
		if err != nil {
			return err
		}
		if balance < required {
			return &InsufficientBalanceError{Required: required, Current: balance}
		}

		if currency == "" {
			currency = auction.Currency
		}

		proxy, err := e.db.GetUserProxy(auctionID, bidderID)
		if errors.Is(err, ErrProxyNotFound) {
			proxy = &types.ProxyBid{
				ProxyBidID: "PXB_" + uuid.New().String(),
				AuctionID:  auctionID,
				BidderID:   bidderID,
				CreatedAt:  now,
			}
		} else if err != nil {
			return err
		}
		proxy.MaxAmount = maxAmount
		proxy.Currency = currency
		proxy.IsActive = true
		proxy.UpdatedAt = now

		proxies, err := e.db.GetActiveProxies(auctionID)
		if err != nil {
			return err
		}
		proxies = mergeProxy(proxies, proxy)

		autoBids, err := e.resolveProxies(auction, proxies)
		if err != nil {
			return err
		}

		if err := e.db.CommitIntent(auction, autoBids, proxies); err != nil {
			return fmt.Errorf("failed to commit proxy bid intent: %w", err)
		}

		resp = &types.ProxyBidResponse{
			ProxyBid: proxy,
			NewPrice: auction.CurrentPrice,
		}
		if auction.WinnerID != nil {
			resp.NewWinner = *auction.WinnerID
		}
		return nil
	})
	if err != nil {
		logger.Debug().Err(err).Msg("proxy bid rejected")
		return nil, err
	}

	logger.Info().
		Float64("new_price", resp.NewPrice).
		Str("new_winner", resp.NewWinner).
		Msg("proxy bid registered")
	return resp, nil
}

// CancelProxyBid deactivates the caller's standing maximum bid. Auto-bids
// already placed stand, and the current price and winner are not revisited.
func (e *Engine) CancelProxyBid(auctionID, bidderID string) error {
	return e.actors.Do(auctionID, func() error {
		proxy, err := e.db.GetUserActiveProxy(auctionID, bidderID)
		if err != nil {
			return err
		}

		proxy.IsActive = false
		proxy.UpdatedAt = time.Now()
		if err := e.db.SaveProxy(proxy); err != nil {
			return fmt.Errorf("failed to cancel proxy bid: %w", err)
		}

		log.Info().
			Str("auction_id", auctionID).
			Str("bidder_id", bidderID).
			Str("proxy_bid_id", proxy.ProxyBidID).
			Msg("proxy bid cancelled")
		return nil
	})
}

// BuyNow purchases the item at the fixed Buy It Now price, ending the
// auction immediately. The buyer's full balance is debited, not the reserve
// fraction. No proxy resolution follows because the auction is terminal.
func (e *Engine) BuyNow(auctionID, buyerID string) (*types.SaleResponse, error) {
	logger := log.With().
		Str("auction_id", auctionID).
		Str("buyer_id", buyerID).
		Str("service", "bidding").
		Logger()

	var resp *types.SaleResponse
	err := e.actors.Do(auctionID, func() error {
		auction, err := e.db.GetAuction(auctionID)
		if err != nil {
			return err
		}

		now := time.Now()
		if !auction.IsActive(now) {
			return ErrAuctionNotActive
		}
		if auction.BuyItNowPrice == nil || *auction.BuyItNowPrice <= 0 {
			return ErrBuyNowUnavailable
		}
		if auction.SellerID == buyerID {
			return ErrSelfBidForbidden
		}

		price := *auction.BuyItNowPrice
		balance, err := e.getBalance(buyerID)
		if err != nil {
			return err
		}
		if balance < price {
			return &InsufficientBalanceError{Required: price, Current: balance}
		}

		if err := e.oracle.DebitBalance(buyerID, price); err != nil {
			if errors.Is(err, ledger.ErrInsufficientFunds) {
				return &InsufficientBalanceError{Required: price, Current: balance}
			}
			return fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
		}

		auction.Status = types.StatusSold
		auction.CurrentPrice = price
		winner := buyerID
		auction.WinnerID = &winner
		auction.SoldViaBuyItNow = true
		auction.UpdatedAt = now

		bid := types.Bid{
			BidID:      "BID_" + uuid.New().String(),
			AuctionID:  auctionID,
			BidderID:   buyerID,
			Amount:     price,
			Currency:   auction.Currency,
			IsBuyItNow: true,
			Timestamp:  now,
		}

		if err := e.db.CommitIntent(auction, []types.Bid{bid}, nil); err != nil {
			// The debit has already happened; this must be surfaced loudly
			// for reconciliation rather than silently retried.
			logger.Error().Err(err).Msg("buy-now committed debit but failed to persist sale")
			return fmt.Errorf("failed to commit buy-now intent: %w", err)
		}

		resp = &types.SaleResponse{
			AuctionID:     auctionID,
			BuyerID:       buyerID,
			PurchasePrice: price,
			Currency:      auction.Currency,
			Timestamp:     now,
		}
		return nil
	})
	if err != nil {
		logger.Debug().Err(err).Msg("buy-now rejected")
		return nil, err
	}

	logger.Info().Float64("price", resp.PurchasePrice).Msg("auction sold via buy it now")
	return resp, nil
}

// ExpireIfDue transitions an active auction whose end time has passed to
// ended and computes whether the reserve was met. When a reserve was
// configured and not met, the winner is cleared for settlement purposes.
// Auctions not yet due are left untouched.
func (e *Engine) ExpireIfDue(auctionID string) (*types.ExpiryResponse, error) {
	var resp *types.ExpiryResponse
	err := e.actors.Do(auctionID, func() error {
		auction, err := e.db.GetAuction(auctionID)
		if err != nil {
			return err
		}

		now := time.Now()
		if auction.Status != types.StatusActive || now.Before(auction.EndTime) {
			resp = &types.ExpiryResponse{
				AuctionID:  auction.AuctionID,
				Status:     auction.Status,
				ReserveMet: auction.ReserveMet,
				WinnerID:   auction.WinnerID,
				FinalPrice: auction.CurrentPrice,
				Expired:    false,
			}
			return nil
		}

		auction.Status = types.StatusEnded
		auction.ReserveMet = auction.IsReserveMet()
		if auction.ReservePrice != nil && !auction.ReserveMet {
			auction.WinnerID = nil
		}
		auction.UpdatedAt = now

		if err := e.db.CommitIntent(auction, nil, nil); err != nil {
			return fmt.Errorf("failed to commit expiry: %w", err)
		}

		log.Info().
			Str("auction_id", auction.AuctionID).
			Bool("reserve_met", auction.ReserveMet).
			Float64("final_price", auction.CurrentPrice).
			Msg("auction ended")

		resp = &types.ExpiryResponse{
			AuctionID:  auction.AuctionID,
			Status:     auction.Status,
			ReserveMet: auction.ReserveMet,
			WinnerID:   auction.WinnerID,
			FinalPrice: auction.CurrentPrice,
			Expired:    true,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CanBid reports whether a user could place the minimum acceptable bid right
// now. Read-only; the answer can be stale by the time a bid arrives, which
// is why PlaceBid re-checks everything inside the actor.
func (e *Engine) CanBid(auctionID, userID string) (*types.EligibilityResponse, error) {
	auction, err := e.db.GetAuction(auctionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	minimumBid := auction.CurrentPrice + auction.BidIncrement
	required := minimumBid * e.reserveFraction

	balance, err := e.getBalance(userID)
	if err != nil {
		return nil, err
	}

	resp := &types.EligibilityResponse{
		UserBalance:     balance,
		RequiredBalance: required,
		MinimumBid:      minimumBid,
		CurrentPrice:    auction.CurrentPrice,
		Currency:        auction.Currency,
	}

	if balance < required {
		resp.Reasons = append(resp.Reasons, fmt.Sprintf("insufficient balance: need %.2f", required))
	}
	if !auction.IsActive(now) {
		resp.Reasons = append(resp.Reasons, "auction is not active")
	}
	if auction.SellerID == userID {
		resp.Reasons = append(resp.Reasons, "cannot bid on your own auction")
	}
	resp.CanBid = len(resp.Reasons) == 0
	return resp, nil
}

// getBalance queries the oracle, treating a missing account as a zero
// balance and any other failure as oracle unavailability.
func (e *Engine) getBalance(userID string) (float64, error) {
	balance, err := e.oracle.GetBalance(userID)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	return balance, nil
}

// BidsForAuction returns recent bids for an auction, newest first.
func (e *Engine) BidsForAuction(auctionID string, limit int) ([]types.Bid, error) {
	if _, err := e.db.GetAuction(auctionID); err != nil {
		return nil, err
	}
	return e.db.GetBidsByAuction(auctionID, limit)
}

// BidsForBidder returns all bids a user has placed, newest first.
func (e *Engine) BidsForBidder(bidderID string) ([]types.Bid, error) {
	return e.db.GetBidsByBidder(bidderID)
}

// HighestBid returns the highest bid for an auction, or nil when none exist.
func (e *Engine) HighestBid(auctionID string) (*types.Bid, error) {
	if _, err := e.db.GetAuction(auctionID); err != nil {
		return nil, err
	}
	return e.db.GetHighestBid(auctionID)
}

// ActiveProxyFor returns the user's active proxy bid for an auction.
func (e *Engine) ActiveProxyFor(auctionID, bidderID string) (*types.ProxyBid, error) {
	return e.db.GetUserActiveProxy(auctionID, bidderID)
}

// ActiveProxiesForBidder returns all of a user's active proxy bids.
func (e *Engine) ActiveProxiesForBidder(bidderID string) ([]types.ProxyBid, error) {
	return e.db.GetActiveProxiesByBidder(bidderID)
}

// ActiveProxiesForAuction returns every active proxy on an auction in
// resolution priority order. Admin surface.
func (e *Engine) ActiveProxiesForAuction(auctionID string) ([]*types.ProxyBid, error) {
	if _, err := e.db.GetAuction(auctionID); err != nil {
		return nil, err
	}
	return e.db.GetActiveProxies(auctionID)
}

// mergeProxy inserts or replaces the upserted proxy in the active snapshot
// and restores resolution priority order.
func mergeProxy(proxies []*types.ProxyBid, proxy *types.ProxyBid) []*types.ProxyBid {
	replaced := false
	for i, p := range proxies {
		if p.ProxyBidID == proxy.ProxyBidID {
			proxies[i] = proxy
			replaced = true
			break
		}
	}
	if !replaced {
		proxies = append(proxies, proxy)
	}
	sort.SliceStable(proxies, func(i, j int) bool {
		if proxies[i].MaxAmount != proxies[j].MaxAmount {
			return proxies[i].MaxAmount > proxies[j].MaxAmount
		}
		return proxies[i].CreatedAt.Before(proxies[j].CreatedAt)
	})
	return proxies
}
