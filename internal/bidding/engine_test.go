package bidding

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/ksred/auction-api/internal/ledger"
	"github.com/ksred/auction-api/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&types.Auction{},
		&types.Bid{},
		&types.ProxyBid{},
		&ledger.Account{},
		&ledger.LedgerEntry{},
	))
	return db
}

// setupEngine wires an engine against a fresh database using the real
// gorm-backed ledger as the balance oracle.
func setupEngine(t *testing.T) (*Engine, *ledger.Service, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	ledgerService := ledger.NewService(db)
	engine := NewEngine(db, ledgerService, NewActorRegistry())
	return engine, ledgerService, db
}

func fundUser(t *testing.T, ledgerService *ledger.Service, userID string, amount float64) {
	t.Helper()
	_, err := ledgerService.CreditBalance(userID, amount, "NGN")
	require.NoError(t, err)
}

func seedAuction(t *testing.T, db *gorm.DB, mods ...func(*types.Auction)) *types.Auction {
	t.Helper()

	now := time.Now()
	auction := &types.Auction{
		AuctionID:     "AUC_" + uuid.New().String(),
		Title:         "Test Lot",
		StartingPrice: 100,
		CurrentPrice:  100,
		BidIncrement:  10,
		Currency:      "NGN",
		AuctionType:   types.AuctionTypePureSale,
		Status:        types.StatusActive,
		StartTime:     now.Add(-time.Hour),
		EndTime:       now.Add(time.Hour),
		SellerID:      "seller-1",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, mod := range mods {
		mod(auction)
	}
	require.NoError(t, db.Create(auction).Error)
	return auction
}

func seedProxy(t *testing.T, db *gorm.DB, auctionID, bidderID string, maxAmount float64, createdAt time.Time) *types.ProxyBid {
	t.Helper()

	proxy := &types.ProxyBid{
		ProxyBidID: "PXB_" + uuid.New().String(),
		AuctionID:  auctionID,
		BidderID:   bidderID,
		MaxAmount:  maxAmount,
		Currency:   "NGN",
		IsActive:   true,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	require.NoError(t, db.Create(proxy).Error)
	return proxy
}

func TestPlaceBid_AcceptsAndRaisesPrice(t *testing.T) {
	engine, ledgerService, db := setupEngine(t)
	auction := seedAuction(t, db)
	fundUser(t, ledgerService, "bidder-1", 1000)

	resp, err := engine.PlaceBid(auction.AuctionID, "bidder-1", 120, "")
	require.NoError(t, err)
	require.Equal(t, 120.0, resp.NewPrice)
	require.Equal(t, "bidder-1", resp.NewWinner)
	require.Empty(t, resp.AutoBids)
	require.Equal(t, "bidder-1", resp.Bid.BidderID)
	require.Equal(t, 120.0, resp.Bid.Amount)
	require.Equal(t, "NGN", resp.Bid.Currency)
	require.False(t, resp.Bid.IsAutoBid)

	stored, err := engine.db.GetAuction(auction.AuctionID)
	require.NoError(t, err)
	require.Equal(t, 120.0, stored.CurrentPrice)
	require.NotNil(t, stored.WinnerID)
	require.Equal(t, "bidder-1", *stored.WinnerID)

	bids, err := engine.BidsForAuction(auction.AuctionID, 0)
	require.NoError(t, err)
	require.Len(t, bids, 1)
}

func TestPlaceBid_Validation(t *testing.T) {
	engine, ledgerService, db := setupEngine(t)
	fundUser(t, ledgerService, "bidder-1", 1000)
	fundUser(t, ledgerService, "poor-bidder", 19)

	active := seedAuction(t, db)
	ended := seedAuction(t, db, func(a *types.Auction) {
		a.EndTime = time.Now().Add(-time.Minute)
	})
	cancelled := seedAuction(t, db, func(a *types.Auction) {
		a.Status = types.StatusCancelled
	})
	cheap := seedAuction(t, db, func(a *types.Auction) {
		a.StartingPrice = 90
		a.CurrentPrice = 90
	})

	tests := []struct {
		name      string
		auctionID string
		bidderID  string
		amount    float64
		wantErr   error
	}{
		{
			name:      "unknown_auction",
			auctionID: "AUC_missing",
			bidderID:  "bidder-1",
			amount:    120,
			wantErr:   ErrAuctionNotFound,
		},
		{
			name:      "past_end_time",
			auctionID: ended.AuctionID,
			bidderID:  "bidder-1",
			amount:    120,
			wantErr:   ErrAuctionNotActive,
		},
		{
			name:      "cancelled_auction",
			auctionID: cancelled.AuctionID,
			bidderID:  "bidder-1",
			amount:    120,
			wantErr:   ErrAuctionNotActive,
		},
		{
			name:      "seller_bids_own_auction",
			auctionID: active.AuctionID,
			bidderID:  "seller-1",
			amount:    120,
			wantErr:   ErrSelfBidForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.PlaceBid(tt.auctionID, tt.bidderID, tt.amount, "")
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("bid_at_current_price", func(t *testing.T) {
		_, err := engine.PlaceBid(active.AuctionID, "bidder-1", 100, "")
		var tooLow *BidTooLowError
		require.ErrorAs(t, err, &tooLow)
		require.Equal(t, 100.0, tooLow.CurrentPrice)
		require.Equal(t, 110.0, tooLow.MinimumBid)
	})

	t.Run("insufficient_balance", func(t *testing.T) {
		// A 100 bid requires 20 held in reserve, the bidder only has 19.
		_, err := engine.PlaceBid(cheap.AuctionID, "poor-bidder", 100, "")
		var insufficient *InsufficientBalanceError
		require.ErrorAs(t, err, &insufficient)
		require.InDelta(t, 20.0, insufficient.Required, 1e-9)
		require.Equal(t, 19.0, insufficient.Current)

		// The rejected bid left no trace.
		stored, getErr := engine.db.GetAuction(cheap.AuctionID)
		require.NoError(t, getErr)
		require.Equal(t, 90.0, stored.CurrentPrice)
		require.Nil(t, stored.WinnerID)
	})
}

func TestPlaceBid_ProxyCounterBids(t *testing.T) {
	engine, ledgerService, db := setupEngine(t)
	auction := seedAuction(t, db)
	fundUser(t, ledgerService, "bidder-x", 1000)
	fundUser(t, ledgerService, "bidder-y", 1000)

	seedProxy(t, db, auction.AuctionID, "bidder-x", 200, time.Now().Add(-time.Minute))

	// Y outbids the current price, but X's standing maximum answers back.
	resp, err := engine.PlaceBid(auction.AuctionID, "bidder-y", 150, "")
	require.NoError(t, err)
	require.Equal(t, 160.0, resp.NewPrice)
	require.Equal(t, "bidder-x", resp.NewWinner)
	require.Len(t, resp.AutoBids, 1)
	require.Equal(t, 160.0, resp.AutoBids[0].Amount)
	require.Equal(t, "bidder-x", resp.AutoBids[0].BidderID)
	require.True(t, resp.AutoBids[0].IsAutoBid)
	require.NotNil(t, resp.AutoBids[0].ProxyBidID)

	stored, err := engine.db.GetAuction(auction.AuctionID)
	require.NoError(t, err)
	require.Equal(t, 160.0, stored.CurrentPrice)
	require.Equal(t, "bidder-x", *stored.WinnerID)

	proxy, err := engine.ActiveProxyFor(auction.AuctionID, "bidder-x")
	require.NoError(t, err)
	require.Equal(t, 160.0, proxy.LastAutoBidAmount)
	require.Equal(t, 1, proxy.AutoBidCount)
}

func TestResolveProxies_DuelSettlesAtLoserCeiling(t *testing.T) {
	engine, ledgerService, db := setupEngine(t)
	auction := seedAuction(t, db)
	fundUser(t, ledgerService, "bidder-x", 1000)
	fundUser(t, ledgerService, "bidder-y", 1000)

	seedProxy(t, db, auction.AuctionID, "bidder-x", 160, time.Now().Add(-2*time.Minute))
	seedProxy(t, db, auction.AuctionID, "bidder-y", 200, time.Now().Add(-time.Minute))

	proxies, err := engine.db.GetActiveProxies(auction.AuctionID)
	require.NoError(t, err)
	require.Len(t, proxies, 2)
	require.Equal(t, "bidder-y", proxies[0].BidderID) // priority order

	autoBids, err := engine.resolveProxies(auction, proxies)
	require.NoError(t, err)

	// The duel walks up in increments until X bids its exact ceiling, then
	// Y answers one increment above it.
	wantAmounts := []float64{110, 120, 130, 140, 150, 160, 170}
	require.Len(t, autoBids, len(wantAmounts))
	for i, bid := range autoBids {
		require.Equal(t, wantAmounts[i], bid.Amount)
		require.True(t, bid.IsAutoBid)
	}

	require.Equal(t, 170.0, auction.CurrentPrice)
	require.Equal(t, "bidder-y", *auction.WinnerID)

	var x, y *types.ProxyBid
	for _, p := range proxies {
		switch p.BidderID {
		case "bidder-x":
			x = p
		case "bidder-y":
			y = p
		}
	}
	require.False(t, x.IsActive) // exhausted at its ceiling
	require.True(t, y.IsActive)
	require.Equal(t, 160.0, x.LastAutoBidAmount)
	require.Equal(t, 170.0, y.LastAutoBidAmount)
}

func TestSetProxyBid_SequentialRegistration(t *testing.T) {
	engine, ledgerService, db := setupEngine(t)
	auction := seedAuction(t, db)
	fundUser(t, ledgerService, "bidder-x", 1000)
	fundUser(t, ledgerService, "bidder-y", 1000)

	// First proxy takes the lead one increment up.
	respX, err := engine.SetProxyBid(auction.AuctionID, "bidder-x", 160, "")
	require.NoError(t, err)
	require.Equal(t, 110.0, respX.NewPrice)
	require.Equal(t, "bidder-x", respX.NewWinner)
	require.True(t, respX.ProxyBid.IsActive)

	// The second, higher proxy drives the price up from X's lead. X's
	// counter-bids stop once it can no longer beat the standing price.
	respY, err := engine.SetProxyBid(auction.AuctionID, "bidder-y", 200, "")
	require.NoError(t, err)
	require.Equal(t, 160.0, respY.NewPrice)
	require.Equal(t, "bidder-y", respY.NewWinner)

	_, err = engine.ActiveProxyFor(auction.AuctionID, "bidder-x")
	require.ErrorIs(t, err, ErrProxyNotFound)

	// Monotonic price history.
	bids, err := engine.BidsForAuction(auction.AuctionID, 0)
	require.NoError(t, err)
	for i := 1; i < len(bids); i++ {
		// newest first
		require.GreaterOrEqual(t, bids[i-1].Amount, bids[i].Amount)
	}
}

func TestSetProxyBid_Validation(t *testing.T) {
	engine, ledgerService, db := setupEngine(t)
	auction := seedAuction(t, db)
	fundUser(t, ledgerService, "bidder-1", 1000)
	fundUser(t, ledgerService, "poor-bidder", 10)

	_, err := engine.SetProxyBid(auction.AuctionID, "bidder-1", 100, "")
	require.ErrorIs(t, err, ErrProxyBelowFloor)

	_, err = engine.SetProxyBid(auction.AuctionID, "seller-1", 200, "")
	require.ErrorIs(t, err, ErrSelfBidForbidden)

	_, err = engine.SetProxyBid("AUC_missing", "bidder-1", 200, "")
	require.ErrorIs(t, err, ErrAuctionNotFound)

	var insufficient *InsufficientBalanceError
	_, err = engine.SetProxyBid(auction.AuctionID, "poor-bidder", 200, "")
	require.ErrorAs(t, err, &insufficient)
	require.InDelta(t, 40.0, insufficient.Required, 1e-9)
	require.Equal(t, 10.0, insufficient.Current)
}

func TestSetProxyBid_UpdateReusesRecord(t *testing.T) {
	engine, ledgerService, db := setupEngine(t)
	auction := seedAuction(t, db)
	fundUser(t, ledgerService, "bidder-1", 1000)

	first, err := engine.SetProxyBid(auction.AuctionID, "bidder-1", 150, "")
	require.NoError(t, err)

	require.NoError(t, engine.CancelProxyBid(auction.AuctionID, "bidder-1"))

	// Re-registering reactivates the same proxy instead of duplicating it.
	second, err := engine.SetProxyBid(auction.AuctionID, "bidder-1", 180, "")
	require.NoError(t, err)
	require.Equal(t, first.ProxyBid.ProxyBidID, second.ProxyBid.ProxyBidID)
	require.Equal(t, 180.0, second.ProxyBid.MaxAmount)
	require.True(t, second.ProxyBid.IsActive)

	var count int64
	require.NoError(t, db.Model(&types.ProxyBid{}).
		Where("auction_id = ? AND bidder_id = ?", auction.AuctionID, "bidder-1").
		Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestCancelProxyBid(t *testing.T) {
	engine, ledgerService, db := setupEngine(t)
	auction := seedAuction(t, db)
	fundUser(t, ledgerService, "bidder-1", 1000)

	_, err := engine.SetProxyBid(auction.AuctionID, "bidder-1", 150, "")
	require.NoError(t, err)

	require.NoError(t, engine.CancelProxyBid(auction.AuctionID, "bidder-1"))

	_, err = engine.ActiveProxyFor(auction.AuctionID, "bidder-1")
	require.ErrorIs(t, err, ErrProxyNotFound)

	// Cancelling does not undo already-placed auto-bids.
	stored, err := engine.db.GetAuction(auction.AuctionID)
	require.NoError(t, err)
	require.Equal(t, 110.0, stored.CurrentPrice)
	require.Equal(t, "bidder-1", *stored.WinnerID)

	// Cancelling twice fails cleanly.
	err = engine.CancelProxyBid(auction.AuctionID, "bidder-1")
	require.ErrorIs(t, err, ErrProxyNotFound)
}

func TestBuyNow(t *testing.T) {
	engine, ledgerService, db := setupEngine(t)
	buyItNow := 500.0
	auction := seedAuction(t, db, func(a *types.Auction) {
		a.CurrentPrice = 300
		a.BuyItNowPrice = &buyItNow
	})
	fundUser(t, ledgerService, "buyer-1", 600)
	fundUser(t, ledgerService, "proxy-holder", 1000)

	// A standing proxy must not fire after the sale.
	seedProxy(t, db, auction.AuctionID, "proxy-holder", 450, time.Now())

	sale, err := engine.BuyNow(auction.AuctionID, "buyer-1")
	require.NoError(t, err)
	require.Equal(t, auction.AuctionID, sale.AuctionID)
	require.Equal(t, "buyer-1", sale.BuyerID)
	require.Equal(t, 500.0, sale.PurchasePrice)

	stored, err := engine.db.GetAuction(auction.AuctionID)
	require.NoError(t, err)
	require.Equal(t, types.StatusSold, stored.Status)
	require.Equal(t, 500.0, stored.CurrentPrice)
	require.Equal(t, "buyer-1", *stored.WinnerID)
	require.True(t, stored.SoldViaBuyItNow)

	// Full price debited, not the reserve fraction.
	balance, err := ledgerService.GetBalance("buyer-1")
	require.NoError(t, err)
	require.Equal(t, 100.0, balance)

	bids, err := engine.BidsForAuction(auction.AuctionID, 0)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	require.True(t, bids[0].IsBuyItNow)

	// Terminal: further intents are rejected.
	_, err = engine.PlaceBid(auction.AuctionID, "proxy-holder", 600, "")
	require.ErrorIs(t, err, ErrAuctionNotActive)
}

func TestBuyNow_Validation(t *testing.T) {
	engine, ledgerService, db := setupEngine(t)
	buyItNow := 500.0
	plain := seedAuction(t, db)
	withBuyNow := seedAuction(t, db, func(a *types.Auction) {
		a.BuyItNowPrice = &buyItNow
	})
	fundUser(t, ledgerService, "buyer-1", 300)

	_, err := engine.BuyNow(plain.AuctionID, "buyer-1")
	require.ErrorIs(t, err, ErrBuyNowUnavailable)

	_, err = engine.BuyNow(withBuyNow.AuctionID, "seller-1")
	require.ErrorIs(t, err, ErrSelfBidForbidden)

	var insufficient *InsufficientBalanceError
	_, err = engine.BuyNow(withBuyNow.AuctionID, "buyer-1")
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, 500.0, insufficient.Required)
	require.Equal(t, 300.0, insufficient.Current)

	// Nothing was debited on the failed purchase.
	balance, err := ledgerService.GetBalance("buyer-1")
	require.NoError(t, err)
	require.Equal(t, 300.0, balance)
}

func TestExpireIfDue(t *testing.T) {
	engine, ledgerService, db := setupEngine(t)
	fundUser(t, ledgerService, "bidder-1", 1000)

	t.Run("not_yet_due", func(t *testing.T) {
		auction := seedAuction(t, db)
		resp, err := engine.ExpireIfDue(auction.AuctionID)
		require.NoError(t, err)
		require.False(t, resp.Expired)
		require.Equal(t, types.StatusActive, resp.Status)
	})

	t.Run("due_without_reserve", func(t *testing.T) {
		winner := "bidder-1"
		auction := seedAuction(t, db, func(a *types.Auction) {
			a.EndTime = time.Now().Add(-time.Minute)
			a.CurrentPrice = 150
			a.WinnerID = &winner
		})

		resp, err := engine.ExpireIfDue(auction.AuctionID)
		require.NoError(t, err)
		require.True(t, resp.Expired)
		require.Equal(t, types.StatusEnded, resp.Status)
		require.True(t, resp.ReserveMet)
		require.NotNil(t, resp.WinnerID)
		require.Equal(t, "bidder-1", *resp.WinnerID)
		require.Equal(t, 150.0, resp.FinalPrice)

		// Idempotent: a second expiry is a noop.
		again, err := engine.ExpireIfDue(auction.AuctionID)
		require.NoError(t, err)
		require.False(t, again.Expired)
		require.Equal(t, types.StatusEnded, again.Status)
	})

	t.Run("due_with_reserve_unmet", func(t *testing.T) {
		winner := "bidder-1"
		reserve := 300.0
		auction := seedAuction(t, db, func(a *types.Auction) {
			a.EndTime = time.Now().Add(-time.Minute)
			a.AuctionType = types.AuctionTypeReserve
			a.ReservePrice = &reserve
			a.CurrentPrice = 150
			a.WinnerID = &winner
		})

		resp, err := engine.ExpireIfDue(auction.AuctionID)
		require.NoError(t, err)
		require.True(t, resp.Expired)
		require.False(t, resp.ReserveMet)
		require.Nil(t, resp.WinnerID)

		stored, err := engine.db.GetAuction(auction.AuctionID)
		require.NoError(t, err)
		require.Nil(t, stored.WinnerID)
	})

	t.Run("due_with_reserve_met", func(t *testing.T) {
		winner := "bidder-1"
		reserve := 300.0
		auction := seedAuction(t, db, func(a *types.Auction) {
			a.EndTime = time.Now().Add(-time.Minute)
			a.AuctionType = types.AuctionTypeReserve
			a.ReservePrice = &reserve
			a.CurrentPrice = 350
			a.WinnerID = &winner
		})

		resp, err := engine.ExpireIfDue(auction.AuctionID)
		require.NoError(t, err)
		require.True(t, resp.Expired)
		require.True(t, resp.ReserveMet)
		require.Equal(t, "bidder-1", *resp.WinnerID)
	})
}

func TestPlaceBid_OracleUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := setupTestDB(t)
	mockOracle := ledger.NewMockOracle(ctrl)
	engine := NewEngine(db, mockOracle, NewActorRegistry())
	auction := seedAuction(t, db)

	mockOracle.EXPECT().GetBalance("bidder-1").Return(0.0, errors.New("connection refused"))

	_, err := engine.PlaceBid(auction.AuctionID, "bidder-1", 120, "")
	require.ErrorIs(t, err, ErrOracleUnavailable)

	// The failed intent left the auction untouched.
	stored, err := engine.db.GetAuction(auction.AuctionID)
	require.NoError(t, err)
	require.Equal(t, 100.0, stored.CurrentPrice)
	require.Nil(t, stored.WinnerID)
}

func TestResolveProxies_DeactivatesUnderfundedProxy(t *testing.T) {
	engine, ledgerService, db := setupEngine(t)
	auction := seedAuction(t, db)
	fundUser(t, ledgerService, "bidder-y", 1000)
	// bidder-x holds a proxy but has no account at all.

	seedProxy(t, db, auction.AuctionID, "bidder-x", 300, time.Now().Add(-time.Minute))

	resp, err := engine.PlaceBid(auction.AuctionID, "bidder-y", 150, "")
	require.NoError(t, err)
	require.Equal(t, 150.0, resp.NewPrice)
	require.Equal(t, "bidder-y", resp.NewWinner)
	require.Empty(t, resp.AutoBids)

	_, err = engine.ActiveProxyFor(auction.AuctionID, "bidder-x")
	require.ErrorIs(t, err, ErrProxyNotFound)
}

func TestConcurrentBids_ExactlyOneWinsEachPrice(t *testing.T) {
	engine, ledgerService, db := setupEngine(t)
	auction := seedAuction(t, db)

	const bidders = 8
	for i := 0; i < bidders; i++ {
		fundUser(t, ledgerService, fmt.Sprintf("bidder-%d", i), 10000)
	}

	// Everyone bids the same amount at once; exactly one may succeed.
	var wg sync.WaitGroup
	results := make(chan error, bidders)
	for i := 0; i < bidders; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := engine.PlaceBid(auction.AuctionID, fmt.Sprintf("bidder-%d", id), 120, "")
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var accepted, rejected int
	for err := range results {
		if err == nil {
			accepted++
			continue
		}
		var tooLow *BidTooLowError
		require.ErrorAs(t, err, &tooLow)
		rejected++
	}
	require.Equal(t, 1, accepted)
	require.Equal(t, bidders-1, rejected)

	stored, err := engine.db.GetAuction(auction.AuctionID)
	require.NoError(t, err)
	require.Equal(t, 120.0, stored.CurrentPrice)

	var count int64
	require.NoError(t, db.Model(&types.Bid{}).
		Where("auction_id = ?", auction.AuctionID).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestCanBid(t *testing.T) {
	engine, ledgerService, db := setupEngine(t)
	auction := seedAuction(t, db)
	fundUser(t, ledgerService, "bidder-1", 1000)
	fundUser(t, ledgerService, "poor-bidder", 5)

	resp, err := engine.CanBid(auction.AuctionID, "bidder-1")
	require.NoError(t, err)
	require.True(t, resp.CanBid)
	require.Equal(t, 110.0, resp.MinimumBid)
	require.Equal(t, 100.0, resp.CurrentPrice)
	require.InDelta(t, 22.0, resp.RequiredBalance, 1e-9)

	resp, err = engine.CanBid(auction.AuctionID, "poor-bidder")
	require.NoError(t, err)
	require.False(t, resp.CanBid)
	require.NotEmpty(t, resp.Reasons)

	resp, err = engine.CanBid(auction.AuctionID, "seller-1")
	require.NoError(t, err)
	require.False(t, resp.CanBid)
}

func TestHighestBid(t *testing.T) {
	engine, ledgerService, db := setupEngine(t)
	auction := seedAuction(t, db)
	fundUser(t, ledgerService, "bidder-1", 1000)
	fundUser(t, ledgerService, "bidder-2", 1000)

	highest, err := engine.HighestBid(auction.AuctionID)
	require.NoError(t, err)
	require.Nil(t, highest)

	_, err = engine.PlaceBid(auction.AuctionID, "bidder-1", 120, "")
	require.NoError(t, err)
	_, err = engine.PlaceBid(auction.AuctionID, "bidder-2", 140, "")
	require.NoError(t, err)

	highest, err = engine.HighestBid(auction.AuctionID)
	require.NoError(t, err)
	require.NotNil(t, highest)
	require.Equal(t, 140.0, highest.Amount)
	require.Equal(t, "bidder-2", highest.BidderID)
}
