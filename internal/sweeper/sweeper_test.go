package sweeper

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ksred/auction-api/internal/bidding"
	"github.com/ksred/auction-api/internal/ledger"
	"github.com/ksred/auction-api/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupProcessor(t *testing.T) (*Processor, *gorm.DB) {
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

	engine := bidding.NewEngine(db, ledger.NewService(db), bidding.NewActorRegistry())
	return NewProcessor(db, engine, 10*time.Millisecond), db
}

func seedAuction(t *testing.T, db *gorm.DB, endTime time.Time) *types.Auction {
	t.Helper()

	now := time.Now()
	auction := &types.Auction{
		AuctionID:     "AUC_" + uuid.New().String(),
		Title:         "Sweep Lot",
		StartingPrice: 100,
		CurrentPrice:  100,
		BidIncrement:  10,
		Currency:      "NGN",
		AuctionType:   types.AuctionTypePureSale,
		Status:        types.StatusActive,
		StartTime:     now.Add(-2 * time.Hour),
		EndTime:       endTime,
		SellerID:      "seller-1",
	}
	require.NoError(t, db.Create(auction).Error)
	return auction
}

func TestSweepOnce(t *testing.T) {
	processor, db := setupProcessor(t)

	due := seedAuction(t, db, time.Now().Add(-time.Minute))
	alsoDue := seedAuction(t, db, time.Now().Add(-time.Hour))
	notDue := seedAuction(t, db, time.Now().Add(time.Hour))

	require.NoError(t, processor.SweepOnce())

	var swept types.Auction
	require.NoError(t, db.Where("auction_id = ?", due.AuctionID).First(&swept).Error)
	require.Equal(t, types.StatusEnded, swept.Status)

	swept = types.Auction{}
	require.NoError(t, db.Where("auction_id = ?", alsoDue.AuctionID).First(&swept).Error)
	require.Equal(t, types.StatusEnded, swept.Status)

	swept = types.Auction{}
	require.NoError(t, db.Where("auction_id = ?", notDue.AuctionID).First(&swept).Error)
	require.Equal(t, types.StatusActive, swept.Status)

	// A second sweep finds nothing due.
	require.NoError(t, processor.SweepOnce())
}

func TestSweepOnce_NothingDue(t *testing.T) {
	processor, db := setupProcessor(t)
	seedAuction(t, db, time.Now().Add(time.Hour))

	require.NoError(t, processor.SweepOnce())
}

func TestStart_SweepsUntilCancelled(t *testing.T) {
	processor, db := setupProcessor(t)
	due := seedAuction(t, db, time.Now().Add(-time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		processor.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		var swept types.Auction
		if err := db.Where("auction_id = ?", due.AuctionID).First(&swept).Error; err != nil {
			return false
		}
		return swept.Status == types.StatusEnded
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}
