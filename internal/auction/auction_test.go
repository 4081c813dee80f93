package auction

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ksred/auction-api/internal/bidding"
	"github.com/ksred/auction-api/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&types.Auction{}, &types.Bid{}))

	return NewService(db, bidding.NewActorRegistry()), db
}

func TestCreateAuction(t *testing.T) {
	service, _ := setupService(t)

	t.Run("defaults", func(t *testing.T) {
		auction, err := service.CreateAuction("seller-1", &CreateRequest{
			Title:         "Vintage Watch",
			StartingPrice: 100,
		})
		require.NoError(t, err)
		require.NotEmpty(t, auction.AuctionID)
		require.Equal(t, "seller-1", auction.SellerID)
		require.Equal(t, 100.0, auction.CurrentPrice)
		require.Equal(t, 1.0, auction.BidIncrement)
		require.Equal(t, "NGN", auction.Currency)
		require.Equal(t, types.AuctionTypePureSale, auction.AuctionType)
		require.Equal(t, types.StatusActive, auction.Status)
		require.WithinDuration(t, time.Now().Add(24*time.Hour), auction.EndTime, time.Minute)
	})

	t.Run("reserve_infers_type", func(t *testing.T) {
		reserve := 300.0
		auction, err := service.CreateAuction("seller-1", &CreateRequest{
			Title:         "Rare Book",
			StartingPrice: 100,
			ReservePrice:  &reserve,
		})
		require.NoError(t, err)
		require.Equal(t, types.AuctionTypeReserve, auction.AuctionType)
	})

	t.Run("duration_hours", func(t *testing.T) {
		auction, err := service.CreateAuction("seller-1", &CreateRequest{
			Title:         "Short Lot",
			StartingPrice: 50,
			DurationHours: 2,
		})
		require.NoError(t, err)
		require.WithinDuration(t, time.Now().Add(2*time.Hour), auction.EndTime, time.Minute)
	})

	t.Run("agreement_gate", func(t *testing.T) {
		auction, err := service.CreateAuction("seller-1", &CreateRequest{
			Title:            "Gated Lot",
			StartingPrice:    100,
			RequireAgreement: true,
		})
		require.NoError(t, err)
		require.Equal(t, types.StatusPendingAgreement, auction.Status)
	})

	t.Run("invalid_prices", func(t *testing.T) {
		buyItNowTooLow := 80.0
		reserveTooLow := 50.0

		_, err := service.CreateAuction("seller-1", &CreateRequest{
			Title:         "Bad Lot",
			StartingPrice: -10,
		})
		require.ErrorIs(t, err, ErrInvalidPrices)

		_, err = service.CreateAuction("seller-1", &CreateRequest{
			Title:         "Bad Lot",
			StartingPrice: 100,
			BuyItNowPrice: &buyItNowTooLow,
		})
		require.ErrorIs(t, err, ErrInvalidPrices)

		_, err = service.CreateAuction("seller-1", &CreateRequest{
			Title:         "Bad Lot",
			StartingPrice: 100,
			ReservePrice:  &reserveTooLow,
		})
		require.ErrorIs(t, err, ErrInvalidPrices)
	})
}

func TestGetAuction(t *testing.T) {
	service, db := setupService(t)

	created, err := service.CreateAuction("seller-1", &CreateRequest{
		Title:         "Detail Lot",
		StartingPrice: 100,
	})
	require.NoError(t, err)

	require.NoError(t, db.Create(&types.Bid{
		BidID:     "BID_" + uuid.New().String(),
		AuctionID: created.AuctionID,
		BidderID:  "bidder-1",
		Amount:    120,
		Currency:  "NGN",
		Timestamp: time.Now(),
	}).Error)

	detail, err := service.GetAuction(created.AuctionID)
	require.NoError(t, err)
	require.Equal(t, created.AuctionID, detail.Auction.AuctionID)
	require.Len(t, detail.Bids, 1)

	_, err = service.GetAuction("AUC_missing")
	require.ErrorIs(t, err, bidding.ErrAuctionNotFound)
}

func TestListActive(t *testing.T) {
	service, _ := setupService(t)

	_, err := service.CreateAuction("seller-1", &CreateRequest{Title: "Live 1", StartingPrice: 10})
	require.NoError(t, err)
	_, err = service.CreateAuction("seller-1", &CreateRequest{Title: "Live 2", StartingPrice: 10})
	require.NoError(t, err)
	_, err = service.CreateAuction("seller-1", &CreateRequest{Title: "Gated", StartingPrice: 10, RequireAgreement: true})
	require.NoError(t, err)

	active, err := service.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 2)
}

func TestPublish(t *testing.T) {
	service, db := setupService(t)

	draft := &types.Auction{
		AuctionID:     "AUC_" + uuid.New().String(),
		Title:         "Draft Lot",
		StartingPrice: 100,
		CurrentPrice:  100,
		BidIncrement:  10,
		Currency:      "NGN",
		AuctionType:   types.AuctionTypePureSale,
		Status:        types.StatusDraft,
		StartTime:     time.Now(),
		EndTime:       time.Now().Add(24 * time.Hour),
		SellerID:      "seller-1",
	}
	require.NoError(t, db.Create(draft).Error)

	_, err := service.Publish(draft.AuctionID, "someone-else")
	require.ErrorIs(t, err, ErrNotSeller)

	published, err := service.Publish(draft.AuctionID, "seller-1")
	require.NoError(t, err)
	require.Equal(t, types.StatusActive, published.Status)

	// Publishing twice is an invalid transition.
	_, err = service.Publish(draft.AuctionID, "seller-1")
	require.ErrorIs(t, err, bidding.ErrInvalidTransition)
}

func TestCancel(t *testing.T) {
	service, db := setupService(t)

	t.Run("without_bids", func(t *testing.T) {
		created, err := service.CreateAuction("seller-1", &CreateRequest{Title: "Lot", StartingPrice: 100})
		require.NoError(t, err)

		cancelled, err := service.Cancel(created.AuctionID, "seller-1")
		require.NoError(t, err)
		require.Equal(t, types.StatusCancelled, cancelled.Status)

		// Cancelling a cancelled auction is not allowed.
		_, err = service.Cancel(created.AuctionID, "seller-1")
		require.ErrorIs(t, err, bidding.ErrInvalidTransition)
	})

	t.Run("with_bids", func(t *testing.T) {
		created, err := service.CreateAuction("seller-1", &CreateRequest{Title: "Lot", StartingPrice: 100})
		require.NoError(t, err)

		require.NoError(t, db.Create(&types.Bid{
			BidID:     "BID_" + uuid.New().String(),
			AuctionID: created.AuctionID,
			BidderID:  "bidder-1",
			Amount:    120,
			Currency:  "NGN",
			Timestamp: time.Now(),
		}).Error)

		_, err = service.Cancel(created.AuctionID, "seller-1")
		require.ErrorIs(t, err, bidding.ErrInvalidTransition)
	})

	t.Run("not_seller", func(t *testing.T) {
		created, err := service.CreateAuction("seller-1", &CreateRequest{Title: "Lot", StartingPrice: 100})
		require.NoError(t, err)

		_, err = service.Cancel(created.AuctionID, "someone-else")
		require.ErrorIs(t, err, ErrNotSeller)
	})
}
