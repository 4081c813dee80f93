package database

import (
	"fmt"

	"github.com/ksred/auction-api/internal/agreement"
	"github.com/ksred/auction-api/internal/database/migrations"
	"github.com/ksred/auction-api/internal/ledger"
	"github.com/ksred/auction-api/internal/types"
	"github.com/ksred/auction-api/internal/watchlist"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase initializes and returns a new GORM DB connection
func NewDatabase(path string) (*gorm.DB, error) {
	if path == "" {
		path = "auction.db"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := migrations.AddProxyBids(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Auto-migrate other schemas
	err = db.AutoMigrate(
		&types.Auction{},
		&ledger.Account{},
		&ledger.LedgerEntry{},
		&agreement.SellerAgreement{},
		&watchlist.WatchItem{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
