package watchlist

import (
	"errors"

	"github.com/ksred/auction-api/internal/bidding"
	"github.com/ksred/auction-api/internal/types"
	"gorm.io/gorm"
)

var ErrWatchNotFound = errors.New("auction not in watchlist")

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) CreateWatch(item *WatchItem) error {
	return d.db.Create(item).Error
}

func (d *Database) UpdateWatch(item *WatchItem) error {
	return d.db.Save(item).Error
}

// GetWatch returns the user's watch row for an auction regardless of its
// active flag, so a removed watch can be reactivated instead of duplicated.
func (d *Database) GetWatch(userID, auctionID string) (*WatchItem, error) {
	var item WatchItem
	err := d.db.Where("user_id = ? AND auction_id = ?", userID, auctionID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWatchNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (d *Database) GetActiveWatch(userID, auctionID string) (*WatchItem, error) {
	var item WatchItem
	err := d.db.Where("user_id = ? AND auction_id = ? AND is_active = ?", userID, auctionID, true).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWatchNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (d *Database) GetActiveWatches(userID string, offset, limit int) ([]WatchItem, error) {
	var items []WatchItem
	err := d.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (d *Database) CountActiveWatches(userID string) (int64, error) {
	var count int64
	err := d.db.Model(&WatchItem{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (d *Database) GetAuction(auctionID string) (*types.Auction, error) {
	var auction types.Auction
	if err := d.db.Where("auction_id = ?", auctionID).First(&auction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bidding.ErrAuctionNotFound
		}
		return nil, err
	}
	return &auction, nil
}

func (d *Database) GetAuctions(auctionIDs []string) ([]types.Auction, error) {
	var auctions []types.Auction
	if len(auctionIDs) == 0 {
		return auctions, nil
	}
	err := d.db.Where("auction_id IN ?", auctionIDs).Find(&auctions).Error
	return auctions, err
}
