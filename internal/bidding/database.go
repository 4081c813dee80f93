package bidding

import (
	"errors"

	"github.com/ksred/auction-api/internal/types"
	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) GetAuction(auctionID string) (*types.Auction, error) {
	var auction types.Auction
	if err := d.db.Where("auction_id = ?", auctionID).First(&auction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	return &auction, nil
}

// GetActiveProxies returns the active proxy bids for an auction ordered by
// max amount descending, tie-broken by earliest registration. The ordering
// is the resolution priority and must be deterministic and stable.
func (d *Database) GetActiveProxies(auctionID string) ([]*types.ProxyBid, error) {
	var proxies []*types.ProxyBid
	err := d.db.
		Where("auction_id = ? AND is_active = ?", auctionID, true).
		Order("max_amount DESC, created_at ASC, id ASC").
		Find(&proxies).Error
	if err != nil {
		return nil, err
	}
	return proxies, nil
}

func (d *Database) GetUserActiveProxy(auctionID, bidderID string) (*types.ProxyBid, error) {
	var proxy types.ProxyBid
	err := d.db.
		Where("auction_id = ? AND bidder_id = ? AND is_active = ?", auctionID, bidderID, true).
		First(&proxy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProxyNotFound
		}
		return nil, err
	}
	return &proxy, nil
}

// GetUserProxy returns the user's proxy for an auction regardless of its
// active flag, so a cancelled proxy can be reactivated instead of duplicated.
func (d *Database) GetUserProxy(auctionID, bidderID string) (*types.ProxyBid, error) {
	var proxy types.ProxyBid
	err := d.db.
		Where("auction_id = ? AND bidder_id = ?", auctionID, bidderID).
		First(&proxy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProxyNotFound
		}
		return nil, err
	}
	return &proxy, nil
}

func (d *Database) SaveProxy(proxy *types.ProxyBid) error {
	return d.db.Save(proxy).Error
}

func (d *Database) CountBids(auctionID string) (int64, error) {
	var count int64
	err := d.db.Model(&types.Bid{}).Where("auction_id = ?", auctionID).Count(&count).Error
	return count, err
}

func (d *Database) GetBidsByAuction(auctionID string, limit int) ([]types.Bid, error) {
	var bids []types.Bid
	q := d.db.Where("auction_id = ?", auctionID).Order("timestamp DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&bids).Error; err != nil {
		return nil, err
	}
	return bids, nil
}

func (d *Database) GetBidsByBidder(bidderID string) ([]types.Bid, error) {
	var bids []types.Bid
	if err := d.db.Where("bidder_id = ?", bidderID).Order("timestamp DESC, id DESC").Find(&bids).Error; err != nil {
		return nil, err
	}
	return bids, nil
}

func (d *Database) GetHighestBid(auctionID string) (*types.Bid, error) {
	var bid types.Bid
	err := d.db.Where("auction_id = ?", auctionID).Order("amount DESC").First(&bid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bid, nil
}

func (d *Database) GetActiveProxiesByBidder(bidderID string) ([]types.ProxyBid, error) {
	var proxies []types.ProxyBid
	err := d.db.
		Where("bidder_id = ? AND is_active = ?", bidderID, true).
		Order("created_at DESC").
		Find(&proxies).Error
	if err != nil {
		return nil, err
	}
	return proxies, nil
}

// CommitIntent persists the full outcome of one intent in a single
// transaction: the updated auction record, every bid the intent appended
// (manual plus the auto-bid cascade), and every proxy the cascade touched.
// Either all of it lands or none of it does.
func (d *Database) CommitIntent(auction *types.Auction, bids []types.Bid, proxies []*types.ProxyBid) error {
	tx := d.db.Begin()
	if err := tx.Error; err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Save(auction).Error; err != nil {
		tx.Rollback()
		return err
	}

	for i := range bids {
		if err := tx.Create(&bids[i]).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	for _, proxy := range proxies {
		if err := tx.Save(proxy).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}
