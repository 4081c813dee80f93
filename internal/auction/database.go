package auction

import (
	"errors"

	"github.com/ksred/auction-api/internal/bidding"
	"github.com/ksred/auction-api/internal/types"
	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) CreateAuction(auction *types.Auction) error {
	return d.db.Create(auction).Error
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

func (d *Database) UpdateAuction(auction *types.Auction) error {
	return d.db.Save(auction).Error
}

func (d *Database) GetAuctionsByStatus(status string) ([]types.Auction, error) {
	var auctions []types.Auction
	if err := d.db.Where("status = ?", status).Order("created_at DESC").Find(&auctions).Error; err != nil {
		return nil, err
	}
	return auctions, nil
}

func (d *Database) GetAuctionsBySeller(sellerID string) ([]types.Auction, error) {
	var auctions []types.Auction
	if err := d.db.Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&auctions).Error; err != nil {
		return nil, err
	}
	return auctions, nil
}

func (d *Database) GetRecentBids(auctionID string, limit int) ([]types.Bid, error) {
	var bids []types.Bid
	err := d.db.
		Where("auction_id = ?", auctionID).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&bids).Error
	if err != nil {
		return nil, err
	}
	return bids, nil
}

func (d *Database) CountBids(auctionID string) (int64, error) {
	var count int64
	err := d.db.Model(&types.Bid{}).Where("auction_id = ?", auctionID).Count(&count).Error
	return count, err
}
