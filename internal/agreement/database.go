package agreement

import (
	"errors"

	"github.com/ksred/auction-api/internal/types"
	"gorm.io/gorm"
)

var ErrAgreementNotFound = errors.New("seller agreement not found")

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) CreateAgreement(agreement *SellerAgreement) error {
	return d.db.Create(agreement).Error
}

func (d *Database) GetAgreement(agreementID string) (*SellerAgreement, error) {
	var agreement SellerAgreement
	if err := d.db.Where("agreement_id = ?", agreementID).First(&agreement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgreementNotFound
		}
		return nil, err
	}
	return &agreement, nil
}

func (d *Database) GetAgreementByAuction(auctionID string) (*SellerAgreement, error) {
	var agreement SellerAgreement
	if err := d.db.Where("auction_id = ?", auctionID).First(&agreement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgreementNotFound
		}
		return nil, err
	}
	return &agreement, nil
}

func (d *Database) UpdateAgreement(agreement *SellerAgreement) error {
	return d.db.Save(agreement).Error
}

// CompleteWithAuction saves the completed agreement and activates the
// auction in one transaction.
func (d *Database) CompleteWithAuction(agreement *SellerAgreement, auction *types.Auction) error {
	tx := d.db.Begin()
	if err := tx.Error; err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Save(agreement).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Save(auction).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}
