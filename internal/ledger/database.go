package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) GetAccount(userID string) (*Account, error) {
	var account Account
	if err := d.db.Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (d *Database) CreateAccount(account *Account) error {
	return d.db.Create(account).Error
}

// ApplyEntry adjusts the account balance and writes the audit entry in a
// single transaction. The caller has already validated the adjustment.
func (d *Database) ApplyEntry(userID string, amount float64, reference string) (*Account, error) {
	var account Account

	tx := d.db.Begin()
	if err := tx.Error; err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("user_id = ?", userID).First(&account).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	account.Balance += amount
	account.UpdatedAt = time.Now()
	if err := tx.Save(&account).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	entry := LedgerEntry{
		EntryID:   "LED_" + uuid.New().String(),
		UserID:    userID,
		Amount:    amount,
		Reference: reference,
		BalanceAt: account.Balance,
		CreatedAt: time.Now(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (d *Database) GetEntries(userID string) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	if err := d.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
