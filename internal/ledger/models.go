package ledger

import (
	"time"

	"gorm.io/gorm"
)

type Account struct {
	gorm.Model `json:"-"`
	UserID     string    `gorm:"uniqueIndex" json:"user_id"`
	Balance    float64   `json:"balance"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LedgerEntry records every balance mutation for audit purposes.
type LedgerEntry struct {
	gorm.Model `json:"-"`
	EntryID    string    `gorm:"uniqueIndex" json:"entry_id"`
	UserID     string    `gorm:"index" json:"user_id"`
	Amount     float64   `json:"amount"` // negative for debits
	Reference  string    `json:"reference"`
	BalanceAt  float64   `json:"balance_at"` // balance after applying the entry
	CreatedAt  time.Time `json:"created_at"`
}

type BalanceResponse struct {
	UserID    string    `json:"user_id"`
	Balance   float64   `json:"balance"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"timestamp"`
}
