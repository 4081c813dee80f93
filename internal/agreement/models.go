package agreement

import (
	"time"

	"gorm.io/gorm"
)

// Agreement statuses
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
)

// SellerAgreement gates an auction behind off-band seller sign-off. While
// the agreement is pending the auction sits in pending_agreement and accepts
// no bids.
type SellerAgreement struct {
	gorm.Model         `json:"-"`
	AgreementID        string     `gorm:"uniqueIndex" json:"agreement_id"`
	AuctionID          string     `gorm:"index" json:"auction_id"`
	SellerID           string     `json:"seller_id"`
	Status             string     `json:"status"` // PENDING, COMPLETED
	TermsAccepted      bool       `json:"terms_accepted"`
	CommissionAccepted bool       `json:"commission_accepted"`
	PaymentAccepted    bool       `json:"payment_accepted"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsComplete reports whether every required term has been accepted.
func (a *SellerAgreement) IsComplete() bool {
	return a.TermsAccepted && a.CommissionAccepted && a.PaymentAccepted
}

type AcceptRequest struct {
	TermsAccepted      bool `json:"terms_accepted"`
	CommissionAccepted bool `json:"commission_accepted"`
	PaymentAccepted    bool `json:"payment_accepted"`
}
