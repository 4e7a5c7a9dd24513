package entity

import (
	"time"

	"github.com/google/uuid"
)

// PaymentAccount is the processor sub-account provisioned for a business, one
// per business. Capability flags start false and are only flipped by the
// status-sync path once the processor reports them enabled.
type PaymentAccount struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BusinessID       uuid.UUID `gorm:"column:business_id;type:uuid;not null;uniqueIndex" json:"business_id"`
	StripeAccountID  string    `gorm:"column:stripe_account_id;size:255;not null;uniqueIndex" json:"stripe_account_id"`
	ChargesEnabled   bool      `gorm:"column:charges_enabled;not null;default:false" json:"charges_enabled"`
	PayoutsEnabled   bool      `gorm:"column:payouts_enabled;not null;default:false" json:"payouts_enabled"`
	DetailsSubmitted bool      `gorm:"column:details_submitted;not null;default:false" json:"details_submitted"`
	CreatedAt        time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"default:now()" json:"updated_at"`
}

func (PaymentAccount) TableName() string {
	return "payment_accounts"
}

// Operational reports whether the account can both charge and receive
// payouts.
func (a *PaymentAccount) Operational() bool {
	return a.ChargesEnabled && a.PayoutsEnabled
}
