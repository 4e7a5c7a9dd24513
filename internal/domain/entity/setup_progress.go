package entity

import (
	"time"

	"github.com/google/uuid"
)

// SetupProgress tracks how far a business has gotten through onboarding, one
// row per business. CurrentStep is a resume hint for the UI only; the actual
// step is always re-derived from persisted facts and this row is never used
// as an authorization input.
type SetupProgress struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BusinessID          uuid.UUID  `gorm:"column:business_id;type:uuid;not null;uniqueIndex" json:"business_id"`
	CurrentStep         string     `gorm:"column:current_step;size:40;not null;default:'signup'" json:"current_step"`
	Phase1Completed     bool       `gorm:"column:phase1_completed;not null;default:false" json:"phase1_completed"`
	Phase2Completed     bool       `gorm:"column:phase2_completed;not null;default:false" json:"phase2_completed"`
	IdentityCompletedAt *time.Time `gorm:"column:identity_completed_at" json:"identity_completed_at,omitempty"`
	BankCompletedAt     *time.Time `gorm:"column:bank_completed_at" json:"bank_completed_at,omitempty"`
	PaymentCompletedAt  *time.Time `gorm:"column:payment_completed_at" json:"payment_completed_at,omitempty"`
	CreatedAt           time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"default:now()" json:"updated_at"`
}

func (SetupProgress) TableName() string {
	return "setup_progress"
}
