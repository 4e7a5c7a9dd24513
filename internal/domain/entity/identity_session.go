package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdentitySessionStatus mirrors the identity provider's session lifecycle,
// normalized into the domain's taxonomy.
type IdentitySessionStatus string

const (
	IdentitySessionStatusCreated       IdentitySessionStatus = "created"
	IdentitySessionStatusProcessing    IdentitySessionStatus = "processing"
	IdentitySessionStatusRequiresInput IdentitySessionStatus = "requires_input"
	IdentitySessionStatusVerified      IdentitySessionStatus = "verified"
	IdentitySessionStatusCanceled      IdentitySessionStatus = "canceled"
)

// IdentityVerificationSession is one identity-proofing attempt. The table is
// append-only history: every new attempt gets its own row.
type IdentityVerificationSession struct {
	ID                uuid.UUID             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BusinessID        uuid.UUID             `gorm:"column:business_id;type:uuid;not null;index:idx_identity_sessions_business_user" json:"business_id"`
	UserID            uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index:idx_identity_sessions_business_user" json:"user_id"`
	ProviderSessionID string                `gorm:"column:provider_session_id;size:255;not null;uniqueIndex" json:"provider_session_id"`
	Status            IdentitySessionStatus `gorm:"size:20;not null;default:'created';index" json:"status"`
	ReportID          string                `gorm:"column:report_id;size:255" json:"report_id,omitempty"`
	VerifiedAt        *time.Time            `gorm:"column:verified_at" json:"verified_at,omitempty"`
	FailedAt          *time.Time            `gorm:"column:failed_at" json:"failed_at,omitempty"`
	CreatedAt         time.Time             `gorm:"default:now();index" json:"created_at"`
	UpdatedAt         time.Time             `gorm:"default:now()" json:"updated_at"`
}

func (IdentityVerificationSession) TableName() string {
	return "identity_verification_sessions"
}
