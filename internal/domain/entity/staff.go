package entity

import (
	"time"

	"github.com/google/uuid"
)

// StaffRole is a member's role within a business.
type StaffRole string

const (
	StaffRoleOwner   StaffRole = "owner"
	StaffRoleManager StaffRole = "manager"
	StaffRoleStaff   StaffRole = "staff"
)

// StaffVerificationStatus is the identity-proofing status of one member.
type StaffVerificationStatus string

const (
	StaffVerificationPending  StaffVerificationStatus = "pending"
	StaffVerificationVerified StaffVerificationStatus = "verified"
)

// BusinessStaff links a user to a business. Authorization for onboarding
// steps is checked against this join table rather than business ownership,
// since staff other than the owner may complete identity verification.
type BusinessStaff struct {
	ID                 uuid.UUID               `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BusinessID         uuid.UUID               `gorm:"column:business_id;type:uuid;not null;uniqueIndex:idx_business_staff_member" json:"business_id"`
	UserID             uuid.UUID               `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_business_staff_member" json:"user_id"`
	Role               StaffRole               `gorm:"size:20;not null;default:'staff'" json:"role"`
	Active             bool                    `gorm:"not null;default:true" json:"active"`
	VerificationStatus StaffVerificationStatus `gorm:"column:verification_status;size:20;not null;default:'pending'" json:"verification_status"`
	VerifiedAt         *time.Time              `gorm:"column:verified_at" json:"verified_at,omitempty"`
	CreatedAt          time.Time               `gorm:"default:now()" json:"created_at"`
	UpdatedAt          time.Time               `gorm:"default:now()" json:"updated_at"`
}

func (BusinessStaff) TableName() string {
	return "business_staff"
}
