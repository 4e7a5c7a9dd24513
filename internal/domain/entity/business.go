package entity

import (
	"time"

	"github.com/google/uuid"
)

// BusinessType classifies the legal structure of a provider organization.
// The required document set depends on it.
type BusinessType string

const (
	BusinessTypeIndividual         BusinessType = "individual"
	BusinessTypeSoleProprietorship BusinessType = "sole_proprietorship"
	BusinessTypeLLC                BusinessType = "llc"
	BusinessTypeCorporation        BusinessType = "corporation"
)

// ValidBusinessType reports whether t is one of the known business types.
func ValidBusinessType(t BusinessType) bool {
	switch t {
	case BusinessTypeIndividual, BusinessTypeSoleProprietorship, BusinessTypeLLC, BusinessTypeCorporation:
		return true
	}
	return false
}

// VerificationStatus is the whole-business review status.
type VerificationStatus string

const (
	VerificationStatusPending     VerificationStatus = "pending"
	VerificationStatusUnderReview VerificationStatus = "under_review"
	VerificationStatusApproved    VerificationStatus = "approved"
	VerificationStatusRejected    VerificationStatus = "rejected"
	VerificationStatusSuspended   VerificationStatus = "suspended"
)

// Business is the top-level record for a prospective provider organization.
// It is created at signup and mutated only through onboarding transitions;
// rows are never hard-deleted, rejection and suspension are status changes.
type Business struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OwnerUserID        uuid.UUID          `gorm:"column:owner_user_id;type:uuid;not null;index" json:"owner_user_id"`
	Name               string             `gorm:"size:255" json:"name"`
	Email              string             `gorm:"size:255" json:"email"`
	BusinessType       BusinessType       `gorm:"column:business_type;size:32;not null;default:'individual'" json:"business_type"`
	VerificationStatus VerificationStatus `gorm:"column:verification_status;size:20;not null;default:'pending';index" json:"verification_status"`
	ApprovedBy         *uuid.UUID         `gorm:"column:approved_by;type:uuid" json:"approved_by,omitempty"`
	ApprovedAt         *time.Time         `gorm:"column:approved_at" json:"approved_at,omitempty"`
	ApprovalNotes      string             `gorm:"column:approval_notes;type:text" json:"approval_notes,omitempty"`
	IdentityVerified   bool               `gorm:"column:identity_verified;not null;default:false" json:"identity_verified"`
	BankConnected      bool               `gorm:"column:bank_connected;not null;default:false" json:"bank_connected"`
	StripeAccountID    string             `gorm:"column:stripe_account_id;size:255" json:"stripe_account_id,omitempty"`
	CreatedAt          time.Time          `gorm:"default:now()" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"default:now()" json:"updated_at"`
}

func (Business) TableName() string {
	return "businesses"
}
