package entity

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the review status of a phase-1 submission.
type ApplicationStatus string

const (
	ApplicationStatusSubmitted   ApplicationStatus = "submitted"
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
	ApplicationStatusApproved    ApplicationStatus = "approved"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// Application is the phase-1 submission record, one per business. It is
// created when the applicant submits their required documents and mutated by
// administrator decision. A rejected application re-enters review through an
// explicit resubmission, never implicitly.
type Application struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BusinessID  uuid.UUID         `gorm:"column:business_id;type:uuid;not null;uniqueIndex" json:"business_id"`
	Status      ApplicationStatus `gorm:"size:20;not null;default:'submitted';index" json:"status"`
	SubmittedAt time.Time         `gorm:"column:submitted_at;not null" json:"submitted_at"`
	ReviewedBy  *uuid.UUID        `gorm:"column:reviewed_by;type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time        `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ReviewNotes string            `gorm:"column:review_notes;type:text" json:"review_notes,omitempty"`
	CreatedAt   time.Time         `gorm:"default:now()" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"default:now()" json:"updated_at"`
}

func (Application) TableName() string {
	return "applications"
}
