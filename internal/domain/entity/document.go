package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentType is the closed set of verification documents a business can
// upload.
type DocumentType string

const (
	DocumentTypeProfessionalLicense  DocumentType = "professional_license"
	DocumentTypeProfessionalHeadshot DocumentType = "professional_headshot"
	DocumentTypeBusinessLicense      DocumentType = "business_license"
)

// ValidDocumentType reports whether t is one of the known document types.
func ValidDocumentType(t DocumentType) bool {
	switch t {
	case DocumentTypeProfessionalLicense, DocumentTypeProfessionalHeadshot, DocumentTypeBusinessLicense:
		return true
	}
	return false
}

// DocumentStatus is the per-document review status.
type DocumentStatus string

const (
	DocumentStatusPending     DocumentStatus = "pending"
	DocumentStatusUnderReview DocumentStatus = "under_review"
	DocumentStatusVerified    DocumentStatus = "verified"
	DocumentStatusRejected    DocumentStatus = "rejected"
)

// Document is one uploaded verification document. Rows are append-only: a
// replacement is a new row that supersedes the old one, and a verified row is
// terminal for that instance.
type Document struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BusinessID      uuid.UUID      `gorm:"column:business_id;type:uuid;not null;index:idx_documents_business_type" json:"business_id"`
	Type            DocumentType   `gorm:"size:40;not null;index:idx_documents_business_type" json:"type"`
	StorageKey      string         `gorm:"column:storage_key;size:512;not null" json:"-"`
	URL             string         `gorm:"size:1024;not null" json:"url"`
	ContentType     string         `gorm:"column:content_type;size:100" json:"content_type"`
	SizeBytes       int64          `gorm:"column:size_bytes;not null" json:"size_bytes"`
	Status          DocumentStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RejectionReason string         `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`
	VerifiedBy      *uuid.UUID     `gorm:"column:verified_by;type:uuid" json:"verified_by,omitempty"`
	VerifiedAt      *time.Time     `gorm:"column:verified_at" json:"verified_at,omitempty"`
	SupersededByID  *uuid.UUID     `gorm:"column:superseded_by_id;type:uuid" json:"superseded_by_id,omitempty"`
	CreatedAt       time.Time      `gorm:"default:now();index" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"default:now()" json:"updated_at"`
}

func (Document) TableName() string {
	return "documents"
}

// Superseded reports whether a newer upload has replaced this document.
func (d *Document) Superseded() bool {
	return d.SupersededByID != nil
}

// CanTransitionTo validates the per-document state machine:
// pending -> under_review | verified | rejected, under_review -> verified |
// rejected, rejected -> under_review (resubmission re-review). Verified is
// terminal; corrections require a new row.
func (d *Document) CanTransitionTo(next DocumentStatus) bool {
	switch d.Status {
	case DocumentStatusPending:
		return next == DocumentStatusUnderReview || next == DocumentStatusVerified || next == DocumentStatusRejected
	case DocumentStatusUnderReview:
		return next == DocumentStatusVerified || next == DocumentStatusRejected
	case DocumentStatusRejected:
		return next == DocumentStatusUnderReview
	case DocumentStatusVerified:
		return false
	}
	return false
}

// RequiredDocumentTypes returns the document types a business of the given
// type must provide. Sole proprietorships and individuals have no separate
// legal entity, so no business license is required of them.
func RequiredDocumentTypes(t BusinessType) []DocumentType {
	required := []DocumentType{
		DocumentTypeProfessionalLicense,
		DocumentTypeProfessionalHeadshot,
	}
	if t == BusinessTypeLLC || t == BusinessTypeCorporation {
		required = append(required, DocumentTypeBusinessLicense)
	}
	return required
}

// MissingDocumentTypes returns the required types for which the business has
// no usable document. A document counts toward the requirement while it is in
// any non-rejected state and has not been superseded.
func MissingDocumentTypes(t BusinessType, docs []Document) []DocumentType {
	satisfied := make(map[DocumentType]bool)
	for _, d := range docs {
		if d.Status != DocumentStatusRejected && !d.Superseded() {
			satisfied[d.Type] = true
		}
	}

	var missing []DocumentType
	for _, req := range RequiredDocumentTypes(t) {
		if !satisfied[req] {
			missing = append(missing, req)
		}
	}
	return missing
}
