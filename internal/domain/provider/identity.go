package provider

import (
	"context"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
)

// IdentityProvider wraps document+selfie identity proofing as a session
// object with a fixed return shape.
type IdentityProvider interface {
	// CreateSession opens a new remote proofing session and returns the
	// client secret the UI needs to drive the capture flow.
	CreateSession(ctx context.Context, req *CreateIdentitySessionRequest) (*IdentitySession, error)

	// GetSession fetches the current remote status of a session.
	GetSession(ctx context.Context, providerSessionID string) (*IdentitySession, error)

	// GetReport retrieves the verification report produced by a verified
	// session.
	GetReport(ctx context.Context, reportID string) (*IdentityReport, error)
}

// CreateIdentitySessionRequest configures a new proofing session.
type CreateIdentitySessionRequest struct {
	UserID               string
	BusinessID           string
	AllowedDocumentTypes []string
	RequireLiveCapture   bool
	RequireSelfieMatch   bool
}

// IdentitySession is the normalized remote session state.
type IdentitySession struct {
	ID           string
	ClientSecret string
	Status       entity.IdentitySessionStatus
	ReportID     string
}

// IdentityReport is the narrow slice of the provider's verification report
// the domain cares about.
type IdentityReport struct {
	ID           string
	DocumentType string
	FirstName    string
	LastName     string
}
