// Package stripeidentity wraps Stripe Identity document-and-selfie proofing
// sessions behind the domain's IdentityProvider interface.
package stripeidentity

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/identity/verificationreport"
	"github.com/stripe/stripe-go/v79/identity/verificationsession"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
	"github.com/bookwell/onboarding-service/internal/domain/provider"
)

const providerName = "stripe_identity"

// IdentityProvider implements provider.IdentityProvider on Stripe Identity
// verification sessions.
type IdentityProvider struct {
	logger *zap.Logger
}

// NewIdentityProvider creates a new Stripe Identity provider. The
// package-level stripe.Key must already be set.
func NewIdentityProvider(logger *zap.Logger) *IdentityProvider {
	return &IdentityProvider{
		logger: logger,
	}
}

// CreateSession opens a document verification session. The user and business
// ids travel in metadata so webhook events can be correlated back.
func (p *IdentityProvider) CreateSession(ctx context.Context, req *provider.CreateIdentitySessionRequest) (*provider.IdentitySession, error) {
	params := &stripe.IdentityVerificationSessionParams{
		Type: stripe.String("document"),
		Options: &stripe.IdentityVerificationSessionOptionsParams{
			Document: &stripe.IdentityVerificationSessionOptionsDocumentParams{
				AllowedTypes:          stripe.StringSlice(req.AllowedDocumentTypes),
				RequireLiveCapture:    stripe.Bool(req.RequireLiveCapture),
				RequireMatchingSelfie: stripe.Bool(req.RequireSelfieMatch),
			},
		},
		Metadata: map[string]string{
			"user_id":     req.UserID,
			"business_id": req.BusinessID,
		},
	}
	params.Context = ctx

	session, err := verificationsession.New(params)
	if err != nil {
		return nil, wrapStripeErr("failed to create verification session", err)
	}

	p.logger.Info("verification session created",
		zap.String("session_id", session.ID))
	return toSession(session), nil
}

// GetSession fetches the current remote state of a session.
func (p *IdentityProvider) GetSession(ctx context.Context, providerSessionID string) (*provider.IdentitySession, error) {
	params := &stripe.IdentityVerificationSessionParams{}
	params.Context = ctx

	session, err := verificationsession.Get(providerSessionID, params)
	if err != nil {
		return nil, wrapStripeErr("failed to fetch verification session", err)
	}
	return toSession(session), nil
}

// GetReport fetches the narrow document slice of a verification report.
func (p *IdentityProvider) GetReport(ctx context.Context, reportID string) (*provider.IdentityReport, error) {
	params := &stripe.IdentityVerificationReportParams{}
	params.Context = ctx

	report, err := verificationreport.Get(reportID, params)
	if err != nil {
		return nil, wrapStripeErr("failed to fetch verification report", err)
	}

	result := &provider.IdentityReport{ID: report.ID}
	if report.Document != nil {
		result.DocumentType = string(report.Document.Type)
		result.FirstName = report.Document.FirstName
		result.LastName = report.Document.LastName
	}
	return result, nil
}

func toSession(s *stripe.IdentityVerificationSession) *provider.IdentitySession {
	session := &provider.IdentitySession{
		ID:           s.ID,
		ClientSecret: s.ClientSecret,
		Status:       normalizeStatus(s.Status),
	}
	if s.LastVerificationReport != nil {
		session.ReportID = s.LastVerificationReport.ID
	}
	return session
}

// normalizeStatus maps Stripe's session status into the domain taxonomy.
func normalizeStatus(status stripe.IdentityVerificationSessionStatus) entity.IdentitySessionStatus {
	switch status {
	case stripe.IdentityVerificationSessionStatusVerified:
		return entity.IdentitySessionStatusVerified
	case stripe.IdentityVerificationSessionStatusProcessing:
		return entity.IdentitySessionStatusProcessing
	case stripe.IdentityVerificationSessionStatusRequiresInput:
		return entity.IdentitySessionStatusRequiresInput
	case stripe.IdentityVerificationSessionStatusCanceled:
		return entity.IdentitySessionStatusCanceled
	default:
		return entity.IdentitySessionStatusCreated
	}
}

func wrapStripeErr(message string, err error) error {
	kind := provider.FailureTransport
	code := ""
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		code = string(stripeErr.Code)
		if stripeErr.HTTPStatusCode >= 400 && stripeErr.HTTPStatusCode < 500 {
			kind = provider.FailureRejection
		}
	}
	return &provider.Error{
		Provider: providerName,
		Kind:     kind,
		Code:     code,
		Message:  message,
		Err:      err,
	}
}
