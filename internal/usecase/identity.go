package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/domain/apperror"
	"github.com/bookwell/onboarding-service/internal/domain/entity"
	"github.com/bookwell/onboarding-service/internal/domain/provider"
	"github.com/bookwell/onboarding-service/internal/domain/repository"
)

// defaultIdentityDocumentTypes is the provider document allow-list for
// proofing sessions.
var defaultIdentityDocumentTypes = []string{"driving_license", "passport", "id_card"}

// IdentitySessionResult is the response to a session-creation request.
type IdentitySessionResult struct {
	SessionID       string                       `json:"session_id"`
	ClientSecret    string                       `json:"client_secret,omitempty"`
	Status          entity.IdentitySessionStatus `json:"status"`
	AlreadyVerified bool                         `json:"already_verified"`
}

// IdentityStatusResult is the response to a status poll: the normalized
// remote status plus the outcome of the local writes that followed it.
type IdentityStatusResult struct {
	Status      entity.IdentitySessionStatus `json:"status"`
	Report      *provider.IdentityReport     `json:"report,omitempty"`
	Persistence PersistenceOutcome           `json:"persistence"`
}

// IdentityService wraps identity proofing as session objects and keeps the
// local verification facts in sync with the provider.
type IdentityService struct {
	sessions   repository.IdentitySessionRepository
	businesses repository.BusinessRepository
	staff      repository.StaffRepository
	identity   provider.IdentityProvider
	logger     *zap.Logger
}

// NewIdentityService creates a new identity verification service.
func NewIdentityService(
	sessions repository.IdentitySessionRepository,
	businesses repository.BusinessRepository,
	staff repository.StaffRepository,
	identity provider.IdentityProvider,
	logger *zap.Logger,
) *IdentityService {
	return &IdentityService{
		sessions:   sessions,
		businesses: businesses,
		staff:      staff,
		identity:   identity,
		logger:     logger,
	}
}

// CreateSession opens a proofing session for the caller. The caller must
// hold an active staff association with the business; business existence
// alone is not authorization, since staff other than the owner may complete
// this step. If a previous session for this user and business already
// verified, that result is returned without creating a new remote session,
// avoiding duplicate proofing attempts and redundant provider cost.
func (s *IdentityService) CreateSession(ctx context.Context, userID, businessID uuid.UUID) (*IdentitySessionResult, error) {
	member, err := s.staff.GetActiveByUserAndBusiness(ctx, userID, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to check staff association: %w", err)
	}
	if member == nil {
		return nil, apperror.Forbidden("user is not active staff of this business")
	}

	latest, err := s.sessions.GetLatestByUserAndBusiness(ctx, userID, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up identity sessions: %w", err)
	}
	if latest != nil && latest.Status == entity.IdentitySessionStatusVerified {
		return &IdentitySessionResult{
			SessionID:       latest.ProviderSessionID,
			Status:          entity.IdentitySessionStatusVerified,
			AlreadyVerified: true,
		}, nil
	}

	remote, err := s.identity.CreateSession(ctx, &provider.CreateIdentitySessionRequest{
		UserID:               userID.String(),
		BusinessID:           businessID.String(),
		AllowedDocumentTypes: defaultIdentityDocumentTypes,
		RequireLiveCapture:   true,
		RequireSelfieMatch:   true,
	})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindProvider, "failed to create verification session", err)
	}

	session := &entity.IdentityVerificationSession{
		ID:                uuid.New(),
		BusinessID:        businessID,
		UserID:            userID,
		ProviderSessionID: remote.ID,
		Status:            remote.Status,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		// The remote session exists either way; surfacing the write
		// failure would only force the user to open a second one.
		s.logger.Error("failed to record identity session",
			zap.String("provider_session_id", remote.ID),
			zap.Error(err))
	}

	return &IdentitySessionResult{
		SessionID:    remote.ID,
		ClientSecret: remote.ClientSecret,
		Status:       remote.Status,
	}, nil
}

// CheckStatus polls the provider for the caller's latest session and folds
// the result into local state. On verified it updates the session row, the
// business's identity-verified flag and the staff record; local write
// failures after a successful remote fetch are logged and reported through
// the persistence outcome but never fail the request, since the check is
// idempotently re-pollable. A requires-input or canceled session records a
// failure timestamp without regressing the business's overall status.
func (s *IdentityService) CheckStatus(ctx context.Context, userID, businessID uuid.UUID) (*IdentityStatusResult, error) {
	member, err := s.staff.GetActiveByUserAndBusiness(ctx, userID, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to check staff association: %w", err)
	}
	if member == nil {
		return nil, apperror.Forbidden("user is not active staff of this business")
	}

	session, err := s.sessions.GetLatestByUserAndBusiness(ctx, userID, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up identity sessions: %w", err)
	}
	if session == nil {
		return nil, apperror.NotFound("no verification session for user")
	}

	remote, err := s.identity.GetSession(ctx, session.ProviderSessionID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindProvider, "failed to fetch verification status", err)
	}

	result := &IdentityStatusResult{Status: remote.Status, Persistence: persistenceOK()}

	switch remote.Status {
	case entity.IdentitySessionStatusVerified:
		if remote.ReportID != "" {
			report, reportErr := s.identity.GetReport(ctx, remote.ReportID)
			if reportErr != nil {
				s.logger.Warn("failed to fetch verification report",
					zap.String("report_id", remote.ReportID),
					zap.Error(reportErr))
			} else {
				result.Report = report
			}
		}
		if err := s.recordVerified(ctx, session, member, remote); err != nil {
			s.logger.Error("failed to persist verified identity state",
				zap.String("business_id", businessID.String()),
				zap.String("provider_session_id", session.ProviderSessionID),
				zap.Error(err))
			result.Persistence = persistenceFailed(err)
		}

	case entity.IdentitySessionStatusRequiresInput, entity.IdentitySessionStatusCanceled:
		now := time.Now().UTC()
		session.Status = remote.Status
		session.FailedAt = &now
		if err := s.sessions.Update(ctx, session); err != nil {
			s.logger.Warn("failed to record identity session failure",
				zap.String("provider_session_id", session.ProviderSessionID),
				zap.Error(err))
			result.Persistence = persistenceFailed(err)
		}

	default:
		session.Status = remote.Status
		if err := s.sessions.Update(ctx, session); err != nil {
			s.logger.Warn("failed to record identity session status",
				zap.String("provider_session_id", session.ProviderSessionID),
				zap.Error(err))
			result.Persistence = persistenceFailed(err)
		}
	}

	return result, nil
}

func (s *IdentityService) recordVerified(
	ctx context.Context,
	session *entity.IdentityVerificationSession,
	member *entity.BusinessStaff,
	remote *provider.IdentitySession,
) error {
	now := time.Now().UTC()

	session.Status = entity.IdentitySessionStatusVerified
	session.ReportID = remote.ReportID
	session.VerifiedAt = &now
	if err := s.sessions.Update(ctx, session); err != nil {
		return fmt.Errorf("session row: %w", err)
	}

	if err := s.businesses.SetIdentityVerified(ctx, session.BusinessID, true); err != nil {
		return fmt.Errorf("business flag: %w", err)
	}

	if err := s.staff.SetVerificationStatus(ctx, member.ID, entity.StaffVerificationVerified, &now); err != nil {
		return fmt.Errorf("staff record: %w", err)
	}
	return nil
}
