package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/auth"
	"github.com/bookwell/onboarding-service/internal/domain/apperror"
	"github.com/bookwell/onboarding-service/internal/domain/entity"
	"github.com/bookwell/onboarding-service/internal/domain/provider"
	"github.com/bookwell/onboarding-service/internal/domain/repository"
)

const (
	templateApplicationApproved = "application_approved"
	templateApplicationRejected = "application_rejected"
)

// ApprovalResult is what an administrator's approval produces: the approved
// records plus the signed token that unlocks phase 2.
type ApprovalResult struct {
	Application *entity.Application `json:"application"`
	Token       string              `json:"token"`
	ExpiresAt   time.Time           `json:"expires_at"`
}

// ApprovalService executes administrator decisions over phase-1 applications
// and validates the approval tokens those decisions mint.
type ApprovalService struct {
	businesses   repository.BusinessRepository
	applications repository.ApplicationRepository
	progress     repository.SetupProgressRepository
	tokens       *auth.ApprovalTokenIssuer
	notifier     provider.NotificationDispatcher
	clientURL    string
	logger       *zap.Logger
}

// NewApprovalService creates a new approval service.
func NewApprovalService(
	businesses repository.BusinessRepository,
	applications repository.ApplicationRepository,
	progress repository.SetupProgressRepository,
	tokens *auth.ApprovalTokenIssuer,
	notifier provider.NotificationDispatcher,
	clientURL string,
	logger *zap.Logger,
) *ApprovalService {
	return &ApprovalService{
		businesses:   businesses,
		applications: applications,
		progress:     progress,
		tokens:       tokens,
		notifier:     notifier,
		clientURL:    clientURL,
		logger:       logger,
	}
}

// Approve transitions a submitted application to approved: the business
// gains approval metadata and status approved, the application records the
// reviewer, setup progress marks phase 1 complete, and a 7-day approval
// token is minted and dispatched to the applicant. Approval is one-way:
// anything other than a currently-submitted application is rejected with a
// conflict and produces no state change.
func (s *ApprovalService) Approve(ctx context.Context, businessID, adminUserID uuid.UUID, notes string) (*ApprovalResult, error) {
	application, err := s.applications.GetByBusinessID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up application for business %s: %w", businessID, err)
	}
	if application == nil {
		return nil, apperror.NotFound("no application for business")
	}
	if application.Status != entity.ApplicationStatusSubmitted {
		return nil, apperror.Newf(apperror.KindConflict, "cannot approve application in status %q", application.Status)
	}

	business, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up business %s: %w", businessID, err)
	}
	if business == nil {
		return nil, apperror.NotFound("business not found")
	}

	now := time.Now().UTC()

	business.VerificationStatus = entity.VerificationStatusApproved
	business.ApprovedBy = &adminUserID
	business.ApprovedAt = &now
	business.ApprovalNotes = notes
	if err := s.businesses.Update(ctx, business); err != nil {
		return nil, fmt.Errorf("failed to approve business %s: %w", businessID, err)
	}

	application.Status = entity.ApplicationStatusApproved
	application.ReviewedBy = &adminUserID
	application.ReviewedAt = &now
	application.ReviewNotes = notes
	if err := s.applications.Update(ctx, application); err != nil {
		return nil, fmt.Errorf("failed to approve application %s: %w", application.ID, err)
	}

	// The approved statuses above are the durable facts; the progress row is
	// a resume hint that nothing reads for derivation or authorization.
	// Failing here would strand a half-approved application behind the
	// already-approved conflict check, so the miss is logged and the hint
	// heals on the next phase-2 write.
	if err := s.advanceProgress(ctx, businessID); err != nil {
		s.logger.Warn("failed to advance setup progress on approval",
			zap.String("business_id", businessID.String()),
			zap.Error(err))
	}

	token, expiresAt, err := s.tokens.Issue(businessID, business.OwnerUserID, application.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue approval token: %w", err)
	}

	s.dispatch(ctx, &provider.Notification{
		TemplateID: templateApplicationApproved,
		Recipient:  business.Email,
		Variables: map[string]string{
			"business_name": business.Name,
			"setup_link":    fmt.Sprintf("%s/onboarding/setup?token=%s", s.clientURL, token),
		},
	})

	s.logger.Info("application approved",
		zap.String("business_id", businessID.String()),
		zap.String("application_id", application.ID.String()),
		zap.String("approved_by", adminUserID.String()))

	return &ApprovalResult{Application: application, Token: token, ExpiresAt: expiresAt}, nil
}

// Reject records an administrator rejection with a mandatory reason. Only a
// submitted or under-review application can be rejected.
func (s *ApprovalService) Reject(ctx context.Context, businessID, adminUserID uuid.UUID, reason string) (*entity.Application, error) {
	if reason == "" {
		return nil, apperror.Validation("rejection reason is required")
	}

	application, err := s.applications.GetByBusinessID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up application for business %s: %w", businessID, err)
	}
	if application == nil {
		return nil, apperror.NotFound("no application for business")
	}
	if application.Status != entity.ApplicationStatusSubmitted && application.Status != entity.ApplicationStatusUnderReview {
		return nil, apperror.Newf(apperror.KindConflict, "cannot reject application in status %q", application.Status)
	}

	business, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up business %s: %w", businessID, err)
	}
	if business == nil {
		return nil, apperror.NotFound("business not found")
	}

	now := time.Now().UTC()

	application.Status = entity.ApplicationStatusRejected
	application.ReviewedBy = &adminUserID
	application.ReviewedAt = &now
	application.ReviewNotes = reason
	if err := s.applications.Update(ctx, application); err != nil {
		return nil, fmt.Errorf("failed to reject application %s: %w", application.ID, err)
	}

	business.VerificationStatus = entity.VerificationStatusRejected
	if err := s.businesses.Update(ctx, business); err != nil {
		return nil, fmt.Errorf("failed to mark business rejected: %w", err)
	}

	s.dispatch(ctx, &provider.Notification{
		TemplateID: templateApplicationRejected,
		Recipient:  business.Email,
		Variables: map[string]string{
			"business_name": business.Name,
			"reason":        reason,
		},
	})

	s.logger.Info("application rejected",
		zap.String("business_id", businessID.String()),
		zap.String("rejected_by", adminUserID.String()))
	return application, nil
}

// VerifyToken validates an approval token against its signature, expiry and
// the referenced business's current status. A business that has regressed
// from approved since issuance makes the token revoked: the token alone is
// necessary but not sufficient.
func (s *ApprovalService) VerifyToken(ctx context.Context, token string) (*auth.ApprovalClaims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	business, err := s.businesses.GetByID(ctx, claims.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up business %s: %w", claims.BusinessID, err)
	}
	if business == nil {
		return nil, apperror.New(apperror.KindTokenRevoked, "business referenced by token no longer exists")
	}
	if business.VerificationStatus != entity.VerificationStatusApproved {
		return nil, apperror.Newf(apperror.KindTokenRevoked, "business is no longer approved (status %q)", business.VerificationStatus)
	}
	return claims, nil
}

// ListPending returns the admin review queue.
func (s *ApprovalService) ListPending(ctx context.Context, limit, offset int) ([]entity.Application, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.applications.ListByStatus(ctx, entity.ApplicationStatusSubmitted, limit, offset)
}

func (s *ApprovalService) advanceProgress(ctx context.Context, businessID uuid.UUID) error {
	progress, err := s.progress.GetByBusinessID(ctx, businessID)
	if err != nil {
		return err
	}
	if progress == nil {
		progress = &entity.SetupProgress{ID: uuid.New(), BusinessID: businessID}
	}
	progress.Phase1Completed = true
	progress.CurrentStep = string(StepIdentityVerify)
	return s.progress.Upsert(ctx, progress)
}

// dispatch is fire-and-forget: notification failures are logged, never
// propagated.
func (s *ApprovalService) dispatch(ctx context.Context, n *provider.Notification) {
	if s.notifier == nil || n.Recipient == "" {
		return
	}
	if err := s.notifier.Dispatch(ctx, n); err != nil {
		s.logger.Warn("failed to dispatch notification",
			zap.String("template_id", n.TemplateID),
			zap.Error(err))
	}
}
