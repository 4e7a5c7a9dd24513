package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/domain/apperror"
	"github.com/bookwell/onboarding-service/internal/domain/entity"
	"github.com/bookwell/onboarding-service/internal/domain/repository"
)

// ApplicationService owns the applicant side of the phase-1 submission
// lifecycle: submit once the required documents are in, and explicitly
// resubmit after a rejection.
type ApplicationService struct {
	applications repository.ApplicationRepository
	businesses   repository.BusinessRepository
	documents    repository.DocumentRepository
	staff        repository.StaffRepository
	progress     repository.SetupProgressRepository
	logger       *zap.Logger
}

// NewApplicationService creates a new application submission service.
func NewApplicationService(
	applications repository.ApplicationRepository,
	businesses repository.BusinessRepository,
	documents repository.DocumentRepository,
	staff repository.StaffRepository,
	progress repository.SetupProgressRepository,
	logger *zap.Logger,
) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		businesses:   businesses,
		documents:    documents,
		staff:        staff,
		progress:     progress,
		logger:       logger,
	}
}

// Submit creates the phase-1 Application record. The caller must be active
// staff of the business and every required document type must have at least
// one non-rejected upload. A business with a live application cannot submit
// again; a rejected one must go through Resubmit.
func (s *ApplicationService) Submit(ctx context.Context, userID, businessID uuid.UUID) (*entity.Application, error) {
	business, err := s.authorize(ctx, userID, businessID)
	if err != nil {
		return nil, err
	}

	docs, err := s.documents.ListByBusinessID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents for business %s: %w", businessID, err)
	}
	if missing := entity.MissingDocumentTypes(business.BusinessType, docs); len(missing) > 0 {
		return nil, apperror.Newf(apperror.KindValidation, "required documents missing: %v", missing)
	}

	existing, err := s.applications.GetByBusinessID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up application for business %s: %w", businessID, err)
	}
	if existing != nil {
		if existing.Status == entity.ApplicationStatusRejected {
			return nil, apperror.Conflict("application was rejected; use resubmit")
		}
		return nil, apperror.Conflict("application already submitted")
	}

	application := &entity.Application{
		ID:          uuid.New(),
		BusinessID:  businessID,
		Status:      entity.ApplicationStatusSubmitted,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.applications.Create(ctx, application); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	business.VerificationStatus = entity.VerificationStatusUnderReview
	if err := s.businesses.Update(ctx, business); err != nil {
		return nil, fmt.Errorf("failed to mark business under review: %w", err)
	}

	s.updateStepHint(ctx, businessID, StepReview)

	s.logger.Info("application submitted",
		zap.String("business_id", businessID.String()),
		zap.String("application_id", application.ID.String()))
	return application, nil
}

// Resubmit moves a rejected application back to submitted for a second
// review cycle. This is the only way back into review; the transition is
// explicit rather than inferred from document changes.
func (s *ApplicationService) Resubmit(ctx context.Context, userID, businessID uuid.UUID) (*entity.Application, error) {
	business, err := s.authorize(ctx, userID, businessID)
	if err != nil {
		return nil, err
	}

	application, err := s.applications.GetByBusinessID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up application for business %s: %w", businessID, err)
	}
	if application == nil {
		return nil, apperror.NotFound("no application to resubmit")
	}
	if application.Status != entity.ApplicationStatusRejected {
		return nil, apperror.Newf(apperror.KindConflict, "cannot resubmit application in status %q", application.Status)
	}

	docs, err := s.documents.ListByBusinessID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents for business %s: %w", businessID, err)
	}
	if missing := entity.MissingDocumentTypes(business.BusinessType, docs); len(missing) > 0 {
		return nil, apperror.Newf(apperror.KindValidation, "required documents missing: %v", missing)
	}

	application.Status = entity.ApplicationStatusSubmitted
	application.SubmittedAt = time.Now().UTC()
	application.ReviewedBy = nil
	application.ReviewedAt = nil
	application.ReviewNotes = ""
	if err := s.applications.Update(ctx, application); err != nil {
		return nil, fmt.Errorf("failed to resubmit application %s: %w", application.ID, err)
	}

	business.VerificationStatus = entity.VerificationStatusUnderReview
	if err := s.businesses.Update(ctx, business); err != nil {
		return nil, fmt.Errorf("failed to mark business under review: %w", err)
	}

	s.updateStepHint(ctx, businessID, StepReview)

	s.logger.Info("application resubmitted",
		zap.String("business_id", businessID.String()),
		zap.String("application_id", application.ID.String()))
	return application, nil
}

func (s *ApplicationService) authorize(ctx context.Context, userID, businessID uuid.UUID) (*entity.Business, error) {
	member, err := s.staff.GetActiveByUserAndBusiness(ctx, userID, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to check staff association: %w", err)
	}
	if member == nil {
		return nil, apperror.Forbidden("user is not active staff of this business")
	}

	business, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up business %s: %w", businessID, err)
	}
	if business == nil {
		return nil, apperror.NotFound("business not found")
	}
	return business, nil
}

func (s *ApplicationService) updateStepHint(ctx context.Context, businessID uuid.UUID, step Step) {
	progress, err := s.progress.GetByBusinessID(ctx, businessID)
	if err != nil || progress == nil {
		if err != nil {
			s.logger.Warn("failed to load setup progress", zap.String("business_id", businessID.String()), zap.Error(err))
		}
		return
	}
	progress.CurrentStep = string(step)
	if err := s.progress.Upsert(ctx, progress); err != nil {
		s.logger.Warn("failed to update setup progress hint",
			zap.String("business_id", businessID.String()),
			zap.Error(err))
	}
}
