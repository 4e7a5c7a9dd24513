package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/domain/apperror"
	"github.com/bookwell/onboarding-service/internal/domain/entity"
	"github.com/bookwell/onboarding-service/internal/domain/repository"
)

// BusinessProfileInput is the applicant-supplied business identity.
type BusinessProfileInput struct {
	Name         string
	Email        string
	BusinessType entity.BusinessType
}

// BusinessService creates and updates the Business row during phase 1.
type BusinessService struct {
	businesses repository.BusinessRepository
	staff      repository.StaffRepository
	progress   repository.SetupProgressRepository
	logger     *zap.Logger
}

// NewBusinessService creates a new business profile service.
func NewBusinessService(
	businesses repository.BusinessRepository,
	staff repository.StaffRepository,
	progress repository.SetupProgressRepository,
	logger *zap.Logger,
) *BusinessService {
	return &BusinessService{
		businesses: businesses,
		staff:      staff,
		progress:   progress,
		logger:     logger,
	}
}

// SaveProfile creates the user's business on first call and updates its
// identity fields afterwards. First creation also seeds the owner staff row
// and the setup-progress row. Identity fields are frozen once the business is
// approved; profile edits after approval belong to the operational dashboard,
// not onboarding.
func (s *BusinessService) SaveProfile(ctx context.Context, userID uuid.UUID, input BusinessProfileInput) (*entity.Business, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation("business name is required")
	}
	if !entity.ValidBusinessType(input.BusinessType) {
		return nil, apperror.Newf(apperror.KindValidation, "unknown business type %q", input.BusinessType)
	}

	business, err := s.businesses.GetByOwnerUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up business for user %s: %w", userID, err)
	}

	if business == nil {
		return s.createBusiness(ctx, userID, name, input)
	}

	if business.VerificationStatus == entity.VerificationStatusApproved {
		return nil, apperror.Conflict("business profile is locked after approval")
	}

	business.Name = name
	business.Email = input.Email
	business.BusinessType = input.BusinessType
	if err := s.businesses.Update(ctx, business); err != nil {
		return nil, fmt.Errorf("failed to update business %s: %w", business.ID, err)
	}
	return business, nil
}

func (s *BusinessService) createBusiness(ctx context.Context, userID uuid.UUID, name string, input BusinessProfileInput) (*entity.Business, error) {
	business := &entity.Business{
		ID:                 uuid.New(),
		OwnerUserID:        userID,
		Name:               name,
		Email:              input.Email,
		BusinessType:       input.BusinessType,
		VerificationStatus: entity.VerificationStatusPending,
	}
	if err := s.businesses.Create(ctx, business); err != nil {
		return nil, fmt.Errorf("failed to create business: %w", err)
	}

	owner := &entity.BusinessStaff{
		ID:         uuid.New(),
		BusinessID: business.ID,
		UserID:     userID,
		Role:       entity.StaffRoleOwner,
		Active:     true,
	}
	if err := s.staff.Create(ctx, owner); err != nil {
		return nil, fmt.Errorf("failed to create owner staff record: %w", err)
	}

	if err := s.progress.Upsert(ctx, &entity.SetupProgress{
		ID:          uuid.New(),
		BusinessID:  business.ID,
		CurrentStep: string(StepDocuments),
	}); err != nil {
		// The hint row is cosmetic; state derivation does not read it.
		s.logger.Warn("failed to seed setup progress",
			zap.String("business_id", business.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("business created",
		zap.String("business_id", business.ID.String()),
		zap.String("owner_user_id", userID.String()),
		zap.String("business_type", string(business.BusinessType)))
	return business, nil
}
