package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/domain/apperror"
	"github.com/bookwell/onboarding-service/internal/domain/entity"
)

func newBusinessFixture() (*BusinessService, *MockBusinessRepository, *MockStaffRepository, *MockSetupProgressRepository) {
	businesses := new(MockBusinessRepository)
	staff := new(MockStaffRepository)
	progress := new(MockSetupProgressRepository)
	svc := NewBusinessService(businesses, staff, progress, zap.NewNop())
	return svc, businesses, staff, progress
}

func TestSaveProfile_CreatesBusinessAndOwner(t *testing.T) {
	svc, businesses, staff, progress := newBusinessFixture()
	userID := uuid.New()

	businesses.On("GetByOwnerUserID", mock.Anything, userID).Return(nil, nil)
	businesses.On("Create", mock.Anything, mock.MatchedBy(func(b *entity.Business) bool {
		return b.OwnerUserID == userID &&
			b.Name == "Fade Factory" &&
			b.VerificationStatus == entity.VerificationStatusPending
	})).Return(nil)
	staff.On("Create", mock.Anything, mock.MatchedBy(func(s *entity.BusinessStaff) bool {
		return s.UserID == userID && s.Role == entity.StaffRoleOwner && s.Active
	})).Return(nil)
	progress.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	business, err := svc.SaveProfile(context.Background(), userID, BusinessProfileInput{
		Name:         "  Fade Factory  ",
		Email:        "owner@fadefactory.test",
		BusinessType: entity.BusinessTypeSoleProprietorship,
	})
	require.NoError(t, err)
	assert.Equal(t, "Fade Factory", business.Name)
	businesses.AssertExpectations(t)
	staff.AssertExpectations(t)
}

func TestSaveProfile_UpdatesExisting(t *testing.T) {
	svc, businesses, staff, _ := newBusinessFixture()
	userID := uuid.New()
	existing := &entity.Business{
		ID:                 uuid.New(),
		OwnerUserID:        userID,
		Name:               "Old Name",
		VerificationStatus: entity.VerificationStatusPending,
	}

	businesses.On("GetByOwnerUserID", mock.Anything, userID).Return(existing, nil)
	businesses.On("Update", mock.Anything, mock.MatchedBy(func(b *entity.Business) bool {
		return b.ID == existing.ID && b.Name == "New Name"
	})).Return(nil)

	business, err := svc.SaveProfile(context.Background(), userID, BusinessProfileInput{
		Name:         "New Name",
		BusinessType: entity.BusinessTypeLLC,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", business.Name)
	staff.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSaveProfile_ValidatesInput(t *testing.T) {
	svc, businesses, _, _ := newBusinessFixture()

	_, err := svc.SaveProfile(context.Background(), uuid.New(), BusinessProfileInput{
		Name:         "   ",
		BusinessType: entity.BusinessTypeLLC,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = svc.SaveProfile(context.Background(), uuid.New(), BusinessProfileInput{
		Name:         "Fade Factory",
		BusinessType: "partnership",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	businesses.AssertNotCalled(t, "GetByOwnerUserID", mock.Anything, mock.Anything)
}

func TestSaveProfile_LockedAfterApproval(t *testing.T) {
	svc, businesses, _, _ := newBusinessFixture()
	userID := uuid.New()

	businesses.On("GetByOwnerUserID", mock.Anything, userID).Return(&entity.Business{
		ID:                 uuid.New(),
		OwnerUserID:        userID,
		Name:               "Fade Factory",
		VerificationStatus: entity.VerificationStatusApproved,
	}, nil)

	_, err := svc.SaveProfile(context.Background(), userID, BusinessProfileInput{
		Name:         "Renamed",
		BusinessType: entity.BusinessTypeLLC,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	businesses.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// Seeding the progress row is cosmetic; its failure does not fail creation.
func TestSaveProfile_ProgressSeedFailureIgnored(t *testing.T) {
	svc, businesses, staff, progress := newBusinessFixture()
	userID := uuid.New()

	businesses.On("GetByOwnerUserID", mock.Anything, userID).Return(nil, nil)
	businesses.On("Create", mock.Anything, mock.Anything).Return(nil)
	staff.On("Create", mock.Anything, mock.Anything).Return(nil)
	progress.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	business, err := svc.SaveProfile(context.Background(), userID, BusinessProfileInput{
		Name:         "Fade Factory",
		BusinessType: entity.BusinessTypeIndividual,
	})
	require.NoError(t, err)
	assert.NotNil(t, business)
}
