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

	"github.com/bookwell/onboarding-service/internal/domain/entity"
)

func newStateFixture() (*OnboardingStateService, *MockBusinessRepository, *MockApplicationRepository, *MockDocumentRepository, *MockPaymentAccountRepository) {
	businesses := new(MockBusinessRepository)
	applications := new(MockApplicationRepository)
	documents := new(MockDocumentRepository)
	accounts := new(MockPaymentAccountRepository)
	svc := NewOnboardingStateService(businesses, applications, documents, accounts, zap.NewNop())
	return svc, businesses, applications, documents, accounts
}

func TestResolve_NoBusiness(t *testing.T) {
	svc, businesses, _, _, _ := newStateFixture()
	userID := uuid.New()

	businesses.On("GetByOwnerUserID", mock.Anything, userID).Return(nil, nil)

	state, err := svc.Resolve(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, PhaseOne, state.Phase)
	assert.Equal(t, StepSignup, state.Step)
	assert.True(t, state.NeedsOnboarding)
	assert.Nil(t, state.BusinessID)
}

func TestResolve_LookupError(t *testing.T) {
	svc, businesses, _, _, _ := newStateFixture()
	userID := uuid.New()

	businesses.On("GetByOwnerUserID", mock.Anything, userID).Return(nil, errors.New("db down"))

	state, err := svc.Resolve(context.Background(), userID)
	require.Error(t, err)
	assert.Nil(t, state)
}

func TestResolve_ProfileIncomplete(t *testing.T) {
	svc, businesses, _, _, _ := newStateFixture()
	userID := uuid.New()
	business := &entity.Business{
		ID:                 uuid.New(),
		OwnerUserID:        userID,
		VerificationStatus: entity.VerificationStatusPending,
	}

	businesses.On("GetByOwnerUserID", mock.Anything, userID).Return(business, nil)

	state, err := svc.Resolve(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, PhaseOne, state.Phase)
	assert.Equal(t, StepBusinessProfile, state.Step)
	assert.Equal(t, &business.ID, state.BusinessID)
}

func TestResolve_SoleProprietorshipDocumentsComplete(t *testing.T) {
	svc, businesses, applications, documents, _ := newStateFixture()
	userID := uuid.New()
	business := &entity.Business{
		ID:                 uuid.New(),
		OwnerUserID:        userID,
		Name:               "Fade Factory",
		BusinessType:       entity.BusinessTypeSoleProprietorship,
		VerificationStatus: entity.VerificationStatusPending,
	}

	businesses.On("GetByOwnerUserID", mock.Anything, userID).Return(business, nil)
	documents.On("ListByBusinessID", mock.Anything, business.ID).Return([]entity.Document{
		{Type: entity.DocumentTypeProfessionalLicense, Status: entity.DocumentStatusPending},
		{Type: entity.DocumentTypeProfessionalHeadshot, Status: entity.DocumentStatusVerified},
	}, nil)
	applications.On("GetByBusinessID", mock.Anything, business.ID).Return(nil, nil)

	state, err := svc.Resolve(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, StepReview, state.Step)
	assert.Empty(t, state.MissingDocuments)
}

func TestResolve_LLCRequiresBusinessLicense(t *testing.T) {
	svc, businesses, _, documents, _ := newStateFixture()
	userID := uuid.New()
	business := &entity.Business{
		ID:                 uuid.New(),
		OwnerUserID:        userID,
		Name:               "Fade Factory LLC",
		BusinessType:       entity.BusinessTypeLLC,
		VerificationStatus: entity.VerificationStatusPending,
	}

	businesses.On("GetByOwnerUserID", mock.Anything, userID).Return(business, nil)
	documents.On("ListByBusinessID", mock.Anything, business.ID).Return([]entity.Document{
		{Type: entity.DocumentTypeProfessionalLicense, Status: entity.DocumentStatusVerified},
		{Type: entity.DocumentTypeProfessionalHeadshot, Status: entity.DocumentStatusVerified},
	}, nil)

	state, err := svc.Resolve(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, StepDocuments, state.Step)
	assert.Equal(t, []entity.DocumentType{entity.DocumentTypeBusinessLicense}, state.MissingDocuments)
}

func TestResolve_RejectedDocumentDoesNotSatisfyRequirement(t *testing.T) {
	svc, businesses, _, documents, _ := newStateFixture()
	userID := uuid.New()
	business := &entity.Business{
		ID:                 uuid.New(),
		OwnerUserID:        userID,
		Name:               "Fade Factory",
		BusinessType:       entity.BusinessTypeIndividual,
		VerificationStatus: entity.VerificationStatusRejected,
	}

	businesses.On("GetByOwnerUserID", mock.Anything, userID).Return(business, nil)
	documents.On("ListByBusinessID", mock.Anything, business.ID).Return([]entity.Document{
		{Type: entity.DocumentTypeProfessionalLicense, Status: entity.DocumentStatusRejected},
		{Type: entity.DocumentTypeProfessionalHeadshot, Status: entity.DocumentStatusVerified},
	}, nil)

	state, err := svc.Resolve(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, StepDocuments, state.Step)
	assert.Contains(t, state.MissingDocuments, entity.DocumentTypeProfessionalLicense)
}

func TestResolve_ReviewReportsApplicationStatus(t *testing.T) {
	svc, businesses, applications, documents, _ := newStateFixture()
	userID := uuid.New()
	business := &entity.Business{
		ID:                 uuid.New(),
		OwnerUserID:        userID,
		Name:               "Fade Factory",
		BusinessType:       entity.BusinessTypeIndividual,
		VerificationStatus: entity.VerificationStatusUnderReview,
	}

	businesses.On("GetByOwnerUserID", mock.Anything, userID).Return(business, nil)
	documents.On("ListByBusinessID", mock.Anything, business.ID).Return([]entity.Document{
		{Type: entity.DocumentTypeProfessionalLicense, Status: entity.DocumentStatusUnderReview},
		{Type: entity.DocumentTypeProfessionalHeadshot, Status: entity.DocumentStatusUnderReview},
	}, nil)
	applications.On("GetByBusinessID", mock.Anything, business.ID).Return(&entity.Application{
		BusinessID: business.ID,
		Status:     entity.ApplicationStatusSubmitted,
	}, nil)

	state, err := svc.Resolve(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, StepReview, state.Step)
	assert.Equal(t, entity.ApplicationStatusSubmitted, state.ApplicationStatus)
}

func TestResolve_ApprovedNeedsIdentity(t *testing.T) {
	svc, businesses, _, _, _ := newStateFixture()
	userID := uuid.New()
	business := &entity.Business{
		ID:                 uuid.New(),
		OwnerUserID:        userID,
		Name:               "Fade Factory",
		VerificationStatus: entity.VerificationStatusApproved,
	}

	businesses.On("GetByOwnerUserID", mock.Anything, userID).Return(business, nil)

	state, err := svc.Resolve(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, PhaseTwo, state.Phase)
	assert.Equal(t, StepIdentityVerify, state.Step)
}

func TestResolve_IdentityDoneNeedsBank(t *testing.T) {
	svc, businesses, _, _, _ := newStateFixture()
	userID := uuid.New()
	business := &entity.Business{
		ID:                 uuid.New(),
		OwnerUserID:        userID,
		Name:               "Fade Factory",
		VerificationStatus: entity.VerificationStatusApproved,
		IdentityVerified:   true,
	}

	businesses.On("GetByOwnerUserID", mock.Anything, userID).Return(business, nil)

	state, err := svc.Resolve(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, StepBankConnection, state.Step)
}

func TestResolve_BankDoneNeedsPaymentSetup(t *testing.T) {
	svc, businesses, _, _, accounts := newStateFixture()
	userID := uuid.New()
	business := &entity.Business{
		ID:                 uuid.New(),
		OwnerUserID:        userID,
		Name:               "Fade Factory",
		VerificationStatus: entity.VerificationStatusApproved,
		IdentityVerified:   true,
		BankConnected:      true,
	}

	businesses.On("GetByOwnerUserID", mock.Anything, userID).Return(business, nil)
	accounts.On("GetByBusinessID", mock.Anything, business.ID).Return(nil, nil)

	state, err := svc.Resolve(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, StepPaymentSetup, state.Step)
}

func TestResolve_AccountNotOperationalNeedsVerification(t *testing.T) {
	svc, businesses, _, _, accounts := newStateFixture()
	userID := uuid.New()
	business := &entity.Business{
		ID:                 uuid.New(),
		OwnerUserID:        userID,
		Name:               "Fade Factory",
		VerificationStatus: entity.VerificationStatusApproved,
		IdentityVerified:   true,
		BankConnected:      true,
	}

	businesses.On("GetByOwnerUserID", mock.Anything, userID).Return(business, nil)
	accounts.On("GetByBusinessID", mock.Anything, business.ID).Return(&entity.PaymentAccount{
		BusinessID:     business.ID,
		ChargesEnabled: true,
		PayoutsEnabled: false,
	}, nil)

	state, err := svc.Resolve(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, StepPaymentVerification, state.Step)
	assert.True(t, state.NeedsOnboarding)
}

func TestResolve_Complete(t *testing.T) {
	svc, businesses, _, _, accounts := newStateFixture()
	userID := uuid.New()
	business := &entity.Business{
		ID:                 uuid.New(),
		OwnerUserID:        userID,
		Name:               "Fade Factory",
		VerificationStatus: entity.VerificationStatusApproved,
		IdentityVerified:   true,
		BankConnected:      true,
	}

	businesses.On("GetByOwnerUserID", mock.Anything, userID).Return(business, nil)
	accounts.On("GetByBusinessID", mock.Anything, business.ID).Return(&entity.PaymentAccount{
		BusinessID:     business.ID,
		ChargesEnabled: true,
		PayoutsEnabled: true,
	}, nil)

	state, err := svc.Resolve(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, PhaseComplete, state.Phase)
	assert.Equal(t, StepComplete, state.Step)
	assert.False(t, state.NeedsOnboarding)
}

// Resolving twice without intervening writes must yield the same state.
func TestResolve_Deterministic(t *testing.T) {
	svc, businesses, _, _, accounts := newStateFixture()
	userID := uuid.New()
	business := &entity.Business{
		ID:                 uuid.New(),
		OwnerUserID:        userID,
		Name:               "Fade Factory",
		VerificationStatus: entity.VerificationStatusApproved,
		IdentityVerified:   true,
	}

	businesses.On("GetByOwnerUserID", mock.Anything, userID).Return(business, nil)
	accounts.On("GetByBusinessID", mock.Anything, business.ID).Return(nil, nil)

	first, err := svc.Resolve(context.Background(), userID)
	require.NoError(t, err)
	second, err := svc.Resolve(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
