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
	"github.com/bookwell/onboarding-service/internal/domain/provider"
)

type paymentFixture struct {
	svc        *PaymentAccountService
	accounts   *MockPaymentAccountRepository
	businesses *MockBusinessRepository
	staff      *MockStaffRepository
	progress   *MockSetupProgressRepository
	payments   *MockPaymentAccountProvider
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		accounts:   new(MockPaymentAccountRepository),
		businesses: new(MockBusinessRepository),
		staff:      new(MockStaffRepository),
		progress:   new(MockSetupProgressRepository),
		payments:   new(MockPaymentAccountProvider),
	}
	f.svc = NewPaymentAccountService(
		f.accounts, f.businesses, f.staff, f.progress, f.payments,
		"https://app.bookwell.test/onboarding/return",
		"https://app.bookwell.test/onboarding/refresh",
		zap.NewNop(),
	)
	return f
}

func approvedBusiness(businessID uuid.UUID) *entity.Business {
	return &entity.Business{
		ID:                 businessID,
		Name:               "Fade Factory",
		Email:              "owner@fadefactory.test",
		BusinessType:       entity.BusinessTypeLLC,
		VerificationStatus: entity.VerificationStatusApproved,
	}
}

func TestCreateOrResume_FirstCallProvisions(t *testing.T) {
	f := newPaymentFixture()
	userID, businessID := uuid.New(), uuid.New()

	f.staff.On("GetActiveByUserAndBusiness", mock.Anything, userID, businessID).
		Return(activeStaff(userID, businessID), nil)
	f.businesses.On("GetByID", mock.Anything, businessID).Return(approvedBusiness(businessID), nil)
	f.accounts.On("GetByBusinessID", mock.Anything, businessID).Return(nil, nil)
	f.payments.On("CreateAccount", mock.Anything, mock.MatchedBy(func(req *provider.CreatePaymentAccountRequest) bool {
		return req.BusinessName == "Fade Factory" && req.BusinessType == entity.BusinessTypeLLC
	})).Return("acct_1", nil)
	f.accounts.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.PaymentAccount) bool {
		return a.BusinessID == businessID && a.StripeAccountID == "acct_1"
	})).Return(nil)
	f.businesses.On("SetStripeAccountID", mock.Anything, businessID, "acct_1").Return(nil)
	f.payments.On("CreateOnboardingLink", mock.Anything, "acct_1", mock.Anything, mock.Anything).
		Return("https://connect.stripe.test/setup/1", nil)

	result, err := f.svc.CreateOrResume(context.Background(), userID, businessID)
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, "acct_1", result.AccountID)
	assert.Equal(t, "https://connect.stripe.test/setup/1", result.OnboardingURL)
	assert.False(t, result.Persistence.Failed)
	f.accounts.AssertExpectations(t)
}

// A second call resumes: no second remote account, no second row, one more
// fresh link.
func TestCreateOrResume_SecondCallResumes(t *testing.T) {
	f := newPaymentFixture()
	userID, businessID := uuid.New(), uuid.New()

	f.staff.On("GetActiveByUserAndBusiness", mock.Anything, userID, businessID).
		Return(activeStaff(userID, businessID), nil)
	f.businesses.On("GetByID", mock.Anything, businessID).Return(approvedBusiness(businessID), nil)
	f.accounts.On("GetByBusinessID", mock.Anything, businessID).Return(&entity.PaymentAccount{
		ID:              uuid.New(),
		BusinessID:      businessID,
		StripeAccountID: "acct_1",
	}, nil)
	f.payments.On("CreateOnboardingLink", mock.Anything, "acct_1", mock.Anything, mock.Anything).
		Return("https://connect.stripe.test/setup/2", nil)

	result, err := f.svc.CreateOrResume(context.Background(), userID, businessID)
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, "https://connect.stripe.test/setup/2", result.OnboardingURL)
	f.payments.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
	f.accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrResume_RequiresApprovedBusiness(t *testing.T) {
	f := newPaymentFixture()
	userID, businessID := uuid.New(), uuid.New()
	business := approvedBusiness(businessID)
	business.VerificationStatus = entity.VerificationStatusUnderReview

	f.staff.On("GetActiveByUserAndBusiness", mock.Anything, userID, businessID).
		Return(activeStaff(userID, businessID), nil)
	f.businesses.On("GetByID", mock.Anything, businessID).Return(business, nil)

	_, err := f.svc.CreateOrResume(context.Background(), userID, businessID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	f.payments.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
}

// Remote creation succeeded, so the link is still returned when the local
// writes fail; the gap is reported through the persistence outcome.
func TestCreateOrResume_PersistFailureStillReturnsLink(t *testing.T) {
	f := newPaymentFixture()
	userID, businessID := uuid.New(), uuid.New()

	f.staff.On("GetActiveByUserAndBusiness", mock.Anything, userID, businessID).
		Return(activeStaff(userID, businessID), nil)
	f.businesses.On("GetByID", mock.Anything, businessID).Return(approvedBusiness(businessID), nil)
	f.accounts.On("GetByBusinessID", mock.Anything, businessID).Return(nil, nil)
	f.payments.On("CreateAccount", mock.Anything, mock.Anything).Return("acct_1", nil)
	f.accounts.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
	f.payments.On("CreateOnboardingLink", mock.Anything, "acct_1", mock.Anything, mock.Anything).
		Return("https://connect.stripe.test/setup/1", nil)

	result, err := f.svc.CreateOrResume(context.Background(), userID, businessID)
	require.NoError(t, err)
	assert.True(t, result.Persistence.Failed)
	assert.Equal(t, "https://connect.stripe.test/setup/1", result.OnboardingURL)
}

func TestSyncStatus(t *testing.T) {
	f := newPaymentFixture()
	userID := uuid.New()
	businessID := uuid.New()
	account := &entity.PaymentAccount{
		ID:              uuid.New(),
		BusinessID:      businessID,
		StripeAccountID: "acct_1",
	}

	f.staff.On("GetActiveByUserAndBusiness", mock.Anything, userID, businessID).
		Return(activeStaff(userID, businessID), nil)
	f.accounts.On("GetByBusinessID", mock.Anything, businessID).Return(account, nil)
	f.payments.On("RetrieveAccount", mock.Anything, "acct_1").Return(&provider.AccountCapabilities{
		ChargesEnabled:   true,
		PayoutsEnabled:   true,
		DetailsSubmitted: true,
	}, nil)
	f.accounts.On("GetByStripeAccountID", mock.Anything, "acct_1").Return(account, nil)
	f.accounts.On("UpdateCapabilities", mock.Anything, "acct_1", true, true, true).Return(nil)
	f.progress.On("GetByBusinessID", mock.Anything, businessID).Return(&entity.SetupProgress{
		ID:         uuid.New(),
		BusinessID: businessID,
	}, nil)
	f.progress.On("Upsert", mock.Anything, mock.MatchedBy(func(p *entity.SetupProgress) bool {
		return p.Phase2Completed && p.CurrentStep == string(StepComplete) && p.PaymentCompletedAt != nil
	})).Return(nil)

	synced, err := f.svc.SyncStatus(context.Background(), userID, businessID)
	require.NoError(t, err)
	assert.True(t, synced.ChargesEnabled)
	assert.True(t, synced.PayoutsEnabled)
	f.progress.AssertExpectations(t)
}

func TestSyncStatus_RequiresStaff(t *testing.T) {
	f := newPaymentFixture()
	userID := uuid.New()
	businessID := uuid.New()

	f.staff.On("GetActiveByUserAndBusiness", mock.Anything, userID, businessID).Return(nil, nil)

	_, err := f.svc.SyncStatus(context.Background(), userID, businessID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	f.accounts.AssertNotCalled(t, "GetByBusinessID", mock.Anything, mock.Anything)
	f.payments.AssertNotCalled(t, "RetrieveAccount", mock.Anything, mock.Anything)
}

func TestSyncStatus_NoAccount(t *testing.T) {
	f := newPaymentFixture()
	userID := uuid.New()
	businessID := uuid.New()

	f.staff.On("GetActiveByUserAndBusiness", mock.Anything, userID, businessID).
		Return(activeStaff(userID, businessID), nil)
	f.accounts.On("GetByBusinessID", mock.Anything, businessID).Return(nil, nil)

	_, err := f.svc.SyncStatus(context.Background(), userID, businessID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestApplyCapabilities_PartialDoesNotCompleteProgress(t *testing.T) {
	f := newPaymentFixture()
	businessID := uuid.New()
	account := &entity.PaymentAccount{
		ID:              uuid.New(),
		BusinessID:      businessID,
		StripeAccountID: "acct_1",
	}

	f.accounts.On("GetByStripeAccountID", mock.Anything, "acct_1").Return(account, nil)
	f.accounts.On("UpdateCapabilities", mock.Anything, "acct_1", true, false, true).Return(nil)

	err := f.svc.ApplyCapabilities(context.Background(), "acct_1", &provider.AccountCapabilities{
		ChargesEnabled:   true,
		PayoutsEnabled:   false,
		DetailsSubmitted: true,
	})
	require.NoError(t, err)
	f.progress.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestApplyCapabilities_UnknownAccount(t *testing.T) {
	f := newPaymentFixture()

	f.accounts.On("GetByStripeAccountID", mock.Anything, "acct_ghost").Return(nil, nil)

	err := f.svc.ApplyCapabilities(context.Background(), "acct_ghost", &provider.AccountCapabilities{})
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	f.accounts.AssertNotCalled(t, "UpdateCapabilities",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
