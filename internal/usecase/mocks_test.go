package usecase

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
	"github.com/bookwell/onboarding-service/internal/domain/provider"
)

// Repository mocks

type MockBusinessRepository struct {
	mock.Mock
}

func (m *MockBusinessRepository) Create(ctx context.Context, business *entity.Business) error {
	return m.Called(ctx, business).Error(0)
}

func (m *MockBusinessRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Business), args.Error(1)
}

func (m *MockBusinessRepository) GetByOwnerUserID(ctx context.Context, userID uuid.UUID) (*entity.Business, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Business), args.Error(1)
}

func (m *MockBusinessRepository) Update(ctx context.Context, business *entity.Business) error {
	return m.Called(ctx, business).Error(0)
}

func (m *MockBusinessRepository) SetIdentityVerified(ctx context.Context, businessID uuid.UUID, verified bool) error {
	return m.Called(ctx, businessID, verified).Error(0)
}

func (m *MockBusinessRepository) SetBankConnected(ctx context.Context, businessID uuid.UUID, connected bool) error {
	return m.Called(ctx, businessID, connected).Error(0)
}

func (m *MockBusinessRepository) SetStripeAccountID(ctx context.Context, businessID uuid.UUID, stripeAccountID string) error {
	return m.Called(ctx, businessID, stripeAccountID).Error(0)
}

type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) Create(ctx context.Context, application *entity.Application) error {
	return m.Called(ctx, application).Error(0)
}

func (m *MockApplicationRepository) GetByBusinessID(ctx context.Context, businessID uuid.UUID) (*entity.Application, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Application), args.Error(1)
}

func (m *MockApplicationRepository) Update(ctx context.Context, application *entity.Application) error {
	return m.Called(ctx, application).Error(0)
}

func (m *MockApplicationRepository) ListByStatus(ctx context.Context, status entity.ApplicationStatus, limit, offset int) ([]entity.Application, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Application), args.Error(1)
}

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, document *entity.Document) error {
	return m.Called(ctx, document).Error(0)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListByBusinessID(ctx context.Context, businessID uuid.UUID) ([]entity.Document, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Document), args.Error(1)
}

func (m *MockDocumentRepository) Update(ctx context.Context, document *entity.Document) error {
	return m.Called(ctx, document).Error(0)
}

func (m *MockDocumentRepository) MarkSuperseded(ctx context.Context, businessID uuid.UUID, docType entity.DocumentType, supersededBy uuid.UUID) error {
	return m.Called(ctx, businessID, docType, supersededBy).Error(0)
}

type MockSetupProgressRepository struct {
	mock.Mock
}

func (m *MockSetupProgressRepository) GetByBusinessID(ctx context.Context, businessID uuid.UUID) (*entity.SetupProgress, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SetupProgress), args.Error(1)
}

func (m *MockSetupProgressRepository) Upsert(ctx context.Context, progress *entity.SetupProgress) error {
	return m.Called(ctx, progress).Error(0)
}

type MockIdentitySessionRepository struct {
	mock.Mock
}

func (m *MockIdentitySessionRepository) Create(ctx context.Context, session *entity.IdentityVerificationSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockIdentitySessionRepository) GetByProviderSessionID(ctx context.Context, providerSessionID string) (*entity.IdentityVerificationSession, error) {
	args := m.Called(ctx, providerSessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.IdentityVerificationSession), args.Error(1)
}

func (m *MockIdentitySessionRepository) GetLatestByUserAndBusiness(ctx context.Context, userID, businessID uuid.UUID) (*entity.IdentityVerificationSession, error) {
	args := m.Called(ctx, userID, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.IdentityVerificationSession), args.Error(1)
}

func (m *MockIdentitySessionRepository) Update(ctx context.Context, session *entity.IdentityVerificationSession) error {
	return m.Called(ctx, session).Error(0)
}

type MockBankConnectionRepository struct {
	mock.Mock
}

func (m *MockBankConnectionRepository) Upsert(ctx context.Context, connection *entity.BankConnection) error {
	return m.Called(ctx, connection).Error(0)
}

func (m *MockBankConnectionRepository) GetByBusinessID(ctx context.Context, businessID uuid.UUID) (*entity.BankConnection, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BankConnection), args.Error(1)
}

type MockPaymentAccountRepository struct {
	mock.Mock
}

func (m *MockPaymentAccountRepository) Create(ctx context.Context, account *entity.PaymentAccount) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockPaymentAccountRepository) GetByBusinessID(ctx context.Context, businessID uuid.UUID) (*entity.PaymentAccount, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PaymentAccount), args.Error(1)
}

func (m *MockPaymentAccountRepository) GetByStripeAccountID(ctx context.Context, stripeAccountID string) (*entity.PaymentAccount, error) {
	args := m.Called(ctx, stripeAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PaymentAccount), args.Error(1)
}

func (m *MockPaymentAccountRepository) UpdateCapabilities(ctx context.Context, stripeAccountID string, chargesEnabled, payoutsEnabled, detailsSubmitted bool) error {
	return m.Called(ctx, stripeAccountID, chargesEnabled, payoutsEnabled, detailsSubmitted).Error(0)
}

type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) Create(ctx context.Context, staff *entity.BusinessStaff) error {
	return m.Called(ctx, staff).Error(0)
}

func (m *MockStaffRepository) GetActiveByUserAndBusiness(ctx context.Context, userID, businessID uuid.UUID) (*entity.BusinessStaff, error) {
	args := m.Called(ctx, userID, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BusinessStaff), args.Error(1)
}

func (m *MockStaffRepository) SetVerificationStatus(ctx context.Context, staffID uuid.UUID, status entity.StaffVerificationStatus, verifiedAt *time.Time) error {
	return m.Called(ctx, staffID, status, verifiedAt).Error(0)
}

// Provider mocks

type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, body, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockDocumentStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) CreateSession(ctx context.Context, req *provider.CreateIdentitySessionRequest) (*provider.IdentitySession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.IdentitySession), args.Error(1)
}

func (m *MockIdentityProvider) GetSession(ctx context.Context, providerSessionID string) (*provider.IdentitySession, error) {
	args := m.Called(ctx, providerSessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.IdentitySession), args.Error(1)
}

func (m *MockIdentityProvider) GetReport(ctx context.Context, reportID string) (*provider.IdentityReport, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.IdentityReport), args.Error(1)
}

type MockBankProvider struct {
	mock.Mock
}

func (m *MockBankProvider) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockBankProvider) ExchangeToken(ctx context.Context, publicToken string) (*provider.TokenExchange, error) {
	args := m.Called(ctx, publicToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.TokenExchange), args.Error(1)
}

func (m *MockBankProvider) GetAccounts(ctx context.Context, accessToken string) (*provider.AccountList, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.AccountList), args.Error(1)
}

func (m *MockBankProvider) GetAuth(ctx context.Context, accessToken string) ([]provider.VerifiedNumbers, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.VerifiedNumbers), args.Error(1)
}

type MockPaymentAccountProvider struct {
	mock.Mock
}

func (m *MockPaymentAccountProvider) CreateAccount(ctx context.Context, req *provider.CreatePaymentAccountRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentAccountProvider) CreateOnboardingLink(ctx context.Context, accountID, returnURL, refreshURL string) (string, error) {
	args := m.Called(ctx, accountID, returnURL, refreshURL)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentAccountProvider) RetrieveAccount(ctx context.Context, accountID string) (*provider.AccountCapabilities, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.AccountCapabilities), args.Error(1)
}

type MockNotificationDispatcher struct {
	mock.Mock
}

func (m *MockNotificationDispatcher) Dispatch(ctx context.Context, n *provider.Notification) error {
	return m.Called(ctx, n).Error(0)
}

// MockSealer avoids pulling real key material into service tests.
type MockSealer struct {
	mock.Mock
}

func (m *MockSealer) Seal(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *MockSealer) Open(sealed string) (string, error) {
	args := m.Called(sealed)
	return args.String(0), args.Error(1)
}
