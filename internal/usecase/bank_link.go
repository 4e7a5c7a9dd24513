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
	"github.com/bookwell/onboarding-service/internal/infrastructure/crypto"
)

// BankLinkResult carries the stored connection and the outcome of the
// best-effort writes that followed the successful exchange.
type BankLinkResult struct {
	Connection  *entity.BankConnection `json:"connection"`
	Persistence PersistenceOutcome     `json:"persistence"`
}

// BankLinkService converts short-lived client-side linking tokens into a
// durable, verified bank connection.
type BankLinkService struct {
	connections repository.BankConnectionRepository
	businesses  repository.BusinessRepository
	staff       repository.StaffRepository
	progress    repository.SetupProgressRepository
	bank        provider.BankProvider
	sealer      crypto.Sealer
	logger      *zap.Logger
}

// NewBankLinkService creates a new bank-link service.
func NewBankLinkService(
	connections repository.BankConnectionRepository,
	businesses repository.BusinessRepository,
	staff repository.StaffRepository,
	progress repository.SetupProgressRepository,
	bank provider.BankProvider,
	sealer crypto.Sealer,
	logger *zap.Logger,
) *BankLinkService {
	return &BankLinkService{
		connections: connections,
		businesses:  businesses,
		staff:       staff,
		progress:    progress,
		bank:        bank,
		sealer:      sealer,
		logger:      logger,
	}
}

// CreateLinkToken mints the client-side token that opens the linking widget.
func (s *BankLinkService) CreateLinkToken(ctx context.Context, userID, businessID uuid.UUID) (string, error) {
	if err := s.authorize(ctx, userID, businessID); err != nil {
		return "", err
	}
	token, err := s.bank.CreateLinkToken(ctx, userID.String())
	if err != nil {
		return "", apperror.Wrap(apperror.KindProvider, "failed to create link token", err)
	}
	return token, nil
}

// Exchange trades the public token for durable credentials, verifies the
// selected account, and upserts the single bank connection for the business.
// The selected account must appear in the provider's server-side enumeration
// (the widget's view and ours can race) and must have verifiable numbers.
// Once the row is written, the business flag and progress updates are
// best-effort: the exchange with the provider is not reversible without an
// explicit unlink, so a failure there is an accepted, logged inconsistency
// window rather than a rollback.
func (s *BankLinkService) Exchange(ctx context.Context, userID, businessID uuid.UUID, publicToken, accountID string) (*BankLinkResult, error) {
	if publicToken == "" || accountID == "" {
		return nil, apperror.Validation("public token and account id are required")
	}
	if err := s.authorize(ctx, userID, businessID); err != nil {
		return nil, err
	}

	exchange, err := s.bank.ExchangeToken(ctx, publicToken)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindProvider, "failed to exchange public token", err)
	}

	accounts, err := s.bank.GetAccounts(ctx, exchange.AccessToken)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindProvider, "failed to list linked accounts", err)
	}
	var selected *provider.BankAccount
	for i := range accounts.Accounts {
		if accounts.Accounts[i].ID == accountID {
			selected = &accounts.Accounts[i]
			break
		}
	}
	if selected == nil {
		return nil, apperror.Newf(apperror.KindNotFound, "account %s not found in linked item", accountID)
	}

	numbers, err := s.bank.GetAuth(ctx, exchange.AccessToken)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindProvider, "failed to verify account numbers", err)
	}
	var verified *provider.VerifiedNumbers
	for i := range numbers {
		if numbers[i].AccountID == accountID {
			verified = &numbers[i]
			break
		}
	}
	if verified == nil {
		return nil, apperror.Newf(apperror.KindProvider, "provider could not verify numbers for account %s", accountID)
	}

	sealed, err := s.sealer.Seal(exchange.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	connection := &entity.BankConnection{
		ID:                   uuid.New(),
		BusinessID:           businessID,
		LinkedBy:             userID,
		ItemID:               exchange.ItemID,
		InstitutionID:        accounts.InstitutionID,
		InstitutionName:      accounts.InstitutionName,
		AccountID:            selected.ID,
		AccountName:          selected.Name,
		AccountMask:          selected.Mask,
		RoutingNumber:        verified.RoutingNumber,
		EncryptedAccessToken: sealed,
		Status:               "verified",
	}
	if err := s.connections.Upsert(ctx, connection); err != nil {
		// The exchange already succeeded remotely; without the row the
		// link is unusable, so this one write failure is surfaced.
		return nil, apperror.Wrap(apperror.KindPersistence, "failed to store bank connection", err)
	}

	result := &BankLinkResult{Connection: connection, Persistence: persistenceOK()}
	if err := s.markConnected(ctx, businessID); err != nil {
		s.logger.Error("failed to record bank connection side effects",
			zap.String("business_id", businessID.String()),
			zap.Error(err))
		result.Persistence = persistenceFailed(err)
	}

	s.logger.Info("bank account linked",
		zap.String("business_id", businessID.String()),
		zap.String("institution", accounts.InstitutionName),
		zap.String("account_mask", selected.Mask))
	return result, nil
}

func (s *BankLinkService) authorize(ctx context.Context, userID, businessID uuid.UUID) error {
	member, err := s.staff.GetActiveByUserAndBusiness(ctx, userID, businessID)
	if err != nil {
		return fmt.Errorf("failed to check staff association: %w", err)
	}
	if member == nil {
		return apperror.Forbidden("user is not active staff of this business")
	}
	return nil
}

func (s *BankLinkService) markConnected(ctx context.Context, businessID uuid.UUID) error {
	if err := s.businesses.SetBankConnected(ctx, businessID, true); err != nil {
		return fmt.Errorf("business flag: %w", err)
	}

	progress, err := s.progress.GetByBusinessID(ctx, businessID)
	if err != nil {
		return fmt.Errorf("progress lookup: %w", err)
	}
	if progress == nil {
		progress = &entity.SetupProgress{ID: uuid.New(), BusinessID: businessID, Phase1Completed: true}
	}
	now := time.Now().UTC()
	progress.BankCompletedAt = &now
	progress.CurrentStep = string(StepPaymentSetup)
	if err := s.progress.Upsert(ctx, progress); err != nil {
		return fmt.Errorf("progress update: %w", err)
	}
	return nil
}
