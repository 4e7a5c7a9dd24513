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

// ConnectOnboardingResult is the response to a create-or-resume request.
type ConnectOnboardingResult struct {
	OnboardingURL string             `json:"onboarding_url"`
	AccountID     string             `json:"account_id"`
	Created       bool               `json:"created"`
	Persistence   PersistenceOutcome `json:"persistence"`
}

// PaymentAccountService provisions processor sub-accounts and keeps their
// capability flags in sync with the processor.
type PaymentAccountService struct {
	accounts   repository.PaymentAccountRepository
	businesses repository.BusinessRepository
	staff      repository.StaffRepository
	progress   repository.SetupProgressRepository
	payments   provider.PaymentAccountProvider
	returnURL  string
	refreshURL string
	logger     *zap.Logger
}

// NewPaymentAccountService creates a new payment account service. returnURL
// and refreshURL are where hosted onboarding sends the user afterwards.
func NewPaymentAccountService(
	accounts repository.PaymentAccountRepository,
	businesses repository.BusinessRepository,
	staff repository.StaffRepository,
	progress repository.SetupProgressRepository,
	payments provider.PaymentAccountProvider,
	returnURL, refreshURL string,
	logger *zap.Logger,
) *PaymentAccountService {
	return &PaymentAccountService{
		accounts:   accounts,
		businesses: businesses,
		staff:      staff,
		progress:   progress,
		payments:   payments,
		returnURL:  returnURL,
		refreshURL: refreshURL,
		logger:     logger,
	}
}

// CreateOrResume provisions the business's processor sub-account on first
// call and mints a fresh hosted-onboarding link on every call: provisioning
// is create-once, onboarding-link-many. When remote creation succeeds but
// local persistence fails, the link is still returned; the remote account
// is the source of truth for what the user must complete, and the local gap
// is logged for reconciliation instead of blocking the user.
func (s *PaymentAccountService) CreateOrResume(ctx context.Context, userID, businessID uuid.UUID) (*ConnectOnboardingResult, error) {
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
	if business.VerificationStatus != entity.VerificationStatusApproved {
		return nil, apperror.Conflict("business is not approved")
	}

	existing, err := s.accounts.GetByBusinessID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up payment account: %w", err)
	}
	if existing != nil {
		link, err := s.payments.CreateOnboardingLink(ctx, existing.StripeAccountID, s.returnURL, s.refreshURL)
		if err != nil {
			return nil, apperror.Wrap(apperror.KindProvider, "failed to create onboarding link", err)
		}
		return &ConnectOnboardingResult{
			OnboardingURL: link,
			AccountID:     existing.StripeAccountID,
			Persistence:   persistenceOK(),
		}, nil
	}

	accountID, err := s.payments.CreateAccount(ctx, &provider.CreatePaymentAccountRequest{
		BusinessName: business.Name,
		BusinessType: business.BusinessType,
		Email:        business.Email,
	})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindProvider, "failed to create payment account", err)
	}

	result := &ConnectOnboardingResult{AccountID: accountID, Created: true, Persistence: persistenceOK()}

	if err := s.persistNewAccount(ctx, businessID, accountID); err != nil {
		s.logger.Error("failed to persist payment account after remote creation",
			zap.String("business_id", businessID.String()),
			zap.String("stripe_account_id", accountID),
			zap.Error(err))
		result.Persistence = persistenceFailed(err)
	}

	link, err := s.payments.CreateOnboardingLink(ctx, accountID, s.returnURL, s.refreshURL)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindProvider, "failed to create onboarding link", err)
	}
	result.OnboardingURL = link

	s.logger.Info("payment account provisioned",
		zap.String("business_id", businessID.String()),
		zap.String("stripe_account_id", accountID))
	return result, nil
}

// SyncStatus polls the processor for the account's capability flags and
// applies them locally. This and the webhook path are the only writers of
// the capability columns.
func (s *PaymentAccountService) SyncStatus(ctx context.Context, userID, businessID uuid.UUID) (*entity.PaymentAccount, error) {
	member, err := s.staff.GetActiveByUserAndBusiness(ctx, userID, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to check staff association: %w", err)
	}
	if member == nil {
		return nil, apperror.Forbidden("user is not active staff of this business")
	}

	account, err := s.accounts.GetByBusinessID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up payment account: %w", err)
	}
	if account == nil {
		return nil, apperror.NotFound("no payment account for business")
	}

	caps, err := s.payments.RetrieveAccount(ctx, account.StripeAccountID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindProvider, "failed to retrieve account status", err)
	}

	if err := s.ApplyCapabilities(ctx, account.StripeAccountID, caps); err != nil {
		return nil, err
	}

	account.ChargesEnabled = caps.ChargesEnabled
	account.PayoutsEnabled = caps.PayoutsEnabled
	account.DetailsSubmitted = caps.DetailsSubmitted
	return account, nil
}

// ApplyCapabilities writes processor-reported capability flags for the given
// account, shared by the poll path and the webhook path. When both
// capabilities come up the setup progress is stamped complete.
func (s *PaymentAccountService) ApplyCapabilities(ctx context.Context, stripeAccountID string, caps *provider.AccountCapabilities) error {
	account, err := s.accounts.GetByStripeAccountID(ctx, stripeAccountID)
	if err != nil {
		return fmt.Errorf("failed to look up payment account %s: %w", stripeAccountID, err)
	}
	if account == nil {
		// Webhooks can arrive for accounts we failed to persist; the
		// reconciliation logged at creation covers this.
		s.logger.Warn("capability update for unknown account",
			zap.String("stripe_account_id", stripeAccountID))
		return apperror.NotFound("unknown payment account")
	}

	if err := s.accounts.UpdateCapabilities(ctx, stripeAccountID, caps.ChargesEnabled, caps.PayoutsEnabled, caps.DetailsSubmitted); err != nil {
		return fmt.Errorf("failed to update capabilities for %s: %w", stripeAccountID, err)
	}

	if caps.ChargesEnabled && caps.PayoutsEnabled {
		if err := s.completeProgress(ctx, account.BusinessID); err != nil {
			s.logger.Warn("failed to stamp payment completion",
				zap.String("business_id", account.BusinessID.String()),
				zap.Error(err))
		}
	}
	return nil
}

func (s *PaymentAccountService) persistNewAccount(ctx context.Context, businessID uuid.UUID, stripeAccountID string) error {
	account := &entity.PaymentAccount{
		ID:              uuid.New(),
		BusinessID:      businessID,
		StripeAccountID: stripeAccountID,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return fmt.Errorf("account row: %w", err)
	}
	if err := s.businesses.SetStripeAccountID(ctx, businessID, stripeAccountID); err != nil {
		return fmt.Errorf("business reference: %w", err)
	}
	return nil
}

func (s *PaymentAccountService) completeProgress(ctx context.Context, businessID uuid.UUID) error {
	progress, err := s.progress.GetByBusinessID(ctx, businessID)
	if err != nil {
		return err
	}
	if progress == nil {
		progress = &entity.SetupProgress{ID: uuid.New(), BusinessID: businessID, Phase1Completed: true}
	}
	now := time.Now().UTC()
	progress.PaymentCompletedAt = &now
	progress.Phase2Completed = true
	progress.CurrentStep = string(StepComplete)
	return s.progress.Upsert(ctx, progress)
}
