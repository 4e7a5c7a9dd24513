package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
	"github.com/bookwell/onboarding-service/internal/domain/repository"
)

// Phase is the coarse onboarding stage.
type Phase string

const (
	PhaseOne      Phase = "phase1"
	PhaseTwo      Phase = "phase2"
	PhaseComplete Phase = "complete"
)

// Step is the fine-grained onboarding step within a phase.
type Step string

const (
	StepSignup              Step = "signup"
	StepBusinessProfile     Step = "business_profile"
	StepDocuments           Step = "documents"
	StepReview              Step = "review"
	StepIdentityVerify      Step = "identity_verification"
	StepBankConnection      Step = "bank_connection"
	StepPaymentSetup        Step = "payment_setup"
	StepPaymentVerification Step = "payment_verification"
	StepComplete            Step = "complete"
)

// OnboardingState is the derived answer to "what step is this business on".
type OnboardingState struct {
	Phase              Phase                     `json:"phase"`
	Step               Step                      `json:"step"`
	NeedsOnboarding    bool                      `json:"needs_onboarding"`
	BusinessID         *uuid.UUID                `json:"business_id,omitempty"`
	VerificationStatus entity.VerificationStatus `json:"verification_status,omitempty"`
	ApplicationStatus  entity.ApplicationStatus  `json:"application_status,omitempty"`
	MissingDocuments   []entity.DocumentType     `json:"missing_documents,omitempty"`
}

// OnboardingStateService derives the current onboarding phase and step. The
// derivation is a pure function of persisted facts: calling it twice without
// intervening writes yields the same result. The stored current-step hint is
// never consulted, which removes the possibility of drift between a stored
// enum and the actual verification facts.
type OnboardingStateService struct {
	businesses      repository.BusinessRepository
	applications    repository.ApplicationRepository
	documents       repository.DocumentRepository
	paymentAccounts repository.PaymentAccountRepository
	logger          *zap.Logger
}

// NewOnboardingStateService creates a new state-derivation service.
func NewOnboardingStateService(
	businesses repository.BusinessRepository,
	applications repository.ApplicationRepository,
	documents repository.DocumentRepository,
	paymentAccounts repository.PaymentAccountRepository,
	logger *zap.Logger,
) *OnboardingStateService {
	return &OnboardingStateService{
		businesses:      businesses,
		applications:    applications,
		documents:       documents,
		paymentAccounts: paymentAccounts,
		logger:          logger,
	}
}

// Resolve computes the onboarding state for the given user. A lookup failure
// surfaces as an error; the service never invents a phase.
func (s *OnboardingStateService) Resolve(ctx context.Context, userID uuid.UUID) (*OnboardingState, error) {
	business, err := s.businesses.GetByOwnerUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up business for user %s: %w", userID, err)
	}
	if business == nil {
		return &OnboardingState{
			Phase:           PhaseOne,
			Step:            StepSignup,
			NeedsOnboarding: true,
		}, nil
	}

	if business.VerificationStatus != entity.VerificationStatusApproved {
		return s.resolvePhaseOne(ctx, business)
	}
	return s.resolvePhaseTwo(ctx, business)
}

func (s *OnboardingStateService) resolvePhaseOne(ctx context.Context, business *entity.Business) (*OnboardingState, error) {
	state := &OnboardingState{
		Phase:              PhaseOne,
		NeedsOnboarding:    true,
		BusinessID:         &business.ID,
		VerificationStatus: business.VerificationStatus,
	}

	if business.Name == "" {
		state.Step = StepBusinessProfile
		return state, nil
	}

	docs, err := s.documents.ListByBusinessID(ctx, business.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents for business %s: %w", business.ID, err)
	}
	if missing := entity.MissingDocumentTypes(business.BusinessType, docs); len(missing) > 0 {
		state.Step = StepDocuments
		state.MissingDocuments = missing
		return state, nil
	}

	// Documents are complete; the business is waiting on submission or an
	// administrator decision either way.
	state.Step = StepReview

	application, err := s.applications.GetByBusinessID(ctx, business.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up application for business %s: %w", business.ID, err)
	}
	if application != nil {
		state.ApplicationStatus = application.Status
	}
	return state, nil
}

func (s *OnboardingStateService) resolvePhaseTwo(ctx context.Context, business *entity.Business) (*OnboardingState, error) {
	state := &OnboardingState{
		Phase:              PhaseTwo,
		NeedsOnboarding:    true,
		BusinessID:         &business.ID,
		VerificationStatus: business.VerificationStatus,
	}

	if !business.IdentityVerified {
		state.Step = StepIdentityVerify
		return state, nil
	}
	if !business.BankConnected {
		state.Step = StepBankConnection
		return state, nil
	}

	account, err := s.paymentAccounts.GetByBusinessID(ctx, business.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up payment account for business %s: %w", business.ID, err)
	}
	if account == nil {
		state.Step = StepPaymentSetup
		return state, nil
	}
	if !account.Operational() {
		state.Step = StepPaymentVerification
		return state, nil
	}

	state.Phase = PhaseComplete
	state.Step = StepComplete
	state.NeedsOnboarding = false
	return state, nil
}
