package provider

import (
	"context"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
)

// PaymentAccountProvider provisions processor sub-accounts and drives them to
// an operational state through hosted onboarding.
type PaymentAccountProvider interface {
	// CreateAccount provisions a minimal remote account and returns its
	// identifier.
	CreateAccount(ctx context.Context, req *CreatePaymentAccountRequest) (string, error)

	// CreateOnboardingLink mints a fresh hosted-onboarding URL for an
	// existing account. Links are single-use and short-lived; minting a
	// new one never mutates the account.
	CreateOnboardingLink(ctx context.Context, accountID, returnURL, refreshURL string) (string, error)

	// RetrieveAccount fetches the processor-reported capability flags.
	RetrieveAccount(ctx context.Context, accountID string) (*AccountCapabilities, error)
}

// CreatePaymentAccountRequest configures a new processor sub-account.
type CreatePaymentAccountRequest struct {
	BusinessName string
	BusinessType entity.BusinessType
	Email        string
}

// AccountCapabilities is the processor-reported operational state of a
// sub-account.
type AccountCapabilities struct {
	ChargesEnabled   bool
	PayoutsEnabled   bool
	DetailsSubmitted bool
}
