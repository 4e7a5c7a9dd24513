// Package stripeconnect provisions Stripe Express connected accounts and
// drives them through hosted onboarding.
package stripeconnect

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/account"
	"github.com/stripe/stripe-go/v79/accountlink"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
	"github.com/bookwell/onboarding-service/internal/domain/provider"
)

const providerName = "stripe"

// ConnectProvider implements provider.PaymentAccountProvider on Stripe
// Connect Express accounts.
type ConnectProvider struct {
	logger *zap.Logger
}

// NewConnectProvider creates a new Connect provider. The package-level
// stripe.Key must already be set.
func NewConnectProvider(logger *zap.Logger) *ConnectProvider {
	return &ConnectProvider{
		logger: logger,
	}
}

// CreateAccount provisions a minimal US Express account with card payments
// and transfers requested and a weekly Friday payout schedule. The rest of
// the profile is collected by Stripe's hosted onboarding, not by us.
func (p *ConnectProvider) CreateAccount(ctx context.Context, req *provider.CreatePaymentAccountRequest) (string, error) {
	params := &stripe.AccountParams{
		Type:    stripe.String(string(stripe.AccountTypeExpress)),
		Country: stripe.String("US"),
		Email:   stripe.String(req.Email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{
				Requested: stripe.Bool(true),
			},
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
		BusinessType: stripe.String(stripeBusinessType(req.BusinessType)),
		BusinessProfile: &stripe.AccountBusinessProfileParams{
			Name: stripe.String(req.BusinessName),
		},
		Settings: &stripe.AccountSettingsParams{
			Payouts: &stripe.AccountSettingsPayoutsParams{
				Schedule: &stripe.AccountSettingsPayoutsScheduleParams{
					Interval:     stripe.String("weekly"),
					WeeklyAnchor: stripe.String("friday"),
				},
			},
		},
	}
	params.Context = ctx

	acct, err := account.New(params)
	if err != nil {
		return "", wrapStripeErr("failed to create connected account", err)
	}

	p.logger.Info("connected account created",
		zap.String("account_id", acct.ID),
		zap.String("business_name", req.BusinessName))
	return acct.ID, nil
}

// CreateOnboardingLink mints a single-use hosted onboarding URL.
func (p *ConnectProvider) CreateOnboardingLink(ctx context.Context, accountID, returnURL, refreshURL string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		ReturnURL:  stripe.String(returnURL),
		RefreshURL: stripe.String(refreshURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx

	link, err := accountlink.New(params)
	if err != nil {
		return "", wrapStripeErr("failed to create onboarding link", err)
	}
	return link.URL, nil
}

// RetrieveAccount fetches the account's capability flags.
func (p *ConnectProvider) RetrieveAccount(ctx context.Context, accountID string) (*provider.AccountCapabilities, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx

	acct, err := account.GetByID(accountID, params)
	if err != nil {
		return nil, wrapStripeErr("failed to retrieve connected account", err)
	}
	return &provider.AccountCapabilities{
		ChargesEnabled:   acct.ChargesEnabled,
		PayoutsEnabled:   acct.PayoutsEnabled,
		DetailsSubmitted: acct.DetailsSubmitted,
	}, nil
}

func stripeBusinessType(t entity.BusinessType) string {
	switch t {
	case entity.BusinessTypeLLC, entity.BusinessTypeCorporation:
		return "company"
	default:
		return "individual"
	}
}

func wrapStripeErr(message string, err error) error {
	kind := provider.FailureTransport
	code := ""
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		code = string(stripeErr.Code)
		if stripeErr.HTTPStatusCode >= 400 && stripeErr.HTTPStatusCode < 500 {
			kind = provider.FailureRejection
		}
	}
	return &provider.Error{
		Provider: providerName,
		Kind:     kind,
		Code:     code,
		Message:  message,
		Err:      err,
	}
}
