// Package plaidbank implements bank account linking through the Plaid
// aggregation API.
package plaidbank

import (
	"context"
	"strings"

	"github.com/plaid/plaid-go/v27/plaid"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/domain/provider"
)

const providerName = "plaid"

// BankProvider implements provider.BankProvider on the Plaid API.
type BankProvider struct {
	client *plaid.APIClient
	logger *zap.Logger
}

// NewBankProvider builds a Plaid client for the given environment
// (sandbox or production).
func NewBankProvider(clientID, secret, environment string, logger *zap.Logger) *BankProvider {
	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	configuration.AddDefaultHeader("PLAID-SECRET", secret)
	configuration.UseEnvironment(plaidEnvironment(environment))

	return &BankProvider{
		client: plaid.NewAPIClient(configuration),
		logger: logger,
	}
}

func plaidEnvironment(environment string) plaid.Environment {
	if strings.EqualFold(environment, "production") {
		return plaid.Production
	}
	return plaid.Sandbox
}

// CreateLinkToken mints a short-lived token the client-side Link widget
// needs to start a flow.
func (p *BankProvider) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	user := plaid.LinkTokenCreateRequestUser{ClientUserId: userID}
	request := plaid.NewLinkTokenCreateRequest("Bookwell", "en", []plaid.CountryCode{plaid.COUNTRYCODE_US}, user)
	request.SetProducts([]plaid.Products{plaid.PRODUCTS_AUTH})

	resp, _, err := p.client.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*request).Execute()
	if err != nil {
		return "", wrapPlaidErr("failed to create link token", err)
	}
	return resp.GetLinkToken(), nil
}

// ExchangeToken trades a public token for a durable access token.
func (p *BankProvider) ExchangeToken(ctx context.Context, publicToken string) (*provider.TokenExchange, error) {
	request := plaid.NewItemPublicTokenExchangeRequest(publicToken)

	resp, _, err := p.client.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*request).Execute()
	if err != nil {
		return nil, wrapPlaidErr("failed to exchange public token", err)
	}
	return &provider.TokenExchange{
		AccessToken: resp.GetAccessToken(),
		ItemID:      resp.GetItemId(),
	}, nil
}

// GetAccounts enumerates the accounts linked under an access token,
// server-side. The institution name lookup is best effort.
func (p *BankProvider) GetAccounts(ctx context.Context, accessToken string) (*provider.AccountList, error) {
	request := plaid.NewAccountsGetRequest(accessToken)

	resp, _, err := p.client.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*request).Execute()
	if err != nil {
		return nil, wrapPlaidErr("failed to fetch accounts", err)
	}

	item := resp.GetItem()
	list := &provider.AccountList{
		InstitutionID:   item.GetInstitutionId(),
		InstitutionName: p.institutionName(ctx, item.GetInstitutionId()),
	}
	for _, account := range resp.GetAccounts() {
		subtype := ""
		if s, ok := account.GetSubtypeOk(); ok && s != nil {
			subtype = string(*s)
		}
		list.Accounts = append(list.Accounts, provider.BankAccount{
			ID:      account.GetAccountId(),
			Name:    account.GetName(),
			Mask:    account.GetMask(),
			Subtype: subtype,
		})
	}
	return list, nil
}

// GetAuth retrieves verified ACH routing and account numbers.
func (p *BankProvider) GetAuth(ctx context.Context, accessToken string) ([]provider.VerifiedNumbers, error) {
	request := plaid.NewAuthGetRequest(accessToken)

	resp, _, err := p.client.PlaidApi.AuthGet(ctx).AuthGetRequest(*request).Execute()
	if err != nil {
		return nil, wrapPlaidErr("failed to fetch auth numbers", err)
	}

	var numbers []provider.VerifiedNumbers
	for _, ach := range resp.GetNumbers().Ach {
		numbers = append(numbers, provider.VerifiedNumbers{
			AccountID:     ach.GetAccountId(),
			AccountNumber: ach.GetAccount(),
			RoutingNumber: ach.GetRouting(),
		})
	}
	return numbers, nil
}

func (p *BankProvider) institutionName(ctx context.Context, institutionID string) string {
	if institutionID == "" {
		return ""
	}
	request := plaid.NewInstitutionsGetByIdRequest(institutionID, []plaid.CountryCode{plaid.COUNTRYCODE_US})

	resp, _, err := p.client.PlaidApi.InstitutionsGetById(ctx).InstitutionsGetByIdRequest(*request).Execute()
	if err != nil {
		p.logger.Warn("institution name lookup failed",
			zap.String("institution_id", institutionID),
			zap.Error(err))
		return ""
	}
	return resp.GetInstitution().Name
}

func wrapPlaidErr(message string, err error) error {
	kind := provider.FailureTransport
	code := ""
	if plaidErr, convErr := plaid.ToPlaidError(err); convErr == nil {
		code = plaidErr.GetErrorCode()
		switch plaidErr.GetErrorType() {
		case "INVALID_REQUEST", "INVALID_INPUT", "ITEM_ERROR":
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
