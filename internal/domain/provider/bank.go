package provider

import "context"

// BankProvider converts short-lived client-side linking tokens into durable,
// verified bank account details through an aggregation provider.
type BankProvider interface {
	// CreateLinkToken mints the token the client-side widget needs to
	// start a linking flow.
	CreateLinkToken(ctx context.Context, userID string) (string, error)

	// ExchangeToken trades a public token for a durable access credential.
	ExchangeToken(ctx context.Context, publicToken string) (*TokenExchange, error)

	// GetAccounts enumerates the accounts linked under an access token.
	GetAccounts(ctx context.Context, accessToken string) (*AccountList, error)

	// GetAuth retrieves verified routing/account numbers for the linked
	// accounts.
	GetAuth(ctx context.Context, accessToken string) ([]VerifiedNumbers, error)
}

// TokenExchange is the result of a public-token exchange.
type TokenExchange struct {
	AccessToken string
	ItemID      string
}

// AccountList is a server-side enumeration of linked accounts. It may differ
// from what the client-side widget advertised.
type AccountList struct {
	InstitutionID   string
	InstitutionName string
	Accounts        []BankAccount
}

// BankAccount is one account in a linked item.
type BankAccount struct {
	ID      string
	Name    string
	Mask    string
	Subtype string
}

// VerifiedNumbers carries provider-verified routing and account numbers for
// one account.
type VerifiedNumbers struct {
	AccountID     string
	AccountNumber string
	RoutingNumber string
}
