package plaid

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	httpclient "jaspire-api/internal/client/http"
)

// ExchangeResult is the outcome of exchanging a public token after Link.
type ExchangeResult struct {
	AccessToken string `json:"-"`
	ItemID      string `json:"item_id"`
	IsMock      bool   `json:"is_mock,omitempty"`
}

// Transfer is a normalized ACH transfer result.
type Transfer struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Direction string          `json:"direction"`
	Status    string          `json:"status"`
	IsMock    bool            `json:"is_mock,omitempty"`
}

// Transfer directions.
const (
	DirectionDeposit  = "deposit"
	DirectionWithdraw = "withdraw"
)

// BankLink links bank accounts and moves money. Client talks to the real
// API; MockBankLink synthesizes results when credentials are absent.
type BankLink interface {
	CreateLinkToken(ctx context.Context, userID string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error)
	CreateTransfer(ctx context.Context, accessToken, accountID string, amount decimal.Decimal, direction string) (*Transfer, error)
	Mock() bool
}

// Client is the real bank-link adapter. Credentials ride in every request
// body, per the provider's API convention.
type Client struct {
	clientID   string
	secret     string
	httpClient *httpclient.HTTPClient
}

// NewClient creates a bank-link client for the given environment
// (sandbox, development or production).
func NewClient(clientID, secret, environment string) *Client {
	return &Client{
		clientID: clientID,
		secret:   secret,
		httpClient: httpclient.NewHTTPClient(
			httpclient.WithBaseURL(fmt.Sprintf("https://%s.plaid.com", environment)),
		),
	}
}

// Mock reports that this adapter talks to the real provider.
func (c *Client) Mock() bool {
	return false
}

// CreateLinkToken starts a Link session for the given user.
func (c *Client) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	body := map[string]interface{}{
		"client_id":     c.clientID,
		"secret":        c.secret,
		"client_name":   "Jaspire",
		"language":      "en",
		"country_codes": []string{"US"},
		"user":          map[string]string{"client_user_id": userID},
		"products":      []string{"auth", "transactions", "transfer"},
	}

	resp, err := c.httpClient.Post(ctx, "/link/token/create", body)
	if err != nil {
		return "", errors.Wrap(err, "link token creation failed")
	}

	var result struct {
		LinkToken string `json:"link_token"`
	}
	if err := c.httpClient.ProcessJSONResponse(resp, &result); err != nil {
		return "", errors.Wrap(err, "failed to parse link token response")
	}

	return result.LinkToken, nil
}

// ExchangePublicToken swaps the public token from Link for a persistent
// access token.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error) {
	body := map[string]string{
		"client_id":    c.clientID,
		"secret":       c.secret,
		"public_token": publicToken,
	}

	resp, err := c.httpClient.Post(ctx, "/item/public_token/exchange", body)
	if err != nil {
		return nil, errors.Wrap(err, "public token exchange failed")
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ItemID      string `json:"item_id"`
	}
	if err := c.httpClient.ProcessJSONResponse(resp, &result); err != nil {
		return nil, errors.Wrap(err, "failed to parse token exchange response")
	}

	return &ExchangeResult{AccessToken: result.AccessToken, ItemID: result.ItemID}, nil
}

// CreateTransfer authorizes and creates an ACH transfer in sequence. The two
// calls are strictly sequential; a declined authorization stops the flow.
func (c *Client) CreateTransfer(ctx context.Context, accessToken, accountID string, amount decimal.Decimal, direction string) (*Transfer, error) {
	transferType := "debit"
	if direction == DirectionWithdraw {
		transferType = "credit"
	}

	authBody := map[string]interface{}{
		"client_id":    c.clientID,
		"secret":       c.secret,
		"access_token": accessToken,
		"account_id":   accountID,
		"type":         transferType,
		"network":      "ach",
		"amount":       amount.StringFixed(2),
		"ach_class":    "ppd",
	}

	resp, err := c.httpClient.Post(ctx, "/transfer/authorization/create", authBody)
	if err != nil {
		return nil, errors.Wrap(err, "transfer authorization failed")
	}

	var auth struct {
		Authorization struct {
			ID       string `json:"id"`
			Decision string `json:"decision"`
		} `json:"authorization"`
	}
	if err := c.httpClient.ProcessJSONResponse(resp, &auth); err != nil {
		return nil, errors.Wrap(err, "failed to parse transfer authorization response")
	}
	if auth.Authorization.Decision != "approved" {
		return nil, fmt.Errorf("transfer authorization declined: %s", auth.Authorization.Decision)
	}

	createBody := map[string]interface{}{
		"client_id":        c.clientID,
		"secret":           c.secret,
		"access_token":     accessToken,
		"account_id":       accountID,
		"authorization_id": auth.Authorization.ID,
		"amount":           amount.StringFixed(2),
		"description":      "Jaspire transfer",
	}

	resp, err = c.httpClient.Post(ctx, "/transfer/create", createBody)
	if err != nil {
		return nil, errors.Wrap(err, "transfer creation failed")
	}

	var created struct {
		Transfer struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"transfer"`
	}
	if err := c.httpClient.ProcessJSONResponse(resp, &created); err != nil {
		return nil, errors.Wrap(err, "failed to parse transfer response")
	}

	return &Transfer{
		ID:        created.Transfer.ID,
		Amount:    amount,
		Direction: direction,
		Status:    created.Transfer.Status,
	}, nil
}
