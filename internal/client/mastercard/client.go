package mastercard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	httpclient "jaspire-api/internal/client/http"
)

// Partner access tokens are valid for two hours; refresh with headroom.
const tokenLifetime = 90 * time.Minute

// Client is the real open-banking aggregator adapter.
type Client struct {
	partnerID     string
	partnerSecret string
	appKey        string
	httpClient    *httpclient.HTTPClient

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates an aggregator client for the given partner credentials.
func NewClient(baseURL, partnerID, partnerSecret, appKey string) *Client {
	return &Client{
		partnerID:     partnerID,
		partnerSecret: partnerSecret,
		appKey:        appKey,
		httpClient: httpclient.NewHTTPClient(
			httpclient.WithBaseURL(baseURL),
			httpclient.WithDefaultHeader("Finicity-App-Key", appKey),
		),
	}
}

// Mock reports that this adapter talks to the real aggregator.
func (c *Client) Mock() bool {
	return false
}

// authenticate obtains a partner access token, reusing a cached one until it
// nears expiry.
func (c *Client) authenticate(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	body := map[string]string{
		"partnerId":     c.partnerID,
		"partnerSecret": c.partnerSecret,
	}
	resp, err := c.httpClient.Post(ctx, "/aggregation/v2/partners/authentication", body)
	if err != nil {
		return "", errors.Wrap(err, "partner authentication failed")
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := c.httpClient.ProcessJSONResponse(resp, &result); err != nil {
		return "", errors.Wrap(err, "failed to parse partner authentication response")
	}

	c.token = result.Token
	c.tokenExpiry = time.Now().Add(tokenLifetime)
	return c.token, nil
}

// GenerateConnectURL creates a Connect URL the client app embeds to let the
// user link an institution.
func (c *Client) GenerateConnectURL(ctx context.Context, userID string) (string, error) {
	token, err := c.authenticate(ctx)
	if err != nil {
		return "", err
	}

	body := map[string]string{
		"partnerId":  c.partnerID,
		"customerId": userID,
	}
	resp, err := c.httpClient.Post(ctx, "/connect/v2/generate", body,
		httpclient.WithHeader("Finicity-App-Token", token),
	)
	if err != nil {
		return "", errors.Wrap(err, "connect URL generation failed")
	}

	var result struct {
		Link string `json:"link"`
	}
	if err := c.httpClient.ProcessJSONResponse(resp, &result); err != nil {
		return "", errors.Wrap(err, "failed to parse connect URL response")
	}

	return result.Link, nil
}

// ExchangeConnectCode finalizes a Connect session, yielding the aggregator
// customer id to store on the user's profile.
func (c *Client) ExchangeConnectCode(ctx context.Context, code, userID string) (*ConnectSession, error) {
	token, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]string{
		"code":       code,
		"customerId": userID,
	}
	resp, err := c.httpClient.Post(ctx, "/connect/v2/exchange", body,
		httpclient.WithHeader("Finicity-App-Token", token),
	)
	if err != nil {
		return nil, errors.Wrap(err, "connect code exchange failed")
	}

	var result struct {
		CustomerID string `json:"customerId"`
	}
	if err := c.httpClient.ProcessJSONResponse(resp, &result); err != nil {
		return nil, errors.Wrap(err, "failed to parse connect exchange response")
	}

	return &ConnectSession{CustomerID: result.CustomerID}, nil
}

// ListTransactions fetches posted transactions for one linked account.
func (c *Client) ListTransactions(ctx context.Context, customerID, accountID string, from, to time.Time) ([]Transaction, error) {
	token, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/aggregation/v4/customers/%s/accounts/%s/transactions", customerID, accountID)
	resp, err := c.httpClient.Get(ctx, path,
		httpclient.WithHeader("Finicity-App-Token", token),
		httpclient.WithQueryParam("fromDate", fmt.Sprintf("%d", from.Unix())),
		httpclient.WithQueryParam("toDate", fmt.Sprintf("%d", to.Unix())),
	)
	if err != nil {
		return nil, errors.Wrap(err, "transaction fetch failed")
	}

	var result struct {
		Transactions []struct {
			ID              int64   `json:"id"`
			AccountID       int64   `json:"accountId"`
			Amount          float64 `json:"amount"`
			Description     string  `json:"description"`
			NormalizedPayee string  `json:"normalizedPayeeName"`
			Categorization  struct {
				Category string `json:"category"`
			} `json:"categorization"`
			PostedDate int64 `json:"postedDate"`
		} `json:"transactions"`
	}
	if err := c.httpClient.ProcessJSONResponse(resp, &result); err != nil {
		return nil, errors.Wrap(err, "failed to parse transactions response")
	}

	transactions := make([]Transaction, 0, len(result.Transactions))
	for _, t := range result.Transactions {
		transactions = append(transactions, Transaction{
			ID:           fmt.Sprintf("%d", t.ID),
			AccountID:    fmt.Sprintf("%d", t.AccountID),
			Amount:       decimal.NewFromFloat(t.Amount),
			Description:  t.Description,
			MerchantName: t.NormalizedPayee,
			Category:     t.Categorization.Category,
			PostedAt:     time.Unix(t.PostedDate, 0).UTC(),
		})
	}

	return transactions, nil
}

// SearchInstitutions looks up institutions by name.
func (c *Client) SearchInstitutions(ctx context.Context, query string) ([]Institution, error) {
	token, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, "/institution/v2/institutions",
		httpclient.WithHeader("Finicity-App-Token", token),
		httpclient.WithQueryParam("search", query),
	)
	if err != nil {
		return nil, errors.Wrap(err, "institution search failed")
	}

	var result struct {
		Institutions []struct {
			ID      int64  `json:"id"`
			Name    string `json:"name"`
			URLHome string `json:"urlHomeApp"`
			Branding struct {
				Logo string `json:"logo"`
			} `json:"branding"`
		} `json:"institutions"`
	}
	if err := c.httpClient.ProcessJSONResponse(resp, &result); err != nil {
		return nil, errors.Wrap(err, "failed to parse institutions response")
	}

	institutions := make([]Institution, 0, len(result.Institutions))
	for _, inst := range result.Institutions {
		institutions = append(institutions, Institution{
			ID:      fmt.Sprintf("%d", inst.ID),
			Name:    inst.Name,
			URL:     inst.URLHome,
			LogoURL: inst.Branding.Logo,
		})
	}

	return institutions, nil
}
