package alpaca

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	httpclient "jaspire-api/internal/client/http"
)

// Broker creates brokerage accounts. BrokerClient talks to the real broker
// API; MockBroker synthesizes demo accounts when credentials are absent.
type Broker interface {
	CreateAccount(ctx context.Context, req CreateAccountRequest) (*Account, error)
	Mock() bool
}

// BrokerClient is the real broker adapter. Requests authenticate with HTTP
// Basic auth using the API key pair.
type BrokerClient struct {
	apiKey     string
	apiSecret  string
	httpClient *httpclient.HTTPClient
}

// NewBrokerClient creates a broker client for the given base URL and key pair.
func NewBrokerClient(baseURL, apiKey, apiSecret string) *BrokerClient {
	return &BrokerClient{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		httpClient: httpclient.NewHTTPClient(
			httpclient.WithBaseURL(baseURL),
			// Account creation must not be retried blindly; repeated POSTs can
			// open duplicate accounts. Manual retry stays with the caller.
			httpclient.WithRetryConfig(nil),
		),
	}
}

// Mock reports that this adapter talks to the real broker.
func (c *BrokerClient) Mock() bool {
	return false
}

// CreateAccount performs a single authenticated POST to the broker's account
// endpoint and returns the normalized result plus the raw response body.
func (c *BrokerClient) CreateAccount(ctx context.Context, req CreateAccountRequest) (*Account, error) {
	resp, err := c.httpClient.Post(ctx, "/v1/accounts", req,
		httpclient.WithBasicAuth(c.apiKey, c.apiSecret),
	)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			switch httpErr.StatusCode {
			case http.StatusUnauthorized, http.StatusForbidden:
				return nil, ErrUnauthorized
			case http.StatusUnprocessableEntity, http.StatusBadRequest:
				return nil, &InvalidInputError{Message: providerErrorMessage(httpErr.Body)}
			}
		}
		return nil, errors.Wrap(err, "broker account creation failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read broker response")
	}

	var account Account
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, errors.Wrap(err, "failed to parse broker response")
	}
	account.Raw = raw

	return &account, nil
}

// providerErrorMessage pulls the human-readable message out of a broker error
// body, falling back to the raw body when it is not the expected JSON shape.
func providerErrorMessage(body string) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return body
}
