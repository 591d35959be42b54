package mastercard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a normalized open-banking transaction.
type Transaction struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	MerchantName string          `json:"merchant_name,omitempty"`
	Category     string          `json:"category"`
	PostedAt     time.Time       `json:"posted_at"`
}

// Institution is a financial institution available through Connect.
type Institution struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	LogoURL string `json:"logo_url,omitempty"`
}

// ConnectSession is the result of exchanging a Connect authorization code.
type ConnectSession struct {
	CustomerID string `json:"customer_id"`
	IsMock     bool   `json:"is_mock,omitempty"`
}

// OpenBanking is the aggregator adapter. Client talks to the real partner API;
// MockOpenBanking serves deterministic demo data when partner credentials are
// absent.
type OpenBanking interface {
	GenerateConnectURL(ctx context.Context, userID string) (string, error)
	ExchangeConnectCode(ctx context.Context, code, userID string) (*ConnectSession, error)
	ListTransactions(ctx context.Context, customerID, accountID string, from, to time.Time) ([]Transaction, error)
	SearchInstitutions(ctx context.Context, query string) ([]Institution, error)
	Mock() bool
}
