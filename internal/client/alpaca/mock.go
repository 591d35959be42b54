package alpaca

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MockBroker synthesizes account-creation results for demo environments where
// no broker credentials are configured. Every call yields a fresh account id
// and number so repeated onboarding attempts remain distinguishable.
type MockBroker struct{}

// NewMockBroker creates the demo broker adapter.
func NewMockBroker() *MockBroker {
	return &MockBroker{}
}

// Mock reports that this adapter returns synthetic accounts.
func (m *MockBroker) Mock() bool {
	return true
}

// CreateAccount returns a synthetic SUBMITTED account derived from a fresh
// uuid. The shape matches the real broker response so downstream persistence
// is identical on both paths.
func (m *MockBroker) CreateAccount(_ context.Context, req CreateAccountRequest) (*Account, error) {
	id := uuid.New()

	account := &Account{
		ID:            id.String(),
		AccountNumber: mockAccountNumber(id),
		Status:        "SUBMITTED",
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		IsMock:        true,
	}

	raw, err := json.Marshal(map[string]interface{}{
		"id":             account.ID,
		"account_number": account.AccountNumber,
		"status":         account.Status,
		"created_at":     account.CreatedAt,
		"contact":        req.Contact,
		"mock":           true,
	})
	if err != nil {
		return nil, err
	}
	account.Raw = raw

	return account, nil
}

// mockAccountNumber derives an 8-digit account number with a demo prefix from
// the uuid bytes.
func mockAccountNumber(id uuid.UUID) string {
	b := id[:]
	n := (uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])) % 100000000
	return fmt.Sprintf("JSP%08d", n)
}
