package plaid

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockBankLink synthesizes bank-link results for demo environments.
type MockBankLink struct{}

// NewMockBankLink creates the demo bank-link adapter.
func NewMockBankLink() *MockBankLink {
	return &MockBankLink{}
}

// Mock reports that this adapter returns synthetic data.
func (m *MockBankLink) Mock() bool {
	return true
}

// CreateLinkToken returns a demo link token.
func (m *MockBankLink) CreateLinkToken(_ context.Context, userID string) (string, error) {
	return fmt.Sprintf("link-demo-%s-%s", userID, uuid.NewString()[:8]), nil
}

// ExchangePublicToken returns a demo access token and item id.
func (m *MockBankLink) ExchangePublicToken(_ context.Context, _ string) (*ExchangeResult, error) {
	return &ExchangeResult{
		AccessToken: "access-demo-" + uuid.NewString(),
		ItemID:      "item-demo-" + uuid.NewString()[:8],
		IsMock:      true,
	}, nil
}

// CreateTransfer returns a pending demo transfer for any positive amount.
func (m *MockBankLink) CreateTransfer(_ context.Context, _, _ string, amount decimal.Decimal, direction string) (*Transfer, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("transfer amount must be positive, got %s", amount)
	}
	if direction != DirectionDeposit && direction != DirectionWithdraw {
		return nil, fmt.Errorf("unknown transfer direction %q", direction)
	}

	return &Transfer{
		ID:        "transfer-demo-" + uuid.NewString(),
		Amount:    amount,
		Direction: direction,
		Status:    "pending",
		IsMock:    true,
	}, nil
}
