package mastercard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockOpenBanking_TransactionsAreDeterministic(t *testing.T) {
	m := NewMockOpenBanking()
	assert.True(t, m.Mock())

	from := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 7, 0, 0, 0, 0, time.UTC)

	first, err := m.ListTransactions(context.Background(), "demo-1", "acct-1", from, to)
	require.NoError(t, err)
	second, err := m.ListTransactions(context.Background(), "demo-1", "acct-1", from, to)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// At least one transaction per day in the range.
	assert.GreaterOrEqual(t, len(first), 7)
	for _, txn := range first {
		assert.True(t, txn.Amount.IsPositive())
		assert.NotEmpty(t, txn.MerchantName)
		assert.False(t, txn.PostedAt.Before(from))
	}

	// A different account sees a different feed.
	other, err := m.ListTransactions(context.Background(), "demo-1", "acct-2", from, to)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestMockOpenBanking_InvalidRange(t *testing.T) {
	m := NewMockOpenBanking()

	from := time.Date(2025, 8, 7, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := m.ListTransactions(context.Background(), "demo-1", "acct-1", from, to)
	assert.Error(t, err)
}

func TestMockOpenBanking_SearchInstitutions(t *testing.T) {
	m := NewMockOpenBanking()

	all, err := m.SearchInstitutions(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, len(mockInstitutions))

	matches, err := m.SearchInstitutions(context.Background(), "chase")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Chase Bank", matches[0].Name)

	none, err := m.SearchInstitutions(context.Background(), "nonexistent bank")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMockOpenBanking_ConnectFlow(t *testing.T) {
	m := NewMockOpenBanking()

	url, err := m.GenerateConnectURL(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Contains(t, url, "user-1")

	session, err := m.ExchangeConnectCode(context.Background(), "code-abc", "user-1")
	require.NoError(t, err)
	assert.True(t, session.IsMock)
	assert.NotEmpty(t, session.CustomerID)

	// The same user always maps to the same demo customer.
	again, err := m.ExchangeConnectCode(context.Background(), "code-xyz", "user-1")
	require.NoError(t, err)
	assert.Equal(t, session.CustomerID, again.CustomerID)
}
