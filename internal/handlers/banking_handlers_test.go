package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jaspire-api/internal/db"
)

func TestMastercard_ConnectFlowPersistsCustomerID(t *testing.T) {
	store := db.NewMemoryStore()
	r := newTestRouter(store)

	w := doJSON(r, "POST", "/api/mastercard/generate-connect-url", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var urlResp struct {
		Success bool   `json:"success"`
		Link    string `json:"link"`
		IsMock  bool   `json:"isMock"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &urlResp))
	assert.True(t, urlResp.Success)
	assert.True(t, urlResp.IsMock)
	assert.NotEmpty(t, urlResp.Link)

	w = doJSON(r, "POST", "/api/mastercard/exchange-connect-code", map[string]string{"code": "demo-code"})
	require.Equal(t, http.StatusOK, w.Code)

	var exchResp struct {
		CustomerID string `json:"customerId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exchResp))
	require.NotEmpty(t, exchResp.CustomerID)

	profile, err := store.GetUserProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, exchResp.CustomerID, profile.MastercardCustomerID)

	// Missing code is a 400.
	w = doJSON(r, "POST", "/api/mastercard/exchange-connect-code", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMastercard_TransactionsCarryCashback(t *testing.T) {
	store := db.NewMemoryStore()
	r := newTestRouter(store)

	w := doJSON(r, "GET", "/api/mastercard/transactions?accountId=acct-1&fromDate=2025-08-01&toDate=2025-08-07", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success       bool                      `json:"success"`
		Transactions  []TransactionWithCashback `json:"transactions"`
		TotalCashback string                    `json:"total_cashback"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotEmpty(t, resp.Transactions)

	for _, txn := range resp.Transactions {
		assert.True(t, txn.CashbackRate.IsPositive())
		assert.False(t, txn.CashbackAmount.IsNegative())
	}

	// accountId is required.
	w = doJSON(r, "GET", "/api/mastercard/transactions", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed dates are rejected.
	w = doJSON(r, "GET", "/api/mastercard/transactions?accountId=acct-1&fromDate=08/01/2025", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMastercard_Institutions(t *testing.T) {
	store := db.NewMemoryStore()
	r := newTestRouter(store)

	w := doJSON(r, "GET", "/api/mastercard/institutions?search=chase", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Institutions []struct {
			Name string `json:"name"`
		} `json:"institutions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Institutions, 1)
	assert.Equal(t, "Chase Bank", resp.Institutions[0].Name)
}

func TestPlaid_LinkAndTransfer(t *testing.T) {
	store := db.NewMemoryStore()
	r := newTestRouter(store)

	w := doJSON(r, "POST", "/api/plaid/create-link-token", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "POST", "/api/plaid/exchange-public-token", map[string]string{"publicToken": "public-demo"})
	require.Equal(t, http.StatusOK, w.Code)

	profile, err := store.GetUserProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, profile.PlaidAccessToken)
	assert.NotEmpty(t, profile.PlaidItemID)

	w = doJSON(r, "POST", "/api/plaid/transfer", map[string]string{
		"accountId": "acct-1",
		"amount":    "25.00",
		"direction": "deposit",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success  bool `json:"success"`
		Transfer struct {
			Status string `json:"status"`
		} `json:"transfer"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "pending", resp.Transfer.Status)
}

func TestPlaid_TransferValidation(t *testing.T) {
	store := db.NewMemoryStore()
	r := newTestRouter(store)

	// Profile must exist for a transfer.
	w := doJSON(r, "GET", "/api/users/me", nil)
	require.Equal(t, http.StatusOK, w.Code)

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "missing direction", body: map[string]string{"accountId": "a", "amount": "10"}},
		{name: "bad direction", body: map[string]string{"accountId": "a", "amount": "10", "direction": "sideways"}},
		{name: "negative amount", body: map[string]string{"accountId": "a", "amount": "-5", "direction": "deposit"}},
		{name: "zero amount", body: map[string]string{"accountId": "a", "amount": "0", "direction": "deposit"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, "POST", "/api/plaid/transfer", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCashback_Summary(t *testing.T) {
	store := db.NewMemoryStore()
	r := newTestRouter(store)

	w := doJSON(r, "GET", "/api/cashback/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success          bool              `json:"success"`
		TotalCashback    string            `json:"total_cashback"`
		ByCategory       map[string]string `json:"by_category"`
		TransactionCount int               `json:"transaction_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Greater(t, resp.TransactionCount, 0)
	assert.NotEmpty(t, resp.ByCategory)
}

func TestCashback_InvestPreview(t *testing.T) {
	store := db.NewMemoryStore()
	r := newTestRouter(store)

	w := doJSON(r, "POST", "/api/cashback/invest-preview", map[string]string{
		"amount":   "100.00",
		"strategy": "aggressive",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success     bool   `json:"success"`
		Strategy    string `json:"strategy"`
		Allocations []struct {
			Symbol string `json:"symbol"`
			Amount string `json:"amount"`
		} `json:"allocations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "aggressive", resp.Strategy)
	require.Len(t, resp.Allocations, 3)
	assert.Equal(t, "VTI", resp.Allocations[0].Symbol)

	// The profile's stored strategy is the default.
	w = doJSON(r, "GET", "/api/users/me", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "POST", "/api/cashback/invest-preview", map[string]string{"amount": "50.00"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "balanced", resp.Strategy)

	// Invalid amounts are rejected.
	w = doJSON(r, "POST", "/api/cashback/invest-preview", map[string]string{"amount": "-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
