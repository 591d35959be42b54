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

func TestCreateAccount_MockFallbackSuccess(t *testing.T) {
	store := db.NewMemoryStore()
	r := newTestRouter(store)

	body := validFormBody()
	body["userId"] = "user-1"

	w := doJSON(r, "POST", "/api/alpaca/create-account", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp CreateAccountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.IsMock)
	require.NotNil(t, resp.Account)
	assert.NotEmpty(t, resp.Account.AccountID)
	assert.Equal(t, "SUBMITTED", resp.Account.Status)

	// Exactly one profile write happened.
	profile, err := store.GetUserProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, resp.Account.AccountID, profile.AlpacaAccountID)
	assert.True(t, profile.HasCompletedInvestmentOnboarding)
}

func TestCreateAccount_UserIDFromSession(t *testing.T) {
	store := db.NewMemoryStore()
	r := newTestRouter(store)

	// No userId in the body; the authenticated session supplies it.
	w := doJSON(r, "POST", "/api/alpaca/create-account", validFormBody())
	require.Equal(t, http.StatusOK, w.Code)

	_, err := store.GetUserProfile(context.Background(), "user-1")
	assert.NoError(t, err)
}

func TestCreateAccount_ValidationFailure(t *testing.T) {
	store := db.NewMemoryStore()
	r := newTestRouter(store)

	body := validFormBody()
	body["accountAgreement"] = false
	body["ssn"] = "12345678"

	w := doJSON(r, "POST", "/api/alpaca/create-account", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success bool              `json:"success"`
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Contains(t, resp.Details, "accountAgreement")
	assert.Contains(t, resp.Details, "ssn")

	// The profile is never touched on a rejected request.
	_, err := store.GetUserProfile(context.Background(), "user-1")
	assert.ErrorIs(t, err, db.ErrNotFound)
}
