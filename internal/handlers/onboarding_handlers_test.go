package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jaspire-api/internal/client/alpaca"
	"jaspire-api/internal/client/mastercard"
	"jaspire-api/internal/client/plaid"
	"jaspire-api/internal/db"
	"jaspire-api/internal/logger"
	"jaspire-api/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.InitLogger()
}

// newTestRouter wires the handlers against the in-memory store and mock
// provider adapters, with a stub auth middleware standing in for Firebase.
func newTestRouter(store db.Querier) *gin.Engine {
	accounts := services.NewAccountService(store, alpaca.NewMockBroker(), nil, nil)
	common := NewCommonServices(store, accounts, mastercard.NewMockOpenBanking(), plaid.NewMockBankLink())

	onboardingHandler := NewOnboardingHandler(common)
	investmentHandler := NewInvestmentHandler(common)
	userHandler := NewUserHandler(common)
	mastercardHandler := NewMastercardHandler(common)
	plaidHandler := NewPlaidHandler(common)
	cashbackHandler := NewCashbackHandler(common)

	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		c.Set("userID", "user-1")
		c.Set("userEmail", "ada@example.com")
		c.Set("userName", "Ada Lovelace")
		c.Next()
	})

	api.GET("/users/me", userHandler.GetCurrentUser)
	api.POST("/alpaca/create-account", investmentHandler.CreateAccount)

	api.POST("/onboarding/sessions", onboardingHandler.CreateSession)
	api.GET("/onboarding/sessions/:session_id", onboardingHandler.GetSession)
	api.PATCH("/onboarding/sessions/:session_id/form", onboardingHandler.UpdateForm)
	api.POST("/onboarding/sessions/:session_id/advance", onboardingHandler.Advance)
	api.POST("/onboarding/sessions/:session_id/retreat", onboardingHandler.Retreat)
	api.POST("/onboarding/sessions/:session_id/skip", onboardingHandler.Skip)
	api.POST("/onboarding/sessions/:session_id/submit", onboardingHandler.Submit)
	api.POST("/onboarding/sessions/:session_id/retry", onboardingHandler.RetrySubmission)

	api.POST("/mastercard/generate-connect-url", mastercardHandler.GenerateConnectURL)
	api.POST("/mastercard/exchange-connect-code", mastercardHandler.ExchangeConnectCode)
	api.GET("/mastercard/transactions", mastercardHandler.ListTransactions)
	api.GET("/mastercard/institutions", mastercardHandler.Institutions)

	api.POST("/plaid/create-link-token", plaidHandler.CreateLinkToken)
	api.POST("/plaid/exchange-public-token", plaidHandler.ExchangePublicToken)
	api.POST("/plaid/transfer", plaidHandler.CreateTransfer)

	api.GET("/cashback/summary", cashbackHandler.Summary)
	api.POST("/cashback/invest-preview", cashbackHandler.InvestPreview)

	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validFormBody() map[string]interface{} {
	return map[string]interface{}{
		"firstName":         "Ada",
		"lastName":          "Lovelace",
		"email":             "ada@example.com",
		"phone":             "(555) 123-4567",
		"dateOfBirth":       "1990-06-15",
		"ssn":               "123-45-6789",
		"streetAddress":     "123 Main St",
		"city":              "San Francisco",
		"state":             "CA",
		"postalCode":        "94105",
		"country":           "USA",
		"customerAgreement": true,
		"accountAgreement":  true,
		"marginAgreement":   true,
	}
}

func TestOnboarding_FullFlowEndToEnd(t *testing.T) {
	store := db.NewMemoryStore()
	r := newTestRouter(store)

	// Start an investment wizard session.
	w := doJSON(r, "POST", "/api/onboarding/sessions", map[string]string{"flow": "investment"})
	require.Equal(t, http.StatusCreated, w.Code)

	var session SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, "intro", string(session.Step))
	// Name and email are pre-filled from the authenticated session.
	assert.Equal(t, "Ada", session.Form.FirstName)
	assert.Equal(t, "ada@example.com", session.Form.Email)

	base := "/api/onboarding/sessions/" + session.SessionID

	// Fill the whole form, then walk every step to the end.
	w = doJSON(r, "PATCH", base+"/form", validFormBody())
	require.Equal(t, http.StatusOK, w.Code)

	for i := 0; i < 6; i++ {
		w = doJSON(r, "POST", base+"/advance", nil)
		require.Equal(t, http.StatusOK, w.Code, "advance %d: %s", i, w.Body.String())
	}

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, "submit", string(session.Step))

	// Submit: no broker credentials configured, so the mock path must succeed.
	w = doJSON(r, "POST", base+"/submit", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sub SubmissionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sub))
	assert.Equal(t, "complete", string(sub.State))
	assert.Equal(t, 100, sub.Progress)
	assert.True(t, sub.IsMock)
	assert.NotEmpty(t, sub.Notice)
	require.NotNil(t, sub.Account)
	assert.NotEmpty(t, sub.Account.AccountID)

	// The profile document records the completed investment onboarding.
	w = doJSON(r, "GET", "/api/users/me", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile db.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.True(t, profile.HasCompletedInvestmentOnboarding)
	assert.True(t, profile.IsMockAccount)
	assert.Equal(t, sub.Account.AccountID, profile.AlpacaAccountID)

	// The completed session is dropped.
	w = doJSON(r, "GET", base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOnboarding_MissingAgreementBlocksAdvance(t *testing.T) {
	store := db.NewMemoryStore()
	r := newTestRouter(store)

	w := doJSON(r, "POST", "/api/onboarding/sessions", map[string]string{})
	require.Equal(t, http.StatusCreated, w.Code)

	var session SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	base := "/api/onboarding/sessions/" + session.SessionID

	form := validFormBody()
	form["accountAgreement"] = false
	w = doJSON(r, "PATCH", base+"/form", form)
	require.Equal(t, http.StatusOK, w.Code)

	// intro, personal, address, disclosures all pass.
	for i := 0; i < 4; i++ {
		w = doJSON(r, "POST", base+"/advance", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	// The agreements step refuses to advance and the index does not move.
	w = doJSON(r, "POST", base+"/advance", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var blocked struct {
		Errors    map[string]string `json:"errors"`
		Step      string            `json:"step"`
		StepIndex int               `json:"step_index"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &blocked))
	assert.Contains(t, blocked.Errors, "accountAgreement")
	assert.Equal(t, "agreements", blocked.Step)
	assert.Equal(t, 4, blocked.StepIndex)

	// Submission is refused before the final step, so no account exists.
	w = doJSON(r, "POST", base+"/submit", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, "GET", "/api/users/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile db.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.False(t, profile.HasCompletedInvestmentOnboarding)
}

func TestOnboarding_SkipRules(t *testing.T) {
	store := db.NewMemoryStore()
	r := newTestRouter(store)

	// The investment flow cannot be skipped.
	w := doJSON(r, "POST", "/api/onboarding/sessions", map[string]string{"flow": "investment"})
	require.Equal(t, http.StatusCreated, w.Code)
	var session SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))

	w = doJSON(r, "POST", fmt.Sprintf("/api/onboarding/sessions/%s/skip", session.SessionID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The app flow can, and it marks the profile as onboarded.
	w = doJSON(r, "POST", "/api/onboarding/sessions", map[string]string{"flow": "app"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))

	// Profile must exist before it can be marked.
	w = doJSON(r, "GET", "/api/users/me", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "POST", fmt.Sprintf("/api/onboarding/sessions/%s/skip", session.SessionID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, "submit", string(session.Step))

	w = doJSON(r, "GET", "/api/users/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile db.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.True(t, profile.HasCompletedOnboarding)
}

func TestOnboarding_SessionOwnership(t *testing.T) {
	store := db.NewMemoryStore()
	r := newTestRouter(store)

	w := doJSON(r, "GET", "/api/onboarding/sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, "GET", "/api/onboarding/sessions/00000000-0000-0000-0000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
