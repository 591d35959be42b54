package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jaspire-api/internal/client/alpaca"
	"jaspire-api/internal/db"
	"jaspire-api/internal/logger"
	"jaspire-api/internal/onboarding"
	"jaspire-api/internal/services"
)

func init() {
	logger.InitLogger()
}

// stubBroker simulates a real (non-mock) broker adapter.
type stubBroker struct {
	err   error
	calls int
}

func (s *stubBroker) Mock() bool { return false }

func (s *stubBroker) CreateAccount(_ context.Context, _ alpaca.CreateAccountRequest) (*alpaca.Account, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &alpaca.Account{
		ID:            "real-acct-1",
		AccountNumber: "897654321",
		Status:        "SUBMITTED",
		Raw:           []byte(`{"id":"real-acct-1"}`),
	}, nil
}

func testForm() onboarding.FormData {
	return onboarding.FormData{
		FirstName:         "Ada",
		LastName:          "Lovelace",
		Email:             "ada@example.com",
		Phone:             "(555) 123-4567",
		DateOfBirth:       "1990-06-15",
		SSN:               "123-45-6789",
		StreetAddress:     "123 Main St",
		City:              "San Francisco",
		State:             "CA",
		PostalCode:        "94105",
		Country:           "USA",
		CustomerAgreement: true,
		AccountAgreement:  true,
		MarginAgreement:   true,
	}
}

func TestAccountService_RealBrokerPersistsProfile(t *testing.T) {
	store := db.NewMemoryStore()
	broker := &stubBroker{}
	svc := services.NewAccountService(store, broker, nil, nil)

	result, err := svc.CreateInvestmentAccount(context.Background(), "user-1", testForm())
	require.NoError(t, err)

	assert.Equal(t, "real-acct-1", result.AccountID)
	assert.False(t, result.IsMock)
	assert.Equal(t, 1, broker.calls)

	profile, err := store.GetUserProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "real-acct-1", profile.AlpacaAccountID)
	assert.True(t, profile.HasCompletedInvestmentOnboarding)
	assert.False(t, profile.IsMockAccount)
}

func TestAccountService_CredentialErrorFallsBackToMock(t *testing.T) {
	store := db.NewMemoryStore()
	broker := &stubBroker{err: alpaca.ErrUnauthorized}
	svc := services.NewAccountService(store, broker, nil, nil)

	result, err := svc.CreateInvestmentAccount(context.Background(), "user-1", testForm())
	require.NoError(t, err)

	assert.True(t, result.IsMock)
	assert.NotEmpty(t, result.AccountID)
	assert.Equal(t, "SUBMITTED", result.Status)

	profile, err := store.GetUserProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, profile.IsMockAccount)
	assert.True(t, profile.HasCompletedInvestmentOnboarding)
}

func TestAccountService_UserDataErrorPropagates(t *testing.T) {
	store := db.NewMemoryStore()
	broker := &stubBroker{err: &alpaca.InvalidInputError{Message: "ssn is not valid"}}
	svc := services.NewAccountService(store, broker, nil, nil)

	_, err := svc.CreateInvestmentAccount(context.Background(), "user-1", testForm())
	require.Error(t, err)

	var invalid *alpaca.InvalidInputError
	assert.True(t, errors.As(err, &invalid))

	// No profile write may happen on a failed creation.
	_, err = store.GetUserProfile(context.Background(), "user-1")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestAccountService_MockBrokerNeverDoubleFallsBack(t *testing.T) {
	store := db.NewMemoryStore()
	svc := services.NewAccountService(store, alpaca.NewMockBroker(), nil, nil)

	result, err := svc.CreateInvestmentAccount(context.Background(), "user-1", testForm())
	require.NoError(t, err)
	assert.True(t, result.IsMock)
}
