package db

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no profile document exists for a user id.
var ErrNotFound = errors.New("db: not found")

// EnsureUserProfileParams creates a profile document if one does not exist yet.
type EnsureUserProfileParams struct {
	UserID      string
	Email       string
	DisplayName string
}

// UpdateInvestmentAccountParams records the normalized account-creation result
// on the user's profile document.
type UpdateInvestmentAccountParams struct {
	UserID        string
	AccountID     string
	AccountNumber string
	Status        string
	RawResponse   []byte
	IsMock        bool
}

// UpdateProfileSettingsParams merge-updates the mutable profile settings. Nil
// fields are left untouched.
type UpdateProfileSettingsParams struct {
	UserID         string
	DisplayName    *string
	RiskStrategy   *string
	RoundupEnabled *bool
}

// UpdateBankLinkParams records bank-link identifiers on the profile. Empty
// fields are left untouched.
type UpdateBankLinkParams struct {
	UserID               string
	PlaidAccessToken     string
	PlaidItemID          string
	MastercardCustomerID string
}

// Querier is the profile-document store. Implemented by Queries (Postgres) and
// MemoryStore (demo mode and tests).
type Querier interface {
	GetUserProfile(ctx context.Context, userID string) (UserProfile, error)
	EnsureUserProfile(ctx context.Context, arg EnsureUserProfileParams) (UserProfile, error)
	UpdateInvestmentAccount(ctx context.Context, arg UpdateInvestmentAccountParams) (UserProfile, error)
	UpdateProfileSettings(ctx context.Context, arg UpdateProfileSettingsParams) (UserProfile, error)
	UpdateBankLink(ctx context.Context, arg UpdateBankLinkParams) (UserProfile, error)
	MarkOnboardingComplete(ctx context.Context, userID string) error
}
