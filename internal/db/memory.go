package db

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Querier used when DATABASE_URL is absent (demo
// mode) and in tests. Profiles are copied on the way in and out so callers
// never share the stored struct.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]UserProfile
}

// NewMemoryStore creates an empty in-memory profile store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]UserProfile)}
}

var _ Querier = (*MemoryStore)(nil)

// GetUserProfile fetches the profile document for a user id.
func (m *MemoryStore) GetUserProfile(_ context.Context, userID string) (UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userID]
	if !ok {
		return UserProfile{}, ErrNotFound
	}
	return p, nil
}

// EnsureUserProfile creates the profile document on first access.
func (m *MemoryStore) EnsureUserProfile(_ context.Context, arg EnsureUserProfileParams) (UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.profiles[arg.UserID]; ok {
		return p, nil
	}

	now := time.Now().UTC()
	p := UserProfile{
		UserID:       arg.UserID,
		Email:        arg.Email,
		DisplayName:  arg.DisplayName,
		RiskStrategy: RiskBalanced,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.profiles[arg.UserID] = p
	return p, nil
}

// UpdateInvestmentAccount records the account-creation result.
func (m *MemoryStore) UpdateInvestmentAccount(_ context.Context, arg UpdateInvestmentAccountParams) (UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[arg.UserID]
	if !ok {
		return UserProfile{}, ErrNotFound
	}

	now := time.Now().UTC()
	p.AlpacaAccountID = arg.AccountID
	p.AlpacaAccountNumber = arg.AccountNumber
	p.AlpacaAccountStatus = arg.Status
	p.AlpacaRawResponse = append([]byte(nil), arg.RawResponse...)
	p.IsMockAccount = arg.IsMock
	p.HasCompletedInvestmentOnboarding = true
	p.InvestmentOnboardedAt = &now
	p.UpdatedAt = now

	m.profiles[arg.UserID] = p
	return p, nil
}

// UpdateProfileSettings merge-updates the mutable settings.
func (m *MemoryStore) UpdateProfileSettings(_ context.Context, arg UpdateProfileSettingsParams) (UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[arg.UserID]
	if !ok {
		return UserProfile{}, ErrNotFound
	}

	if arg.DisplayName != nil {
		p.DisplayName = *arg.DisplayName
	}
	if arg.RiskStrategy != nil {
		p.RiskStrategy = *arg.RiskStrategy
	}
	if arg.RoundupEnabled != nil {
		p.RoundupEnabled = *arg.RoundupEnabled
	}
	p.UpdatedAt = time.Now().UTC()

	m.profiles[arg.UserID] = p
	return p, nil
}

// UpdateBankLink records bank-link identifiers on the profile.
func (m *MemoryStore) UpdateBankLink(_ context.Context, arg UpdateBankLinkParams) (UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[arg.UserID]
	if !ok {
		return UserProfile{}, ErrNotFound
	}

	if arg.PlaidAccessToken != "" {
		p.PlaidAccessToken = arg.PlaidAccessToken
	}
	if arg.PlaidItemID != "" {
		p.PlaidItemID = arg.PlaidItemID
	}
	if arg.MastercardCustomerID != "" {
		p.MastercardCustomerID = arg.MastercardCustomerID
	}
	p.UpdatedAt = time.Now().UTC()

	m.profiles[arg.UserID] = p
	return p, nil
}

// MarkOnboardingComplete flags the general app onboarding as finished.
func (m *MemoryStore) MarkOnboardingComplete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userID]
	if !ok {
		return ErrNotFound
	}
	p.HasCompletedOnboarding = true
	p.UpdatedAt = time.Now().UTC()
	m.profiles[userID] = p
	return nil
}
