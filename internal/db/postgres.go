package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queries is the Postgres-backed profile store.
type Queries struct {
	pool *pgxpool.Pool
}

// New creates a Queries instance backed by the given connection pool.
func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

const profileColumns = `user_id, email, display_name, risk_strategy, roundup_enabled,
	has_completed_onboarding,
	alpaca_account_id, alpaca_account_number, alpaca_account_status, alpaca_raw_response,
	is_mock_account, has_completed_investment_onboarding, investment_onboarded_at,
	plaid_access_token, plaid_item_id, mastercard_customer_id,
	created_at, updated_at`

func scanProfile(row pgx.Row) (UserProfile, error) {
	var p UserProfile
	err := row.Scan(
		&p.UserID, &p.Email, &p.DisplayName, &p.RiskStrategy, &p.RoundupEnabled,
		&p.HasCompletedOnboarding,
		&p.AlpacaAccountID, &p.AlpacaAccountNumber, &p.AlpacaAccountStatus, &p.AlpacaRawResponse,
		&p.IsMockAccount, &p.HasCompletedInvestmentOnboarding, &p.InvestmentOnboardedAt,
		&p.PlaidAccessToken, &p.PlaidItemID, &p.MastercardCustomerID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return UserProfile{}, ErrNotFound
	}
	return p, err
}

const getUserProfile = `SELECT ` + profileColumns + ` FROM user_profiles WHERE user_id = $1`

// GetUserProfile fetches the profile document for a user id.
func (q *Queries) GetUserProfile(ctx context.Context, userID string) (UserProfile, error) {
	return scanProfile(q.pool.QueryRow(ctx, getUserProfile, userID))
}

const ensureUserProfile = `INSERT INTO user_profiles (user_id, email, display_name, risk_strategy)
VALUES ($1, $2, $3, 'balanced')
ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
RETURNING ` + profileColumns

// EnsureUserProfile creates the profile document on first access.
func (q *Queries) EnsureUserProfile(ctx context.Context, arg EnsureUserProfileParams) (UserProfile, error) {
	return scanProfile(q.pool.QueryRow(ctx, ensureUserProfile, arg.UserID, arg.Email, arg.DisplayName))
}

const updateInvestmentAccount = `UPDATE user_profiles SET
	alpaca_account_id = $2,
	alpaca_account_number = $3,
	alpaca_account_status = $4,
	alpaca_raw_response = $5,
	is_mock_account = $6,
	has_completed_investment_onboarding = TRUE,
	investment_onboarded_at = now(),
	updated_at = now()
WHERE user_id = $1
RETURNING ` + profileColumns

// UpdateInvestmentAccount records the account-creation result. Exactly one
// write per successful creation call.
func (q *Queries) UpdateInvestmentAccount(ctx context.Context, arg UpdateInvestmentAccountParams) (UserProfile, error) {
	return scanProfile(q.pool.QueryRow(ctx, updateInvestmentAccount,
		arg.UserID, arg.AccountID, arg.AccountNumber, arg.Status, arg.RawResponse, arg.IsMock))
}

const updateProfileSettings = `UPDATE user_profiles SET
	display_name = COALESCE($2::text, display_name),
	risk_strategy = COALESCE($3::text, risk_strategy),
	roundup_enabled = COALESCE($4::boolean, roundup_enabled),
	updated_at = now()
WHERE user_id = $1
RETURNING ` + profileColumns

// UpdateProfileSettings merge-updates the mutable settings. Last write wins;
// there is no optimistic-concurrency check on the profile document.
func (q *Queries) UpdateProfileSettings(ctx context.Context, arg UpdateProfileSettingsParams) (UserProfile, error) {
	return scanProfile(q.pool.QueryRow(ctx, updateProfileSettings,
		arg.UserID, arg.DisplayName, arg.RiskStrategy, arg.RoundupEnabled))
}

const updateBankLink = `UPDATE user_profiles SET
	plaid_access_token = COALESCE(NULLIF($2, ''), plaid_access_token),
	plaid_item_id = COALESCE(NULLIF($3, ''), plaid_item_id),
	mastercard_customer_id = COALESCE(NULLIF($4, ''), mastercard_customer_id),
	updated_at = now()
WHERE user_id = $1
RETURNING ` + profileColumns

// UpdateBankLink records bank-link identifiers on the profile.
func (q *Queries) UpdateBankLink(ctx context.Context, arg UpdateBankLinkParams) (UserProfile, error) {
	return scanProfile(q.pool.QueryRow(ctx, updateBankLink,
		arg.UserID, arg.PlaidAccessToken, arg.PlaidItemID, arg.MastercardCustomerID))
}

const markOnboardingComplete = `UPDATE user_profiles SET
	has_completed_onboarding = TRUE,
	updated_at = now()
WHERE user_id = $1`

// MarkOnboardingComplete flags the general app onboarding as finished.
func (q *Queries) MarkOnboardingComplete(ctx context.Context, userID string) error {
	tag, err := q.pool.Exec(ctx, markOnboardingComplete, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
