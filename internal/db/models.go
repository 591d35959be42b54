package db

import "time"

// Risk strategies a user can select for auto-investing cashback.
const (
	RiskConservative = "conservative"
	RiskBalanced     = "balanced"
	RiskAggressive   = "aggressive"
)

// Investment account statuses as reported by the broker.
const (
	AccountStatusSubmitted = "SUBMITTED"
	AccountStatusActive    = "ACTIVE"
	AccountStatusRejected  = "REJECTED"
)

// UserProfile is the per-user profile document. One row per user, keyed by the
// authentication user id. Investment-account fields are populated exactly once
// by the account-creation flow; bank-link fields by the Plaid/Mastercard flows.
type UserProfile struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`

	RiskStrategy   string `json:"risk_strategy"`
	RoundupEnabled bool   `json:"roundup_enabled"`

	// General app onboarding (the skippable wizard).
	HasCompletedOnboarding bool `json:"has_completed_onboarding"`

	// Investment account, written by the account-creation endpoint.
	AlpacaAccountID                  string     `json:"alpaca_account_id,omitempty"`
	AlpacaAccountNumber              string     `json:"alpaca_account_number,omitempty"`
	AlpacaAccountStatus              string     `json:"alpaca_account_status,omitempty"`
	AlpacaRawResponse                []byte     `json:"-"`
	IsMockAccount                    bool       `json:"is_mock_account"`
	HasCompletedInvestmentOnboarding bool       `json:"has_completed_investment_onboarding"`
	InvestmentOnboardedAt            *time.Time `json:"investment_onboarded_at,omitempty"`

	// Bank links.
	PlaidAccessToken     string `json:"-"`
	PlaidItemID          string `json:"plaid_item_id,omitempty"`
	MastercardCustomerID string `json:"mastercard_customer_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
