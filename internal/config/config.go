package config

import (
	"context"
	"os"

	"go.uber.org/zap"

	awsclient "jaspire-api/internal/client/aws"
	"jaspire-api/internal/logger"
)

// AlpacaConfig holds the broker API credentials. Empty credentials select the
// mock broker adapter.
type AlpacaConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string
}

// Configured reports whether real broker credentials are present.
func (c AlpacaConfig) Configured() bool {
	return c.APIKey != "" && c.APISecret != ""
}

// MastercardConfig holds the open-banking partner credentials.
type MastercardConfig struct {
	PartnerID     string
	PartnerSecret string
	AppKey        string
	BaseURL       string
}

// Configured reports whether real partner credentials are present.
func (c MastercardConfig) Configured() bool {
	return c.PartnerID != "" && c.PartnerSecret != "" && c.AppKey != ""
}

// PlaidConfig holds the bank-link credentials.
type PlaidConfig struct {
	ClientID    string
	Secret      string
	Environment string
}

// Configured reports whether real Plaid credentials are present.
func (c PlaidConfig) Configured() bool {
	return c.ClientID != "" && c.Secret != ""
}

// ResendConfig holds the transactional email settings.
type ResendConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// Configured reports whether email sending is enabled.
func (c ResendConfig) Configured() bool {
	return c.APIKey != "" && c.FromEmail != ""
}

// Config is the process-wide configuration, loaded once at startup. Missing
// provider credentials never fail the load; they select mock adapters instead.
type Config struct {
	Port              string
	DatabaseURL       string
	FirebaseProjectID string
	RepairQueueURL    string

	Alpaca     AlpacaConfig
	Mastercard MastercardConfig
	Plaid      PlaidConfig
	Resend     ResendConfig
}

// Load reads configuration from the environment. Provider secrets may be held
// in AWS Secrets Manager; when an *_ARN variable is set the secret is resolved
// through it, falling back to the plain environment variable.
func Load(ctx context.Context) *Config {
	cfg := &Config{
		Port:              getEnv("PORT", "8000"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		FirebaseProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
		RepairQueueURL:    os.Getenv("PROFILE_REPAIR_QUEUE_URL"),
		Alpaca: AlpacaConfig{
			APIKey:    os.Getenv("ALPACA_API_KEY"),
			APISecret: os.Getenv("ALPACA_API_SECRET"),
			BaseURL:   getEnv("ALPACA_BASE_URL", "https://broker-api.sandbox.alpaca.markets"),
		},
		Mastercard: MastercardConfig{
			PartnerID:     os.Getenv("MASTERCARD_PARTNER_ID"),
			PartnerSecret: os.Getenv("MASTERCARD_PARTNER_SECRET"),
			AppKey:        os.Getenv("MASTERCARD_APP_KEY"),
			BaseURL:       getEnv("MASTERCARD_BASE_URL", "https://api.finicity.com"),
		},
		Plaid: PlaidConfig{
			ClientID:    os.Getenv("PLAID_CLIENT_ID"),
			Secret:      os.Getenv("PLAID_SECRET"),
			Environment: getEnv("PLAID_ENV", "sandbox"),
		},
		Resend: ResendConfig{
			APIKey:    os.Getenv("RESEND_API_KEY"),
			FromEmail: os.Getenv("RESEND_FROM_EMAIL"),
			FromName:  getEnv("RESEND_FROM_NAME", "Jaspire"),
		},
	}

	if usesSecretsManager() {
		resolveSecrets(ctx, cfg)
	}

	return cfg
}

// secretARNVars maps secret ARN environment variables to their plain fallbacks.
var secretARNVars = map[string]string{
	"ALPACA_API_SECRET_ARN":         "ALPACA_API_SECRET",
	"MASTERCARD_PARTNER_SECRET_ARN": "MASTERCARD_PARTNER_SECRET",
	"PLAID_SECRET_ARN":              "PLAID_SECRET",
	"RESEND_API_KEY_ARN":            "RESEND_API_KEY",
}

func usesSecretsManager() bool {
	for arnVar := range secretARNVars {
		if os.Getenv(arnVar) != "" {
			return true
		}
	}
	return false
}

func resolveSecrets(ctx context.Context, cfg *Config) {
	sm, err := awsclient.NewSecretsManagerClient(ctx)
	if err != nil {
		logger.Warn("Unable to create Secrets Manager client, using environment variables only", zap.Error(err))
		return
	}

	if v, err := sm.GetSecretString(ctx, "ALPACA_API_SECRET_ARN", "ALPACA_API_SECRET"); err == nil {
		cfg.Alpaca.APISecret = v
	}
	if v, err := sm.GetSecretString(ctx, "MASTERCARD_PARTNER_SECRET_ARN", "MASTERCARD_PARTNER_SECRET"); err == nil {
		cfg.Mastercard.PartnerSecret = v
	}
	if v, err := sm.GetSecretString(ctx, "PLAID_SECRET_ARN", "PLAID_SECRET"); err == nil {
		cfg.Plaid.Secret = v
	}
	if v, err := sm.GetSecretString(ctx, "RESEND_API_KEY_ARN", "RESEND_API_KEY"); err == nil {
		cfg.Resend.APIKey = v
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
