package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"jaspire-api/internal/client/alpaca"
	"jaspire-api/internal/db"
	"jaspire-api/internal/logger"
	"jaspire-api/internal/onboarding"
	"jaspire-api/internal/queue"
)

type clientIPKey struct{}

// WithClientIP stores the submitting client's IP on the context. The broker
// requires it on signed agreements.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func clientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok && ip != "" {
		return ip
	}
	return "0.0.0.0"
}

// AccountService implements the account-creation endpoint behavior: one
// provider call, one profile write, mock fallback when credentials are
// missing or rejected.
type AccountService struct {
	db       db.Querier
	broker   alpaca.Broker
	fallback alpaca.Broker
	repair   *queue.RepairQueue
	email    *EmailService
}

// NewAccountService wires the account-creation flow. broker is the adapter
// selected at startup from configuration; repair and email may be nil when
// not configured.
func NewAccountService(querier db.Querier, broker alpaca.Broker, repair *queue.RepairQueue, email *EmailService) *AccountService {
	return &AccountService{
		db:       querier,
		broker:   broker,
		fallback: alpaca.NewMockBroker(),
		repair:   repair,
		email:    email,
	}
}

var _ onboarding.AccountCreator = (*AccountService)(nil)

// CreateInvestmentAccount performs the provider call and records the result
// on the user's profile document. Credential rejections from the real broker
// degrade to the mock adapter; user-data rejections propagate to the caller.
func (s *AccountService) CreateInvestmentAccount(ctx context.Context, userID string, form onboarding.FormData) (*onboarding.AccountResult, error) {
	req := buildBrokerRequest(form, clientIP(ctx))

	account, err := s.broker.CreateAccount(ctx, req)
	if errors.Is(err, alpaca.ErrUnauthorized) && !s.broker.Mock() {
		logger.Warn("Broker rejected API credentials, falling back to mock account",
			zap.String("userID", userID))
		account, err = s.fallback.CreateAccount(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	s.persistAccount(ctx, userID, form, account)

	if s.email != nil && form.Email != "" {
		go s.email.SendAccountOpened(form.Email, AccountOpenedData{
			FirstName:     form.FirstName,
			AccountNumber: account.AccountNumber,
			IsMock:        account.IsMock,
		})
	}

	return &onboarding.AccountResult{
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
		Status:        account.Status,
		IsMock:        account.IsMock,
	}, nil
}

// persistAccount performs the single profile-document write. A write failure
// after a successful provider call must not fail the overall request: it is
// retried briefly, then handed to the repair queue when one is configured.
func (s *AccountService) persistAccount(ctx context.Context, userID string, form onboarding.FormData, account *alpaca.Account) {
	params := db.UpdateInvestmentAccountParams{
		UserID:        userID,
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
		Status:        account.Status,
		RawResponse:   account.Raw,
		IsMock:        account.IsMock,
	}

	write := func() error {
		if _, err := s.db.EnsureUserProfile(ctx, db.EnsureUserProfileParams{
			UserID:      userID,
			Email:       form.Email,
			DisplayName: strings.TrimSpace(form.FirstName + " " + form.LastName),
		}); err != nil {
			return err
		}
		_, err := s.db.UpdateInvestmentAccount(ctx, params)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(write, policy); err != nil {
		logger.Error("Profile write failed after successful account creation",
			zap.String("userID", userID),
			zap.String("accountID", account.ID),
			zap.Error(err))

		if s.repair != nil {
			repairErr := s.repair.Publish(ctx, queue.ProfileRepair{
				UserID:        userID,
				AccountID:     account.ID,
				AccountNumber: account.AccountNumber,
				Status:        account.Status,
				IsMock:        account.IsMock,
				RawResponse:   account.Raw,
				FailedAt:      time.Now().UTC(),
			})
			if repairErr != nil {
				logger.Error("Failed to enqueue profile repair", zap.Error(repairErr))
			}
		}
	}
}

// buildBrokerRequest maps the onboarding aggregate to the broker's payload
// sections. Phone and SSN are normalized to digits before formatting.
func buildBrokerRequest(form onboarding.FormData, ip string) alpaca.CreateAccountRequest {
	signedAt := time.Now().UTC().Format(time.RFC3339)

	agreements := []alpaca.Agreement{
		{Agreement: alpaca.CustomerAgreement, SignedAt: signedAt, IPAddress: ip},
		{Agreement: alpaca.AccountAgreement, SignedAt: signedAt, IPAddress: ip},
		{Agreement: alpaca.MarginAgreement, SignedAt: signedAt, IPAddress: ip},
	}

	return alpaca.CreateAccountRequest{
		Contact: alpaca.Contact{
			EmailAddress:  form.Email,
			PhoneNumber:   "+1" + digitsOnly(form.Phone),
			StreetAddress: []string{form.StreetAddress},
			City:          form.City,
			State:         form.State,
			PostalCode:    form.PostalCode,
			Country:       form.Country,
		},
		Identity: alpaca.Identity{
			GivenName:             form.FirstName,
			FamilyName:            form.LastName,
			DateOfBirth:           form.DateOfBirth,
			TaxID:                 digitsOnly(form.SSN),
			TaxIDType:             "USA_SSN",
			CountryOfCitizenship:  form.Country,
			CountryOfTaxResidence: form.Country,
			FundingSource:         []string{"employment_income"},
		},
		Disclosures: alpaca.Disclosures{
			IsControlPerson:             form.IsControlPerson,
			IsAffiliatedExchangeOrFinra: form.IsAffiliatedExchangeOrFinra,
			IsPoliticallyExposed:        form.IsPoliticallyExposed,
			ImmediateFamilyExposed:      form.ImmediateFamilyExposed,
		},
		Agreements: agreements,
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
