package alpaca

import (
	"encoding/json"
	"fmt"
)

// Contact is the contact section of an account-creation payload.
type Contact struct {
	EmailAddress  string   `json:"email_address"`
	PhoneNumber   string   `json:"phone_number"`
	StreetAddress []string `json:"street_address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	PostalCode    string   `json:"postal_code"`
	Country       string   `json:"country"`
}

// Identity is the identity section of an account-creation payload.
type Identity struct {
	GivenName             string   `json:"given_name"`
	FamilyName            string   `json:"family_name"`
	DateOfBirth           string   `json:"date_of_birth"`
	TaxID                 string   `json:"tax_id"`
	TaxIDType             string   `json:"tax_id_type"`
	CountryOfCitizenship  string   `json:"country_of_citizenship"`
	CountryOfTaxResidence string   `json:"country_of_tax_residence"`
	FundingSource         []string `json:"funding_source"`
}

// Disclosures is the regulatory disclosure section of an account-creation payload.
type Disclosures struct {
	IsControlPerson             bool `json:"is_control_person"`
	IsAffiliatedExchangeOrFinra bool `json:"is_affiliated_exchange_or_finra"`
	IsPoliticallyExposed        bool `json:"is_politically_exposed"`
	ImmediateFamilyExposed      bool `json:"immediate_family_exposed"`
}

// Agreement is one signed agreement in an account-creation payload.
type Agreement struct {
	Agreement string `json:"agreement"`
	SignedAt  string `json:"signed_at"`
	IPAddress string `json:"ip_address"`
}

// Agreement identifiers accepted by the broker.
const (
	CustomerAgreement = "customer_agreement"
	AccountAgreement  = "account_agreement"
	MarginAgreement   = "margin_agreement"
)

// CreateAccountRequest is the full broker account-creation payload.
type CreateAccountRequest struct {
	Contact     Contact     `json:"contact"`
	Identity    Identity    `json:"identity"`
	Disclosures Disclosures `json:"disclosures"`
	Agreements  []Agreement `json:"agreements"`
}

// Account is the normalized account-creation result.
type Account struct {
	ID            string          `json:"id"`
	AccountNumber string          `json:"account_number"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"created_at,omitempty"`
	Raw           json.RawMessage `json:"-"`
	IsMock        bool            `json:"-"`
}

// ErrUnauthorized indicates the broker rejected our API credentials. Callers
// degrade to the mock adapter rather than failing the user's request.
var ErrUnauthorized = fmt.Errorf("alpaca: invalid or missing API credentials")

// InvalidInputError indicates the broker rejected the user-entered data (for
// example a malformed SSN). Unlike credential errors this must surface to the
// submitting user.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("alpaca: rejected account data: %s", e.Message)
}
