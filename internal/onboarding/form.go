package onboarding

// FormData is the cumulative onboarding aggregate. Each step only adds or
// overwrites its own fields; nothing ever removes another step's data.
type FormData struct {
	// Identity
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`

	// Address
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postalCode"`
	Country       string `json:"country"`

	// Disclosures
	IsControlPerson             bool `json:"isControlPerson"`
	IsAffiliatedExchangeOrFinra bool `json:"isAffiliatedExchangeOrFinra"`
	IsPoliticallyExposed        bool `json:"isPoliticallyExposed"`
	ImmediateFamilyExposed      bool `json:"immediateFamilyExposed"`

	// Agreements
	CustomerAgreement bool `json:"customerAgreement"`
	AccountAgreement  bool `json:"accountAgreement"`
	MarginAgreement   bool `json:"marginAgreement"`
}

// FormUpdate is a partial update to the aggregate. Nil fields are untouched,
// so a step can never clear another step's data.
type FormUpdate struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`
	SSN         *string `json:"ssn,omitempty"`

	StreetAddress *string `json:"streetAddress,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	PostalCode    *string `json:"postalCode,omitempty"`
	Country       *string `json:"country,omitempty"`

	IsControlPerson             *bool `json:"isControlPerson,omitempty"`
	IsAffiliatedExchangeOrFinra *bool `json:"isAffiliatedExchangeOrFinra,omitempty"`
	IsPoliticallyExposed        *bool `json:"isPoliticallyExposed,omitempty"`
	ImmediateFamilyExposed      *bool `json:"immediateFamilyExposed,omitempty"`

	CustomerAgreement *bool `json:"customerAgreement,omitempty"`
	AccountAgreement  *bool `json:"accountAgreement,omitempty"`
	MarginAgreement   *bool `json:"marginAgreement,omitempty"`
}

// DefaultForm creates the aggregate with defaults, pre-filling name and email
// from the authenticated session when available.
func DefaultForm(displayName, email string) FormData {
	form := FormData{Country: "USA"}
	form.Email = email

	if displayName != "" {
		first, last := splitName(displayName)
		form.FirstName = first
		form.LastName = last
	}

	return form
}

// Merge applies the non-nil fields of the update to the aggregate.
func (f *FormData) Merge(u FormUpdate) {
	setString(&f.FirstName, u.FirstName)
	setString(&f.LastName, u.LastName)
	setString(&f.Email, u.Email)
	setString(&f.Phone, u.Phone)
	setString(&f.DateOfBirth, u.DateOfBirth)
	setString(&f.SSN, u.SSN)

	setString(&f.StreetAddress, u.StreetAddress)
	setString(&f.City, u.City)
	setString(&f.State, u.State)
	setString(&f.PostalCode, u.PostalCode)
	setString(&f.Country, u.Country)

	setBool(&f.IsControlPerson, u.IsControlPerson)
	setBool(&f.IsAffiliatedExchangeOrFinra, u.IsAffiliatedExchangeOrFinra)
	setBool(&f.IsPoliticallyExposed, u.IsPoliticallyExposed)
	setBool(&f.ImmediateFamilyExposed, u.ImmediateFamilyExposed)

	setBool(&f.CustomerAgreement, u.CustomerAgreement)
	setBool(&f.AccountAgreement, u.AccountAgreement)
	setBool(&f.MarginAgreement, u.MarginAgreement)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func splitName(name string) (first, last string) {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == ' ' {
			return name[:i], name[i+1:]
		}
	}
	return name, ""
}
