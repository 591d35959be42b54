package onboarding

import (
	"regexp"
	"strings"
	"time"
)

// nowFunc is swapped in tests to pin the age-boundary checks.
var nowFunc = time.Now

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// StepErrors maps a field name to its validation error. An empty map means
// the step is valid.
type StepErrors map[string]string

// Validator checks the fields a step collects. Validators are pure aside from
// reading the clock for the age check.
type Validator func(FormData) StepErrors

// digitCount counts decimal digits after stripping all other characters, so
// "(555) 123-4567" and "5551234567" normalize identically.
func digitCount(s string) int {
	count := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}

// ValidatePersonal checks the personal-information step.
func ValidatePersonal(f FormData) StepErrors {
	errs := StepErrors{}

	if strings.TrimSpace(f.FirstName) == "" {
		errs["firstName"] = "First name is required"
	}
	if strings.TrimSpace(f.LastName) == "" {
		errs["lastName"] = "Last name is required"
	}

	if strings.TrimSpace(f.Email) == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(f.Email) {
		errs["email"] = "Enter a valid email address"
	}

	if strings.TrimSpace(f.Phone) == "" {
		errs["phone"] = "Phone number is required"
	} else if digitCount(f.Phone) != 10 {
		errs["phone"] = "Enter a valid 10-digit phone number"
	}

	if strings.TrimSpace(f.DateOfBirth) == "" {
		errs["dateOfBirth"] = "Date of birth is required"
	} else {
		dob, err := time.Parse("2006-01-02", f.DateOfBirth)
		if err != nil {
			errs["dateOfBirth"] = "Enter a valid date"
		} else {
			// The latest birth date that makes the user 18 today.
			cutoff := nowFunc().AddDate(-18, 0, 0)
			if dob.After(cutoff) {
				errs["dateOfBirth"] = "You must be at least 18 years old"
			}
		}
	}

	if strings.TrimSpace(f.SSN) == "" {
		errs["ssn"] = "Social Security number is required"
	} else if digitCount(f.SSN) != 9 {
		errs["ssn"] = "Enter a valid 9-digit Social Security number"
	}

	return errs
}

// ValidateAddress checks the address step.
func ValidateAddress(f FormData) StepErrors {
	errs := StepErrors{}

	if strings.TrimSpace(f.StreetAddress) == "" {
		errs["streetAddress"] = "Street address is required"
	}
	if strings.TrimSpace(f.City) == "" {
		errs["city"] = "City is required"
	}
	if strings.TrimSpace(f.State) == "" {
		errs["state"] = "State is required"
	}
	if strings.TrimSpace(f.PostalCode) == "" {
		errs["postalCode"] = "Postal code is required"
	}

	return errs
}

// ValidateAgreements checks the agreements step. Each missing agreement gets
// its own field-level error.
func ValidateAgreements(f FormData) StepErrors {
	errs := StepErrors{}

	if !f.CustomerAgreement {
		errs["customerAgreement"] = "You must accept the customer agreement"
	}
	if !f.AccountAgreement {
		errs["accountAgreement"] = "You must accept the account agreement"
	}
	if !f.MarginAgreement {
		errs["marginAgreement"] = "You must accept the margin agreement"
	}

	return errs
}

// ValidateAll runs every data-collecting step's validator over the full
// aggregate; the submission controller uses it as its Validating phase.
func ValidateAll(f FormData) StepErrors {
	errs := StepErrors{}
	for _, v := range []Validator{ValidatePersonal, ValidateAddress, ValidateAgreements} {
		for field, msg := range v(f) {
			errs[field] = msg
		}
	}
	return errs
}
