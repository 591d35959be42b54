package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillWizard(w *Wizard) {
	f := validForm()
	w.Update(FormUpdate{
		FirstName:         &f.FirstName,
		LastName:          &f.LastName,
		Email:             &f.Email,
		Phone:             &f.Phone,
		DateOfBirth:       &f.DateOfBirth,
		SSN:               &f.SSN,
		StreetAddress:     &f.StreetAddress,
		City:              &f.City,
		State:             &f.State,
		PostalCode:        &f.PostalCode,
		CustomerAgreement: &f.CustomerAgreement,
		AccountAgreement:  &f.AccountAgreement,
		MarginAgreement:   &f.MarginAgreement,
	})
}

func TestWizard_AdvanceGatedByValidation(t *testing.T) {
	w := NewInvestmentWizard("user-1", "Ada Lovelace", "ada@example.com")
	assert.Equal(t, StepIntro, w.Current())

	// Intro has no validator.
	step, errs := w.Advance()
	require.Nil(t, errs)
	assert.Equal(t, StepPersonal, step)

	// Personal step is incomplete, so the index must not move.
	step, errs = w.Advance()
	assert.Equal(t, StepPersonal, step)
	assert.Equal(t, 1, w.StepIndex())
	assert.NotEmpty(t, errs)

	fillWizard(w)

	step, errs = w.Advance()
	require.Nil(t, errs)
	assert.Equal(t, StepAddress, step)
}

func TestWizard_WalkToEnd(t *testing.T) {
	w := NewInvestmentWizard("user-1", "", "")
	fillWizard(w)

	for i := 0; i < len(investmentSteps)+3; i++ {
		_, errs := w.Advance()
		require.Nil(t, errs)
	}

	// Advancing past the final step is a no-op.
	assert.Equal(t, StepSubmit, w.Current())
	assert.Equal(t, len(investmentSteps)-1, w.StepIndex())
}

func TestWizard_RetreatBounds(t *testing.T) {
	w := NewInvestmentWizard("user-1", "", "")

	assert.Equal(t, StepIntro, w.Retreat())
	assert.Equal(t, 0, w.StepIndex())

	w.Advance()
	assert.Equal(t, StepIntro, w.Retreat())
}

func TestWizard_Skip(t *testing.T) {
	investment := NewInvestmentWizard("user-1", "", "")
	_, err := investment.Skip()
	assert.ErrorIs(t, err, ErrNotSkippable)
	assert.Equal(t, StepIntro, investment.Current())

	app := NewAppOnboardingWizard("user-1", "", "")
	step, err := app.Skip()
	require.NoError(t, err)
	assert.Equal(t, StepSubmit, step)
}

func TestWizard_UpdateMergesWithoutClearing(t *testing.T) {
	w := NewInvestmentWizard("user-1", "Ada Lovelace", "ada@example.com")

	form := w.Form()
	assert.Equal(t, "Ada", form.FirstName)
	assert.Equal(t, "Lovelace", form.LastName)
	assert.Equal(t, "USA", form.Country)

	phone := "5551234567"
	form = w.Update(FormUpdate{Phone: &phone})
	assert.Equal(t, phone, form.Phone)
	// Untouched fields survive the partial update.
	assert.Equal(t, "Ada", form.FirstName)
	assert.Equal(t, "ada@example.com", form.Email)
}

func TestSessionStore_OwnershipAndDrop(t *testing.T) {
	store := NewSessionStore()
	w := NewInvestmentWizard("user-1", "", "")
	store.Put(w)

	got, ok := store.Get(w.ID, "user-1")
	require.True(t, ok)
	assert.Same(t, w, got)

	_, ok = store.Get(w.ID, "someone-else")
	assert.False(t, ok)

	store.Drop(w.ID)
	_, ok = store.Get(w.ID, "user-1")
	assert.False(t, ok)
}
