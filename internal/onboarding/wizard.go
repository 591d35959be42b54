package onboarding

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Step identifies one screen of the wizard.
type Step string

// The investment onboarding steps, in order.
const (
	StepIntro       Step = "intro"
	StepPersonal    Step = "personal"
	StepAddress     Step = "address"
	StepDisclosures Step = "disclosures"
	StepAgreements  Step = "agreements"
	StepReview      Step = "review"
	StepSubmit      Step = "submit"
)

var investmentSteps = []Step{
	StepIntro,
	StepPersonal,
	StepAddress,
	StepDisclosures,
	StepAgreements,
	StepReview,
	StepSubmit,
}

// stepValidators gates forward navigation out of data-collecting steps. Steps
// without an entry advance unconditionally.
var stepValidators = map[Step]Validator{
	StepPersonal:   ValidatePersonal,
	StepAddress:    ValidateAddress,
	StepAgreements: ValidateAgreements,
}

// ErrNotSkippable is returned when Skip is invoked on a wizard whose product
// rules require every step, such as identity verification.
var ErrNotSkippable = errors.New("onboarding: this flow cannot be skipped")

// Wizard is the form state container: it owns the aggregate and the current
// step index. All navigation goes through Advance/Retreat/Skip and all form
// mutation through Update.
type Wizard struct {
	mu sync.Mutex

	ID     uuid.UUID
	UserID string

	steps     []Step
	idx       int
	form      FormData
	skippable bool
}

// NewInvestmentWizard creates the identity-verification wizard for a user,
// pre-filling name and email from the session. It cannot be skipped.
func NewInvestmentWizard(userID, displayName, email string) *Wizard {
	return &Wizard{
		ID:     uuid.New(),
		UserID: userID,
		steps:  investmentSteps,
		form:   DefaultForm(displayName, email),
	}
}

// NewAppOnboardingWizard creates the general app onboarding wizard, which
// product rules allow skipping straight to the end.
func NewAppOnboardingWizard(userID, displayName, email string) *Wizard {
	w := NewInvestmentWizard(userID, displayName, email)
	w.skippable = true
	return w
}

// Current returns the step the wizard is on.
func (w *Wizard) Current() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.steps[w.idx]
}

// StepIndex returns the zero-based index of the current step.
func (w *Wizard) StepIndex() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.idx
}

// Form returns a snapshot of the aggregate.
func (w *Wizard) Form() FormData {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// Update shallow-merges a partial update into the aggregate.
func (w *Wizard) Update(u FormUpdate) FormData {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form.Merge(u)
	return w.form
}

// Advance validates the current step and, when valid, moves forward exactly
// one step. Past the final step it is a no-op. On validation failure the
// index is unchanged and the field errors are returned.
func (w *Wizard) Advance() (Step, StepErrors) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if validate, ok := stepValidators[w.steps[w.idx]]; ok {
		if errs := validate(w.form); len(errs) > 0 {
			return w.steps[w.idx], errs
		}
	}

	if w.idx < len(w.steps)-1 {
		w.idx++
	}
	return w.steps[w.idx], nil
}

// Retreat moves back one step; before the first step it is a no-op.
func (w *Wizard) Retreat() Step {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.idx > 0 {
		w.idx--
	}
	return w.steps[w.idx]
}

// Skip short-circuits to the terminal step, bypassing remaining screens.
func (w *Wizard) Skip() (Step, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.skippable {
		return w.steps[w.idx], ErrNotSkippable
	}

	w.idx = len(w.steps) - 1
	return w.steps[w.idx], nil
}

// SessionStore keeps live wizard sessions in memory. Sessions are per user,
// never persisted, and dropped once submission completes or the user walks
// away.
type SessionStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*Wizard
	subByID map[uuid.UUID]*Submission
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		byID:    make(map[uuid.UUID]*Wizard),
		subByID: make(map[uuid.UUID]*Submission),
	}
}

// Put registers a wizard session.
func (s *SessionStore) Put(w *Wizard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[w.ID] = w
}

// Get returns the wizard session owned by the given user, or false when the
// session does not exist or belongs to someone else.
func (s *SessionStore) Get(id uuid.UUID, userID string) (*Wizard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.byID[id]
	if !ok || w.UserID != userID {
		return nil, false
	}
	return w, true
}

// PutSubmission registers the submission controller for a wizard session.
func (s *SessionStore) PutSubmission(id uuid.UUID, sub *Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subByID[id] = sub
}

// GetSubmission returns the submission controller for a wizard session.
func (s *SessionStore) GetSubmission(id uuid.UUID) (*Submission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subByID[id]
	return sub, ok
}

// Drop removes a completed or abandoned session.
func (s *SessionStore) Drop(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	delete(s.subByID, id)
}
