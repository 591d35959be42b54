package onboarding

import (
	"context"
	"fmt"
	"sync"
)

// SubmissionState is one phase of the submission state machine.
type SubmissionState string

// Happy path: Idle → Validating → Creating → Finalizing → Complete.
// Any error lands in Failed, from which Retry re-enters Validating.
const (
	StateIdle       SubmissionState = "idle"
	StateValidating SubmissionState = "validating"
	StateCreating   SubmissionState = "creating"
	StateFinalizing SubmissionState = "finalizing"
	StateComplete   SubmissionState = "complete"
	StateFailed     SubmissionState = "failed"
)

// Progress checkpoints per state. Coarse user feedback only; they carry no
// correctness contract.
var stateProgress = map[SubmissionState]int{
	StateIdle:       0,
	StateValidating: 25,
	StateCreating:   50,
	StateFinalizing: 75,
	StateComplete:   100,
}

// AccountResult is the outcome of a successful account creation.
type AccountResult struct {
	AccountID     string `json:"account_id"`
	AccountNumber string `json:"account_number"`
	Status        string `json:"status"`
	IsMock        bool   `json:"is_mock,omitempty"`
}

// AccountCreator performs the account creation plus profile write. The
// submission controller never calls the provider directly.
type AccountCreator interface {
	CreateInvestmentAccount(ctx context.Context, userID string, form FormData) (*AccountResult, error)
}

// ErrNotRetryable is returned when Retry is invoked outside the Failed state.
var ErrNotRetryable = fmt.Errorf("onboarding: retry is only available after a failure")

// Submission drives one account-creation attempt for a fully populated
// aggregate. The form snapshot is captured at construction and never mutated,
// so a Retry re-sends exactly the payload of the original attempt.
type Submission struct {
	mu sync.Mutex

	userID  string
	form    FormData
	creator AccountCreator

	state       SubmissionState
	fieldErrors StepErrors
	errMsg      string
	account     *AccountResult
}

// NewSubmission captures the aggregate snapshot and prepares the controller.
func NewSubmission(userID string, form FormData, creator AccountCreator) *Submission {
	return &Submission{
		userID:  userID,
		form:    form,
		creator: creator,
		state:   StateIdle,
	}
}

// State returns the current state.
func (s *Submission) State() SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Progress returns the coarse progress percentage for the current state.
func (s *Submission) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateFailed {
		return 0
	}
	return stateProgress[s.state]
}

// Err returns the human-readable failure message, empty unless Failed.
func (s *Submission) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// FieldErrors returns per-field validation errors from a failed Validating
// phase, nil otherwise.
func (s *Submission) FieldErrors() StepErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fieldErrors
}

// Account returns the creation result once Complete.
func (s *Submission) Account() *AccountResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// Snapshot returns the immutable form snapshot this submission sends.
func (s *Submission) Snapshot() FormData {
	return s.form
}

// Run executes the three sequential phases. It may only be called from Idle;
// use Retry after a failure. Cancelling ctx aborts the sequence without
// recording a result, so an abandoned submission never writes state.
func (s *Submission) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("onboarding: submission already started (state %s)", state)
	}
	s.mu.Unlock()

	return s.run(ctx)
}

// Retry re-runs the identical sequence from Validating. Only valid from the
// Failed state.
func (s *Submission) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateFailed {
		s.mu.Unlock()
		return ErrNotRetryable
	}
	s.errMsg = ""
	s.fieldErrors = nil
	s.mu.Unlock()

	return s.run(ctx)
}

func (s *Submission) run(ctx context.Context) error {
	s.setState(StateValidating)

	if s.userID == "" {
		return s.fail("missing user identifier", nil)
	}
	if errs := ValidateAll(s.form); len(errs) > 0 {
		return s.fail("please correct the highlighted fields", errs)
	}
	if err := ctx.Err(); err != nil {
		return s.fail("submission cancelled", nil)
	}

	s.setState(StateCreating)

	account, err := s.creator.CreateInvestmentAccount(ctx, s.userID, s.form)
	if err != nil {
		return s.fail(err.Error(), nil)
	}
	if err := ctx.Err(); err != nil {
		return s.fail("submission cancelled", nil)
	}

	s.setState(StateFinalizing)

	s.mu.Lock()
	s.account = account
	s.state = StateComplete
	s.mu.Unlock()

	return nil
}

func (s *Submission) setState(state SubmissionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Submission) fail(msg string, fieldErrors StepErrors) error {
	s.mu.Lock()
	s.state = StateFailed
	s.errMsg = msg
	s.fieldErrors = fieldErrors
	s.mu.Unlock()
	return fmt.Errorf("onboarding: submission failed: %s", msg)
}
