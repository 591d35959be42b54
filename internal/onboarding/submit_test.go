package onboarding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCreator records every form it receives and fails until the remaining
// failure budget is spent.
type stubCreator struct {
	calls    []FormData
	failures int
	result   *AccountResult
}

func (s *stubCreator) CreateInvestmentAccount(ctx context.Context, userID string, form FormData) (*AccountResult, error) {
	s.calls = append(s.calls, form)
	if s.failures > 0 {
		s.failures--
		return nil, errors.New("broker unavailable")
	}
	if s.result != nil {
		return s.result, nil
	}
	return &AccountResult{AccountID: "acct-1", AccountNumber: "JSP00000001", Status: "SUBMITTED"}, nil
}

func TestSubmission_HappyPath(t *testing.T) {
	creator := &stubCreator{}
	sub := NewSubmission("user-1", validForm(), creator)

	assert.Equal(t, StateIdle, sub.State())
	assert.Equal(t, 0, sub.Progress())

	require.NoError(t, sub.Run(context.Background()))

	assert.Equal(t, StateComplete, sub.State())
	assert.Equal(t, 100, sub.Progress())
	require.NotNil(t, sub.Account())
	assert.Equal(t, "JSP00000001", sub.Account().AccountNumber)
	assert.Len(t, creator.calls, 1)
}

func TestSubmission_ValidationFailureSkipsCreator(t *testing.T) {
	creator := &stubCreator{}
	form := validForm()
	form.AccountAgreement = false
	sub := NewSubmission("user-1", form, creator)

	err := sub.Run(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateFailed, sub.State())
	assert.Equal(t, 0, sub.Progress())
	assert.Contains(t, sub.FieldErrors(), "accountAgreement")
	// The provider must never be called with an invalid aggregate.
	assert.Empty(t, creator.calls)
}

func TestSubmission_RunOnlyFromIdle(t *testing.T) {
	creator := &stubCreator{}
	sub := NewSubmission("user-1", validForm(), creator)

	require.NoError(t, sub.Run(context.Background()))
	assert.Error(t, sub.Run(context.Background()))
	assert.Len(t, creator.calls, 1)
}

func TestSubmission_RetrySendsIdenticalSnapshot(t *testing.T) {
	creator := &stubCreator{failures: 1}
	form := validForm()
	sub := NewSubmission("user-1", form, creator)

	err := sub.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, sub.State())
	assert.Equal(t, "broker unavailable", sub.Err())

	require.NoError(t, sub.Retry(context.Background()))
	assert.Equal(t, StateComplete, sub.State())
	assert.Empty(t, sub.Err())

	// Both attempts carried the exact construction-time snapshot.
	require.Len(t, creator.calls, 2)
	assert.Equal(t, form, creator.calls[0])
	assert.Equal(t, creator.calls[0], creator.calls[1])
	assert.Equal(t, form, sub.Snapshot())
}

func TestSubmission_RetryOnlyFromFailed(t *testing.T) {
	sub := NewSubmission("user-1", validForm(), &stubCreator{})

	assert.ErrorIs(t, sub.Retry(context.Background()), ErrNotRetryable)

	require.NoError(t, sub.Run(context.Background()))
	assert.ErrorIs(t, sub.Retry(context.Background()), ErrNotRetryable)
}

func TestSubmission_CancelledContext(t *testing.T) {
	creator := &stubCreator{}
	sub := NewSubmission("user-1", validForm(), creator)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sub.Run(ctx)
	require.Error(t, err)
	assert.Equal(t, StateFailed, sub.State())
	assert.Empty(t, creator.calls)
}

func TestSubmission_MissingUser(t *testing.T) {
	sub := NewSubmission("", validForm(), &stubCreator{})

	err := sub.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, sub.State())
}
