package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jaspire-api/internal/onboarding"
	"jaspire-api/internal/services"
)

// OnboardingHandler serves the multi-step wizard session API.
type OnboardingHandler struct {
	common *CommonServices
}

// NewOnboardingHandler creates a new OnboardingHandler
func NewOnboardingHandler(common *CommonServices) *OnboardingHandler {
	return &OnboardingHandler{common: common}
}

// SessionResponse describes the wizard's current position and aggregate.
type SessionResponse struct {
	SessionID string              `json:"session_id"`
	Step      onboarding.Step     `json:"step"`
	StepIndex int                 `json:"step_index"`
	Form      onboarding.FormData `json:"form"`
}

func sessionResponse(w *onboarding.Wizard) SessionResponse {
	return SessionResponse{
		SessionID: w.ID.String(),
		Step:      w.Current(),
		StepIndex: w.StepIndex(),
		Form:      w.Form(),
	}
}

// CreateSessionRequest selects which wizard flow to start.
type CreateSessionRequest struct {
	Flow string `json:"flow" binding:"omitempty,oneof=investment app"`
}

// CreateSession godoc
// @Summary Start an onboarding wizard session
// @Description Creates a wizard session, pre-filling name and email from the authenticated session
// @Tags onboarding
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest false "Flow selection"
// @Success 201 {object} SessionResponse
// @Failure 401 {object} ErrorResponse
// @Security Bearer
// @Router /onboarding/sessions [post]
func (h *OnboardingHandler) CreateSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	name := c.GetString("userName")
	email := c.GetString("userEmail")

	var wizard *onboarding.Wizard
	if req.Flow == "app" {
		wizard = onboarding.NewAppOnboardingWizard(userID, name, email)
	} else {
		wizard = onboarding.NewInvestmentWizard(userID, name, email)
	}

	h.common.sessions.Put(wizard)
	c.JSON(http.StatusCreated, sessionResponse(wizard))
}

// session loads the caller's wizard from the path parameter, writing the
// error response itself when the session is missing or owned by another user.
func (h *OnboardingHandler) session(c *gin.Context) (*onboarding.Wizard, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}

	id, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid session ID format"})
		return nil, false
	}

	wizard, ok := h.common.sessions.Get(id, userID)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Onboarding session not found"})
		return nil, false
	}

	return wizard, true
}

// GetSession returns the wizard's current step and form.
func (h *OnboardingHandler) GetSession(c *gin.Context) {
	wizard, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse(wizard))
}

// UpdateForm merge-updates the aggregate with the step's fields.
func (h *OnboardingHandler) UpdateForm(c *gin.Context) {
	wizard, ok := h.session(c)
	if !ok {
		return
	}

	var update onboarding.FormUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	wizard.Update(update)
	c.JSON(http.StatusOK, sessionResponse(wizard))
}

// Advance validates the current step and moves forward when valid. On
// validation failure the step index is unchanged and field errors are
// returned with a 400.
func (h *OnboardingHandler) Advance(c *gin.Context) {
	wizard, ok := h.session(c)
	if !ok {
		return
	}

	if _, errs := wizard.Advance(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors":     errs,
			"step":       wizard.Current(),
			"step_index": wizard.StepIndex(),
		})
		return
	}

	c.JSON(http.StatusOK, sessionResponse(wizard))
}

// Retreat moves back one step.
func (h *OnboardingHandler) Retreat(c *gin.Context) {
	wizard, ok := h.session(c)
	if !ok {
		return
	}

	wizard.Retreat()
	c.JSON(http.StatusOK, sessionResponse(wizard))
}

// Skip short-circuits to the terminal step where product rules allow it, and
// records the app onboarding as complete.
func (h *OnboardingHandler) Skip(c *gin.Context) {
	wizard, ok := h.session(c)
	if !ok {
		return
	}

	if _, err := wizard.Skip(); err != nil {
		if errors.Is(err, onboarding.ErrNotSkippable) {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "This onboarding flow cannot be skipped"})
			return
		}
		sendError(c, http.StatusInternalServerError, "Failed to skip onboarding", err)
		return
	}

	if err := h.common.db.MarkOnboardingComplete(c.Request.Context(), wizard.UserID); err != nil {
		// The skip itself succeeded; a missing profile just means the user
		// never touched one yet.
		handleDBError(c, err, "Profile not found")
		return
	}

	c.JSON(http.StatusOK, sessionResponse(wizard))
}

// SubmissionResponse reports the submission state machine to the client.
type SubmissionResponse struct {
	State       onboarding.SubmissionState `json:"state"`
	Progress    int                        `json:"progress"`
	Error       string                     `json:"error,omitempty"`
	FieldErrors onboarding.StepErrors      `json:"field_errors,omitempty"`
	Account     *onboarding.AccountResult  `json:"account,omitempty"`
	IsMock      bool                       `json:"is_mock,omitempty"`
	Notice      string                     `json:"notice,omitempty"`
}

func submissionResponse(sub *onboarding.Submission) SubmissionResponse {
	resp := SubmissionResponse{
		State:       sub.State(),
		Progress:    sub.Progress(),
		Error:       sub.Err(),
		FieldErrors: sub.FieldErrors(),
		Account:     sub.Account(),
	}
	if resp.Account != nil && resp.Account.IsMock {
		resp.IsMock = true
		resp.Notice = "Demo account created. Broker credentials are not configured."
	}
	return resp
}

// Submit runs the submission sequence for a wizard that has reached the final
// step. The aggregate snapshot is captured here; later form edits do not
// affect a retry.
func (h *OnboardingHandler) Submit(c *gin.Context) {
	wizard, ok := h.session(c)
	if !ok {
		return
	}

	if wizard.Current() != onboarding.StepSubmit {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Wizard has not reached the submission step"})
		return
	}

	sub, exists := h.common.sessions.GetSubmission(wizard.ID)
	if !exists {
		sub = onboarding.NewSubmission(wizard.UserID, wizard.Form(), h.common.accounts)
		h.common.sessions.PutSubmission(wizard.ID, sub)
	}

	ctx := services.WithClientIP(c.Request.Context(), c.ClientIP())
	_ = sub.Run(ctx)

	h.respondSubmission(c, wizard, sub)
}

// RetrySubmission re-runs the identical sequence after a failure.
func (h *OnboardingHandler) RetrySubmission(c *gin.Context) {
	wizard, ok := h.session(c)
	if !ok {
		return
	}

	sub, exists := h.common.sessions.GetSubmission(wizard.ID)
	if !exists {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "No submission to retry"})
		return
	}

	ctx := services.WithClientIP(c.Request.Context(), c.ClientIP())
	if err := sub.Retry(ctx); err != nil && errors.Is(err, onboarding.ErrNotRetryable) {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Submission is not in a retryable state"})
		return
	}

	h.respondSubmission(c, wizard, sub)
}

func (h *OnboardingHandler) respondSubmission(c *gin.Context, wizard *onboarding.Wizard, sub *onboarding.Submission) {
	resp := submissionResponse(sub)

	status := http.StatusOK
	if sub.State() == onboarding.StateFailed {
		status = http.StatusBadGateway
		if len(sub.FieldErrors()) > 0 {
			status = http.StatusBadRequest
		}
	}

	// Completed sessions are discarded; the account now lives on the profile.
	if sub.State() == onboarding.StateComplete {
		h.common.sessions.Drop(wizard.ID)
	}

	c.JSON(status, resp)
}
