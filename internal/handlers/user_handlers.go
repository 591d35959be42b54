package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jaspire-api/internal/db"
)

// UserHandler serves the per-user profile document.
type UserHandler struct {
	common *CommonServices
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(common *CommonServices) *UserHandler {
	return &UserHandler{common: common}
}

// GetCurrentUser godoc
// @Summary Get the current user's profile
// @Description Retrieves (creating on first access) the authenticated user's profile document
// @Tags users
// @Produce json
// @Success 200 {object} db.UserProfile
// @Failure 401 {object} ErrorResponse
// @Security Bearer
// @Router /users/me [get]
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.common.db.EnsureUserProfile(c.Request.Context(), db.EnsureUserProfileParams{
		UserID:      userID,
		Email:       c.GetString("userEmail"),
		DisplayName: c.GetString("userName"),
	})
	if err != nil {
		handleDBError(c, err, "Profile not found")
		return
	}

	sendSuccess(c, http.StatusOK, profile)
}

// UpdateCurrentUserRequest merge-updates the mutable profile settings.
type UpdateCurrentUserRequest struct {
	DisplayName    *string `json:"display_name,omitempty"`
	RiskStrategy   *string `json:"risk_strategy,omitempty" binding:"omitempty,oneof=conservative balanced aggressive"`
	RoundupEnabled *bool   `json:"roundup_enabled,omitempty"`
}

// UpdateCurrentUser merge-updates the profile. Last write wins; there is no
// version check on the document.
func (h *UserHandler) UpdateCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateCurrentUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	profile, err := h.common.db.UpdateProfileSettings(c.Request.Context(), db.UpdateProfileSettingsParams{
		UserID:         userID,
		DisplayName:    req.DisplayName,
		RiskStrategy:   req.RiskStrategy,
		RoundupEnabled: req.RoundupEnabled,
	})
	if err != nil {
		handleDBError(c, err, "Profile not found")
		return
	}

	sendSuccess(c, http.StatusOK, profile)
}
