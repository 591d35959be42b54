package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jaspire-api/internal/client/alpaca"
	"jaspire-api/internal/logger"
	"jaspire-api/internal/onboarding"
	"jaspire-api/internal/services"
)

// InvestmentHandler serves the brokerage account-creation endpoint.
type InvestmentHandler struct {
	common *CommonServices
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(common *CommonServices) *InvestmentHandler {
	return &InvestmentHandler{common: common}
}

// CreateAccountRequest is the fully assembled onboarding form plus the user
// identifier.
type CreateAccountRequest struct {
	onboarding.FormData
	UserID string `json:"userId"`
}

// CreateAccountResponse is returned on successful account creation.
type CreateAccountResponse struct {
	Success bool                      `json:"success"`
	Account *onboarding.AccountResult `json:"account"`
	IsMock  bool                      `json:"isMock,omitempty"`
}

// CreateAccount godoc
// @Summary Create an investment account
// @Description Creates a brokerage account from the assembled onboarding form and records it on the user's profile
// @Tags investment
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Onboarding form plus user id"
// @Success 200 {object} CreateAccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security Bearer
// @Router /alpaca/create-account [post]
func (h *InvestmentHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body", "details": err.Error()})
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = c.GetString("userID")
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "userId is required"})
		return
	}

	if errs := onboarding.ValidateAll(req.FormData); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed", "details": errs})
		return
	}

	ctx := services.WithClientIP(c.Request.Context(), c.ClientIP())

	account, err := h.common.accounts.CreateInvestmentAccount(ctx, userID, req.FormData)
	if err != nil {
		var invalidInput *alpaca.InvalidInputError
		switch {
		case errors.As(err, &invalidInput):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": invalidInput.Message})
		case errors.Is(err, alpaca.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Broker credentials rejected"})
		default:
			logger.Error("Account creation failed",
				zap.String("userID", userID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Account creation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, CreateAccountResponse{
		Success: true,
		Account: account,
		IsMock:  account.IsMock,
	})
}
