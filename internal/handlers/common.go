package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jaspire-api/internal/client/mastercard"
	"jaspire-api/internal/client/plaid"
	"jaspire-api/internal/db"
	"jaspire-api/internal/logger"
	"jaspire-api/internal/onboarding"
	"jaspire-api/internal/services"
)

// CommonServices holds common dependencies used across handlers
type CommonServices struct {
	db       db.Querier
	accounts *services.AccountService
	banking  mastercard.OpenBanking
	bankLink plaid.BankLink
	sessions *onboarding.SessionStore
}

// NewCommonServices creates a new instance of CommonServices
func NewCommonServices(
	querier db.Querier,
	accounts *services.AccountService,
	banking mastercard.OpenBanking,
	bankLink plaid.BankLink,
) *CommonServices {
	return &CommonServices{
		db:       querier,
		accounts: accounts,
		banking:  banking,
		bankLink: bankLink,
		sessions: onboarding.NewSessionStore(),
	}
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// sendError is a helper function that combines logging and error response
func sendError(c *gin.Context, statusCode int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// handleDBError maps store errors to appropriate HTTP status codes
func handleDBError(c *gin.Context, err error, notFoundMsg string) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, db.ErrNotFound):
		sendError(c, http.StatusNotFound, notFoundMsg, err)
	default:
		sendError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// sendSuccess is a helper function that sends a success response
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// currentUserID returns the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Not authenticated"})
		return "", false
	}
	return userID, true
}
