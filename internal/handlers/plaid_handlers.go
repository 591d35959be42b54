package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"jaspire-api/internal/db"
)

// PlaidHandler proxies the bank-link provider.
type PlaidHandler struct {
	common *CommonServices
}

// NewPlaidHandler creates a new PlaidHandler
func NewPlaidHandler(common *CommonServices) *PlaidHandler {
	return &PlaidHandler{common: common}
}

// CreateLinkToken starts a Link session for the authenticated user.
func (h *PlaidHandler) CreateLinkToken(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	token, err := h.common.bankLink.CreateLinkToken(c.Request.Context(), userID)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to create link token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "link_token": token, "isMock": h.common.bankLink.Mock()})
}

// ExchangePublicTokenRequest carries the public token from a completed Link
// session.
type ExchangePublicTokenRequest struct {
	PublicToken string `json:"publicToken" binding:"required"`
}

// ExchangePublicToken swaps the public token for an access token and stores
// it on the user's profile.
func (h *PlaidHandler) ExchangePublicToken(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ExchangePublicTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "publicToken is required"})
		return
	}

	result, err := h.common.bankLink.ExchangePublicToken(c.Request.Context(), req.PublicToken)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to exchange public token", err)
		return
	}

	if _, err := h.common.db.EnsureUserProfile(c.Request.Context(), db.EnsureUserProfileParams{UserID: userID}); err != nil {
		handleDBError(c, err, "Profile not found")
		return
	}
	if _, err := h.common.db.UpdateBankLink(c.Request.Context(), db.UpdateBankLinkParams{
		UserID:           userID,
		PlaidAccessToken: result.AccessToken,
		PlaidItemID:      result.ItemID,
	}); err != nil {
		handleDBError(c, err, "Profile not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "item_id": result.ItemID, "isMock": result.IsMock})
}

// TransferRequest moves money between the linked bank account and the
// investment account.
type TransferRequest struct {
	AccountID string `json:"accountId" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Direction string `json:"direction" binding:"required,oneof=deposit withdraw"`
}

// CreateTransfer authorizes and creates an ACH transfer.
func (h *PlaidHandler) CreateTransfer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "accountId, amount and direction are required"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount must be a positive decimal string"})
		return
	}

	profile, err := h.common.db.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		handleDBError(c, err, "Profile not found")
		return
	}
	accessToken := profile.PlaidAccessToken
	if accessToken == "" && !h.common.bankLink.Mock() {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "No linked bank account"})
		return
	}

	transfer, err := h.common.bankLink.CreateTransfer(c.Request.Context(), accessToken, req.AccountID, amount, req.Direction)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to create transfer", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "transfer": transfer, "isMock": transfer.IsMock})
}
