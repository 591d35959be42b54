package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"jaspire-api/internal/cashback"
	"jaspire-api/internal/client/mastercard"
	"jaspire-api/internal/db"
)

// MastercardHandler proxies the open-banking aggregator.
type MastercardHandler struct {
	common *CommonServices
}

// NewMastercardHandler creates a new MastercardHandler
func NewMastercardHandler(common *CommonServices) *MastercardHandler {
	return &MastercardHandler{common: common}
}

// GenerateConnectURLRequest identifies the user starting a Connect session.
type GenerateConnectURLRequest struct {
	UserID string `json:"userId"`
}

// GenerateConnectURL godoc
// @Summary Generate a Connect URL
// @Tags mastercard
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Security Bearer
// @Router /mastercard/generate-connect-url [post]
func (h *MastercardHandler) GenerateConnectURL(c *gin.Context) {
	var req GenerateConnectURLRequest
	_ = c.ShouldBindJSON(&req)

	userID := req.UserID
	if userID == "" {
		userID = c.GetString("userID")
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "userId is required"})
		return
	}

	link, err := h.common.banking.GenerateConnectURL(c.Request.Context(), userID)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to generate Connect URL", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "link": link, "isMock": h.common.banking.Mock()})
}

// ExchangeConnectCodeRequest carries the Connect authorization code.
type ExchangeConnectCodeRequest struct {
	Code   string `json:"code" binding:"required"`
	UserID string `json:"userId"`
}

// ExchangeConnectCode finalizes a Connect session and stores the aggregator
// customer id on the user's profile.
func (h *MastercardHandler) ExchangeConnectCode(c *gin.Context) {
	var req ExchangeConnectCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "code is required"})
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = c.GetString("userID")
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "userId is required"})
		return
	}

	session, err := h.common.banking.ExchangeConnectCode(c.Request.Context(), req.Code, userID)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to exchange Connect code", err)
		return
	}

	if _, err := h.common.db.EnsureUserProfile(c.Request.Context(), db.EnsureUserProfileParams{UserID: userID}); err != nil {
		handleDBError(c, err, "Profile not found")
		return
	}
	if _, err := h.common.db.UpdateBankLink(c.Request.Context(), db.UpdateBankLinkParams{
		UserID:               userID,
		MastercardCustomerID: session.CustomerID,
	}); err != nil {
		handleDBError(c, err, "Profile not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "customerId": session.CustomerID, "isMock": session.IsMock})
}

// TransactionWithCashback decorates a provider transaction with the cashback
// it earned.
type TransactionWithCashback struct {
	mastercard.Transaction
	CashbackAmount decimal.Decimal `json:"cashback_amount"`
	CashbackRate   decimal.Decimal `json:"cashback_rate"`
}

// ListTransactions returns the user's transactions for an account with
// per-transaction cashback and a running total.
func (h *MastercardHandler) ListTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	accountID := c.Query("accountId")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "accountId is required"})
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, -1, 0)
	if v := c.Query("fromDate"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "fromDate must be YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if v := c.Query("toDate"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "toDate must be YYYY-MM-DD"})
			return
		}
		to = parsed
	}

	// Prefer the aggregator customer id recorded at link time.
	customerID := userID
	if profile, err := h.common.db.GetUserProfile(c.Request.Context(), userID); err == nil && profile.MastercardCustomerID != "" {
		customerID = profile.MastercardCustomerID
	}

	transactions, err := h.common.banking.ListTransactions(c.Request.Context(), customerID, accountID, from, to)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to fetch transactions", err)
		return
	}

	enriched := make([]TransactionWithCashback, 0, len(transactions))
	total := decimal.Zero
	for _, t := range transactions {
		earned := cashback.ForTransaction(t.Category, t.Amount)
		total = total.Add(earned)
		enriched = append(enriched, TransactionWithCashback{
			Transaction:    t,
			CashbackAmount: earned,
			CashbackRate:   cashback.Rate(t.Category),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"transactions":   enriched,
		"total_cashback": total,
		"isMock":         h.common.banking.Mock(),
	})
}

// Institutions searches financial institutions available through Connect.
func (h *MastercardHandler) Institutions(c *gin.Context) {
	institutions, err := h.common.banking.SearchInstitutions(c.Request.Context(), c.Query("search"))
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to search institutions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "institutions": institutions, "isMock": h.common.banking.Mock()})
}
