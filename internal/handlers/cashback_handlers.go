package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"jaspire-api/internal/cashback"
	"jaspire-api/internal/db"
)

// CashbackHandler serves cashback summaries and auto-invest previews.
type CashbackHandler struct {
	common *CommonServices
}

// NewCashbackHandler creates a new CashbackHandler
func NewCashbackHandler(common *CommonServices) *CashbackHandler {
	return &CashbackHandler{common: common}
}

// Summary aggregates the cashback earned across the user's linked accounts
// over the requested window (default: the last month).
func (h *CashbackHandler) Summary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	accountID := c.DefaultQuery("accountId", "all")

	to := time.Now().UTC()
	from := to.AddDate(0, -1, 0)

	customerID := userID
	if profile, err := h.common.db.GetUserProfile(c.Request.Context(), userID); err == nil && profile.MastercardCustomerID != "" {
		customerID = profile.MastercardCustomerID
	}

	transactions, err := h.common.banking.ListTransactions(c.Request.Context(), customerID, accountID, from, to)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to fetch transactions", err)
		return
	}

	total := decimal.Zero
	byCategory := map[string]decimal.Decimal{}
	for _, t := range transactions {
		earned := cashback.ForTransaction(t.Category, t.Amount)
		total = total.Add(earned)
		byCategory[t.Category] = byCategory[t.Category].Add(earned)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"total_cashback":    total,
		"by_category":       byCategory,
		"transaction_count": len(transactions),
		"from":              from.Format("2006-01-02"),
		"to":                to.Format("2006-01-02"),
	})
}

// InvestPreviewRequest asks how a cashback balance would be allocated.
type InvestPreviewRequest struct {
	Amount   string `json:"amount" binding:"required"`
	Strategy string `json:"strategy" binding:"omitempty,oneof=conservative balanced aggressive"`
}

// InvestPreview returns the auto-invest allocation for a cashback balance
// under the user's (or an explicitly requested) risk strategy.
func (h *CashbackHandler) InvestPreview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req InvestPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount is required"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount must be a non-negative decimal string"})
		return
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = db.RiskBalanced
		if profile, err := h.common.db.GetUserProfile(c.Request.Context(), userID); err == nil && profile.RiskStrategy != "" {
			strategy = profile.RiskStrategy
		}
	}

	allocations, err := cashback.Allocate(strategy, amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"strategy":    strategy,
		"amount":      amount,
		"allocations": allocations,
	})
}
