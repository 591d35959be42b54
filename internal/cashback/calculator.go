package cashback

import (
	"fmt"

	"github.com/shopspring/decimal"

	"jaspire-api/internal/db"
)

// Category cashback rates. Unlisted categories earn the base rate.
var categoryRates = map[string]decimal.Decimal{
	"Dining":        decimal.RequireFromString("0.03"),
	"Groceries":     decimal.RequireFromString("0.02"),
	"Gas":           decimal.RequireFromString("0.02"),
	"Travel":        decimal.RequireFromString("0.02"),
	"Shopping":      decimal.RequireFromString("0.01"),
	"Entertainment": decimal.RequireFromString("0.01"),
}

var baseRate = decimal.RequireFromString("0.005")

// ForTransaction computes the cashback earned on one purchase, rounded to
// cents with banker's rounding. Refunds and credits (non-positive amounts)
// earn nothing.
func ForTransaction(category string, amount decimal.Decimal) decimal.Decimal {
	if !amount.IsPositive() {
		return decimal.Zero
	}

	rate, ok := categoryRates[category]
	if !ok {
		rate = baseRate
	}

	return amount.Mul(rate).RoundBank(2)
}

// Rate returns the cashback rate for a category.
func Rate(category string) decimal.Decimal {
	if rate, ok := categoryRates[category]; ok {
		return rate
	}
	return baseRate
}

// Allocation is one slice of an auto-invest allocation.
type Allocation struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Weight decimal.Decimal `json:"weight"`
	Amount decimal.Decimal `json:"amount"`
}

type allocationTarget struct {
	symbol string
	name   string
	weight decimal.Decimal
}

// Auto-invest model portfolios per risk strategy. Weights sum to 1.
var strategyTargets = map[string][]allocationTarget{
	db.RiskConservative: {
		{"BND", "Total Bond Market ETF", decimal.RequireFromString("0.60")},
		{"VTI", "Total Stock Market ETF", decimal.RequireFromString("0.30")},
		{"VXUS", "Total International Stock ETF", decimal.RequireFromString("0.10")},
	},
	db.RiskBalanced: {
		{"VTI", "Total Stock Market ETF", decimal.RequireFromString("0.50")},
		{"BND", "Total Bond Market ETF", decimal.RequireFromString("0.30")},
		{"VXUS", "Total International Stock ETF", decimal.RequireFromString("0.20")},
	},
	db.RiskAggressive: {
		{"VTI", "Total Stock Market ETF", decimal.RequireFromString("0.60")},
		{"VXUS", "Total International Stock ETF", decimal.RequireFromString("0.30")},
		{"QQQ", "Nasdaq-100 ETF", decimal.RequireFromString("0.10")},
	},
}

// Allocate splits a cashback balance across the model portfolio for the given
// risk strategy. Rounding residue lands on the final slice so the slices
// always sum to the input amount exactly.
func Allocate(strategy string, amount decimal.Decimal) ([]Allocation, error) {
	targets, ok := strategyTargets[strategy]
	if !ok {
		return nil, fmt.Errorf("cashback: unknown risk strategy %q", strategy)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("cashback: cannot allocate a negative amount")
	}

	allocations := make([]Allocation, len(targets))
	remaining := amount
	for i, t := range targets {
		var slice decimal.Decimal
		if i == len(targets)-1 {
			slice = remaining
		} else {
			slice = amount.Mul(t.weight).RoundDown(2)
			remaining = remaining.Sub(slice)
		}
		allocations[i] = Allocation{
			Symbol: t.symbol,
			Name:   t.name,
			Weight: t.weight,
			Amount: slice,
		}
	}

	return allocations, nil
}
