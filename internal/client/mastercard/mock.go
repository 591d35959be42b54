package mastercard

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// mockMerchants drive the demo transaction feed. Amounts are cents.
var mockMerchants = []struct {
	name     string
	category string
	minCents int64
	maxCents int64
}{
	{"Whole Foods Market", "Groceries", 1500, 14000},
	{"Shell Oil", "Gas", 2500, 7500},
	{"Starbucks", "Dining", 400, 1800},
	{"Chipotle", "Dining", 900, 3200},
	{"Amazon.com", "Shopping", 800, 19000},
	{"Target", "Shopping", 1200, 16000},
	{"Netflix", "Entertainment", 1549, 1549},
	{"Uber", "Travel", 800, 4500},
	{"Walgreens", "Health", 500, 6000},
	{"Trader Joe's", "Groceries", 1100, 9000},
}

// mockInstitutions back the demo institution search.
var mockInstitutions = []Institution{
	{ID: "101732", Name: "Chase Bank", URL: "https://www.chase.com"},
	{ID: "5960", Name: "Bank of America", URL: "https://www.bankofamerica.com"},
	{ID: "6203", Name: "Wells Fargo", URL: "https://www.wellsfargo.com"},
	{ID: "15880", Name: "Citibank", URL: "https://www.citi.com"},
	{ID: "170778", Name: "Capital One", URL: "https://www.capitalone.com"},
	{ID: "13612", Name: "US Bank", URL: "https://www.usbank.com"},
	{ID: "102176", Name: "Ally Bank", URL: "https://www.ally.com"},
	{ID: "12001", Name: "Navy Federal Credit Union", URL: "https://www.navyfederal.org"},
}

// MockOpenBanking serves deterministic demo data: the same user and account
// always see the same transaction feed for a given day range.
type MockOpenBanking struct{}

// NewMockOpenBanking creates the demo aggregator adapter.
func NewMockOpenBanking() *MockOpenBanking {
	return &MockOpenBanking{}
}

// Mock reports that this adapter returns synthetic data.
func (m *MockOpenBanking) Mock() bool {
	return true
}

// GenerateConnectURL returns a demo Connect URL carrying the user id.
func (m *MockOpenBanking) GenerateConnectURL(_ context.Context, userID string) (string, error) {
	return fmt.Sprintf("https://connect.demo.jaspire.app/launch?customer=%s", userID), nil
}

// ExchangeConnectCode returns a demo customer id derived from the user id.
func (m *MockOpenBanking) ExchangeConnectCode(_ context.Context, _ string, userID string) (*ConnectSession, error) {
	return &ConnectSession{
		CustomerID: fmt.Sprintf("demo-%d", seedFor(userID)),
		IsMock:     true,
	}, nil
}

// ListTransactions generates one to three transactions per day in the range,
// seeded by customer, account and day so the feed is stable across calls.
func (m *MockOpenBanking) ListTransactions(_ context.Context, customerID, accountID string, from, to time.Time) ([]Transaction, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("invalid date range: %s after %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	var transactions []Transaction
	for day := from.Truncate(24 * time.Hour); !day.After(to); day = day.Add(24 * time.Hour) {
		rng := rand.New(rand.NewSource(int64(seedFor(customerID + accountID + day.Format("2006-01-02")))))
		count := 1 + rng.Intn(3)
		for i := 0; i < count; i++ {
			merchant := mockMerchants[rng.Intn(len(mockMerchants))]
			cents := merchant.minCents
			if merchant.maxCents > merchant.minCents {
				cents += rng.Int63n(merchant.maxCents - merchant.minCents)
			}
			transactions = append(transactions, Transaction{
				ID:           fmt.Sprintf("%s-%s-%d", accountID, day.Format("20060102"), i),
				AccountID:    accountID,
				Amount:       decimal.New(cents, -2),
				Description:  merchant.name,
				MerchantName: merchant.name,
				Category:     merchant.category,
				PostedAt:     day.Add(time.Duration(rng.Intn(24)) * time.Hour),
			})
		}
	}

	return transactions, nil
}

// SearchInstitutions filters the demo institution list by substring match.
func (m *MockOpenBanking) SearchInstitutions(_ context.Context, query string) ([]Institution, error) {
	if query == "" {
		return mockInstitutions, nil
	}

	q := strings.ToLower(query)
	var matches []Institution
	for _, inst := range mockInstitutions {
		if strings.Contains(strings.ToLower(inst.Name), q) {
			matches = append(matches, inst)
		}
	}
	return matches, nil
}

func seedFor(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
