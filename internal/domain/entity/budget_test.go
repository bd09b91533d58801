package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBudget_StatusFor(t *testing.T) {
	budget := NewBudget(uuid.New(), "Lazer", decimal.NewFromInt(200), true)

	tests := []struct {
		name    string
		spent   string
		status  BudgetStatus
		percent string
	}{
		{"nothing spent", "0", BudgetStatusOK, "0"},
		{"just below warning", "149.99", BudgetStatusOK, "75"},
		{"at warning", "150", BudgetStatusWarning, "75"},
		{"just below limit", "199.98", BudgetStatusWarning, "99.99"},
		{"at limit", "200", BudgetStatusExceeded, "100"},
		{"above limit", "350", BudgetStatusExceeded, "175"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spent := decimal.RequireFromString(tt.spent)
			assert.Equal(t, tt.status, budget.StatusFor(spent))
			assert.True(t, decimal.RequireFromString(tt.percent).Equal(budget.Usage(spent)), "usage %s", budget.Usage(spent))
		})
	}
}

func TestBudget_UsageWithZeroLimit(t *testing.T) {
	budget := NewBudget(uuid.New(), "Lazer", decimal.Zero, false)
	assert.True(t, budget.Usage(decimal.NewFromInt(10)).IsZero())
}
