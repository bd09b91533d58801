package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetStatus classifies spending against a budget limit.
type BudgetStatus string

const (
	BudgetStatusOK       BudgetStatus = "ok"
	BudgetStatusWarning  BudgetStatus = "warning"
	BudgetStatusExceeded BudgetStatus = "exceeded"
)

// BudgetWarningPercent is the usage from which a budget is flagged.
var BudgetWarningPercent = decimal.NewFromInt(75)

// Budget is a monthly spending limit for one category.
type Budget struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Category      string
	LimitAmount   decimal.Decimal
	AlertOnExceed bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBudget creates a new Budget.
func NewBudget(userID uuid.UUID, category string, limit decimal.Decimal, alertOnExceed bool) *Budget {
	now := time.Now().UTC()
	return &Budget{
		ID:            uuid.New(),
		UserID:        userID,
		Category:      category,
		LimitAmount:   limit,
		AlertOnExceed: alertOnExceed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Usage returns spent as a percentage of the limit, rounded to 2 places.
func (b *Budget) Usage(spent decimal.Decimal) decimal.Decimal {
	return b.usage(spent).Round(2)
}

func (b *Budget) usage(spent decimal.Decimal) decimal.Decimal {
	if !b.LimitAmount.IsPositive() {
		return decimal.Zero
	}
	return spent.Mul(decimal.NewFromInt(100)).Div(b.LimitAmount)
}

// StatusFor returns the status of the budget given the amount spent.
func (b *Budget) StatusFor(spent decimal.Decimal) BudgetStatus {
	usage := b.usage(spent)
	switch {
	case usage.LessThan(BudgetWarningPercent):
		return BudgetStatusOK
	case usage.LessThan(decimal.NewFromInt(100)):
		return BudgetStatusWarning
	default:
		return BudgetStatusExceeded
	}
}

// BudgetWithSpending is a budget with the spending of a given month.
type BudgetWithSpending struct {
	Budget  *Budget
	Spent   decimal.Decimal
	Percent decimal.Decimal
	Status  BudgetStatus
}
