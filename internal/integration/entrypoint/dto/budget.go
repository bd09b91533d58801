package dto

import (
	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/application/usecase/budget"
	"github.com/smartwallet/backend/internal/domain/entity"
)

// SetBudgetRequest represents the request body for setting a category budget.
// Category is read from the path when present.
type SetBudgetRequest struct {
	Category      string          `json:"category,omitempty"`
	LimitAmount   decimal.Decimal `json:"limit_amount"`
	AlertOnExceed *bool           `json:"alert_on_exceed,omitempty"`
}

// AlertEnabled reports whether alerts were requested. Alerts default to on.
func (r SetBudgetRequest) AlertEnabled() bool {
	return r.AlertOnExceed == nil || *r.AlertOnExceed
}

// BudgetResponse represents a budget in API responses.
type BudgetResponse struct {
	ID            string `json:"id"`
	Category      string `json:"category"`
	LimitAmount   string `json:"limit_amount"`
	AlertOnExceed bool   `json:"alert_on_exceed"`
}

// BudgetUsageResponse is a budget with the month's spending.
type BudgetUsageResponse struct {
	BudgetResponse
	Spent   string `json:"spent"`
	Percent string `json:"percent"`
	Status  string `json:"status"`
}

// BudgetListResponse lists the budgets of a month.
type BudgetListResponse struct {
	Month   string                `json:"month"`
	Budgets []BudgetUsageResponse `json:"budgets"`
}

// ToBudgetResponse converts a domain Budget entity to a BudgetResponse DTO.
func ToBudgetResponse(b *entity.Budget) BudgetResponse {
	return BudgetResponse{
		ID:            b.ID.String(),
		Category:      b.Category,
		LimitAmount:   b.LimitAmount.StringFixed(2),
		AlertOnExceed: b.AlertOnExceed,
	}
}

// ToBudgetListResponse converts the list output to its DTO.
func ToBudgetListResponse(output *budget.ListBudgetsOutput) BudgetListResponse {
	budgets := make([]BudgetUsageResponse, 0, len(output.Budgets))
	for _, b := range output.Budgets {
		budgets = append(budgets, BudgetUsageResponse{
			BudgetResponse: ToBudgetResponse(b.Budget),
			Spent:          b.Spent.StringFixed(2),
			Percent:        b.Percent.StringFixed(2),
			Status:         string(b.Status),
		})
	}
	return BudgetListResponse{Month: output.Month, Budgets: budgets}
}
