package dto

import (
	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/domain/entity"
)

// CreateRecurringRequest represents the request body for a recurring item.
type CreateRecurringRequest struct {
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" binding:"required,max=255"`
	Type        string          `json:"type" binding:"required,oneof=expense income"`
	DayOfMonth  int             `json:"day_of_month" binding:"required"`
}

// RecurringResponse represents a recurring item in API responses.
type RecurringResponse struct {
	ID            string `json:"id"`
	Category      string `json:"category"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
	Type          string `json:"type"`
	DayOfMonth    int    `json:"day_of_month"`
	LastProcessed string `json:"last_processed,omitempty"`
	Active        bool   `json:"active"`
}

// RecurringListResponse lists the recurring items of a user.
type RecurringListResponse struct {
	Items []RecurringResponse `json:"items"`
}

// ProcessRecurringResponse reports a manual recurring run.
type ProcessRecurringResponse struct {
	Generated    int                   `json:"generated"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ToRecurringResponse converts a domain RecurringItem to a RecurringResponse DTO.
func ToRecurringResponse(item *entity.RecurringItem) RecurringResponse {
	return RecurringResponse{
		ID:            item.ID.String(),
		Category:      item.Category,
		Amount:        item.Amount.StringFixed(2),
		Description:   item.Description,
		Type:          string(item.Type),
		DayOfMonth:    item.DayOfMonth,
		LastProcessed: item.LastProcessed,
		Active:        item.Active,
	}
}

// ToRecurringListResponse converts a list of recurring items.
func ToRecurringListResponse(items []*entity.RecurringItem) RecurringListResponse {
	out := make([]RecurringResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ToRecurringResponse(item))
	}
	return RecurringListResponse{Items: out}
}
