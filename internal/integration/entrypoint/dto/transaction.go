package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/application/usecase/importer"
	"github.com/smartwallet/backend/internal/application/usecase/transaction"
	"github.com/smartwallet/backend/internal/domain/entity"
)

// DateLayout is the date format of request and response fields.
const DateLayout = "2006-01-02"

// CreateTransactionRequest represents the request body for a manual transaction.
type CreateTransactionRequest struct {
	Date        string          `json:"date,omitempty"`
	Description string          `json:"description" binding:"required,max=255"`
	Merchant    string          `json:"merchant,omitempty" binding:"max=255"`
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type" binding:"required,oneof=expense income"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID               string    `json:"id"`
	Date             string    `json:"date"`
	Description      string    `json:"description"`
	Merchant         string    `json:"merchant,omitempty"`
	Category         string    `json:"category"`
	Amount           string    `json:"amount"`
	Type             string    `json:"type"`
	OriginalAmount   string    `json:"original_amount"`
	OriginalCurrency string    `json:"original_currency"`
	ExchangeRate     string    `json:"exchange_rate"`
	Source           string    `json:"source"`
	CreatedAt        time.Time `json:"created_at"`
}

// TransactionPaginationResponse represents pagination information in API responses.
type TransactionPaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse        `json:"transactions"`
	Pagination   TransactionPaginationResponse `json:"pagination"`
}

// CategoryTotalResponse is the spending of one category.
type CategoryTotalResponse struct {
	Category string `json:"category"`
	Total    string `json:"total"`
	Count    int64  `json:"count"`
}

// SummaryResponse represents the totals of a period.
type SummaryResponse struct {
	StartDate  string                  `json:"start_date"`
	EndDate    string                  `json:"end_date"`
	Income     string                  `json:"income"`
	Expense    string                  `json:"expense"`
	Balance    string                  `json:"balance"`
	Categories []CategoryTotalResponse `json:"categories"`
}

// InvestmentsResponse represents the investment transactions.
type InvestmentsResponse struct {
	Total        string                `json:"total"`
	Transactions []TransactionResponse `json:"transactions"`
}

// PurgeResponse reports the records removed by a purge.
type PurgeResponse struct {
	Transactions int64 `json:"transactions"`
	Budgets      int64 `json:"budgets"`
	Recurring    int64 `json:"recurring"`
}

// ImportResponse reports a statement import.
type ImportResponse struct {
	Imported     int                   `json:"imported"`
	Skipped      int                   `json:"skipped"`
	Currency     string                `json:"currency"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ToTransactionResponse converts a domain Transaction entity to a TransactionResponse DTO.
func ToTransactionResponse(tx *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:               tx.ID.String(),
		Date:             tx.Date.Format(time.RFC3339),
		Description:      tx.Description,
		Merchant:         tx.Merchant,
		Category:         tx.Category,
		Amount:           tx.Amount.StringFixed(2),
		Type:             string(tx.Type),
		OriginalAmount:   tx.OriginalAmount.String(),
		OriginalCurrency: tx.OriginalCurrency.String(),
		ExchangeRate:     tx.ExchangeRate.String(),
		Source:           string(tx.Source),
		CreatedAt:        tx.CreatedAt,
	}
}

// ToTransactionResponses converts a list of transactions.
func ToTransactionResponses(txs []*entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, ToTransactionResponse(tx))
	}
	return out
}

// ToTransactionListResponse converts the list output to its DTO.
func ToTransactionListResponse(output *transaction.ListTransactionsOutput) TransactionListResponse {
	r := output.Result
	return TransactionListResponse{
		Transactions: ToTransactionResponses(r.Transactions),
		Pagination: TransactionPaginationResponse{
			Page:       r.Page,
			Limit:      r.Limit,
			Total:      r.Total,
			TotalPages: r.TotalPages,
		},
	}
}

// ToSummaryResponse converts the summary output to its DTO. end is exclusive.
func ToSummaryResponse(output *transaction.GetSummaryOutput, start, end time.Time) SummaryResponse {
	categories := make([]CategoryTotalResponse, 0, len(output.Categories))
	for _, c := range output.Categories {
		categories = append(categories, CategoryTotalResponse{
			Category: c.Category,
			Total:    c.Total.StringFixed(2),
			Count:    c.Count,
		})
	}
	return SummaryResponse{
		StartDate:  start.Format(DateLayout),
		EndDate:    end.AddDate(0, 0, -1).Format(DateLayout),
		Income:     output.Totals.IncomeTotal.StringFixed(2),
		Expense:    output.Totals.ExpenseTotal.StringFixed(2),
		Balance:    output.Totals.Balance.StringFixed(2),
		Categories: categories,
	}
}

// ToImportResponse converts the import output to its DTO.
func ToImportResponse(output *importer.ImportStatementOutput) ImportResponse {
	return ImportResponse{
		Imported:     output.Imported,
		Skipped:      output.Skipped,
		Currency:     output.Currency,
		Transactions: ToTransactionResponses(output.Transactions),
	}
}
