// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/domain/valueobject"
)

const (
	// MaxDescriptionLength is the maximum length of a description, in characters.
	MaxDescriptionLength = 255
	// MaxMerchantLength is the maximum length of a merchant name, in characters.
	MaxMerchantLength = 120
)

// TruncateRunes cuts s to at most n characters.
func TruncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// TransactionType represents the type of transaction (expense or income).
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeExpense || t == TransactionTypeIncome
}

// TransactionSource records how a transaction entered the wallet.
type TransactionSource string

const (
	SourceManual        TransactionSource = "manual"
	SourceLocal         TransactionSource = "local"
	SourceLLM           TransactionSource = "llm"
	SourceLocalFallback TransactionSource = "local-fallback"
	SourceRecurring     TransactionSource = "recurring"
	SourceOFX           TransactionSource = "ofx"
)

// Transaction represents a wallet entry. Amount is always positive and in the
// base currency; the original amount and rate are kept for converted entries.
type Transaction struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Date             time.Time
	Description      string
	Merchant         string
	Category         string
	Amount           decimal.Decimal
	OriginalAmount   decimal.Decimal
	OriginalCurrency valueobject.Currency
	ExchangeRate     decimal.Decimal
	Type             TransactionType
	Source           TransactionSource
	ExternalID       string // FITID for imported statement lines
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewTransaction creates a new Transaction in the base currency.
func NewTransaction(
	userID uuid.UUID,
	date time.Time,
	description string,
	category string,
	amount decimal.Decimal,
	transactionType TransactionType,
	source TransactionSource,
) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:               uuid.New(),
		UserID:           userID,
		Date:             date,
		Description:      description,
		Category:         category,
		Amount:           amount,
		OriginalAmount:   amount,
		OriginalCurrency: valueobject.BaseCurrency,
		ExchangeRate:     decimal.NewFromInt(1),
		Type:             transactionType,
		Source:           source,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// WithConversion records that Amount was converted from another currency.
func (t *Transaction) WithConversion(original decimal.Decimal, currency valueobject.Currency, rate decimal.Decimal) *Transaction {
	t.OriginalAmount = original
	t.OriginalCurrency = currency
	t.ExchangeRate = rate
	return t
}

// SignedAmount returns the amount with expenses negative.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionListResult represents the result of listing transactions.
type TransactionListResult struct {
	Transactions []*Transaction
	Total        int64
	Page         int
	Limit        int
	TotalPages   int
}

// TransactionTotals represents aggregated totals for transactions.
type TransactionTotals struct {
	IncomeTotal  decimal.Decimal
	ExpenseTotal decimal.Decimal
	Balance      decimal.Decimal
}

// CategoryTotal is the expense total of one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int64
}
