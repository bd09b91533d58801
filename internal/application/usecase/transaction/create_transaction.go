// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
)

// BudgetAlerter is notified after an expense is stored.
type BudgetAlerter interface {
	CheckExpense(ctx context.Context, tx *entity.Transaction) error
}

// CreateTransactionInput represents the input for manual transaction creation.
type CreateTransactionInput struct {
	UserID      uuid.UUID
	Date        time.Time // zero means now
	Description string
	Merchant    string
	Category    string
	Amount      decimal.Decimal
	Type        entity.TransactionType
}

// CreateTransactionOutput represents the output of transaction creation.
type CreateTransactionOutput struct {
	Transaction *entity.Transaction
}

// CreateTransactionUseCase handles manual transaction creation.
type CreateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	categoryRepo    adapter.CategoryRepository
	alerter         BudgetAlerter
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
// alerter may be nil.
func NewCreateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
	alerter BudgetAlerter,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		alerter:         alerter,
	}
}

// Execute performs the transaction creation.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	// Validate amount
	amount := input.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidTransactionAmount,
		)
	}

	// Validate description
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidDescription,
			"description is required",
			domainerror.ErrEmptyDescription,
		)
	}
	if utf8.RuneCountInString(description) > entity.MaxDescriptionLength {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidDescription,
			fmt.Sprintf("description must not exceed %d characters", entity.MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}

	// Validate transaction type
	if !input.Type.IsValid() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionType,
			"transaction type must be 'expense' or 'income'",
			domainerror.ErrInvalidTransactionType,
		)
	}

	// Validate category against the user's list
	custom, err := uc.categoryRepo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	category, ok := entity.FindCategory(input.Category, entity.MergeCategories(custom))
	if !ok {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeUnknownCategory,
			fmt.Sprintf("category %q does not exist", input.Category),
			domainerror.ErrUnknownCategory,
		)
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	tx := entity.NewTransaction(input.UserID, date, description, category, amount, input.Type, entity.SourceManual)
	tx.Merchant = strings.TrimSpace(input.Merchant)

	if err := uc.transactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if uc.alerter != nil && tx.Type == entity.TransactionTypeExpense {
		if err := uc.alerter.CheckExpense(ctx, tx); err != nil {
			slog.Error("Failed to check budget alert", "error", err, "transactionID", tx.ID)
		}
	}

	return &CreateTransactionOutput{Transaction: tx}, nil
}
