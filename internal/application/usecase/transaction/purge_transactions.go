package transaction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/smartwallet/backend/internal/application/adapter"
)

// PurgeInput represents the input for wiping a user's data.
type PurgeInput struct {
	UserID uuid.UUID
}

// PurgeOutput reports how many rows were removed.
type PurgeOutput struct {
	Transactions int64
	Budgets      int64
	Recurring    int64
}

// PurgeUseCase deletes every transaction, budget and recurring item of a user.
type PurgeUseCase struct {
	transactionRepo adapter.TransactionRepository
	budgetRepo      adapter.BudgetRepository
	recurringRepo   adapter.RecurringRepository
}

// NewPurgeUseCase creates a new PurgeUseCase instance.
func NewPurgeUseCase(
	transactionRepo adapter.TransactionRepository,
	budgetRepo adapter.BudgetRepository,
	recurringRepo adapter.RecurringRepository,
) *PurgeUseCase {
	return &PurgeUseCase{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		recurringRepo:   recurringRepo,
	}
}

// Execute wipes the user's financial data. The account and custom
// categories are kept.
func (uc *PurgeUseCase) Execute(ctx context.Context, input PurgeInput) (*PurgeOutput, error) {
	out := &PurgeOutput{}
	var err error

	if out.Transactions, err = uc.transactionRepo.DeleteAllByUser(ctx, input.UserID); err != nil {
		return nil, fmt.Errorf("failed to delete transactions: %w", err)
	}
	if out.Budgets, err = uc.budgetRepo.DeleteAllByUser(ctx, input.UserID); err != nil {
		return nil, fmt.Errorf("failed to delete budgets: %w", err)
	}
	if out.Recurring, err = uc.recurringRepo.DeleteAllByUser(ctx, input.UserID); err != nil {
		return nil, fmt.Errorf("failed to delete recurring items: %w", err)
	}

	slog.Info("User data purged",
		"userID", input.UserID,
		"transactions", out.Transactions,
		"budgets", out.Budgets,
		"recurring", out.Recurring,
	)
	return out, nil
}
