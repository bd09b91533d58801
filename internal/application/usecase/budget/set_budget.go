// Package budget contains the monthly budget use cases.
package budget

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
)

// SetBudgetInput represents the input for creating or replacing a budget.
type SetBudgetInput struct {
	UserID        uuid.UUID
	Category      string
	LimitAmount   decimal.Decimal
	AlertOnExceed bool
}

// SetBudgetOutput represents the stored budget.
type SetBudgetOutput struct {
	Budget *entity.Budget
}

// SetBudgetUseCase upserts the budget of a category.
type SetBudgetUseCase struct {
	budgetRepo   adapter.BudgetRepository
	categoryRepo adapter.CategoryRepository
}

// NewSetBudgetUseCase creates a new SetBudgetUseCase instance.
func NewSetBudgetUseCase(budgetRepo adapter.BudgetRepository, categoryRepo adapter.CategoryRepository) *SetBudgetUseCase {
	return &SetBudgetUseCase{budgetRepo: budgetRepo, categoryRepo: categoryRepo}
}

// Execute stores the budget, replacing any previous limit of the category.
func (uc *SetBudgetUseCase) Execute(ctx context.Context, input SetBudgetInput) (*SetBudgetOutput, error) {
	if !input.LimitAmount.IsPositive() {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetLimit,
			"limit_amount must be greater than zero",
			domainerror.ErrInvalidBudgetLimit,
		)
	}

	custom, err := uc.categoryRepo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	category, ok := entity.FindCategory(input.Category, entity.MergeCategories(custom))
	if !ok {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeBudgetUnknownCategory,
			fmt.Sprintf("category %q does not exist", input.Category),
			domainerror.ErrBudgetUnknownCategory,
		)
	}

	budget := entity.NewBudget(input.UserID, category, input.LimitAmount.Round(2), input.AlertOnExceed)
	if err := uc.budgetRepo.Upsert(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	return &SetBudgetOutput{Budget: budget}, nil
}
