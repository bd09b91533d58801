package budget

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/smartwallet/backend/internal/application/adapter"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
)

// DeleteBudgetInput represents the input for deleting a budget.
type DeleteBudgetInput struct {
	UserID   uuid.UUID
	Category string
}

// DeleteBudgetUseCase removes the budget of a category.
type DeleteBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
}

// NewDeleteBudgetUseCase creates a new DeleteBudgetUseCase instance.
func NewDeleteBudgetUseCase(budgetRepo adapter.BudgetRepository) *DeleteBudgetUseCase {
	return &DeleteBudgetUseCase{budgetRepo: budgetRepo}
}

// Execute deletes the budget.
func (uc *DeleteBudgetUseCase) Execute(ctx context.Context, input DeleteBudgetInput) error {
	if err := uc.budgetRepo.Delete(ctx, input.UserID, strings.TrimSpace(input.Category)); err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return domainerror.NewBudgetError(
				domainerror.ErrCodeBudgetNotFound,
				"budget not found",
				domainerror.ErrBudgetNotFound,
			)
		}
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}
