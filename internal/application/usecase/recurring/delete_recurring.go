package recurring

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/smartwallet/backend/internal/application/adapter"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
)

// DeleteRecurringInput represents the input for deleting a recurring item.
type DeleteRecurringInput struct {
	UserID uuid.UUID
	ID     uuid.UUID
}

// DeleteRecurringUseCase deletes a recurring item of the user.
type DeleteRecurringUseCase struct {
	recurringRepo adapter.RecurringRepository
}

// NewDeleteRecurringUseCase creates a new DeleteRecurringUseCase instance.
func NewDeleteRecurringUseCase(recurringRepo adapter.RecurringRepository) *DeleteRecurringUseCase {
	return &DeleteRecurringUseCase{recurringRepo: recurringRepo}
}

// Execute deletes the recurring item. Transactions it already generated stay.
func (uc *DeleteRecurringUseCase) Execute(ctx context.Context, input DeleteRecurringInput) error {
	if err := uc.recurringRepo.Delete(ctx, input.UserID, input.ID); err != nil {
		if errors.Is(err, domainerror.ErrRecurringNotFound) {
			return domainerror.NewRecurringError(
				domainerror.ErrCodeRecurringNotFound,
				"recurring item not found",
				domainerror.ErrRecurringNotFound,
			)
		}
		return fmt.Errorf("failed to delete recurring item: %w", err)
	}
	return nil
}
