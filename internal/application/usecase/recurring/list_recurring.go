package recurring

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
)

// ListRecurringInput represents the input for listing recurring items.
type ListRecurringInput struct {
	UserID uuid.UUID
}

// ListRecurringOutput represents the output of listing recurring items.
type ListRecurringOutput struct {
	Items []*entity.RecurringItem
}

// ListRecurringUseCase lists the recurring items of a user.
type ListRecurringUseCase struct {
	recurringRepo adapter.RecurringRepository
}

// NewListRecurringUseCase creates a new ListRecurringUseCase instance.
func NewListRecurringUseCase(recurringRepo adapter.RecurringRepository) *ListRecurringUseCase {
	return &ListRecurringUseCase{recurringRepo: recurringRepo}
}

// Execute lists the recurring items.
func (uc *ListRecurringUseCase) Execute(ctx context.Context, input ListRecurringInput) (*ListRecurringOutput, error) {
	items, err := uc.recurringRepo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring items: %w", err)
	}
	return &ListRecurringOutput{Items: items}, nil
}
