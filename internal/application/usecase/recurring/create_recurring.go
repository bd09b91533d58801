// Package recurring contains the recurrence engine use cases.
package recurring

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
)

// CreateRecurringInput represents the input for creating a recurring item.
type CreateRecurringInput struct {
	UserID      uuid.UUID
	Category    string
	Amount      decimal.Decimal
	Description string
	Type        entity.TransactionType
	DayOfMonth  int
}

// CreateRecurringOutput represents the output of creating a recurring item.
type CreateRecurringOutput struct {
	Item *entity.RecurringItem
}

// CreateRecurringUseCase handles recurring item creation.
type CreateRecurringUseCase struct {
	recurringRepo adapter.RecurringRepository
	categoryRepo  adapter.CategoryRepository
}

// NewCreateRecurringUseCase creates a new CreateRecurringUseCase instance.
func NewCreateRecurringUseCase(recurringRepo adapter.RecurringRepository, categoryRepo adapter.CategoryRepository) *CreateRecurringUseCase {
	return &CreateRecurringUseCase{
		recurringRepo: recurringRepo,
		categoryRepo:  categoryRepo,
	}
}

// Execute performs the recurring item creation.
func (uc *CreateRecurringUseCase) Execute(ctx context.Context, input CreateRecurringInput) (*CreateRecurringOutput, error) {
	if input.DayOfMonth < 1 || input.DayOfMonth > 31 {
		return nil, domainerror.NewRecurringError(
			domainerror.ErrCodeInvalidDayOfMonth,
			"day_of_month must be between 1 and 31",
			domainerror.ErrInvalidDayOfMonth,
		)
	}

	if !input.Amount.IsPositive() {
		return nil, domainerror.NewRecurringError(
			domainerror.ErrCodeInvalidRecurringAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidTransactionAmount,
		)
	}

	description := strings.TrimSpace(input.Description)
	if description == "" || utf8.RuneCountInString(description) > entity.MaxDescriptionLength {
		return nil, domainerror.NewRecurringError(
			domainerror.ErrCodeInvalidRecurringDesc,
			fmt.Sprintf("description must have between 1 and %d characters", entity.MaxDescriptionLength),
			domainerror.ErrEmptyDescription,
		)
	}

	if !input.Type.IsValid() {
		return nil, domainerror.NewRecurringError(
			domainerror.ErrCodeInvalidRecurringType,
			"type must be 'expense' or 'income'",
			domainerror.ErrInvalidTransactionType,
		)
	}

	custom, err := uc.categoryRepo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	category, ok := entity.FindCategory(input.Category, entity.MergeCategories(custom))
	if !ok {
		return nil, domainerror.NewRecurringError(
			domainerror.ErrCodeRecurringUnknownCategory,
			fmt.Sprintf("category %q does not exist", input.Category),
			domainerror.ErrUnknownCategory,
		)
	}

	item := entity.NewRecurringItem(input.UserID, category, input.Amount.Round(2), description, input.Type, input.DayOfMonth)
	if err := uc.recurringRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create recurring item: %w", err)
	}

	return &CreateRecurringOutput{Item: item}, nil
}
