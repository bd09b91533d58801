package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/smartwallet/backend/internal/domain/entity"
)

// BudgetRepository defines the interface for budget persistence operations.
type BudgetRepository interface {
	// Upsert creates the budget of (user, category) or replaces its limit and alert flag.
	Upsert(ctx context.Context, budget *entity.Budget) error

	// FindByCategory retrieves the budget of a category.
	FindByCategory(ctx context.Context, userID uuid.UUID, category string) (*entity.Budget, error)

	// ListByUser returns the budgets of the user ordered by category.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Budget, error)

	// Delete removes the budget of a category.
	Delete(ctx context.Context, userID uuid.UUID, category string) error

	// DeleteAllByUser removes every budget of the user and returns the count.
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
