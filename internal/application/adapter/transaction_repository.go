package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/domain/entity"
)

// TransactionFilter narrows a transaction listing. Zero values disable a filter.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time // exclusive
	Type      entity.TransactionType
	Category  string
	Search    string
}

// TransactionPagination selects a page of a listing.
type TransactionPagination struct {
	Page  int
	Limit int
}

// TransactionRepository defines the interface for transaction persistence operations.
type TransactionRepository interface {
	// Create persists a new transaction.
	Create(ctx context.Context, tx *entity.Transaction) error

	// FindByID retrieves a transaction of the user.
	FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.Transaction, error)

	// List returns transactions ordered by date and id, newest first.
	List(ctx context.Context, userID uuid.UUID, filter TransactionFilter, pagination TransactionPagination) (*entity.TransactionListResult, error)

	// Recent returns the last limit transactions of the user.
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Transaction, error)

	// Delete removes a transaction of the user.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// DeleteAllByUser removes every transaction of the user and returns the count.
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// GetTotals sums income and expenses in [start, end).
	GetTotals(ctx context.Context, userID uuid.UUID, start, end time.Time) (*entity.TransactionTotals, error)

	// GetCategoryTotals sums expenses per category in [start, end), largest first.
	GetCategoryTotals(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]entity.CategoryTotal, error)

	// SumExpensesByCategory sums the expenses of one category in [start, end).
	SumExpensesByCategory(ctx context.Context, userID uuid.UUID, category string, start, end time.Time) (decimal.Decimal, error)

	// SumByCategoryContaining sums amounts of categories whose name contains fragment.
	SumByCategoryContaining(ctx context.Context, userID uuid.UUID, fragment string) (decimal.Decimal, []*entity.Transaction, error)

	// ExternalIDsExist returns the subset of ids already imported by the user.
	ExternalIDsExist(ctx context.Context, userID uuid.UUID, ids []string) (map[string]bool, error)
}
