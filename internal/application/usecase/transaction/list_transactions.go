package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
)

const (
	// DefaultPageLimit is used when no limit is requested.
	DefaultPageLimit = 20
	// MaxPageLimit caps the requested page size.
	MaxPageLimit = 100
)

// ListTransactionsInput represents the input for listing transactions.
type ListTransactionsInput struct {
	UserID    uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time // exclusive
	Type      entity.TransactionType
	Category  string
	Search    string
	Page      int
	Limit     int
}

// ListTransactionsOutput represents the output of listing transactions.
type ListTransactionsOutput struct {
	Result *entity.TransactionListResult
}

// ListTransactionsUseCase handles listing transactions logic.
type ListTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(transactionRepo adapter.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute performs the transaction listing.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	if input.StartDate != nil && input.EndDate != nil && input.StartDate.After(*input.EndDate) {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidDateRange,
			"start_date must not be after end_date",
			domainerror.ErrInvalidDateRange,
		)
	}
	if input.Type != "" && !input.Type.IsValid() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionType,
			"transaction type must be 'expense' or 'income'",
			domainerror.ErrInvalidTransactionType,
		)
	}

	// Set default pagination values
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	filter := adapter.TransactionFilter{
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Type:      input.Type,
		Category:  strings.TrimSpace(input.Category),
		Search:    strings.TrimSpace(input.Search),
	}

	result, err := uc.transactionRepo.List(ctx, input.UserID, filter, adapter.TransactionPagination{Page: page, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &ListTransactionsOutput{Result: result}, nil
}
