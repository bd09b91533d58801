package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
)

// GetSummaryInput represents the input for a period summary.
type GetSummaryInput struct {
	UserID    uuid.UUID
	StartDate time.Time
	EndDate   time.Time // exclusive
}

// GetSummaryOutput represents the totals of a period.
type GetSummaryOutput struct {
	Totals     *entity.TransactionTotals
	Categories []entity.CategoryTotal
}

// GetSummaryUseCase computes income, expense and balance for a period.
type GetSummaryUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance.
func NewGetSummaryUseCase(transactionRepo adapter.TransactionRepository) *GetSummaryUseCase {
	return &GetSummaryUseCase{transactionRepo: transactionRepo}
}

// Execute computes the summary.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input GetSummaryInput) (*GetSummaryOutput, error) {
	if input.StartDate.After(input.EndDate) {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidDateRange,
			"start_date must not be after end_date",
			domainerror.ErrInvalidDateRange,
		)
	}

	out := &GetSummaryOutput{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		totals, err := uc.transactionRepo.GetTotals(gctx, input.UserID, input.StartDate, input.EndDate)
		if err != nil {
			return fmt.Errorf("failed to compute totals: %w", err)
		}
		totals.Balance = totals.IncomeTotal.Sub(totals.ExpenseTotal)
		out.Totals = totals
		return nil
	})
	g.Go(func() error {
		categories, err := uc.transactionRepo.GetCategoryTotals(gctx, input.UserID, input.StartDate, input.EndDate)
		if err != nil {
			return fmt.Errorf("failed to compute category totals: %w", err)
		}
		out.Categories = categories
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
