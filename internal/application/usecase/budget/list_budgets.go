package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/domain/valueobject"
)

// ListBudgetsInput represents the input for listing budgets.
type ListBudgetsInput struct {
	UserID uuid.UUID
	Month  string // "YYYY-MM"; empty means the current month
}

// ListBudgetsOutput represents the budgets with the month's spending.
type ListBudgetsOutput struct {
	Month   string
	Budgets []*entity.BudgetWithSpending
}

// ListBudgetsUseCase lists the budgets of a user with their usage in a month.
type ListBudgetsUseCase struct {
	budgetRepo      adapter.BudgetRepository
	transactionRepo adapter.TransactionRepository
	loc             *time.Location
	now             func() time.Time
}

// NewListBudgetsUseCase creates a new ListBudgetsUseCase instance.
func NewListBudgetsUseCase(budgetRepo adapter.BudgetRepository, transactionRepo adapter.TransactionRepository, loc *time.Location) *ListBudgetsUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &ListBudgetsUseCase{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		loc:             loc,
		now:             time.Now,
	}
}

// Execute lists the budgets.
func (uc *ListBudgetsUseCase) Execute(ctx context.Context, input ListBudgetsInput) (*ListBudgetsOutput, error) {
	month := valueobject.MonthOf(uc.now().In(uc.loc))
	if input.Month != "" {
		m, err := valueobject.ParseMonth(input.Month, uc.loc)
		if err != nil {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeInvalidBudgetMonth,
				"month must use the YYYY-MM format",
				err,
			)
		}
		month = m
	}

	budgets, err := uc.budgetRepo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	out := &ListBudgetsOutput{Month: month.Key(), Budgets: make([]*entity.BudgetWithSpending, 0, len(budgets))}
	for _, b := range budgets {
		spent, err := uc.transactionRepo.SumExpensesByCategory(ctx, input.UserID, b.Category, month.Start(), month.End())
		if err != nil {
			return nil, fmt.Errorf("failed to sum expenses of %s: %w", b.Category, err)
		}
		out.Budgets = append(out.Budgets, &entity.BudgetWithSpending{
			Budget:  b,
			Spent:   spent,
			Percent: b.Usage(spent),
			Status:  b.StatusFor(spent),
		})
	}

	return out, nil
}
