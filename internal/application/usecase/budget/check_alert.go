package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/domain/valueobject"
)

// AlertChecker queues a budget alert when an expense makes its category
// reach the monthly limit.
type AlertChecker struct {
	budgetRepo      adapter.BudgetRepository
	transactionRepo adapter.TransactionRepository
	userRepo        adapter.UserRepository
	emailService    adapter.EmailService
	loc             *time.Location
}

// NewAlertChecker creates a new AlertChecker. A nil emailService disables alerts.
func NewAlertChecker(
	budgetRepo adapter.BudgetRepository,
	transactionRepo adapter.TransactionRepository,
	userRepo adapter.UserRepository,
	emailService adapter.EmailService,
	loc *time.Location,
) *AlertChecker {
	if loc == nil {
		loc = time.UTC
	}
	return &AlertChecker{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		emailService:    emailService,
		loc:             loc,
	}
}

// CheckExpense must be called after tx was stored. Expenses that leave the
// category below its limit, or that were already above it, queue nothing.
func (c *AlertChecker) CheckExpense(ctx context.Context, tx *entity.Transaction) error {
	if c.emailService == nil || tx.Type != entity.TransactionTypeExpense {
		return nil
	}

	budget, err := c.budgetRepo.FindByCategory(ctx, tx.UserID, tx.Category)
	if errors.Is(err, domainerror.ErrBudgetNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load budget: %w", err)
	}
	if !budget.AlertOnExceed {
		return nil
	}

	month := valueobject.MonthOf(tx.Date.In(c.loc))
	after, err := c.transactionRepo.SumExpensesByCategory(ctx, tx.UserID, tx.Category, month.Start(), month.End())
	if err != nil {
		return fmt.Errorf("failed to sum expenses: %w", err)
	}
	before := after.Sub(tx.Amount)

	// Only the expense that crosses the limit alerts
	if before.GreaterThanOrEqual(budget.LimitAmount) || after.LessThan(budget.LimitAmount) {
		return nil
	}

	user, err := c.userRepo.FindByID(ctx, tx.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !user.EmailNotifications || !user.BudgetAlerts {
		return nil
	}

	if err := c.emailService.QueueBudgetExceeded(ctx, adapter.QueueBudgetExceededInput{
		UserID:    user.ID,
		UserEmail: user.Email,
		UserName:  user.Name,
		Category:  budget.Category,
		Month:     month.Key(),
		Limit:     budget.LimitAmount,
		Spent:     after,
	}); err != nil {
		return fmt.Errorf("failed to queue budget alert: %w", err)
	}

	slog.Info("Budget alert queued", "userID", user.ID, "category", budget.Category, "month", month.Key())
	return nil
}
