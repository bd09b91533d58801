package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/valueobject"
)

// digestTopCategories is the number of categories listed in a digest.
const digestTopCategories = 5

// QueueMonthlyDigestOutput reports a digest run.
type QueueMonthlyDigestOutput struct {
	Month  string
	Queued int
}

// QueueMonthlyDigestUseCase queues the summary of the previous month for
// every user who accepts email notifications.
type QueueMonthlyDigestUseCase struct {
	userRepo        adapter.UserRepository
	transactionRepo adapter.TransactionRepository
	emailService    adapter.EmailService
	loc             *time.Location
}

// NewQueueMonthlyDigestUseCase creates a new QueueMonthlyDigestUseCase instance.
func NewQueueMonthlyDigestUseCase(
	userRepo adapter.UserRepository,
	transactionRepo adapter.TransactionRepository,
	emailService adapter.EmailService,
	loc *time.Location,
) *QueueMonthlyDigestUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &QueueMonthlyDigestUseCase{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		emailService:    emailService,
		loc:             loc,
	}
}

// Execute queues the digests of the month before now.
func (uc *QueueMonthlyDigestUseCase) Execute(ctx context.Context, now time.Time) (*QueueMonthlyDigestOutput, error) {
	current := valueobject.MonthOf(now.In(uc.loc))
	month := valueobject.MonthOf(current.Start().AddDate(0, -1, 0))
	out := &QueueMonthlyDigestOutput{Month: month.Key()}

	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	for _, user := range users {
		if !user.EmailNotifications {
			continue
		}

		totals, err := uc.transactionRepo.GetTotals(ctx, user.ID, month.Start(), month.End())
		if err != nil {
			slog.Error("Failed to compute digest totals", "error", err, "userID", user.ID)
			continue
		}
		if totals.IncomeTotal.IsZero() && totals.ExpenseTotal.IsZero() {
			continue
		}

		categories, err := uc.transactionRepo.GetCategoryTotals(ctx, user.ID, month.Start(), month.End())
		if err != nil {
			slog.Error("Failed to compute digest categories", "error", err, "userID", user.ID)
			continue
		}
		if len(categories) > digestTopCategories {
			categories = categories[:digestTopCategories]
		}
		top := make([]adapter.CategorySpend, 0, len(categories))
		for _, c := range categories {
			top = append(top, adapter.CategorySpend{Category: c.Category, Total: c.Total})
		}

		if err := uc.emailService.QueueMonthlyDigest(ctx, adapter.QueueMonthlyDigestInput{
			UserID:    user.ID,
			UserEmail: user.Email,
			UserName:  user.Name,
			Month:     month.Key(),
			Income:    totals.IncomeTotal,
			Expense:   totals.ExpenseTotal,
			Balance:   totals.IncomeTotal.Sub(totals.ExpenseTotal),
			TopSpend:  top,
		}); err != nil {
			slog.Error("Failed to queue monthly digest", "error", err, "userID", user.ID)
			continue
		}
		out.Queued++
	}

	slog.Info("Monthly digests queued", "month", out.Month, "count", out.Queued)
	return out, nil
}
