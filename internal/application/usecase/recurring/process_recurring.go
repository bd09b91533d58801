package recurring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	"github.com/smartwallet/backend/internal/domain/valueobject"
)

// ProcessRecurringInput represents the input for processing a user's recurring items.
type ProcessRecurringInput struct {
	UserID uuid.UUID
	Now    time.Time // zero means the current time
}

// ProcessRecurringOutput represents the output of processing recurring items.
type ProcessRecurringOutput struct {
	Generated    int
	Transactions []*entity.Transaction
}

// ProcessRecurringUseCase generates the transactions of the recurring items
// that are due in the current month. Running it again in the same month
// generates nothing.
type ProcessRecurringUseCase struct {
	recurringRepo adapter.RecurringRepository
	metrics       adapter.Metrics
	loc           *time.Location
	now           func() time.Time
}

// NewProcessRecurringUseCase creates a new ProcessRecurringUseCase instance.
func NewProcessRecurringUseCase(recurringRepo adapter.RecurringRepository, metrics adapter.Metrics, loc *time.Location) *ProcessRecurringUseCase {
	if metrics == nil {
		metrics = adapter.NopMetrics{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ProcessRecurringUseCase{
		recurringRepo: recurringRepo,
		metrics:       metrics,
		loc:           loc,
		now:           time.Now,
	}
}

// Execute processes the recurring items of the user. Items that fail are
// reported in the returned error; the others are still processed.
func (uc *ProcessRecurringUseCase) Execute(ctx context.Context, input ProcessRecurringInput) (*ProcessRecurringOutput, error) {
	now := input.Now
	if now.IsZero() {
		now = uc.now()
	}
	now = now.In(uc.loc)
	month := valueobject.MonthOf(now)

	items, err := uc.recurringRepo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring items: %w", err)
	}

	out := &ProcessRecurringOutput{}
	var errs []error
	for _, item := range items {
		if !item.IsDue(month, now.Day()) {
			continue
		}

		tx := item.ToTransaction(month)
		claimed, err := uc.recurringRepo.RecordOccurrence(ctx, item, month.Key(), tx)
		if err != nil {
			errs = append(errs, fmt.Errorf("recurring item %s: %w", item.ID, err))
			continue
		}
		if !claimed {
			slog.Debug("Recurring period already claimed", "itemID", item.ID, "month", month.Key())
			continue
		}

		item.LastProcessed = month.Key()
		out.Transactions = append(out.Transactions, tx)
		out.Generated++
	}

	if out.Generated > 0 {
		uc.metrics.RecurringGenerated(out.Generated)
		slog.Info("Recurring transactions generated", "userID", input.UserID, "month", month.Key(), "count", out.Generated)
	}

	return out, errors.Join(errs...)
}

// ProcessAllRecurringOutput represents the output of a scheduled run.
type ProcessAllRecurringOutput struct {
	Users     int
	Generated int
	Failed    int
}

// ProcessAllRecurringUseCase runs the recurrence engine for every user.
type ProcessAllRecurringUseCase struct {
	userRepo adapter.UserRepository
	process  *ProcessRecurringUseCase
}

// NewProcessAllRecurringUseCase creates a new ProcessAllRecurringUseCase instance.
func NewProcessAllRecurringUseCase(userRepo adapter.UserRepository, process *ProcessRecurringUseCase) *ProcessAllRecurringUseCase {
	return &ProcessAllRecurringUseCase{userRepo: userRepo, process: process}
}

// Execute processes the recurring items of every user as of now.
func (uc *ProcessAllRecurringUseCase) Execute(ctx context.Context, now time.Time) (*ProcessAllRecurringOutput, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := &ProcessAllRecurringOutput{Users: len(users)}
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		result, err := uc.process.Execute(ctx, ProcessRecurringInput{UserID: user.ID, Now: now})
		if result != nil {
			out.Generated += result.Generated
		}
		if err != nil {
			out.Failed++
			slog.Error("Failed to process recurring items", "error", err, "userID", user.ID)
		}
	}
	return out, nil
}
