package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
)

// Template data keys.
const (
	keyUserName   = "user_name"
	keyCategory   = "category"
	keyMonth      = "month"
	keyLimit      = "limit"
	keySpent      = "spent"
	keyIncome     = "income"
	keyExpense    = "expense"
	keyBalance    = "balance"
	keyTopSpend   = "top_spend"
	keyTopName    = "category"
	keyTopTotal   = "total"
	keyAppBaseURL = "app_url"
)

// BudgetExceededKey is the dedupe key of the alert for a category and month.
func BudgetExceededKey(category, month string) string {
	return "budget_exceeded:" + category + ":" + month
}

// MonthlyDigestKey is the dedupe key of the digest of a month.
func MonthlyDigestKey(month string) string {
	return "monthly_digest:" + month
}

// Service queues notification emails. A notification whose dedupe key was
// already queued for the user is dropped.
type Service struct {
	queue      adapter.EmailQueueRepository
	appBaseURL string
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, appBaseURL string) *Service {
	return &Service{
		queue:      queue,
		appBaseURL: appBaseURL,
	}
}

// QueueBudgetExceeded queues the alert sent when a category crosses its limit.
func (s *Service) QueueBudgetExceeded(ctx context.Context, input adapter.QueueBudgetExceededInput) error {
	job := entity.NewEmailJob(
		input.UserID,
		entity.TemplateBudgetExceeded,
		input.UserEmail,
		input.UserName,
		fmt.Sprintf("Orçamento de %s estourado - SmartWallet", input.Category),
		map[string]any{
			keyUserName:   input.UserName,
			keyCategory:   input.Category,
			keyMonth:      input.Month,
			keyLimit:      input.Limit.StringFixed(2),
			keySpent:      input.Spent.StringFixed(2),
			keyAppBaseURL: s.appBaseURL,
		},
	)
	job.DedupeKey = BudgetExceededKey(input.Category, input.Month)
	return s.enqueue(ctx, job)
}

// QueueMonthlyDigest queues the summary of a closed month.
func (s *Service) QueueMonthlyDigest(ctx context.Context, input adapter.QueueMonthlyDigestInput) error {
	top := make([]any, 0, len(input.TopSpend))
	for _, spend := range input.TopSpend {
		top = append(top, map[string]any{
			keyTopName:  spend.Category,
			keyTopTotal: spend.Total.StringFixed(2),
		})
	}

	job := entity.NewEmailJob(
		input.UserID,
		entity.TemplateMonthlyDigest,
		input.UserEmail,
		input.UserName,
		fmt.Sprintf("Seu resumo de %s - SmartWallet", input.Month),
		map[string]any{
			keyUserName:   input.UserName,
			keyMonth:      input.Month,
			keyIncome:     input.Income.StringFixed(2),
			keyExpense:    input.Expense.StringFixed(2),
			keyBalance:    input.Balance.StringFixed(2),
			keyTopSpend:   top,
			keyAppBaseURL: s.appBaseURL,
		},
	)
	job.DedupeKey = MonthlyDigestKey(input.Month)
	return s.enqueue(ctx, job)
}

func (s *Service) enqueue(ctx context.Context, job *entity.EmailJob) error {
	exists, err := s.queue.ExistsByDedupeKey(ctx, job.UserID, job.DedupeKey)
	if err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to check queued emails",
			err,
		)
	}
	if exists {
		slog.Debug("Email already queued", "userID", job.UserID, "dedupe_key", job.DedupeKey)
		return nil
	}

	// A concurrent notification may have won the unique dedupe index
	if err := s.queue.Create(ctx, job); errors.Is(err, domainerror.ErrEmailAlreadyQueued) {
		slog.Debug("Email already queued", "userID", job.UserID, "dedupe_key", job.DedupeKey)
		return nil
	} else if err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue "+string(job.TemplateType)+" email",
			err,
		)
	}
	return nil
}

var _ adapter.EmailService = (*Service)(nil)
