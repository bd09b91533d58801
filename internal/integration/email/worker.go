package email

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/integration/email/templates"
)

// Worker processes the email queue and sends emails.
type Worker struct {
	queue        adapter.EmailQueueRepository
	sender       adapter.EmailSender
	renderer     *templates.Renderer
	pollInterval time.Duration
	batchSize    int
}

// WorkerConfig holds configuration for the email worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    10,
	}
}

// NewWorker creates a new email worker.
func NewWorker(queue adapter.EmailQueueRepository, sender adapter.EmailSender, renderer *templates.Renderer, config WorkerConfig) *Worker {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultWorkerConfig().PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultWorkerConfig().BatchSize
	}
	return &Worker{
		queue:        queue,
		sender:       sender,
		renderer:     renderer,
		pollInterval: config.PollInterval,
		batchSize:    config.BatchSize,
	}
}

// Start runs the worker loop until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Email worker started",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.processBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Email worker shutting down")
			return
		case <-ticker.C:
			w.processBatch(ctx)
		}
	}
}

// ProcessNow processes the pending emails once.
func (w *Worker) ProcessNow(ctx context.Context) {
	w.processBatch(ctx)
}

func (w *Worker) processBatch(ctx context.Context) {
	jobs, err := w.queue.GetPendingJobs(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending email jobs", "error", err)
		return
	}

	for _, job := range jobs {
		if ctx.Err() != nil {
			return
		}
		w.processJob(ctx, job)
	}
}

func (w *Worker) processJob(ctx context.Context, job *entity.EmailJob) {
	logger := slog.With(
		"job_id", job.ID,
		"template", job.TemplateType,
		"recipient", job.RecipientEmail,
	)

	job.MarkProcessing()
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to mark job as processing", "error", err)
		return
	}

	html, text, err := w.render(job)
	if err != nil {
		logger.Error("Failed to render email template", "error", err)
		w.handleFailure(ctx, logger, job, err, true)
		return
	}

	result, err := w.sender.Send(ctx, adapter.SendEmailInput{
		To:      job.RecipientEmail,
		Name:    job.RecipientName,
		Subject: job.Subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		logger.Error("Failed to send email", "error", err)
		var emailErr *domainerror.EmailError
		permanent := errors.As(err, &emailErr) && emailErr.Code == domainerror.ErrCodePermanentEmailFailure
		w.handleFailure(ctx, logger, job, err, permanent)
		return
	}

	job.MarkSent(result.ProviderID)
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to mark job as sent", "error", err)
		return
	}

	logger.Info("Email sent", "provider_id", result.ProviderID)
}

func (w *Worker) render(job *entity.EmailJob) (string, string, error) {
	var data any
	switch job.TemplateType {
	case entity.TemplateBudgetExceeded:
		data = templates.BudgetExceededData{
			UserName: getString(job.TemplateData, keyUserName),
			Category: getString(job.TemplateData, keyCategory),
			Month:    getString(job.TemplateData, keyMonth),
			Limit:    getDecimal(job.TemplateData, keyLimit),
			Spent:    getDecimal(job.TemplateData, keySpent),
			AppURL:   getString(job.TemplateData, keyAppBaseURL),
		}
	case entity.TemplateMonthlyDigest:
		data = templates.MonthlyDigestData{
			UserName: getString(job.TemplateData, keyUserName),
			Month:    getString(job.TemplateData, keyMonth),
			Income:   getDecimal(job.TemplateData, keyIncome),
			Expense:  getDecimal(job.TemplateData, keyExpense),
			Balance:  getDecimal(job.TemplateData, keyBalance),
			TopSpend: getCategoryLines(job.TemplateData, keyTopSpend),
			AppURL:   getString(job.TemplateData, keyAppBaseURL),
		}
	default:
		return "", "", domainerror.NewEmailError(
			domainerror.ErrCodeInvalidTemplate,
			"unknown template type "+string(job.TemplateType),
			domainerror.ErrInvalidTemplate,
		)
	}

	return w.renderer.Render(string(job.TemplateType), data)
}

func (w *Worker) handleFailure(ctx context.Context, logger *slog.Logger, job *entity.EmailJob, err error, permanent bool) {
	job.MarkFailed(err, permanent)

	if updateErr := w.queue.Update(ctx, job); updateErr != nil {
		logger.Error("Failed to update job after failure", "error", updateErr)
	}

	if job.Status == entity.EmailStatusFailed {
		logger.Warn("Email job permanently failed", "attempts", job.Attempts, "last_error", job.LastError)
		return
	}
	logger.Info("Email job scheduled for retry", "attempts", job.Attempts, "scheduled_at", job.ScheduledAt)
}

func getString(data map[string]any, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}

func getDecimal(data map[string]any, key string) decimal.Decimal {
	switch v := data[key].(type) {
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(v)
	}
	return decimal.Zero
}

// getCategoryLines reads the digest breakdown, stored as a list of objects.
func getCategoryLines(data map[string]any, key string) []templates.CategoryLine {
	items, _ := data[key].([]any)
	lines := make([]templates.CategoryLine, 0, len(items))
	for _, item := range items {
		row, ok := item.(map[string]any)
		if !ok {
			continue
		}
		lines = append(lines, templates.CategoryLine{
			Category: getString(row, keyTopName),
			Total:    getDecimal(row, keyTopTotal),
		})
	}
	return lines
}
