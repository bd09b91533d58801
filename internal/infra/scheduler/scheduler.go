// Package scheduler runs the periodic background jobs of the API.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/smartwallet/backend/internal/application/usecase/recurring"
	"github.com/smartwallet/backend/internal/application/usecase/transaction"
)

const jobTimeout = 10 * time.Minute

// RecurringRunner generates the due recurring transactions of every user.
type RecurringRunner interface {
	Execute(ctx context.Context, now time.Time) (*recurring.ProcessAllRecurringOutput, error)
}

// DigestQueuer queues the monthly summary emails.
type DigestQueuer interface {
	Execute(ctx context.Context, now time.Time) (*transaction.QueueMonthlyDigestOutput, error)
}

// EmailJobCleaner removes old sent email jobs.
type EmailJobCleaner interface {
	DeleteOldSentJobs(ctx context.Context, olderThanDays int) (int64, error)
}

// TokenCleaner removes expired refresh tokens.
type TokenCleaner interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper drops expired in-process state, such as rate limiter counters.
type Sweeper interface {
	Cleanup()
}

// Config holds the cron expressions of each job. An empty expression
// disables the job.
type Config struct {
	RecurringCron      string
	DigestCron         string
	CleanupCron        string
	EmailRetentionDays int
	Location           *time.Location
}

// Scheduler wraps a cron runner with the application jobs.
type Scheduler struct {
	cfg       Config
	cron      *cron.Cron
	recurring RecurringRunner
	digest    DigestQueuer
	emails    EmailJobCleaner
	tokens    TokenCleaner
	sweepers  []Sweeper
	now       func() time.Time

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a scheduler. Any job dependency may be nil to skip that job.
func New(cfg Config, recurringRunner RecurringRunner, digest DigestQueuer, emails EmailJobCleaner, tokens TokenCleaner) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.EmailRetentionDays <= 0 {
		cfg.EmailRetentionDays = 45
	}
	return &Scheduler{
		cfg: cfg,
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		recurring: recurringRunner,
		digest:    digest,
		emails:    emails,
		tokens:    tokens,
		now:       time.Now,
	}
}

// AddSweepers registers state the cleanup job sweeps. It must be called
// before Start.
func (s *Scheduler) AddSweepers(sweepers ...Sweeper) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepers = append(s.sweepers, sweepers...)
}

// Start registers the jobs and starts the cron runner. Jobs run with a
// context derived from ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return fmt.Errorf("scheduler already started")
	}

	jobs := []struct {
		name string
		spec string
		run  func(context.Context)
		ok   bool
	}{
		{"recurring", s.cfg.RecurringCron, s.RunRecurring, s.recurring != nil},
		{"digest", s.cfg.DigestCron, s.RunDigest, s.digest != nil},
		{"cleanup", s.cfg.CleanupCron, s.RunCleanup, s.emails != nil || s.tokens != nil || len(s.sweepers) > 0},
	}
	for _, job := range jobs {
		if job.spec == "" || !job.ok {
			continue
		}
		run := job.run
		if _, err := s.cron.AddFunc(job.spec, func() { s.runJob(run) }); err != nil {
			return fmt.Errorf("invalid %s schedule %q: %w", job.name, job.spec, err)
		}
		slog.Info("Scheduled job", "job", job.name, "spec", job.spec)
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()
	return nil
}

// Stop stops the runner and waits for running jobs to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	stopped := s.cron.Stop()
	cancel()
	<-stopped.Done()
}

func (s *Scheduler) runJob(run func(context.Context)) {
	s.mu.Lock()
	base := s.ctx
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(base, jobTimeout)
	defer cancel()
	run(ctx)
}

// RunRecurring generates the due recurring transactions of every user.
func (s *Scheduler) RunRecurring(ctx context.Context) {
	out, err := s.recurring.Execute(ctx, s.now().In(s.cfg.Location))
	if err != nil {
		slog.Error("Recurring job failed", "error", err)
		return
	}
	slog.Info("Recurring job finished", "users", out.Users, "generated", out.Generated, "failed", out.Failed)
}

// RunDigest queues the summary of the previous month.
func (s *Scheduler) RunDigest(ctx context.Context) {
	out, err := s.digest.Execute(ctx, s.now().In(s.cfg.Location))
	if err != nil {
		slog.Error("Digest job failed", "error", err)
		return
	}
	slog.Info("Digest job finished", "month", out.Month, "queued", out.Queued)
}

// RunCleanup removes old sent emails, expired refresh tokens and expired
// in-process counters.
func (s *Scheduler) RunCleanup(ctx context.Context) {
	for _, sweeper := range s.sweepers {
		sweeper.Cleanup()
	}
	if s.emails != nil {
		n, err := s.emails.DeleteOldSentJobs(ctx, s.cfg.EmailRetentionDays)
		if err != nil {
			slog.Error("Email cleanup failed", "error", err)
		} else {
			slog.Info("Email cleanup finished", "deleted", n)
		}
	}
	if s.tokens != nil {
		n, err := s.tokens.DeleteExpired(ctx, s.now())
		if err != nil {
			slog.Error("Token cleanup failed", "error", err)
		} else {
			slog.Info("Token cleanup finished", "deleted", n)
		}
	}
}
