package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/smartwallet/backend/internal/domain/entity"
)

// EmailQueueRepository defines the interface for email queue persistence operations.
type EmailQueueRepository interface {
	// Create adds a new email job to the queue.
	Create(ctx context.Context, job *entity.EmailJob) error

	// GetPendingJobs retrieves jobs ready to be processed, ordered by scheduled_at.
	GetPendingJobs(ctx context.Context, limit int) ([]*entity.EmailJob, error)

	// Update saves changes to an email job.
	Update(ctx context.Context, job *entity.EmailJob) error

	// GetByID retrieves a specific job by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.EmailJob, error)

	// ExistsByDedupeKey reports whether a job with the key was already queued for the user.
	ExistsByDedupeKey(ctx context.Context, userID uuid.UUID, dedupeKey string) (bool, error)

	// DeleteOldSentJobs removes sent jobs processed more than olderThanDays ago.
	DeleteOldSentJobs(ctx context.Context, olderThanDays int) (int64, error)
}
