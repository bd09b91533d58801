package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/smartwallet/backend/internal/domain/entity"
)

// RecurringRepository defines the interface for recurring item persistence.
type RecurringRepository interface {
	// Create persists a new recurring item.
	Create(ctx context.Context, item *entity.RecurringItem) error

	// ListByUser returns the recurring items of the user ordered by day of month.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.RecurringItem, error)

	// Delete removes a recurring item of the user.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// DeleteAllByUser removes every recurring item of the user and returns the count.
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// RecordOccurrence claims monthKey for the item and inserts tx in a single
	// database transaction. The claim only succeeds when last_processed differs
	// from monthKey; it returns false, without inserting, when another run
	// already claimed the month.
	RecordOccurrence(ctx context.Context, item *entity.RecurringItem, monthKey string, tx *entity.Transaction) (bool, error)
}
