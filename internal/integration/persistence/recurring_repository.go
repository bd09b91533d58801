package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/integration/persistence/model"
)

type recurringRepository struct {
	db *gorm.DB
}

// NewRecurringRepository creates a new recurring item repository instance.
func NewRecurringRepository(db *gorm.DB) adapter.RecurringRepository {
	return &recurringRepository{db: db}
}

// Create stores a recurring item.
func (r *recurringRepository) Create(ctx context.Context, item *entity.RecurringItem) error {
	return r.db.WithContext(ctx).Create(model.RecurringFromEntity(item)).Error
}

// ListByUser returns the recurring items of the user by day of month.
func (r *recurringRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.RecurringItem, error) {
	var models []model.RecurringModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("day_of_month ASC, created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	items := make([]*entity.RecurringItem, len(models))
	for i := range models {
		items[i] = models[i].ToEntity()
	}
	return items, nil
}

// Delete removes a recurring item of the user. Generated transactions stay.
func (r *recurringRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.RecurringModel{}, "id = ? AND user_id = ?", id, userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrRecurringNotFound
		}
		return tx.Delete(&model.RecurringOccurrenceModel{}, "recurring_id = ?", id).Error
	})
}

// DeleteAllByUser removes every recurring item of the user.
func (r *recurringRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := tx.Model(&model.RecurringModel{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("recurring_id IN (?)", ids).Delete(&model.RecurringOccurrenceModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.RecurringModel{}, "user_id = ?", userID)
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}

// RecordOccurrence atomically claims monthKey for the item and stores the
// generated transaction. The claim is a conditional update of
// last_processed guarded by the occurrence primary key, so concurrent
// runners insert at most one transaction per item and month. It returns
// false when the period was already claimed.
func (r *recurringRepository) RecordOccurrence(ctx context.Context, item *entity.RecurringItem, monthKey string, generated *entity.Transaction) (bool, error) {
	claimed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.RecurringModel{}).
			Where("id = ? AND active = ? AND (last_processed IS NULL OR last_processed <> ?)", item.ID, true, monthKey).
			Updates(map[string]any{
				"last_processed": monthKey,
				"updated_at":     time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		occurrence := &model.RecurringOccurrenceModel{
			RecurringID:   item.ID,
			Month:         monthKey,
			TransactionID: generated.ID,
			CreatedAt:     time.Now().UTC(),
		}
		if err := tx.Create(occurrence).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerror.ErrPeriodAlreadyClaimed
			}
			return err
		}
		if err := createTransaction(tx, generated); err != nil {
			return err
		}
		claimed = true
		return nil
	})
	if errors.Is(err, domainerror.ErrPeriodAlreadyClaimed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return claimed, nil
}
