package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/integration/persistence/model"
)

type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository instance.
func NewBudgetRepository(db *gorm.DB) adapter.BudgetRepository {
	return &budgetRepository{db: db}
}

// Upsert creates the budget or replaces the limit of the existing one for
// the same category.
func (r *budgetRepository) Upsert(ctx context.Context, budget *entity.Budget) error {
	budget.UpdatedAt = time.Now().UTC()
	m := model.BudgetFromEntity(budget)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"limit_amount", "alert_on_exceed", "updated_at"}),
	}).Create(m).Error
}

// FindByCategory returns the budget of one category.
func (r *budgetRepository) FindByCategory(ctx context.Context, userID uuid.UUID, category string) (*entity.Budget, error) {
	var m model.BudgetModel
	result := r.db.WithContext(ctx).Where("user_id = ? AND category = ?", userID, category).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBudgetNotFound
		}
		return nil, result.Error
	}
	return m.ToEntity(), nil
}

// ListByUser returns the budgets of the user sorted by category.
func (r *budgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Budget, error) {
	var models []model.BudgetModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("category ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	budgets := make([]*entity.Budget, len(models))
	for i := range models {
		budgets[i] = models[i].ToEntity()
	}
	return budgets, nil
}

// Delete removes the budget of one category.
func (r *budgetRepository) Delete(ctx context.Context, userID uuid.UUID, category string) error {
	result := r.db.WithContext(ctx).Delete(&model.BudgetModel{}, "user_id = ? AND category = ?", userID, category)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrBudgetNotFound
	}
	return nil
}

// DeleteAllByUser removes every budget of the user.
func (r *budgetRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.BudgetModel{}, "user_id = ?", userID)
	return result.RowsAffected, result.Error
}
