package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/integration/persistence/model"
)

// categoryRepository implements the adapter.CategoryRepository interface.
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance.
func NewCategoryRepository(db *gorm.DB) adapter.CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

// Create stores a custom category.
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	result := r.db.WithContext(ctx).Create(model.CategoryFromEntity(category))
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerror.ErrCategoryNameExists
		}
		return result.Error
	}
	return nil
}

// ListByUser returns the custom categories of the user sorted by name.
func (r *categoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Category, error) {
	var models []model.CategoryModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	categories := make([]*entity.Category, len(models))
	for i := range models {
		categories[i] = models[i].ToEntity()
	}
	return categories, nil
}

// ExistsByName checks, ignoring case, whether the user has the category.
func (r *categoryRepository) ExistsByName(ctx context.Context, userID uuid.UUID, name string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// DeleteByName removes a custom category of the user.
func (r *categoryRepository) DeleteByName(ctx context.Context, userID uuid.UUID, name string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).
		Delete(&model.CategoryModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrCategoryNotFound
	}
	return nil
}
