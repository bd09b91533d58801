package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
)

// DeleteCategoryInput represents the input for category deletion.
type DeleteCategoryInput struct {
	UserID uuid.UUID
	Name   string
}

// DeleteCategoryUseCase handles custom category deletion. Transactions keep
// the deleted name.
type DeleteCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewDeleteCategoryUseCase creates a new DeleteCategoryUseCase instance.
func NewDeleteCategoryUseCase(categoryRepo adapter.CategoryRepository) *DeleteCategoryUseCase {
	return &DeleteCategoryUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute performs the category deletion.
func (uc *DeleteCategoryUseCase) Execute(ctx context.Context, input DeleteCategoryInput) error {
	name := strings.TrimSpace(input.Name)
	if entity.IsBaseCategory(name) {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeBaseCategoryImmutable,
			"base categories cannot be removed",
			domainerror.ErrBaseCategoryImmutable,
		)
	}

	if err := uc.categoryRepo.DeleteByName(ctx, input.UserID, name); err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return domainerror.NewCategoryError(
				domainerror.ErrCodeCategoryNotFound,
				"category not found",
				domainerror.ErrCategoryNotFound,
			)
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
