package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
)

// MaxNameLength is the maximum length of a category name, in characters.
const MaxNameLength = 50

// CreateCategoryInput represents the input for category creation.
type CreateCategoryInput struct {
	UserID uuid.UUID
	Name   string
}

// CreateCategoryOutput represents the output of category creation.
type CreateCategoryOutput struct {
	Category *entity.Category
}

// CreateCategoryUseCase handles custom category creation.
type CreateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewCreateCategoryUseCase creates a new CreateCategoryUseCase instance.
func NewCreateCategoryUseCase(categoryRepo adapter.CategoryRepository) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute performs the category creation.
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, input CreateCategoryInput) (*CreateCategoryOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidCategoryName,
			fmt.Sprintf("category name must have between 1 and %d characters", MaxNameLength),
			domainerror.ErrInvalidCategoryName,
		)
	}

	if entity.IsBaseCategory(name) {
		return nil, nameExists(name)
	}
	exists, err := uc.categoryRepo.ExistsByName(ctx, input.UserID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if exists {
		return nil, nameExists(name)
	}

	category := entity.NewCategory(input.UserID, name)
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		// A concurrent create with the same name hits the unique index
		if errors.Is(err, domainerror.ErrCategoryNameExists) {
			return nil, nameExists(name)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &CreateCategoryOutput{Category: category}, nil
}

func nameExists(name string) error {
	return domainerror.NewCategoryError(
		domainerror.ErrCodeCategoryNameExists,
		fmt.Sprintf("category %q already exists", name),
		domainerror.ErrCategoryNameExists,
	)
}
