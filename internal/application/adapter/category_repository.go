package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/smartwallet/backend/internal/domain/entity"
)

// CategoryRepository persists the custom categories of each user.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Category, error)
	ExistsByName(ctx context.Context, userID uuid.UUID, name string) (bool, error)
	// DeleteByName returns domainerror.ErrCategoryNotFound when nothing was removed.
	DeleteByName(ctx context.Context, userID uuid.UUID, name string) error
}
