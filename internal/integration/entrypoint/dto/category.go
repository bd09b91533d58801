package dto

import "github.com/smartwallet/backend/internal/domain/entity"

// CreateCategoryRequest represents the request body for creating a custom category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// CategoryResponse represents a custom category in API responses.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryListResponse lists the merged and custom categories.
type CategoryListResponse struct {
	Categories []string `json:"categories"`
	Custom     []string `json:"custom"`
}

// ToCategoryResponse converts a domain Category entity to a CategoryResponse DTO.
func ToCategoryResponse(category *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:   category.ID.String(),
		Name: category.Name,
	}
}
