package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/domain/entity"
)

// BudgetModel represents the budgets table. One row per user and category.
type BudgetModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_category,priority:1"`
	Category      string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_budgets_user_category,priority:2"`
	LimitAmount   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	AlertOnExceed bool            `gorm:"not null"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the BudgetModel.
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToEntity converts a BudgetModel to a domain Budget entity.
func (m *BudgetModel) ToEntity() *entity.Budget {
	return &entity.Budget{
		ID:            m.ID,
		UserID:        m.UserID,
		Category:      m.Category,
		LimitAmount:   m.LimitAmount,
		AlertOnExceed: m.AlertOnExceed,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// BudgetFromEntity creates a BudgetModel from a domain Budget entity.
func BudgetFromEntity(budget *entity.Budget) *BudgetModel {
	return &BudgetModel{
		ID:            budget.ID,
		UserID:        budget.UserID,
		Category:      budget.Category,
		LimitAmount:   budget.LimitAmount,
		AlertOnExceed: budget.AlertOnExceed,
		CreatedAt:     budget.CreatedAt,
		UpdatedAt:     budget.UpdatedAt,
	}
}
