package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/domain/entity"
)

// RecurringModel represents the recurring_items table in the database.
type RecurringModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Category      string          `gorm:"type:varchar(50);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Description   string          `gorm:"type:varchar(255);not null"`
	Type          string          `gorm:"type:varchar(10);not null"`
	DayOfMonth    int             `gorm:"not null"`
	LastProcessed string          `gorm:"type:varchar(7)"`
	Active        bool            `gorm:"not null"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the RecurringModel.
func (RecurringModel) TableName() string {
	return "recurring_items"
}

// ToEntity converts a RecurringModel to a domain RecurringItem entity.
func (m *RecurringModel) ToEntity() *entity.RecurringItem {
	return &entity.RecurringItem{
		ID:            m.ID,
		UserID:        m.UserID,
		Category:      m.Category,
		Amount:        m.Amount,
		Description:   m.Description,
		Type:          entity.TransactionType(m.Type),
		DayOfMonth:    m.DayOfMonth,
		LastProcessed: m.LastProcessed,
		Active:        m.Active,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// RecurringFromEntity creates a RecurringModel from a domain RecurringItem entity.
func RecurringFromEntity(item *entity.RecurringItem) *RecurringModel {
	return &RecurringModel{
		ID:            item.ID,
		UserID:        item.UserID,
		Category:      item.Category,
		Amount:        item.Amount,
		Description:   item.Description,
		Type:          string(item.Type),
		DayOfMonth:    item.DayOfMonth,
		LastProcessed: item.LastProcessed,
		Active:        item.Active,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

// RecurringOccurrenceModel records one generated period of a recurring item.
// The composite primary key rejects a second transaction for the same month.
type RecurringOccurrenceModel struct {
	RecurringID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Month         string    `gorm:"type:varchar(7);primaryKey"`
	TransactionID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for the RecurringOccurrenceModel.
func (RecurringOccurrenceModel) TableName() string {
	return "recurring_occurrences"
}
