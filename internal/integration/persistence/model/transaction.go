package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/domain/entity"
	"github.com/smartwallet/backend/internal/domain/valueobject"
)

// TransactionModel represents the transactions table in the database.
type TransactionModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_transactions_user_date,priority:1"`
	Date             time.Time       `gorm:"not null;index:idx_transactions_user_date,priority:2"`
	Description      string          `gorm:"type:varchar(255);not null"`
	Merchant         string          `gorm:"type:varchar(120)"`
	Category         string          `gorm:"type:varchar(50);not null;index"`
	Amount           decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	OriginalAmount   decimal.Decimal `gorm:"type:decimal(20,8);not null"`
	OriginalCurrency string          `gorm:"type:varchar(3);not null;default:'BRL'"`
	ExchangeRate     decimal.Decimal `gorm:"type:decimal(20,8);not null"`
	Type             string          `gorm:"type:varchar(10);not null;index"`
	Source           string          `gorm:"type:varchar(20);not null"`
	ExternalID       *string         `gorm:"type:varchar(255);uniqueIndex:idx_transactions_user_external,priority:2"`
	ExternalOwner    *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_transactions_user_external,priority:1"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	tx := &entity.Transaction{
		ID:               m.ID,
		UserID:           m.UserID,
		Date:             m.Date,
		Description:      m.Description,
		Merchant:         m.Merchant,
		Category:         m.Category,
		Amount:           m.Amount,
		OriginalAmount:   m.OriginalAmount,
		OriginalCurrency: valueobject.Currency(m.OriginalCurrency),
		ExchangeRate:     m.ExchangeRate,
		Type:             entity.TransactionType(m.Type),
		Source:           entity.TransactionSource(m.Source),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.ExternalID != nil {
		tx.ExternalID = *m.ExternalID
	}
	return tx
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(tx *entity.Transaction) *TransactionModel {
	m := &TransactionModel{
		ID:               tx.ID,
		UserID:           tx.UserID,
		Date:             tx.Date,
		Description:      tx.Description,
		Merchant:         tx.Merchant,
		Category:         tx.Category,
		Amount:           tx.Amount,
		OriginalAmount:   tx.OriginalAmount,
		OriginalCurrency: string(tx.OriginalCurrency),
		ExchangeRate:     tx.ExchangeRate,
		Type:             string(tx.Type),
		Source:           string(tx.Source),
		CreatedAt:        tx.CreatedAt,
		UpdatedAt:        tx.UpdatedAt,
	}
	if m.OriginalCurrency == "" {
		m.OriginalCurrency = string(valueobject.BaseCurrency)
	}
	// The (owner, external id) pair is only set for imported lines
	if tx.ExternalID != "" {
		externalID := tx.ExternalID
		owner := tx.UserID
		m.ExternalID = &externalID
		m.ExternalOwner = &owner
	}
	return m
}
