package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/domain/valueobject"
)

// RecurringSuffix is appended to the description of generated transactions.
const RecurringSuffix = " (Recorrente)"

// RecurringItem is a fixed monthly charge or income.
type RecurringItem struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Category      string
	Amount        decimal.Decimal
	Description   string
	Type          TransactionType
	DayOfMonth    int
	LastProcessed string // month key of the last generated transaction
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewRecurringItem creates a new active RecurringItem.
func NewRecurringItem(userID uuid.UUID, category string, amount decimal.Decimal, description string, txType TransactionType, dayOfMonth int) *RecurringItem {
	now := time.Now().UTC()
	return &RecurringItem{
		ID:          uuid.New(),
		UserID:      userID,
		Category:    category,
		Amount:      amount,
		Description: description,
		Type:        txType,
		DayOfMonth:  dayOfMonth,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsDue reports whether the item must generate a transaction in month m on
// the given day.
func (r *RecurringItem) IsDue(m valueobject.Month, today int) bool {
	if !r.Active || r.LastProcessed == m.Key() {
		return false
	}
	return today >= m.ClampDay(r.DayOfMonth)
}

// ToTransaction builds the transaction generated for month m.
func (r *RecurringItem) ToTransaction(m valueobject.Month) *Transaction {
	return NewTransaction(
		r.UserID,
		m.Date(r.DayOfMonth),
		r.Description+RecurringSuffix,
		r.Category,
		r.Amount,
		r.Type,
		SourceRecurring,
	)
}
