package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/smartwallet/backend/internal/domain/valueobject"
)

func TestRecurringItem_IsDue(t *testing.T) {
	march := valueobject.Month{Year: 2024, Month: time.March, Loc: time.UTC}
	april := valueobject.Month{Year: 2024, Month: time.April, Loc: time.UTC}

	tests := []struct {
		name          string
		day           int
		lastProcessed string
		active        bool
		month         valueobject.Month
		today         int
		want          bool
	}{
		{"before scheduled day", 10, "", true, march, 9, false},
		{"on scheduled day", 10, "", true, march, 10, true},
		{"after scheduled day", 10, "2024-02", true, march, 25, true},
		{"already processed this month", 10, "2024-03", true, march, 25, false},
		{"inactive", 10, "", false, march, 25, false},
		{"day 31 in a 30 day month", 31, "2024-03", true, april, 30, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NewRecurringItem(uuid.New(), "Moradia", decimal.NewFromInt(1500), "Aluguel", TransactionTypeExpense, tt.day)
			item.LastProcessed = tt.lastProcessed
			item.Active = tt.active
			assert.Equal(t, tt.want, item.IsDue(tt.month, tt.today))
		})
	}
}

func TestRecurringItem_ToTransaction(t *testing.T) {
	userID := uuid.New()
	item := NewRecurringItem(userID, "Assinaturas", decimal.NewFromFloat(39.9), "Streaming", TransactionTypeExpense, 31)
	feb := valueobject.Month{Year: 2023, Month: time.February, Loc: time.UTC}

	tx := item.ToTransaction(feb)

	assert.Equal(t, userID, tx.UserID)
	assert.Equal(t, "Streaming (Recorrente)", tx.Description)
	assert.Equal(t, SourceRecurring, tx.Source)
	assert.Equal(t, 28, tx.Date.Day())
	assert.True(t, tx.Amount.Equal(decimal.NewFromFloat(39.9)))
}
