package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/domain/valueobject"
)

// Interpretation is the structured reading of a free-form transaction
// command. Amount is in the base currency.
type Interpretation struct {
	Amount         decimal.Decimal
	OriginalAmount decimal.Decimal
	Currency       valueobject.Currency
	ExchangeRate   decimal.Decimal
	Category       string
	Description    string
	Merchant       string
	Type           TransactionType
	Date           time.Time
	Source         TransactionSource
}

// IsConverted reports whether the amount was converted from a foreign currency.
func (i *Interpretation) IsConverted() bool {
	return !i.Currency.IsBase()
}

// ToTransaction builds the transaction described by the interpretation.
func (i *Interpretation) ToTransaction(user *User) *Transaction {
	tx := NewTransaction(user.ID, i.Date, i.Description, i.Category, i.Amount, i.Type, i.Source)
	tx.Merchant = i.Merchant
	if i.IsConverted() {
		tx.WithConversion(i.OriginalAmount, i.Currency, i.ExchangeRate)
	}
	return tx
}
