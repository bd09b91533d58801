package adapter

import (
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/domain/valueobject"
)

// StatementLine is one posted entry of a bank or card statement. Amount is
// negative for debits.
type StatementLine struct {
	ExternalID string
	Date       time.Time
	Memo       string
	Amount     decimal.Decimal
}

// Statement is a parsed account statement.
type Statement struct {
	Currency valueobject.Currency
	Account  string
	Lines    []StatementLine
}

// StatementParser parses statement files.
type StatementParser interface {
	Parse(r io.Reader) (*Statement, error)
}
