package valueobject

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brlPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL formats an amount the Brazilian way, e.g. "R$ 1.234,50".
func FormatBRL(amount decimal.Decimal) string {
	return brlPrinter.Sprintf("R$ %.2f", amount.Round(2).InexactFloat64())
}
