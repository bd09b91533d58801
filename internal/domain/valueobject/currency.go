// Package valueobject contains immutable domain values.
package valueobject

import "strings"

// Currency is an ISO-like currency code. BTC is treated as a currency.
type Currency string

const (
	CurrencyBRL Currency = "BRL"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencyCNY Currency = "CNY"
	CurrencyBTC Currency = "BTC"
)

// BaseCurrency is the currency every stored amount is expressed in.
const BaseCurrency = CurrencyBRL

// ForeignCurrencies lists the quoted currencies, in display order.
var ForeignCurrencies = []Currency{
	CurrencyUSD,
	CurrencyEUR,
	CurrencyGBP,
	CurrencyJPY,
	CurrencyCNY,
	CurrencyBTC,
}

var currencyAliases = map[string]Currency{
	"brl":      CurrencyBRL,
	"r$":       CurrencyBRL,
	"real":     CurrencyBRL,
	"reais":    CurrencyBRL,
	"usd":      CurrencyUSD,
	"us$":      CurrencyUSD,
	"$":        CurrencyUSD,
	"dolar":    CurrencyUSD,
	"dólar":    CurrencyUSD,
	"dolares":  CurrencyUSD,
	"dólares":  CurrencyUSD,
	"dollar":   CurrencyUSD,
	"dollars":  CurrencyUSD,
	"eur":      CurrencyEUR,
	"€":        CurrencyEUR,
	"euro":     CurrencyEUR,
	"euros":    CurrencyEUR,
	"gbp":      CurrencyGBP,
	"£":        CurrencyGBP,
	"libra":    CurrencyGBP,
	"libras":   CurrencyGBP,
	"pound":    CurrencyGBP,
	"pounds":   CurrencyGBP,
	"jpy":      CurrencyJPY,
	"¥":        CurrencyJPY,
	"iene":     CurrencyJPY,
	"ienes":    CurrencyJPY,
	"yen":      CurrencyJPY,
	"cny":      CurrencyCNY,
	"yuan":     CurrencyCNY,
	"yuans":    CurrencyCNY,
	"btc":      CurrencyBTC,
	"bitcoin":  CurrencyBTC,
	"bitcoins": CurrencyBTC,
}

// ParseCurrency resolves a code or a common alias ("dólar", "€") to a Currency.
// An empty string resolves to the base currency.
func ParseCurrency(s string) (Currency, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return BaseCurrency, true
	}
	c, ok := currencyAliases[key]
	return c, ok
}

// IsValid reports whether c is one of the supported currencies.
func (c Currency) IsValid() bool {
	if c == BaseCurrency {
		return true
	}
	for _, f := range ForeignCurrencies {
		if c == f {
			return true
		}
	}
	return false
}

// IsBase reports whether c is the storage currency.
func (c Currency) IsBase() bool {
	return c == BaseCurrency
}

func (c Currency) String() string {
	return string(c)
}
