package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/domain/valueobject"
)

// RatesStatusOffline marks rates that come from the built-in defaults.
const RatesStatusOffline = "offline"

// MarketRates holds the value of one unit of each foreign currency in the
// base currency.
type MarketRates struct {
	Rates     map[valueobject.Currency]decimal.Decimal
	Status    string
	Source    string
	FetchedAt time.Time
}

// DefaultMarketRates returns the rates used when no provider is reachable.
func DefaultMarketRates() *MarketRates {
	return &MarketRates{
		Rates: map[valueobject.Currency]decimal.Decimal{
			valueobject.CurrencyUSD: decimal.NewFromFloat(5.0),
			valueobject.CurrencyEUR: decimal.NewFromFloat(6.0),
			valueobject.CurrencyGBP: decimal.NewFromFloat(7.0),
			valueobject.CurrencyJPY: decimal.NewFromFloat(0.03),
			valueobject.CurrencyCNY: decimal.NewFromFloat(0.70),
			valueobject.CurrencyBTC: decimal.NewFromInt(500000),
		},
		Status:    RatesStatusOffline,
		FetchedAt: time.Now().UTC(),
	}
}

// Rate returns the base-currency value of one unit of c.
func (m *MarketRates) Rate(c valueobject.Currency) (decimal.Decimal, bool) {
	if c.IsBase() {
		return decimal.NewFromInt(1), true
	}
	r, ok := m.Rates[c]
	if !ok || !r.IsPositive() {
		return decimal.Zero, false
	}
	return r, true
}

// IsOnline reports whether the rates were fetched from a provider.
func (m *MarketRates) IsOnline() bool {
	return m.Status != RatesStatusOffline
}

// Merge fills currencies missing from m with the values in fallback.
func (m *MarketRates) Merge(fallback *MarketRates) {
	if m.Rates == nil {
		m.Rates = make(map[valueobject.Currency]decimal.Decimal, len(fallback.Rates))
	}
	for c, r := range fallback.Rates {
		if cur, ok := m.Rates[c]; !ok || !cur.IsPositive() {
			m.Rates[c] = r
		}
	}
}

// ToBase converts amount expressed in c to the base currency, rounded to
// cents. It also returns the rate used.
func (m *MarketRates) ToBase(amount decimal.Decimal, c valueobject.Currency) (decimal.Decimal, decimal.Decimal, bool) {
	rate, ok := m.Rate(c)
	if !ok {
		return decimal.Zero, decimal.Zero, false
	}
	return amount.Mul(rate).Round(2), rate, true
}
