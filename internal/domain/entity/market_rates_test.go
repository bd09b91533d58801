package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/smartwallet/backend/internal/domain/valueobject"
)

func TestMarketRates_Rate(t *testing.T) {
	rates := DefaultMarketRates()

	r, ok := rates.Rate(valueobject.CurrencyBRL)
	assert.True(t, ok)
	assert.True(t, r.Equal(decimal.NewFromInt(1)))

	r, ok = rates.Rate(valueobject.CurrencyUSD)
	assert.True(t, ok)
	assert.True(t, r.Equal(decimal.NewFromInt(5)))

	_, ok = rates.Rate(valueobject.Currency("ARS"))
	assert.False(t, ok)
	assert.False(t, rates.IsOnline())
}

func TestMarketRates_Merge(t *testing.T) {
	rates := &MarketRates{
		Rates: map[valueobject.Currency]decimal.Decimal{
			valueobject.CurrencyUSD: decimal.NewFromFloat(5.4),
			valueobject.CurrencyEUR: decimal.Zero,
		},
		Status: "online",
	}

	rates.Merge(DefaultMarketRates())

	assert.True(t, rates.Rates[valueobject.CurrencyUSD].Equal(decimal.NewFromFloat(5.4)))
	assert.True(t, rates.Rates[valueobject.CurrencyEUR].Equal(decimal.NewFromInt(6)))
	assert.True(t, rates.Rates[valueobject.CurrencyBTC].Equal(decimal.NewFromInt(500000)))
}

func TestMarketRates_ToBase(t *testing.T) {
	rates := DefaultMarketRates()

	brl, rate, ok := rates.ToBase(decimal.NewFromInt(20), valueobject.CurrencyUSD)
	assert.True(t, ok)
	assert.True(t, brl.Equal(decimal.NewFromInt(100)))
	assert.True(t, rate.Equal(decimal.NewFromInt(5)))

	brl, _, ok = rates.ToBase(decimal.RequireFromString("0.001"), valueobject.CurrencyBTC)
	assert.True(t, ok)
	assert.True(t, brl.Equal(decimal.NewFromInt(500)))

	brl, rate, ok = rates.ToBase(decimal.RequireFromString("12.345"), valueobject.CurrencyBRL)
	assert.True(t, ok)
	assert.True(t, brl.Equal(decimal.RequireFromString("12.35")))
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))

	_, _, ok = rates.ToBase(decimal.NewFromInt(1), valueobject.Currency("ARS"))
	assert.False(t, ok)
}
