package adapter

import (
	"context"
	"time"

	"github.com/smartwallet/backend/internal/domain/entity"
)

// RateProvider fetches market rates from one external source.
type RateProvider interface {
	// Name identifies the provider in logs, metrics and the rates status.
	Name() string

	// Fetch returns the base-currency value of the quoted currencies.
	Fetch(ctx context.Context) (*entity.MarketRates, error)
}

// RateCache stores the last fetched rates.
type RateCache interface {
	// Get returns the cached rates; ok is false on a miss.
	Get(ctx context.Context) (rates *entity.MarketRates, ok bool, err error)

	// Set stores rates for ttl.
	Set(ctx context.Context, rates *entity.MarketRates, ttl time.Duration) error
}

// MarketData returns the current market rates. Implementations never fail;
// they fall back to built-in defaults.
type MarketData interface {
	CurrentRates(ctx context.Context) *entity.MarketRates
}
