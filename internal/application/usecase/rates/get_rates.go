// Package rates contains the market data use cases.
package rates

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/domain/valueobject"
)

const (
	// DefaultTTL is how long fetched rates are reused.
	DefaultTTL = 5 * time.Minute
	// OfflineTTL is how long the default rates are reused after every
	// provider failed.
	OfflineTTL = time.Minute
)

// GetRatesUseCase returns the current market rates, trying each provider in
// order and falling back to the built-in defaults.
type GetRatesUseCase struct {
	providers []adapter.RateProvider
	cache     adapter.RateCache
	ttl       time.Duration
	metrics   adapter.Metrics
	group     singleflight.Group
}

// NewGetRatesUseCase creates a new GetRatesUseCase instance. A zero ttl means
// DefaultTTL.
func NewGetRatesUseCase(
	providers []adapter.RateProvider,
	cache adapter.RateCache,
	ttl time.Duration,
	metrics adapter.Metrics,
) *GetRatesUseCase {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if metrics == nil {
		metrics = adapter.NopMetrics{}
	}
	return &GetRatesUseCase{
		providers: providers,
		cache:     cache,
		ttl:       ttl,
		metrics:   metrics,
	}
}

// Execute returns the current rates. It never fails.
func (uc *GetRatesUseCase) Execute(ctx context.Context) *entity.MarketRates {
	if cached, ok, err := uc.cache.Get(ctx); err != nil {
		slog.Warn("Failed to read cached rates", "error", err)
	} else if ok {
		return cached
	}

	// Concurrent misses share one refresh
	v, _, _ := uc.group.Do("rates", func() (any, error) {
		return uc.refresh(context.WithoutCancel(ctx)), nil
	})
	return v.(*entity.MarketRates)
}

// CurrentRates implements adapter.MarketData.
func (uc *GetRatesUseCase) CurrentRates(ctx context.Context) *entity.MarketRates {
	return uc.Execute(ctx)
}

func (uc *GetRatesUseCase) refresh(ctx context.Context) *entity.MarketRates {
	for _, provider := range uc.providers {
		rates, err := provider.Fetch(ctx)
		if errors.Is(err, domainerror.ErrProviderDisabled) {
			continue
		}
		if err != nil {
			uc.metrics.RatesFetched(provider.Name(), false)
			slog.Warn("Rate provider failed", "provider", provider.Name(), "error", err)
			continue
		}
		uc.metrics.RatesFetched(provider.Name(), true)

		rates.Merge(entity.DefaultMarketRates())
		if rates.Source == "" {
			rates.Source = provider.Name()
		}
		if err := uc.cache.Set(ctx, rates, uc.ttl); err != nil {
			slog.Warn("Failed to cache rates", "error", err)
		}
		return rates
	}

	slog.Warn("Every rate provider failed, using default rates")
	defaults := entity.DefaultMarketRates()
	if err := uc.cache.Set(ctx, defaults, min(OfflineTTL, uc.ttl)); err != nil {
		slog.Warn("Failed to cache default rates", "error", err)
	}
	return defaults
}

// Convert expresses amount, given in currency, in the base currency.
func Convert(amount decimal.Decimal, currency valueobject.Currency, rates *entity.MarketRates) (decimal.Decimal, decimal.Decimal, error) {
	if !currency.IsValid() {
		return decimal.Zero, decimal.Zero, domainerror.NewRatesError(
			domainerror.ErrCodeUnsupportedCurrency,
			"currency "+currency.String()+" is not supported",
			domainerror.ErrUnsupportedCurrency,
		)
	}
	brl, rate, ok := rates.ToBase(amount, currency)
	if !ok {
		return decimal.Zero, decimal.Zero, domainerror.NewRatesError(
			domainerror.ErrCodeRatesUnavailable,
			"no rate available for "+currency.String(),
			domainerror.ErrRatesUnavailable,
		)
	}
	return brl, rate, nil
}
