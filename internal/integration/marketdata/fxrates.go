package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/domain/valueobject"
)

// FXRatesName identifies the FXRates provider.
const FXRatesName = "FXRates"

// FXRatesProvider reads rates from fxratesapi.com. Rates are quoted against
// USD and crossed into BRL.
type FXRatesProvider struct {
	baseURL string
	apiKey  string
	client  *jsonClient
}

// NewFXRatesProvider creates a new FXRates provider. Without an API key
// Fetch returns domainerror.ErrProviderDisabled.
func NewFXRatesProvider(baseURL, apiKey string, timeout time.Duration) *FXRatesProvider {
	return &FXRatesProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  newJSONClient(FXRatesName, timeout),
	}
}

// Name implements adapter.RateProvider.
func (p *FXRatesProvider) Name() string { return FXRatesName }

type fxRatesResponse struct {
	Success bool                       `json:"success"`
	Rates   map[string]decimal.Decimal `json:"rates"`
}

// Fetch implements adapter.RateProvider.
func (p *FXRatesProvider) Fetch(ctx context.Context) (*entity.MarketRates, error) {
	if p.apiKey == "" {
		return nil, domainerror.ErrProviderDisabled
	}

	quoted := []string{string(valueobject.BaseCurrency)}
	for _, c := range valueobject.ForeignCurrencies {
		if c != valueobject.CurrencyUSD {
			quoted = append(quoted, string(c))
		}
	}
	query := url.Values{}
	query.Set("base", string(valueobject.CurrencyUSD))
	query.Set("currencies", strings.Join(quoted, ","))
	query.Set("api_key", p.apiKey)

	var resp fxRatesResponse
	if err := p.client.getJSON(ctx, p.baseURL+"/latest?"+query.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("fxrates: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("fxrates: %w: unsuccessful response", domainerror.ErrRatesUnavailable)
	}

	usdBRL, ok := resp.Rates[string(valueobject.BaseCurrency)]
	if !ok || !usdBRL.IsPositive() {
		return nil, fmt.Errorf("fxrates: %w: missing BRL quote", domainerror.ErrRatesUnavailable)
	}

	rates := map[valueobject.Currency]decimal.Decimal{valueobject.CurrencyUSD: usdBRL}
	for _, c := range valueobject.ForeignCurrencies {
		perUSD, ok := resp.Rates[string(c)]
		if c == valueobject.CurrencyUSD || !ok || !perUSD.IsPositive() {
			continue
		}
		rates[c] = usdBRL.DivRound(perUSD, 8)
	}

	return &entity.MarketRates{
		Rates:     rates,
		Status:    "online (" + FXRatesName + ")",
		Source:    FXRatesName,
		FetchedAt: time.Now().UTC(),
	}, nil
}
