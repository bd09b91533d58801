package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/domain/valueobject"
)

// AwesomeAPIName identifies the AwesomeAPI provider.
const AwesomeAPIName = "AwesomeAPI"

// AwesomeAPIProvider reads BRL quotes from economia.awesomeapi.com.br. It
// needs no credentials.
type AwesomeAPIProvider struct {
	baseURL string
	client  *jsonClient
}

// NewAwesomeAPIProvider creates a new AwesomeAPI provider.
func NewAwesomeAPIProvider(baseURL string, timeout time.Duration) *AwesomeAPIProvider {
	return &AwesomeAPIProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newJSONClient(AwesomeAPIName, timeout),
	}
}

// Name implements adapter.RateProvider.
func (p *AwesomeAPIProvider) Name() string { return AwesomeAPIName }

type awesomeQuote struct {
	Bid decimal.Decimal `json:"bid"`
}

// Fetch implements adapter.RateProvider.
func (p *AwesomeAPIProvider) Fetch(ctx context.Context) (*entity.MarketRates, error) {
	pairs := make([]string, 0, len(valueobject.ForeignCurrencies))
	for _, c := range valueobject.ForeignCurrencies {
		pairs = append(pairs, string(c)+"-"+string(valueobject.BaseCurrency))
	}

	var resp map[string]awesomeQuote
	if err := p.client.getJSON(ctx, p.baseURL+"/last/"+strings.Join(pairs, ","), &resp); err != nil {
		return nil, fmt.Errorf("awesomeapi: %w", err)
	}

	rates := make(map[valueobject.Currency]decimal.Decimal, len(valueobject.ForeignCurrencies))
	for _, c := range valueobject.ForeignCurrencies {
		quote, ok := resp[string(c)+string(valueobject.BaseCurrency)]
		if ok && quote.Bid.IsPositive() {
			rates[c] = quote.Bid
		}
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("awesomeapi: %w: no quotes", domainerror.ErrRatesUnavailable)
	}

	return &entity.MarketRates{
		Rates:     rates,
		Status:    "online (" + AwesomeAPIName + ")",
		Source:    AwesomeAPIName,
		FetchedAt: time.Now().UTC(),
	}, nil
}
