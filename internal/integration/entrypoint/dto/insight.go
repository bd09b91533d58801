package dto

import (
	"sort"
	"time"

	"github.com/smartwallet/backend/internal/domain/entity"
)

// InterpretRequest represents a free-text command.
type InterpretRequest struct {
	Text string `json:"text" binding:"required,max=1000"`
}

// InterpretationResponse represents the interpretation of a command.
type InterpretationResponse struct {
	Amount         string `json:"amount"`
	OriginalAmount string `json:"original_amount"`
	Currency       string `json:"currency"`
	ExchangeRate   string `json:"exchange_rate"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	Merchant       string `json:"merchant,omitempty"`
	Type           string `json:"type"`
	Date           string `json:"date"`
	Source         string `json:"source"`
}

// RecordResponse is a stored transaction with its interpretation.
type RecordResponse struct {
	Transaction    TransactionResponse    `json:"transaction"`
	Interpretation InterpretationResponse `json:"interpretation"`
}

// RateResponse is the BRL value of one unit of a currency.
type RateResponse struct {
	Currency string `json:"currency"`
	Rate     string `json:"rate"`
}

// RatesResponse represents the market snapshot.
type RatesResponse struct {
	Status    string         `json:"status"`
	Source    string         `json:"source,omitempty"`
	FetchedAt time.Time      `json:"fetched_at"`
	Rates     []RateResponse `json:"rates"`
}

// AdviceResponse represents the financial coach answer.
type AdviceResponse struct {
	Advice       string `json:"advice"`
	Offline      bool   `json:"offline"`
	Transactions int    `json:"transactions"`
}

// ToInterpretationResponse converts a domain Interpretation to its DTO.
func ToInterpretationResponse(i *entity.Interpretation) InterpretationResponse {
	return InterpretationResponse{
		Amount:         i.Amount.StringFixed(2),
		OriginalAmount: i.OriginalAmount.String(),
		Currency:       i.Currency.String(),
		ExchangeRate:   i.ExchangeRate.String(),
		Category:       i.Category,
		Description:    i.Description,
		Merchant:       i.Merchant,
		Type:           string(i.Type),
		Date:           i.Date.Format(time.RFC3339),
		Source:         string(i.Source),
	}
}

// ToRatesResponse converts a market snapshot to its DTO, sorted by currency.
func ToRatesResponse(m *entity.MarketRates) RatesResponse {
	rates := make([]RateResponse, 0, len(m.Rates))
	for c, r := range m.Rates {
		rates = append(rates, RateResponse{Currency: c.String(), Rate: r.String()})
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].Currency < rates[j].Currency })
	return RatesResponse{
		Status:    m.Status,
		Source:    m.Source,
		FetchedAt: m.FetchedAt,
		Rates:     rates,
	}
}
