package adapters

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
)

func TestParseExtraction(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		amount string
	}{
		{"plain json", `{"amount": 45.9, "currency": "BRL", "type": "Despesa"}`, "45.9"},
		{"fenced", "```json\n{\"amount\": 12, \"type\": \"Despesa\"}\n```", "12"},
		{"prose around", "Claro! Aqui está: {\"amount\": \"45,90\"} espero ter ajudado", "45.90"},
		{"string with symbol", `{"amount": "R$ 7.50"}`, "7.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseExtraction(tt.text)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.amount).Equal(got.Amount), got.Amount.String())
		})
	}

	for _, bad := range []string{"sem json", `{"amount": null}`, `{"amount": "abc"}`, `{broken`} {
		_, err := parseExtraction(bad)
		assert.ErrorIs(t, err, domainerror.ErrMalformedLLMResponse, bad)
	}
}

func TestGeminiService_FallsBackAcrossModels(t *testing.T) {
	var called []string
	svc := newGeminiService(GeminiConfig{Models: []string{"primary", "backup"}, RequestsPerMinute: 600}, func(_ context.Context, model string, parts []genai.Part) (string, error) {
		called = append(called, model)
		if model == "primary" {
			return "", errors.New("quota exceeded")
		}
		require.Len(t, parts, 2)
		return `{"amount": 20, "currency": "USD", "category": "Lazer", "type": "Despesa", "description": "Cinema"}`, nil
	})

	got, err := svc.Interpret(context.Background(), adapter.InterpretRequest{
		Audio:      []byte("RIFF"),
		Categories: []string{"Lazer"},
		Rates:      entity.DefaultMarketRates(),
		Now:        time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"primary", "backup"}, called)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "Cinema", got.Description)
}

func TestGeminiService_AllModelsFail(t *testing.T) {
	svc := newGeminiService(GeminiConfig{Models: []string{"a", "b"}, RequestsPerMinute: 600}, func(context.Context, string, []genai.Part) (string, error) {
		return "not json", nil
	})

	_, err := svc.Interpret(context.Background(), adapter.InterpretRequest{Text: "algo"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerror.ErrMalformedLLMResponse)
	assert.Contains(t, err.Error(), "a:")
	assert.Contains(t, err.Error(), "b:")
}

func TestGeminiService_Unavailable(t *testing.T) {
	svc, err := NewGeminiService(context.Background(), GeminiConfig{Models: []string{"m"}})
	require.NoError(t, err)
	assert.False(t, svc.IsAvailable())

	_, err = svc.Advise(context.Background(), adapter.AdviceRequest{})
	assert.ErrorIs(t, err, domainerror.ErrLLMUnavailable)
	assert.NoError(t, svc.Close())
}

func TestBuildPrompts(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	prompt := buildInterpretPrompt(adapter.InterpretRequest{
		Text:       "jantar 50 euros",
		Categories: []string{"Alimentação", "Lazer"},
		Rates:      entity.DefaultMarketRates(),
		Now:        now,
	})
	assert.Contains(t, prompt, "DATE_TIME: 2024-03-15 10:30:00")
	assert.Contains(t, prompt, "EUR=6")
	assert.Contains(t, prompt, "[Alimentação, Lazer]")
	assert.Contains(t, prompt, `"jantar 50 euros"`)

	user := entity.NewUser("ana@example.com", "Ana", "x")
	txs := make([]*entity.Transaction, 45)
	for i := range txs {
		txs[i] = entity.NewTransaction(user.ID, now, "Café", "Alimentação", decimal.NewFromInt(5), entity.TransactionTypeExpense, entity.SourceLocal)
	}
	advice := buildAdvicePrompt(adapter.AdviceRequest{UserName: "Ana", Income: decimal.NewFromInt(5000), Expense: decimal.NewFromInt(225), Transactions: txs, Now: now})
	assert.Contains(t, advice, "R$ 5000.00")
	assert.Equal(t, coachHistorySize, strings.Count(advice, "| Café |"))
}

