package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartwallet/backend/internal/domain/entity"
	"github.com/smartwallet/backend/internal/domain/valueobject"
)

func TestRootCommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"parse", "rates", "import-ofx", "recurring", "coach", "migrate"} {
		assert.Contains(t, names, want)
	}
}

func TestRenderMarkdown(t *testing.T) {
	out, err := renderMarkdown("## Dicas\n\n- Cozinhe em casa", true, 80)
	require.NoError(t, err)
	assert.Equal(t, "## Dicas\n\n- Cozinhe em casa\n", out)

	styled, err := renderMarkdown("## Dicas\n\n- Cozinhe em casa", false, 60)
	require.NoError(t, err)
	assert.Contains(t, styled, "Cozinhe em casa")
}

func TestPrintInterpretation(t *testing.T) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	printInterpretation(cmd, &entity.Interpretation{
		Amount:         decimal.RequireFromString("100"),
		OriginalAmount: decimal.RequireFromString("20"),
		Currency:       valueobject.CurrencyUSD,
		ExchangeRate:   decimal.RequireFromString("5"),
		Category:       "Transporte",
		Description:    "Uber",
		Type:           entity.TransactionTypeExpense,
		Date:           time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		Source:         entity.SourceLocal,
	})

	out := buf.String()
	assert.Contains(t, out, "R$ 100,00")
	assert.Contains(t, out, "Original:    20 USD (rate 5)")
	assert.Contains(t, out, "15/03/2024 10:30")
	assert.NotContains(t, out, "Merchant")
}
