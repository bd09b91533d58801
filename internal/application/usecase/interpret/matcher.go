// Package interpret contains the hybrid transaction interpretation use cases.
package interpret

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/smartwallet/backend/internal/domain/entity"
	"github.com/smartwallet/backend/internal/domain/valueobject"
)

// DefaultTimezone is the location used for dates when none is configured.
const DefaultTimezone = "America/Sao_Paulo"

var (
	amountPattern    = regexp.MustCompile(`\d{1,3}(?:\.\d{3})+(?:,\d{1,2})?|\d+(?:[.,]\d+)?`)
	thousandsPattern = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
)

// LocalMatcher reads simple transaction commands without calling a model.
// It is safe for concurrent use.
type LocalMatcher struct {
	rules *Rules
	loc   *time.Location
}

// NewLocalMatcher creates a LocalMatcher. A nil location means UTC.
func NewLocalMatcher(rules *Rules, loc *time.Location) *LocalMatcher {
	if loc == nil {
		loc = time.UTC
	}
	return &LocalMatcher{rules: rules, loc: loc}
}

// localParse is the raw reading of a command before currency handling.
type localParse struct {
	amount   decimal.Decimal
	currency valueobject.Currency
	foreign  bool
}

// Match interprets text locally. It reports false when the text mentions a
// foreign currency or its first number is not a positive amount.
func (m *LocalMatcher) Match(text string, now time.Time) (*entity.Interpretation, bool) {
	p, ok := m.parse(text)
	if !ok || p.foreign {
		return nil, false
	}
	return m.build(text, now, p.amount), true
}

// MatchIgnoringCurrency interprets text locally even when it mentions a
// foreign currency. The amount of the returned interpretation is still in
// the detected currency; the caller converts it.
func (m *LocalMatcher) MatchIgnoringCurrency(text string, now time.Time) (*entity.Interpretation, bool) {
	p, ok := m.parse(text)
	if !ok {
		return nil, false
	}
	interp := m.build(text, now, p.amount)
	interp.Currency = p.currency
	return interp, true
}

// Category returns the category whose keywords appear in text, or false.
func (m *LocalMatcher) Category(text string) (string, bool) {
	return m.rules.category(strings.ToLower(text))
}

func (m *LocalMatcher) parse(text string) (localParse, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return localParse{}, false
	}
	lower := strings.ToLower(text)

	var p localParse
	p.currency = valueobject.BaseCurrency
	if c, ok := m.rules.detectCurrency(lower); ok && !c.IsBase() {
		p.currency = c
		p.foreign = true
	}

	match := amountPattern.FindString(text)
	if match == "" {
		return localParse{}, false
	}
	amount, ok := parseAmount(match)
	if !ok {
		return localParse{}, false
	}
	// Base amounts are stored with cents; foreign ones are rounded after conversion
	if !p.foreign {
		amount = amount.Round(2)
	}
	if !amount.IsPositive() {
		return localParse{}, false
	}
	p.amount = amount
	return p, true
}

func (m *LocalMatcher) build(text string, now time.Time, amount decimal.Decimal) *entity.Interpretation {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)

	category, ok := m.rules.category(lower)
	if !ok {
		category = entity.DefaultCategory
	}

	return &entity.Interpretation{
		Amount:         amount,
		OriginalAmount: amount,
		Currency:       valueobject.BaseCurrency,
		ExchangeRate:   decimal.NewFromInt(1),
		Category:       category,
		Description:    entity.TruncateRunes(titleCase(text), entity.MaxDescriptionLength),
		Merchant:       entity.TruncateRunes(m.rules.merchant(text), entity.MaxMerchantLength),
		Type:           m.transactionType(lower),
		Date:           now.In(m.loc),
		Source:         entity.SourceLocal,
	}
}

func (m *LocalMatcher) transactionType(lower string) entity.TransactionType {
	if containsAny(lower, m.rules.incomeKeywords) {
		return entity.TransactionTypeIncome
	}
	return entity.TransactionTypeExpense
}

// parseAmount reads a number written either as 1.234,56 or 1234.56.
func parseAmount(raw string) (decimal.Decimal, bool) {
	s := raw
	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case thousandsPattern.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	case strings.Contains(s, ","):
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// A Caser is stateful, so each call builds its own.
func titleCase(s string) string {
	return cases.Title(language.BrazilianPortuguese).String(s)
}
