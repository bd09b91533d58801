package interpret

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/domain/valueobject"
)

// MaxAudioBytes is the largest voice note accepted.
const MaxAudioBytes = 10 << 20

// llmDateLayouts are the date formats accepted from the model, in order.
var llmDateLayouts = []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}

var (
	expenseAliases = []string{"expense", "outcome", "gasto", "saída", "saida", "despesa"}
	incomeAliases  = []string{"income", "entry", "ganho", "entrada", "receita"}
)

// InterpretInput represents a free-form transaction command.
type InterpretInput struct {
	UserID   uuid.UUID
	Text     string
	Audio    []byte
	MIMEType string
}

// InterpretOutput represents the interpretation of a command.
type InterpretOutput struct {
	Interpretation *entity.Interpretation
}

// InterpretUseCase routes a command to the local matcher or the language model.
type InterpretUseCase struct {
	matcher      *LocalMatcher
	llm          adapter.LLMService
	marketData   adapter.MarketData
	categoryRepo adapter.CategoryRepository
	metrics      adapter.Metrics
	loc          *time.Location
	now          func() time.Time
}

// NewInterpretUseCase creates a new InterpretUseCase instance. llm may be nil
// when no model is configured.
func NewInterpretUseCase(
	matcher *LocalMatcher,
	llm adapter.LLMService,
	marketData adapter.MarketData,
	categoryRepo adapter.CategoryRepository,
	metrics adapter.Metrics,
	loc *time.Location,
) *InterpretUseCase {
	if metrics == nil {
		metrics = adapter.NopMetrics{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &InterpretUseCase{
		matcher:      matcher,
		llm:          llm,
		marketData:   marketData,
		categoryRepo: categoryRepo,
		metrics:      metrics,
		loc:          loc,
		now:          time.Now,
	}
}

// SetClock replaces the time source.
func (uc *InterpretUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// Execute interprets the command.
func (uc *InterpretUseCase) Execute(ctx context.Context, input InterpretInput) (*InterpretOutput, error) {
	text := strings.TrimSpace(input.Text)
	hasAudio := len(input.Audio) > 0

	if text == "" && !hasAudio {
		uc.metrics.InterpretationFailed("empty")
		return nil, domainerror.NewInterpretationError(
			domainerror.ErrCodeEmptyInput,
			"text or audio is required",
			domainerror.ErrEmptyInput,
		)
	}
	if len(input.Audio) > MaxAudioBytes {
		uc.metrics.InterpretationFailed("audio_too_large")
		return nil, domainerror.NewInterpretationError(
			domainerror.ErrCodeAudioTooLarge,
			fmt.Sprintf("audio must not exceed %d bytes", MaxAudioBytes),
			domainerror.ErrAudioTooLarge,
		)
	}

	now := uc.now().In(uc.loc)

	custom, err := uc.categoryRepo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	categories := entity.MergeCategories(custom)

	// Simple text commands never reach the model
	if !hasAudio {
		if interp, ok := uc.matcher.Match(text, now); ok {
			interp.Category = entity.ResolveCategory(interp.Category, categories)
			return uc.served(interp), nil
		}
	}

	rates := uc.marketData.CurrentRates(ctx)

	if uc.llm == nil || !uc.llm.IsAvailable() {
		return uc.fallback(text, now, rates, domainerror.ErrLLMUnavailable)
	}

	extraction, err := uc.llm.Interpret(ctx, adapter.InterpretRequest{
		Text:          text,
		Audio:         input.Audio,
		AudioMIMEType: input.MIMEType,
		Categories:    categories,
		Rates:         rates,
		Now:           now,
	})
	if err != nil {
		slog.Warn("Language model interpretation failed", "error", err, "userID", input.UserID)
		return uc.fallback(text, now, rates, err)
	}

	interp, err := uc.normalize(extraction, text, now, rates, categories)
	if err != nil {
		slog.Warn("Discarding model interpretation", "error", err, "userID", input.UserID)
		return uc.fallback(text, now, rates, err)
	}
	return uc.served(interp), nil
}

// normalize turns the raw model answer into an Interpretation in the base currency.
func (uc *InterpretUseCase) normalize(
	ext *adapter.LLMExtraction,
	text string,
	now time.Time,
	rates *entity.MarketRates,
	categories []string,
) (*entity.Interpretation, error) {
	original := ext.Amount.Abs()
	if !original.IsPositive() {
		return nil, domainerror.ErrNoAmount
	}

	currency, ok := valueobject.ParseCurrency(ext.Currency)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domainerror.ErrUnsupportedCurrency, ext.Currency)
	}
	amount, rate, ok := rates.ToBase(original, currency)
	if !ok {
		return nil, fmt.Errorf("%w: no rate for %s", domainerror.ErrUnsupportedCurrency, currency)
	}
	if !amount.IsPositive() {
		return nil, domainerror.ErrNoAmount
	}

	description := strings.TrimSpace(ext.Description)
	if description == "" {
		description = titleCase(text)
	}

	return &entity.Interpretation{
		Amount:         amount,
		OriginalAmount: original,
		Currency:       currency,
		ExchangeRate:   rate,
		Category:       entity.ResolveCategory(ext.Category, categories),
		Description:    entity.TruncateRunes(description, entity.MaxDescriptionLength),
		Merchant:       entity.TruncateRunes(strings.TrimSpace(ext.Merchant), entity.MaxMerchantLength),
		Type:           NormalizeType(ext.Type),
		Date:           uc.parseDate(ext.Date, now),
		Source:         entity.SourceLLM,
	}, nil
}

// fallback reads text locally after the model failed, converting any foreign
// amount with the current rates.
func (uc *InterpretUseCase) fallback(text string, now time.Time, rates *entity.MarketRates, cause error) (*InterpretOutput, error) {
	interp, ok := uc.matcher.MatchIgnoringCurrency(text, now)
	if ok {
		if amount, rate, converted := rates.ToBase(interp.Amount, interp.Currency); converted && amount.IsPositive() {
			interp.OriginalAmount = interp.Amount
			interp.Amount = amount
			interp.ExchangeRate = rate
			interp.Source = entity.SourceLocalFallback
			return uc.served(interp), nil
		}
	}

	uc.metrics.InterpretationFailed("unavailable")
	return nil, domainerror.NewInterpretationError(
		domainerror.ErrCodeInterpretationUnavailable,
		"could not interpret the command, try again later",
		fmt.Errorf("%w: %w", domainerror.ErrInterpretationUnavailable, cause),
	)
}

func (uc *InterpretUseCase) served(interp *entity.Interpretation) *InterpretOutput {
	uc.metrics.InterpretationServed(string(interp.Source))
	return &InterpretOutput{Interpretation: interp}
}

func (uc *InterpretUseCase) parseDate(raw string, now time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range llmDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, uc.loc); err == nil {
			if layout == "2006-01-02" {
				return time.Date(t.Year(), t.Month(), t.Day(), now.Hour(), now.Minute(), now.Second(), 0, uc.loc)
			}
			return t
		}
	}
	return now
}

// NormalizeType maps the type labels used by the model, in English or
// Portuguese, to a TransactionType. Unknown labels are expenses.
func NormalizeType(label string) entity.TransactionType {
	label = strings.ToLower(strings.TrimSpace(label))
	for _, a := range expenseAliases {
		if label == a {
			return entity.TransactionTypeExpense
		}
	}
	for _, a := range incomeAliases {
		if label == a {
			return entity.TransactionTypeIncome
		}
	}
	return entity.TransactionTypeExpense
}
