package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/smartwallet/backend/internal/application/adapter"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/domain/valueobject"
)

const (
	promptDateLayout = "2006-01-02 15:04:05"
	coachHistorySize = 40
)

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// GeminiConfig configures the Gemini adapter.
type GeminiConfig struct {
	APIKey            string
	Models            []string
	RequestsPerMinute int
	Timeout           time.Duration
}

// generateFunc sends parts to one model and returns the text answer.
type generateFunc func(ctx context.Context, model string, parts []genai.Part) (string, error)

// GeminiService implements adapter.LLMService with Google Gemini. Models
// are tried in order until one returns a usable answer.
type GeminiService struct {
	models   []string
	timeout  time.Duration
	limiter  *rate.Limiter
	client   *genai.Client
	generate generateFunc
}

// NewGeminiService creates a new Gemini service. Without an API key the
// service reports itself unavailable.
func NewGeminiService(ctx context.Context, cfg GeminiConfig) (*GeminiService, error) {
	s := newGeminiService(cfg, nil)
	if cfg.APIKey == "" {
		return s, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	s.client = client
	s.generate = s.generateContent
	return s, nil
}

func newGeminiService(cfg GeminiConfig, generate generateFunc) *GeminiService {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 15
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiService{
		models:   cfg.Models,
		timeout:  timeout,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm),
		generate: generate,
	}
}

// IsAvailable reports whether a client is configured.
func (s *GeminiService) IsAvailable() bool {
	return s.generate != nil && len(s.models) > 0
}

// Close releases the underlying client.
func (s *GeminiService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Interpret extracts a transaction from text or audio.
func (s *GeminiService) Interpret(ctx context.Context, req adapter.InterpretRequest) (*adapter.LLMExtraction, error) {
	parts := []genai.Part{genai.Text(buildInterpretPrompt(req))}
	if req.HasAudio() {
		mimeType := req.AudioMIMEType
		if mimeType == "" {
			mimeType = "audio/wav"
		}
		parts = append(parts, genai.Blob{MIMEType: mimeType, Data: req.Audio})
	}

	var extraction *adapter.LLMExtraction
	err := s.tryModels(ctx, parts, func(text string) error {
		var err error
		extraction, err = parseExtraction(text)
		return err
	})
	if err != nil {
		return nil, err
	}
	return extraction, nil
}

// Advise returns coaching advice in Markdown.
func (s *GeminiService) Advise(ctx context.Context, req adapter.AdviceRequest) (string, error) {
	var advice string
	err := s.tryModels(ctx, []genai.Part{genai.Text(buildAdvicePrompt(req))}, func(text string) error {
		advice = strings.TrimSpace(text)
		if advice == "" {
			return errors.New("empty answer")
		}
		return nil
	})
	return advice, err
}

// tryModels calls each model until accept succeeds on its answer.
func (s *GeminiService) tryModels(ctx context.Context, parts []genai.Part, accept func(string) error) error {
	if !s.IsAvailable() {
		return domainerror.ErrLLMUnavailable
	}

	var errs []error
	for _, name := range s.models {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		text, err := s.generate(callCtx, name, parts)
		cancel()
		if err == nil {
			err = accept(text)
		}
		if err == nil {
			return nil
		}

		slog.Warn("Gemini model failed", "model", name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
		if ctx.Err() != nil {
			break
		}
	}
	return errors.Join(errs...)
}

func (s *GeminiService) generateContent(ctx context.Context, name string, parts []genai.Part) (string, error) {
	model := s.client.GenerativeModel(name)
	model.SetTemperature(0.2)

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("empty response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

func buildInterpretPrompt(req adapter.InterpretRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ACT AS: Financial Assistant. CONTEXT: Brazil (BRL). DATE_TIME: %s.\n", req.Now.Format(promptDateLayout))

	if req.Rates != nil {
		rates := make([]string, 0, len(valueobject.ForeignCurrencies))
		for _, c := range valueobject.ForeignCurrencies {
			if r, ok := req.Rates.Rate(c); ok {
				rates = append(rates, fmt.Sprintf("%s=%s", c, r.String()))
			}
		}
		fmt.Fprintf(&sb, "RATES (BRL per unit): %s.\n", strings.Join(rates, ", "))
	}

	fmt.Fprintf(&sb, "TASK: Extract one transaction. Keep the amount in the currency the user used and report that currency code. Classify in: [%s].\n", strings.Join(req.Categories, ", "))
	if req.HasAudio() {
		sb.WriteString("USER INPUT: the attached audio message.\n")
	} else {
		fmt.Fprintf(&sb, "USER INPUT: %q\n", req.Text)
	}
	sb.WriteString(`OUTPUT JSON ONLY: {
  "amount": number,
  "currency": "BRL|USD|EUR|GBP|JPY|CNY|BTC",
  "category": "str",
  "date": "YYYY-MM-DD HH:MM:SS",
  "description": "str",
  "merchant": "str",
  "type": "Receita/Despesa"
}`)
	return sb.String()
}

func buildAdvicePrompt(req adapter.AdviceRequest) string {
	var sb strings.Builder
	sb.WriteString("Atue como um Coach Financeiro Pessoal Sênior.\n")
	fmt.Fprintf(&sb, "Cliente: %s. Data: %s.\n", req.UserName, req.Now.Format("2006-01-02"))
	fmt.Fprintf(&sb, "Receitas do mês: R$ %s. Despesas do mês: R$ %s.\n", req.Income.StringFixed(2), req.Expense.StringFixed(2))
	sb.WriteString("Histórico recente:\n")

	txs := req.Transactions
	if len(txs) > coachHistorySize {
		txs = txs[:coachHistorySize]
	}
	for _, tx := range txs {
		fmt.Fprintf(&sb, "- %s | %s | %s | %s | R$ %s\n",
			tx.Date.Format("2006-01-02"), tx.Type, tx.Category, tx.Description, tx.Amount.StringFixed(2))
	}

	sb.WriteString("Missão: Analise os gastos, sugira onde economizar e dê 1 dica de investimento conservador.\n")
	sb.WriteString("Responda em Português, direto e motivador. Use Markdown.")
	return sb.String()
}

type geminiExtraction struct {
	Amount      json.RawMessage `json:"amount"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Merchant    string          `json:"merchant"`
	Type        string          `json:"type"`
}

// parseExtraction reads the JSON object out of a model answer, tolerating
// markdown fences and surrounding prose.
func parseExtraction(text string) (*adapter.LLMExtraction, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	object := jsonObjectPattern.FindString(text)
	if object == "" {
		return nil, fmt.Errorf("%w: no JSON object", domainerror.ErrMalformedLLMResponse)
	}

	var raw geminiExtraction
	if err := json.Unmarshal([]byte(object), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", domainerror.ErrMalformedLLMResponse, err)
	}

	amount, err := parseAmountJSON(raw.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: amount: %w", domainerror.ErrMalformedLLMResponse, err)
	}

	return &adapter.LLMExtraction{
		Amount:      amount,
		Currency:    raw.Currency,
		Category:    raw.Category,
		Date:        raw.Date,
		Description: raw.Description,
		Merchant:    raw.Merchant,
		Type:        raw.Type,
	}, nil
}

// parseAmountJSON accepts a JSON number or a string such as "45,90".
func parseAmountJSON(raw json.RawMessage) (decimal.Decimal, error) {
	value := strings.TrimSpace(string(raw))
	if value == "" || value == "null" {
		return decimal.Zero, errors.New("missing")
	}
	value = strings.Trim(value, `"`)
	value = strings.TrimSpace(strings.TrimPrefix(value, "R$"))
	if strings.Contains(value, ",") && !strings.Contains(value, ".") {
		value = strings.Replace(value, ",", ".", 1)
	}
	return decimal.NewFromString(value)
}
