package adapter

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/domain/entity"
)

// InterpretRequest carries a text or audio command plus the context the model
// needs to classify and convert it.
type InterpretRequest struct {
	Text          string
	Audio         []byte
	AudioMIMEType string
	Categories    []string
	Rates         *entity.MarketRates
	Now           time.Time
}

// HasAudio reports whether the request carries a voice note.
func (r InterpretRequest) HasAudio() bool {
	return len(r.Audio) > 0
}

// LLMExtraction is the raw structured answer of the model, before
// normalization. Amount is expressed in Currency.
type LLMExtraction struct {
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Date        string
	Description string
	Merchant    string
	Type        string
}

// AdviceRequest is the context handed to the financial coach.
type AdviceRequest struct {
	UserName     string
	Income       decimal.Decimal
	Expense      decimal.Decimal
	Transactions []*entity.Transaction
	Now          time.Time
}

// LLMService defines the interface for the remote language model.
type LLMService interface {
	// Interpret extracts a transaction from text or audio.
	Interpret(ctx context.Context, req InterpretRequest) (*LLMExtraction, error)

	// Advise returns Markdown advice for the given spending history.
	Advise(ctx context.Context, req AdviceRequest) (string, error)

	// IsAvailable reports whether the model is configured.
	IsAvailable() bool
}
