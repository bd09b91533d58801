package interpret

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/domain/valueobject"
)

var testLoc = time.FixedZone("BRT", -3*60*60)

func testNow() time.Time {
	return time.Date(2024, time.March, 15, 14, 30, 0, 0, testLoc)
}

func testRates() *entity.MarketRates {
	return &entity.MarketRates{
		Rates: map[valueobject.Currency]decimal.Decimal{
			valueobject.CurrencyUSD: decimal.NewFromInt(5),
			valueobject.CurrencyEUR: decimal.RequireFromString("5.5"),
		},
		Status: "online (test)",
	}
}

type fakeLLM struct {
	mu          sync.Mutex
	extraction  *adapter.LLMExtraction
	err         error
	unavailable bool
	requests    []adapter.InterpretRequest
}

func (f *fakeLLM) Interpret(_ context.Context, req adapter.InterpretRequest) (*adapter.LLMExtraction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	ext := *f.extraction
	return &ext, nil
}

func (f *fakeLLM) Advise(context.Context, adapter.AdviceRequest) (string, error) {
	return "", domainerror.ErrLLMUnavailable
}

func (f *fakeLLM) IsAvailable() bool { return !f.unavailable }

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeMarketData struct {
	rates *entity.MarketRates
}

func (f fakeMarketData) CurrentRates(context.Context) *entity.MarketRates { return f.rates }

type fakeCategoryRepo struct {
	adapter.CategoryRepository
	custom []*entity.Category
}

func (f *fakeCategoryRepo) ListByUser(context.Context, uuid.UUID) ([]*entity.Category, error) {
	return f.custom, nil
}

type recordingMetrics struct {
	adapter.NopMetrics
	served []string
	failed []string
}

func (m *recordingMetrics) InterpretationServed(source string) { m.served = append(m.served, source) }
func (m *recordingMetrics) InterpretationFailed(reason string) { m.failed = append(m.failed, reason) }

type fakeUserRepo struct {
	adapter.UserRepository
	users map[uuid.UUID]*entity.User
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domainerror.ErrUserNotFound
}

type fakeTransactionRepo struct {
	adapter.TransactionRepository
	created []*entity.Transaction
}

func (f *fakeTransactionRepo) Create(_ context.Context, tx *entity.Transaction) error {
	f.created = append(f.created, tx)
	return nil
}

type fakeAlerter struct {
	checked []*entity.Transaction
}

func (f *fakeAlerter) CheckExpense(_ context.Context, tx *entity.Transaction) error {
	f.checked = append(f.checked, tx)
	return nil
}

func newTestMatcher() *LocalMatcher {
	rules, err := DefaultRules()
	if err != nil {
		panic(err)
	}
	return NewLocalMatcher(rules, testLoc)
}

func newTestInterpreter(llm adapter.LLMService, categories ...string) (*InterpretUseCase, *recordingMetrics) {
	repo := &fakeCategoryRepo{}
	for _, name := range categories {
		repo.custom = append(repo.custom, entity.NewCategory(uuid.Nil, name))
	}
	metrics := &recordingMetrics{}
	uc := NewInterpretUseCase(newTestMatcher(), llm, fakeMarketData{rates: testRates()}, repo, metrics, testLoc)
	uc.SetClock(testNow)
	return uc, metrics
}
