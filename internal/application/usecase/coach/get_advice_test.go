package coach

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
)

type fakeUserRepo struct {
	adapter.UserRepository
	user *entity.User
}

func (f *fakeUserRepo) FindByID(context.Context, uuid.UUID) (*entity.User, error) { return f.user, nil }

type fakeTransactionRepo struct {
	adapter.TransactionRepository
	recent    []*entity.Transaction
	limit     int
	start     time.Time
	totals    entity.TransactionTotals
	recentErr error
}

func (f *fakeTransactionRepo) Recent(_ context.Context, _ uuid.UUID, limit int) ([]*entity.Transaction, error) {
	f.limit = limit
	return f.recent, f.recentErr
}

func (f *fakeTransactionRepo) GetTotals(_ context.Context, _ uuid.UUID, start, _ time.Time) (*entity.TransactionTotals, error) {
	f.start = start
	t := f.totals
	return &t, nil
}

type fakeCoachLLM struct {
	adapter.LLMService
	answer  string
	err     error
	request adapter.AdviceRequest
}

func (f *fakeCoachLLM) Advise(_ context.Context, req adapter.AdviceRequest) (string, error) {
	f.request = req
	return f.answer, f.err
}

func (f *fakeCoachLLM) IsAvailable() bool { return true }

func newUseCase(txs *fakeTransactionRepo, llm adapter.LLMService) *GetAdviceUseCase {
	uc := NewGetAdviceUseCase(&fakeUserRepo{user: entity.NewUser("ana@example.com", "Ana", "x")}, txs, llm, time.UTC)
	uc.now = func() time.Time { return time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC) }
	return uc
}

func someTransactions() []*entity.Transaction {
	return []*entity.Transaction{
		entity.NewTransaction(uuid.New(), time.Now(), "Uber", "Transporte", decimal.NewFromInt(30), entity.TransactionTypeExpense, entity.SourceLocal),
	}
}

func TestGetAdviceUseCase(t *testing.T) {
	t.Run("no transactions", func(t *testing.T) {
		llm := &fakeCoachLLM{answer: "unused"}
		out, err := newUseCase(&fakeTransactionRepo{}, llm).Execute(context.Background(), GetAdviceInput{UserID: uuid.New()})
		require.NoError(t, err)
		assert.Equal(t, NoDataMessage, out.Advice)
		assert.False(t, out.Offline)
		assert.Empty(t, llm.request.UserName)
	})

	t.Run("advice grounded on recent transactions", func(t *testing.T) {
		txs := &fakeTransactionRepo{recent: someTransactions(), totals: entity.TransactionTotals{IncomeTotal: decimal.NewFromInt(5000)}}
		llm := &fakeCoachLLM{answer: "## Dicas\n- Corte o Uber"}

		out, err := newUseCase(txs, llm).Execute(context.Background(), GetAdviceInput{UserID: uuid.New()})
		require.NoError(t, err)

		assert.Equal(t, "## Dicas\n- Corte o Uber", out.Advice)
		assert.Equal(t, ContextSize, txs.limit)
		assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), txs.start)
		assert.True(t, decimal.NewFromInt(5000).Equal(llm.request.Income))
		assert.Len(t, llm.request.Transactions, 1)
		assert.Equal(t, "Ana", llm.request.UserName)
	})

	t.Run("model failure", func(t *testing.T) {
		llm := &fakeCoachLLM{err: errors.New("quota exceeded")}
		out, err := newUseCase(&fakeTransactionRepo{recent: someTransactions()}, llm).Execute(context.Background(), GetAdviceInput{UserID: uuid.New()})
		require.NoError(t, err)
		assert.True(t, out.Offline)
		assert.Equal(t, "Coach offline. Erro: quota exceeded", out.Advice)
	})

	t.Run("model not configured", func(t *testing.T) {
		out, err := newUseCase(&fakeTransactionRepo{recent: someTransactions()}, nil).Execute(context.Background(), GetAdviceInput{UserID: uuid.New()})
		require.NoError(t, err)
		assert.True(t, out.Offline)
		assert.True(t, strings.HasPrefix(out.Advice, "Coach offline."))
	})

	t.Run("repository failure is an error", func(t *testing.T) {
		_, err := newUseCase(&fakeTransactionRepo{recentErr: errors.New("closed")}, &fakeCoachLLM{}).Execute(context.Background(), GetAdviceInput{UserID: uuid.New()})
		assert.Error(t, err)
	})
}
