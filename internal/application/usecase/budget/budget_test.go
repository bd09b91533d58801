package budget

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
)

type memoryBudgetRepo struct {
	adapter.BudgetRepository
	budgets map[string]*entity.Budget
}

func (r *memoryBudgetRepo) Upsert(_ context.Context, b *entity.Budget) error {
	if r.budgets == nil {
		r.budgets = map[string]*entity.Budget{}
	}
	r.budgets[b.Category] = b
	return nil
}

func (r *memoryBudgetRepo) FindByCategory(_ context.Context, _ uuid.UUID, category string) (*entity.Budget, error) {
	if b, ok := r.budgets[category]; ok {
		return b, nil
	}
	return nil, domainerror.ErrBudgetNotFound
}

func (r *memoryBudgetRepo) ListByUser(context.Context, uuid.UUID) ([]*entity.Budget, error) {
	var out []*entity.Budget
	for _, b := range r.budgets {
		out = append(out, b)
	}
	return out, nil
}

type spendingRepo struct {
	adapter.TransactionRepository
	spent map[string]decimal.Decimal
	start time.Time
}

func (r *spendingRepo) SumExpensesByCategory(_ context.Context, _ uuid.UUID, category string, start, _ time.Time) (decimal.Decimal, error) {
	r.start = start
	return r.spent[category], nil
}

type fakeCategoryRepo struct {
	adapter.CategoryRepository
}

func (fakeCategoryRepo) ListByUser(context.Context, uuid.UUID) ([]*entity.Category, error) {
	return nil, nil
}

type fakeUserRepo struct {
	adapter.UserRepository
	user *entity.User
}

func (f *fakeUserRepo) FindByID(context.Context, uuid.UUID) (*entity.User, error) { return f.user, nil }

type recordingEmailService struct {
	alerts []adapter.QueueBudgetExceededInput
}

func (s *recordingEmailService) QueueBudgetExceeded(_ context.Context, in adapter.QueueBudgetExceededInput) error {
	s.alerts = append(s.alerts, in)
	return nil
}

func (s *recordingEmailService) QueueMonthlyDigest(context.Context, adapter.QueueMonthlyDigestInput) error {
	return nil
}

func TestSetBudgetUseCase(t *testing.T) {
	userID := uuid.New()

	t.Run("upsert replaces the limit", func(t *testing.T) {
		repo := &memoryBudgetRepo{}
		uc := NewSetBudgetUseCase(repo, fakeCategoryRepo{})

		_, err := uc.Execute(context.Background(), SetBudgetInput{UserID: userID, Category: "lazer", LimitAmount: decimal.NewFromInt(200)})
		require.NoError(t, err)
		_, err = uc.Execute(context.Background(), SetBudgetInput{UserID: userID, Category: "Lazer", LimitAmount: decimal.NewFromInt(300), AlertOnExceed: true})
		require.NoError(t, err)

		require.Len(t, repo.budgets, 1)
		assert.True(t, decimal.NewFromInt(300).Equal(repo.budgets["Lazer"].LimitAmount))
		assert.True(t, repo.budgets["Lazer"].AlertOnExceed)
	})

	tests := []struct {
		name     string
		category string
		limit    decimal.Decimal
		code     domainerror.BudgetErrorCode
	}{
		{"zero limit", "Lazer", decimal.Zero, domainerror.ErrCodeInvalidBudgetLimit},
		{"unknown category", "Pets", decimal.NewFromInt(10), domainerror.ErrCodeBudgetUnknownCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSetBudgetUseCase(&memoryBudgetRepo{}, fakeCategoryRepo{}).Execute(context.Background(), SetBudgetInput{UserID: userID, Category: tt.category, LimitAmount: tt.limit})

			var budgetErr *domainerror.BudgetError
			require.ErrorAs(t, err, &budgetErr)
			assert.Equal(t, tt.code, budgetErr.Code)
		})
	}
}

func TestListBudgetsUseCase(t *testing.T) {
	userID := uuid.New()
	budgets := &memoryBudgetRepo{budgets: map[string]*entity.Budget{
		"Lazer": entity.NewBudget(userID, "Lazer", decimal.NewFromInt(200), false),
	}}
	spending := &spendingRepo{spent: map[string]decimal.Decimal{"Lazer": decimal.NewFromInt(170)}}
	uc := NewListBudgetsUseCase(budgets, spending, time.UTC)

	out, err := uc.Execute(context.Background(), ListBudgetsInput{UserID: userID, Month: "2024-02"})
	require.NoError(t, err)

	assert.Equal(t, "2024-02", out.Month)
	require.Len(t, out.Budgets, 1)
	assert.Equal(t, entity.BudgetStatusWarning, out.Budgets[0].Status)
	assert.True(t, decimal.NewFromInt(85).Equal(out.Budgets[0].Percent))
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), spending.start)

	_, err = uc.Execute(context.Background(), ListBudgetsInput{UserID: userID, Month: "02/2024"})
	var budgetErr *domainerror.BudgetError
	require.ErrorAs(t, err, &budgetErr)
	assert.Equal(t, domainerror.ErrCodeInvalidBudgetMonth, budgetErr.Code)
}

func TestAlertChecker_CheckExpense(t *testing.T) {
	user := entity.NewUser("ana@example.com", "Ana", "x")

	tests := []struct {
		name       string
		alertFlag  bool
		spentAfter string
		amount     string
		wantAlert  bool
	}{
		{"crosses the limit", true, "210", "30", true},
		{"lands exactly on the limit", true, "200", "20", true},
		{"stays below", true, "199.99", "50", false},
		{"was already above", true, "260", "50", false},
		{"alerts disabled", false, "210", "30", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budgets := &memoryBudgetRepo{budgets: map[string]*entity.Budget{
				"Lazer": entity.NewBudget(user.ID, "Lazer", decimal.NewFromInt(200), tt.alertFlag),
			}}
			spending := &spendingRepo{spent: map[string]decimal.Decimal{"Lazer": decimal.RequireFromString(tt.spentAfter)}}
			emails := &recordingEmailService{}
			checker := NewAlertChecker(budgets, spending, &fakeUserRepo{user: user}, emails, time.UTC)

			tx := entity.NewTransaction(user.ID, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), "Show", "Lazer", decimal.RequireFromString(tt.amount), entity.TransactionTypeExpense, entity.SourceManual)
			require.NoError(t, checker.CheckExpense(context.Background(), tx))

			if !tt.wantAlert {
				assert.Empty(t, emails.alerts)
				return
			}
			require.Len(t, emails.alerts, 1)
			assert.Equal(t, "2024-03", emails.alerts[0].Month)
			assert.Equal(t, "Lazer", emails.alerts[0].Category)
			assert.Equal(t, user.Email, emails.alerts[0].UserEmail)
		})
	}

	t.Run("category without budget", func(t *testing.T) {
		emails := &recordingEmailService{}
		checker := NewAlertChecker(&memoryBudgetRepo{}, &spendingRepo{}, &fakeUserRepo{user: user}, emails, time.UTC)
		tx := entity.NewTransaction(user.ID, time.Now(), "Uber", "Transporte", decimal.NewFromInt(10), entity.TransactionTypeExpense, entity.SourceManual)
		require.NoError(t, checker.CheckExpense(context.Background(), tx))
		assert.Empty(t, emails.alerts)
	})

	t.Run("user opted out", func(t *testing.T) {
		optedOut := *user
		optedOut.BudgetAlerts = false
		budgets := &memoryBudgetRepo{budgets: map[string]*entity.Budget{"Lazer": entity.NewBudget(user.ID, "Lazer", decimal.NewFromInt(200), true)}}
		spending := &spendingRepo{spent: map[string]decimal.Decimal{"Lazer": decimal.NewFromInt(250)}}
		emails := &recordingEmailService{}
		checker := NewAlertChecker(budgets, spending, &fakeUserRepo{user: &optedOut}, emails, time.UTC)
		tx := entity.NewTransaction(user.ID, time.Now(), "Show", "Lazer", decimal.NewFromInt(100), entity.TransactionTypeExpense, entity.SourceManual)
		require.NoError(t, checker.CheckExpense(context.Background(), tx))
		assert.Empty(t, emails.alerts)
	})
}
