package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/domain/valueobject"
	"github.com/smartwallet/backend/internal/integration/persistence/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func newStoredUser(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()
	user := entity.NewUser(email, "Test", "hash")
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserRepository(db)

	ana := newStoredUser(t, db, "ana@example.com")
	newStoredUser(t, db, "bia@example.com")

	err := repo.Create(ctx, entity.NewUser("ana@example.com", "Other", "hash"))
	assert.ErrorIs(t, err, domainerror.ErrEmailAlreadyExists)

	ana.LinkTelegram(4242)
	require.NoError(t, repo.Update(ctx, ana))

	found, err := repo.FindByTelegramChatID(ctx, 4242)
	require.NoError(t, err)
	assert.Equal(t, ana.ID, found.ID)

	_, err = repo.FindByTelegramChatID(ctx, 1)
	assert.ErrorIs(t, err, domainerror.ErrUserNotFound)

	exists, err := repo.ExistsByEmail(ctx, "bia@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestTransactionRepository_ListAndTotals(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	user := newStoredUser(t, db, "ana@example.com")
	other := newStoredUser(t, db, "bia@example.com")

	march := valueobject.Month{Year: 2024, Month: time.March, Loc: time.UTC}
	seed := []*entity.Transaction{
		entity.NewTransaction(user.ID, march.Date(2), "Uber centro", "Transporte", decimal.RequireFromString("25.50"), entity.TransactionTypeExpense, entity.SourceLocal),
		entity.NewTransaction(user.ID, march.Date(5), "Mercado", "Alimentação", decimal.RequireFromString("100.10"), entity.TransactionTypeExpense, entity.SourceLocal),
		entity.NewTransaction(user.ID, march.Date(6), "Padaria", "Alimentação", decimal.RequireFromString("20.20"), entity.TransactionTypeExpense, entity.SourceManual),
		entity.NewTransaction(user.ID, march.Date(10), "Salário", "Salário", decimal.NewFromInt(5000), entity.TransactionTypeIncome, entity.SourceManual),
		entity.NewTransaction(user.ID, march.Date(1).AddDate(0, 1, 0), "Abril", "Lazer", decimal.NewFromInt(80), entity.TransactionTypeExpense, entity.SourceManual),
		entity.NewTransaction(other.ID, march.Date(3), "Outro usuário", "Lazer", decimal.NewFromInt(999), entity.TransactionTypeExpense, entity.SourceManual),
	}
	for _, tx := range seed {
		require.NoError(t, repo.Create(ctx, tx))
	}

	t.Run("totals are scoped to user and month", func(t *testing.T) {
		totals, err := repo.GetTotals(ctx, user.ID, march.Start(), march.End())
		require.NoError(t, err)
		assert.True(t, totals.IncomeTotal.Equal(decimal.NewFromInt(5000)), totals.IncomeTotal.String())
		assert.True(t, totals.ExpenseTotal.Equal(decimal.RequireFromString("145.80")), totals.ExpenseTotal.String())
		assert.True(t, totals.Balance.Equal(decimal.RequireFromString("4854.20")), totals.Balance.String())
	})

	t.Run("category totals largest first", func(t *testing.T) {
		totals, err := repo.GetCategoryTotals(ctx, user.ID, march.Start(), march.End())
		require.NoError(t, err)
		require.Len(t, totals, 2)
		assert.Equal(t, "Alimentação", totals[0].Category)
		assert.True(t, totals[0].Total.Equal(decimal.RequireFromString("120.30")), totals[0].Total.String())
		assert.Equal(t, int64(2), totals[0].Count)
	})

	t.Run("sum of one category", func(t *testing.T) {
		sum, err := repo.SumExpensesByCategory(ctx, user.ID, "Transporte", march.Start(), march.End())
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.RequireFromString("25.5")))
	})

	t.Run("list with search and pagination", func(t *testing.T) {
		result, err := repo.List(ctx, user.ID, adapter.TransactionFilter{}, adapter.TransactionPagination{Page: 1, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(5), result.Total)
		assert.Equal(t, 3, result.TotalPages)
		require.Len(t, result.Transactions, 2)
		assert.Equal(t, "Abril", result.Transactions[0].Description)

		start, end := march.Start(), march.End()
		result, err = repo.List(ctx, user.ID, adapter.TransactionFilter{
			StartDate: &start,
			EndDate:   &end,
			Type:      entity.TransactionTypeExpense,
			Search:    "MERC",
		}, adapter.TransactionPagination{Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, result.Transactions, 1)
		assert.Equal(t, "Mercado", result.Transactions[0].Description)
	})

	t.Run("delete is scoped to the owner", func(t *testing.T) {
		err := repo.Delete(ctx, user.ID, seed[5].ID)
		assert.ErrorIs(t, err, domainerror.ErrTransactionNotFound)

		require.NoError(t, repo.Delete(ctx, other.ID, seed[5].ID))
	})
}

func TestTransactionRepository_ExternalIDs(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	user := newStoredUser(t, db, "ana@example.com")

	tx := entity.NewTransaction(user.ID, time.Now(), "Importado", "Outros", decimal.NewFromInt(10), entity.TransactionTypeExpense, entity.SourceOFX)
	tx.ExternalID = "FIT-1"
	require.NoError(t, repo.Create(ctx, tx))

	dup := entity.NewTransaction(user.ID, time.Now(), "Importado", "Outros", decimal.NewFromInt(10), entity.TransactionTypeExpense, entity.SourceOFX)
	dup.ExternalID = "FIT-1"
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicateExternalID)

	// Manual transactions carry no external id and never collide
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Create(ctx, entity.NewTransaction(user.ID, time.Now(), "Manual", "Outros", decimal.NewFromInt(1), entity.TransactionTypeExpense, entity.SourceManual)))
	}

	found, err := repo.ExternalIDsExist(ctx, user.ID, []string{"FIT-1", "FIT-2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"FIT-1": true}, found)

	stored, err := repo.FindByID(ctx, user.ID, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "FIT-1", stored.ExternalID)
	assert.Equal(t, valueobject.CurrencyBRL, stored.OriginalCurrency)
}

func TestCategoryRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	user := newStoredUser(t, db, "ana@example.com")

	require.NoError(t, repo.Create(ctx, entity.NewCategory(user.ID, "Pets")))
	assert.ErrorIs(t, repo.Create(ctx, entity.NewCategory(user.ID, "Pets")), domainerror.ErrCategoryNameExists)

	exists, err := repo.ExistsByName(ctx, user.ID, "pets")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.DeleteByName(ctx, user.ID, "PETS"))
	assert.ErrorIs(t, repo.DeleteByName(ctx, user.ID, "Pets"), domainerror.ErrCategoryNotFound)
}

func TestBudgetRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewBudgetRepository(db)
	user := newStoredUser(t, db, "ana@example.com")

	require.NoError(t, repo.Upsert(ctx, entity.NewBudget(user.ID, "Lazer", decimal.NewFromInt(200), true)))
	require.NoError(t, repo.Upsert(ctx, entity.NewBudget(user.ID, "Lazer", decimal.NewFromInt(350), false)))

	budgets, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.True(t, budgets[0].LimitAmount.Equal(decimal.NewFromInt(350)))
	assert.False(t, budgets[0].AlertOnExceed)

	require.NoError(t, repo.Delete(ctx, user.ID, "Lazer"))
	_, err = repo.FindByCategory(ctx, user.ID, "Lazer")
	assert.ErrorIs(t, err, domainerror.ErrBudgetNotFound)
}

func TestRecurringRepository_RecordOccurrence(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewRecurringRepository(db)
	txRepo := NewTransactionRepository(db)
	user := newStoredUser(t, db, "ana@example.com")

	item := entity.NewRecurringItem(user.ID, "Moradia", decimal.NewFromInt(1500), "Aluguel", entity.TransactionTypeExpense, 5)
	require.NoError(t, repo.Create(ctx, item))

	march := valueobject.Month{Year: 2024, Month: time.March, Loc: time.UTC}

	claimed, err := repo.RecordOccurrence(ctx, item, march.Key(), item.ToTransaction(march))
	require.NoError(t, err)
	assert.True(t, claimed)

	// A stale copy of the item must not claim the month again
	claimed, err = repo.RecordOccurrence(ctx, item, march.Key(), item.ToTransaction(march))
	require.NoError(t, err)
	assert.False(t, claimed)

	items, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "2024-03", items[0].LastProcessed)

	recent, err := txRepo.Recent(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Aluguel (Recorrente)", recent[0].Description)
	assert.Equal(t, entity.SourceRecurring, recent[0].Source)

	deleted, err := repo.DeleteAllByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	recent, err = txRepo.Recent(ctx, user.ID, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1, "generated transactions survive the item")
}

func TestEmailQueueRepository_Dedupe(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewEmailQueueRepository(db)
	user := newStoredUser(t, db, "ana@example.com")

	job := entity.NewEmailJob(user.ID, entity.TemplateBudgetExceeded, user.Email, user.Name, "Orçamento", map[string]any{"category": "Lazer"})
	job.DedupeKey = "budget_exceeded:Lazer:2024-03"
	require.NoError(t, repo.Create(ctx, job))

	exists, err := repo.ExistsByDedupeKey(ctx, user.ID, job.DedupeKey)
	require.NoError(t, err)
	assert.True(t, exists)

	pending, err := repo.GetPendingJobs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Lazer", pending[0].TemplateData["category"])

	pending[0].MarkSent("re_123")
	require.NoError(t, repo.Update(ctx, pending[0]))

	stored, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EmailStatusSent, stored.Status)
	assert.Equal(t, "re_123", stored.ProviderID)
}

func TestEmailQueueRepository_UniqueDedupeKey(t *testing.T) {
	newJob := func(userID uuid.UUID, key string) *entity.EmailJob {
		job := entity.NewEmailJob(userID, entity.TemplateBudgetExceeded, "ana@example.com", "Ana", "Orçamento", nil)
		job.DedupeKey = key
		return job
	}

	tests := []struct {
		name    string
		second  func(first *entity.EmailJob, other uuid.UUID) *entity.EmailJob
		wantErr error
	}{
		{
			name:    "same user and key",
			second:  func(first *entity.EmailJob, _ uuid.UUID) *entity.EmailJob { return newJob(first.UserID, first.DedupeKey) },
			wantErr: domainerror.ErrEmailAlreadyQueued,
		},
		{
			name:   "same key for another user",
			second: func(first *entity.EmailJob, other uuid.UUID) *entity.EmailJob { return newJob(other, first.DedupeKey) },
		},
		{
			name:   "another key",
			second: func(first *entity.EmailJob, _ uuid.UUID) *entity.EmailJob { return newJob(first.UserID, "monthly_digest:2024-03") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			db := newTestDB(t)
			repo := NewEmailQueueRepository(db)
			ana := newStoredUser(t, db, "ana@example.com")
			bia := newStoredUser(t, db, "bia@example.com")

			first := newJob(ana.ID, "budget_exceeded:Lazer:2024-03")
			require.NoError(t, repo.Create(ctx, first))

			err := repo.Create(ctx, tt.second(first, bia.ID))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				var emailErr *domainerror.EmailError
				require.ErrorAs(t, err, &emailErr)
				assert.Equal(t, domainerror.ErrCodeEmailAlreadyQueued, emailErr.Code)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("jobs without a key never collide", func(t *testing.T) {
		ctx := context.Background()
		db := newTestDB(t)
		repo := NewEmailQueueRepository(db)
		ana := newStoredUser(t, db, "ana@example.com")

		require.NoError(t, repo.Create(ctx, newJob(ana.ID, "")))
		require.NoError(t, repo.Create(ctx, newJob(ana.ID, "")))

		pending, err := repo.GetPendingJobs(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, pending, 2)
	})
}

func TestTransactionRepository_ListSameDayNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	user := newStoredUser(t, db, "ana@example.com")

	day := valueobject.Month{Year: 2024, Month: time.March, Loc: time.UTC}.Date(5)
	created := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)
	for i, desc := range []string{"Café", "Almoço", "Jantar"} {
		tx := entity.NewTransaction(user.ID, day, desc, "Alimentação", decimal.NewFromInt(10), entity.TransactionTypeExpense, entity.SourceManual)
		tx.CreatedAt = created.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(ctx, tx))
	}

	result, err := repo.List(ctx, user.ID, adapter.TransactionFilter{}, adapter.TransactionPagination{Page: 1, Limit: 10})
	require.NoError(t, err)

	var got []string
	for _, tx := range result.Transactions {
		got = append(got, tx.Description)
	}
	assert.Equal(t, []string{"Jantar", "Almoço", "Café"}, got)
}
