package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
	"github.com/smartwallet/backend/internal/integration/persistence/model"
)

// ErrDuplicateExternalID is returned when an imported line was already stored.
var ErrDuplicateExternalID = errors.New("transaction with this external id already exists")

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction in the database.
func (r *transactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	return createTransaction(r.db.WithContext(ctx), tx)
}

func createTransaction(db *gorm.DB, tx *entity.Transaction) error {
	m := model.TransactionFromEntity(tx)
	m.Date = m.Date.UTC()
	if err := db.Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateExternalID, tx.ExternalID)
		}
		return err
	}
	return nil
}

// FindByID retrieves a transaction of the user by its ID.
func (r *transactionRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.Transaction, error) {
	var m model.TransactionModel
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return m.ToEntity(), nil
}

// List retrieves transactions based on filter criteria with pagination.
func (r *transactionRepository) List(ctx context.Context, userID uuid.UUID, filter adapter.TransactionFilter, pagination adapter.TransactionPagination) (*entity.TransactionListResult, error) {
	query := r.db.WithContext(ctx).Model(&model.TransactionModel{}).Where("user_id = ?", userID)

	if filter.StartDate != nil {
		query = query.Where("date >= ?", filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		query = query.Where("date < ?", filter.EndDate.UTC())
	}
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(description) LIKE ? OR LOWER(merchant) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (pagination.Page - 1) * pagination.Limit
	totalPages := int((total + int64(pagination.Limit) - 1) / int64(pagination.Limit))
	if totalPages == 0 {
		totalPages = 1
	}

	var models []model.TransactionModel
	result := query.
		Order("date DESC, created_at DESC").
		Offset(offset).
		Limit(pagination.Limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	return &entity.TransactionListResult{
		Transactions: toTransactions(models),
		Total:        total,
		Page:         pagination.Page,
		Limit:        pagination.Limit,
		TotalPages:   totalPages,
	}, nil
}

// Recent returns the latest transactions of the user, newest first.
func (r *transactionRepository) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Transaction, error) {
	var models []model.TransactionModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toTransactions(models), nil
}

// Delete removes a transaction of the user.
func (r *transactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.TransactionModel{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

// DeleteAllByUser removes every transaction of the user.
func (r *transactionRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.TransactionModel{}, "user_id = ?", userID)
	return result.RowsAffected, result.Error
}

// GetTotals calculates income and expense totals in [start, end).
func (r *transactionRepository) GetTotals(ctx context.Context, userID uuid.UUID, start, end time.Time) (*entity.TransactionTotals, error) {
	var row struct {
		IncomeTotal  decimal.Decimal
		ExpenseTotal decimal.Decimal
	}
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Select(
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS income_total, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS expense_total",
			string(entity.TransactionTypeIncome), string(entity.TransactionTypeExpense),
		).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start.UTC(), end.UTC()).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}

	income := row.IncomeTotal.Round(2)
	expense := row.ExpenseTotal.Round(2)
	return &entity.TransactionTotals{
		IncomeTotal:  income,
		ExpenseTotal: expense,
		Balance:      income.Sub(expense),
	}, nil
}

// GetCategoryTotals returns expense totals per category in [start, end),
// largest first.
func (r *transactionRepository) GetCategoryTotals(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]entity.CategoryTotal, error) {
	var rows []struct {
		Category string
		Total    decimal.Decimal
		Count    int64
	}
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Select("category, SUM(amount) AS total, COUNT(*) AS count").
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?", userID, string(entity.TransactionTypeExpense), start.UTC(), end.UTC()).
		Group("category").
		Order("total DESC").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	totals := make([]entity.CategoryTotal, len(rows))
	for i, row := range rows {
		totals[i] = entity.CategoryTotal{Category: row.Category, Total: row.Total.Round(2), Count: row.Count}
	}
	return totals, nil
}

// SumExpensesByCategory returns the expenses of one category in [start, end).
func (r *transactionRepository) SumExpensesByCategory(ctx context.Context, userID uuid.UUID, category string, start, end time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND type = ? AND category = ?", userID, string(entity.TransactionTypeExpense), category).
		Where("date >= ? AND date < ?", start.UTC(), end.UTC()).
		Scan(&row)
	if result.Error != nil {
		return decimal.Zero, result.Error
	}
	return row.Total.Round(2), nil
}

// SumByCategoryContaining totals every transaction whose category contains
// fragment and returns them newest first.
func (r *transactionRepository) SumByCategoryContaining(ctx context.Context, userID uuid.UUID, fragment string) (decimal.Decimal, []*entity.Transaction, error) {
	var models []model.TransactionModel
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(category) LIKE ?", userID, "%"+strings.ToLower(fragment)+"%").
		Order("date DESC").
		Find(&models)
	if result.Error != nil {
		return decimal.Zero, nil, result.Error
	}

	total := decimal.Zero
	for _, m := range models {
		total = total.Add(m.Amount)
	}
	return total, toTransactions(models), nil
}

// ExternalIDsExist reports which of ids are already stored for the user.
func (r *transactionRepository) ExternalIDsExist(ctx context.Context, userID uuid.UUID, ids []string) (map[string]bool, error) {
	found := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var existing []string
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("user_id = ? AND external_id IN ?", userID, ids).
		Pluck("external_id", &existing)
	if result.Error != nil {
		return nil, result.Error
	}
	for _, id := range existing {
		found[id] = true
	}
	return found, nil
}

func toTransactions(models []model.TransactionModel) []*entity.Transaction {
	txs := make([]*entity.Transaction, len(models))
	for i := range models {
		txs[i] = models[i].ToEntity()
	}
	return txs
}
