// Package importer contains the bank statement import use case.
package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	domainerror "github.com/smartwallet/backend/internal/domain/error"
)

// MaxStatementBytes is the largest statement file accepted.
const MaxStatementBytes = 5 << 20

// Categorizer suggests a category from a statement memo.
type Categorizer interface {
	Category(text string) (string, bool)
}

// ImportStatementInput represents a statement upload.
type ImportStatementInput struct {
	UserID uuid.UUID
	File   io.Reader
}

// ImportStatementOutput reports the import result.
type ImportStatementOutput struct {
	Imported     int
	Skipped      int
	Currency     string
	Transactions []*entity.Transaction
}

// ImportStatementUseCase stores the lines of a statement that were not
// imported before.
type ImportStatementUseCase struct {
	parser          adapter.StatementParser
	transactionRepo adapter.TransactionRepository
	categorizer     Categorizer
	marketData      adapter.MarketData
}

// NewImportStatementUseCase creates a new ImportStatementUseCase instance.
func NewImportStatementUseCase(
	parser adapter.StatementParser,
	transactionRepo adapter.TransactionRepository,
	categorizer Categorizer,
	marketData adapter.MarketData,
) *ImportStatementUseCase {
	return &ImportStatementUseCase{
		parser:          parser,
		transactionRepo: transactionRepo,
		categorizer:     categorizer,
		marketData:      marketData,
	}
}

// Execute imports the statement.
func (uc *ImportStatementUseCase) Execute(ctx context.Context, input ImportStatementInput) (*ImportStatementOutput, error) {
	data, err := io.ReadAll(io.LimitReader(input.File, MaxStatementBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read statement: %w", err)
	}
	if len(data) > MaxStatementBytes {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeStatementTooLarge,
			fmt.Sprintf("statement must not exceed %d bytes", MaxStatementBytes),
			domainerror.ErrStatementTooLarge,
		)
	}

	statement, err := uc.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeInvalidStatement,
			"could not read the statement file",
			fmt.Errorf("%w: %w", domainerror.ErrInvalidStatement, err),
		)
	}
	if len(statement.Lines) == 0 {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeEmptyStatement,
			"statement has no transactions",
			domainerror.ErrEmptyStatement,
		)
	}

	ids := make([]string, 0, len(statement.Lines))
	for _, line := range statement.Lines {
		if line.ExternalID != "" {
			ids = append(ids, line.ExternalID)
		}
	}
	existing, err := uc.transactionRepo.ExternalIDsExist(ctx, input.UserID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check imported lines: %w", err)
	}
	if existing == nil {
		existing = make(map[string]bool)
	}

	rates := uc.marketData.CurrentRates(ctx)
	out := &ImportStatementOutput{Currency: statement.Currency.String()}

	for _, line := range statement.Lines {
		if line.ExternalID != "" && existing[line.ExternalID] {
			out.Skipped++
			continue
		}
		if line.Amount.IsZero() {
			out.Skipped++
			continue
		}

		txType := entity.TransactionTypeIncome
		if line.Amount.IsNegative() {
			txType = entity.TransactionTypeExpense
		}
		original := line.Amount.Abs()

		amount, rate, ok := rates.ToBase(original, statement.Currency)
		if !ok {
			return nil, domainerror.NewRatesError(
				domainerror.ErrCodeUnsupportedCurrency,
				"statement currency "+statement.Currency.String()+" is not supported",
				domainerror.ErrUnsupportedCurrency,
			)
		}
		if !amount.IsPositive() {
			out.Skipped++
			continue
		}

		memo := strings.TrimSpace(line.Memo)
		if memo == "" {
			memo = "Importado"
		}
		category, ok := uc.categorizer.Category(memo)
		if !ok {
			category = entity.DefaultCategory
		}

		tx := entity.NewTransaction(input.UserID, line.Date, entity.TruncateRunes(memo, entity.MaxDescriptionLength), category, amount, txType, entity.SourceOFX)
		if !statement.Currency.IsBase() {
			tx.WithConversion(original, statement.Currency, rate)
		}
		tx.ExternalID = line.ExternalID

		if err := uc.transactionRepo.Create(ctx, tx); err != nil {
			return nil, fmt.Errorf("failed to store line %s: %w", line.ExternalID, err)
		}
		if line.ExternalID != "" {
			existing[line.ExternalID] = true
		}
		out.Imported++
		out.Transactions = append(out.Transactions, tx)
	}

	slog.Info("Statement imported",
		"userID", input.UserID,
		"account", statement.Account,
		"imported", out.Imported,
		"skipped", out.Skipped,
	)
	return out, nil
}
