package interpret

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
)

// BudgetAlerter is notified after an expense is stored.
type BudgetAlerter interface {
	CheckExpense(ctx context.Context, tx *entity.Transaction) error
}

// RecordTransactionInput represents a command to interpret and store.
type RecordTransactionInput struct {
	UserID   uuid.UUID
	Text     string
	Audio    []byte
	MIMEType string
}

// RecordTransactionOutput represents the stored transaction.
type RecordTransactionOutput struct {
	Transaction    *entity.Transaction
	Interpretation *entity.Interpretation
}

// RecordTransactionUseCase interprets a command and persists the result.
type RecordTransactionUseCase struct {
	interpret       *InterpretUseCase
	userRepo        adapter.UserRepository
	transactionRepo adapter.TransactionRepository
	alerter         BudgetAlerter
}

// NewRecordTransactionUseCase creates a new RecordTransactionUseCase instance.
// alerter may be nil.
func NewRecordTransactionUseCase(
	interpret *InterpretUseCase,
	userRepo adapter.UserRepository,
	transactionRepo adapter.TransactionRepository,
	alerter BudgetAlerter,
) *RecordTransactionUseCase {
	return &RecordTransactionUseCase{
		interpret:       interpret,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		alerter:         alerter,
	}
}

// Execute interprets and stores the command.
func (uc *RecordTransactionUseCase) Execute(ctx context.Context, input RecordTransactionInput) (*RecordTransactionOutput, error) {
	user, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	result, err := uc.interpret.Execute(ctx, InterpretInput{
		UserID:   input.UserID,
		Text:     input.Text,
		Audio:    input.Audio,
		MIMEType: input.MIMEType,
	})
	if err != nil {
		return nil, err
	}

	tx := result.Interpretation.ToTransaction(user)
	if err := uc.transactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	slog.Info("Transaction recorded",
		"userID", user.ID,
		"transactionID", tx.ID,
		"source", tx.Source,
		"currency", tx.OriginalCurrency,
	)

	if uc.alerter != nil && tx.Type == entity.TransactionTypeExpense {
		if err := uc.alerter.CheckExpense(ctx, tx); err != nil {
			slog.Error("Failed to check budget alert", "error", err, "transactionID", tx.ID)
		}
	}

	return &RecordTransactionOutput{
		Transaction:    tx,
		Interpretation: result.Interpretation,
	}, nil
}
