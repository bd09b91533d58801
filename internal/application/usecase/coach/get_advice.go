// Package coach contains the financial coach use case.
package coach

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
	"github.com/smartwallet/backend/internal/domain/valueobject"
)

const (
	// ContextSize is the number of recent transactions handed to the model.
	ContextSize = 40

	// NoDataMessage is returned when the user has no transactions yet.
	NoDataMessage = "Sem dados suficientes para análise."

	offlinePrefix = "Coach offline. Erro: "
)

// GetAdviceInput represents the input for the coach.
type GetAdviceInput struct {
	UserID uuid.UUID
}

// GetAdviceOutput represents the advice returned by the coach.
type GetAdviceOutput struct {
	Advice       string // Markdown
	Offline      bool
	Transactions int
}

// GetAdviceUseCase asks the language model for advice grounded on the user's
// recent transactions and the month's income.
type GetAdviceUseCase struct {
	userRepo        adapter.UserRepository
	transactionRepo adapter.TransactionRepository
	llm             adapter.LLMService
	loc             *time.Location
	now             func() time.Time
}

// NewGetAdviceUseCase creates a new GetAdviceUseCase instance.
func NewGetAdviceUseCase(
	userRepo adapter.UserRepository,
	transactionRepo adapter.TransactionRepository,
	llm adapter.LLMService,
	loc *time.Location,
) *GetAdviceUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &GetAdviceUseCase{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		llm:             llm,
		loc:             loc,
		now:             time.Now,
	}
}

// Execute returns the advice. A model failure is reported in the output,
// not as an error.
func (uc *GetAdviceUseCase) Execute(ctx context.Context, input GetAdviceInput) (*GetAdviceOutput, error) {
	now := uc.now().In(uc.loc)
	month := valueobject.MonthOf(now)

	var (
		user   *entity.User
		recent []*entity.Transaction
		totals *entity.TransactionTotals
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if user, err = uc.userRepo.FindByID(gctx, input.UserID); err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if recent, err = uc.transactionRepo.Recent(gctx, input.UserID, ContextSize); err != nil {
			return fmt.Errorf("failed to load recent transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if totals, err = uc.transactionRepo.GetTotals(gctx, input.UserID, month.Start(), month.End()); err != nil {
			return fmt.Errorf("failed to compute totals: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(recent) == 0 {
		return &GetAdviceOutput{Advice: NoDataMessage}, nil
	}

	if uc.llm == nil || !uc.llm.IsAvailable() {
		return &GetAdviceOutput{Advice: offlinePrefix + "IA indisponível", Offline: true, Transactions: len(recent)}, nil
	}

	advice, err := uc.llm.Advise(ctx, adapter.AdviceRequest{
		UserName:     user.Name,
		Income:       totals.IncomeTotal,
		Expense:      totals.ExpenseTotal,
		Transactions: recent,
		Now:          now,
	})
	if err != nil {
		slog.Warn("Coach request failed", "error", err, "userID", input.UserID)
		return &GetAdviceOutput{Advice: offlinePrefix + err.Error(), Offline: true, Transactions: len(recent)}, nil
	}

	return &GetAdviceOutput{Advice: advice, Transactions: len(recent)}, nil
}
