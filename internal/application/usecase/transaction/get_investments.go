package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
)

// InvestmentCategoryFragment selects the categories counted as investments.
const InvestmentCategoryFragment = "Invest"

// GetInvestmentsInput represents the input for the investments total.
type GetInvestmentsInput struct {
	UserID uuid.UUID
}

// GetInvestmentsOutput represents the invested total and its transactions.
type GetInvestmentsOutput struct {
	Total        decimal.Decimal
	Transactions []*entity.Transaction
}

// GetInvestmentsUseCase sums every transaction of an investment category.
type GetInvestmentsUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewGetInvestmentsUseCase creates a new GetInvestmentsUseCase instance.
func NewGetInvestmentsUseCase(transactionRepo adapter.TransactionRepository) *GetInvestmentsUseCase {
	return &GetInvestmentsUseCase{transactionRepo: transactionRepo}
}

// Execute computes the investments total.
func (uc *GetInvestmentsUseCase) Execute(ctx context.Context, input GetInvestmentsInput) (*GetInvestmentsOutput, error) {
	total, txs, err := uc.transactionRepo.SumByCategoryContaining(ctx, input.UserID, InvestmentCategoryFragment)
	if err != nil {
		return nil, fmt.Errorf("failed to sum investments: %w", err)
	}
	return &GetInvestmentsOutput{Total: total, Transactions: txs}, nil
}
