package error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodedErrors_WrapSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{
			name:     "auth",
			err:      NewAuthError(ErrCodeEmailExists, "email already exists", ErrEmailAlreadyExists),
			sentinel: ErrEmailAlreadyExists,
			message:  "email already exists: email already exists",
		},
		{
			name:     "recurring",
			err:      NewRecurringError(ErrCodeInvalidDayOfMonth, "invalid day", ErrInvalidDayOfMonth),
			sentinel: ErrInvalidDayOfMonth,
			message:  "invalid day: day of month must be between 1 and 31",
		},
		{
			name:     "interpretation",
			err:      NewInterpretationError(ErrCodeInterpretationUnavailable, "IA indisponível", ErrInterpretationUnavailable),
			sentinel: ErrInterpretationUnavailable,
			message:  "IA indisponível: interpretation service unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("use case: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestCodedErrors_As(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewBudgetError(ErrCodeInvalidBudgetLimit, "invalid limit", nil))

	var budgetErr *BudgetError
	if assert.True(t, errors.As(err, &budgetErr)) {
		assert.Equal(t, ErrCodeInvalidBudgetLimit, budgetErr.Code)
		assert.Equal(t, "invalid limit", budgetErr.Error())
	}
}
