package error

import "errors"

// Budget domain errors.
var (
	ErrBudgetNotFound        = errors.New("budget not found")
	ErrInvalidBudgetLimit    = errors.New("limit amount must be greater than zero")
	ErrBudgetUnknownCategory = errors.New("budget category is not available for this user")
)

// BudgetErrorCode defines error codes for budget errors.
type BudgetErrorCode string

const (
	ErrCodeInvalidBudgetLimit    BudgetErrorCode = "BUD-010001"
	ErrCodeBudgetUnknownCategory BudgetErrorCode = "BUD-010002"
	ErrCodeInvalidBudgetMonth    BudgetErrorCode = "BUD-010003"
	ErrCodeBudgetNotFound        BudgetErrorCode = "BUD-020001"
)

// BudgetError represents a budget error with code and message.
type BudgetError struct {
	Code    BudgetErrorCode
	Message string
	Err     error
}

func (e *BudgetError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *BudgetError) Unwrap() error {
	return e.Err
}

// NewBudgetError creates a new BudgetError.
func NewBudgetError(code BudgetErrorCode, message string, err error) *BudgetError {
	return &BudgetError{Code: code, Message: message, Err: err}
}
