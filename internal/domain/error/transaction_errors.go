package error

import "errors"

// Transaction domain errors.
var (
	ErrTransactionNotFound      = errors.New("transaction not found")
	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidTransactionAmount = errors.New("amount must be greater than zero")
	ErrInvalidTransactionDate   = errors.New("invalid transaction date")
	ErrEmptyDescription         = errors.New("description is required")
	ErrDescriptionTooLong       = errors.New("description too long")
	ErrUnknownCategory          = errors.New("category is not available for this user")
	ErrInvalidDateRange         = errors.New("start date must not be after end date")
)

// TransactionErrorCode defines error codes for transaction errors.
type TransactionErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTransactionType   TransactionErrorCode = "TXN-010001"
	ErrCodeInvalidTransactionAmount TransactionErrorCode = "TXN-010002"
	ErrCodeInvalidDescription       TransactionErrorCode = "TXN-010003"
	ErrCodeUnknownCategory          TransactionErrorCode = "TXN-010004"
	ErrCodeInvalidTransactionDate   TransactionErrorCode = "TXN-010005"
	ErrCodeMissingTransactionFields TransactionErrorCode = "TXN-010006"
	ErrCodeInvalidDateRange         TransactionErrorCode = "TXN-010007"

	// Lookup errors (02XXXX)
	ErrCodeTransactionNotFound TransactionErrorCode = "TXN-020001"
)

// TransactionError represents a transaction error with code and message.
type TransactionError struct {
	Code    TransactionErrorCode
	Message string
	Err     error
}

func (e *TransactionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// NewTransactionError creates a new TransactionError.
func NewTransactionError(code TransactionErrorCode, message string, err error) *TransactionError {
	return &TransactionError{Code: code, Message: message, Err: err}
}
