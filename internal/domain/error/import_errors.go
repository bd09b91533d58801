package error

import "errors"

// Statement import errors.
var (
	ErrInvalidStatement  = errors.New("invalid statement file")
	ErrEmptyStatement    = errors.New("statement has no transactions")
	ErrStatementTooLarge = errors.New("statement file too large")
)

// ImportErrorCode defines error codes for statement import errors.
type ImportErrorCode string

const (
	ErrCodeInvalidStatement  ImportErrorCode = "IMP-010001"
	ErrCodeEmptyStatement    ImportErrorCode = "IMP-010002"
	ErrCodeStatementTooLarge ImportErrorCode = "IMP-010003"
)

// ImportError represents a statement import error with code and message.
type ImportError struct {
	Code    ImportErrorCode
	Message string
	Err     error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// NewImportError creates a new ImportError.
func NewImportError(code ImportErrorCode, message string, err error) *ImportError {
	return &ImportError{Code: code, Message: message, Err: err}
}
