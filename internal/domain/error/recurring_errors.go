package error

import "errors"

// Recurring item domain errors.
var (
	// ErrRecurringNotFound is returned when a recurring item does not exist or
	// belongs to another user.
	ErrRecurringNotFound = errors.New("recurring item not found")

	// ErrInvalidDayOfMonth is returned when the day is outside 1..31.
	ErrInvalidDayOfMonth = errors.New("day of month must be between 1 and 31")

	// ErrPeriodAlreadyClaimed is returned when another run already generated
	// the transaction of the current month.
	ErrPeriodAlreadyClaimed = errors.New("recurring period already processed")
)

// RecurringErrorCode defines error codes for recurring item errors.
type RecurringErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidDayOfMonth        RecurringErrorCode = "REC-010001"
	ErrCodeInvalidRecurringAmount   RecurringErrorCode = "REC-010002"
	ErrCodeInvalidRecurringDesc     RecurringErrorCode = "REC-010003"
	ErrCodeInvalidRecurringType     RecurringErrorCode = "REC-010004"
	ErrCodeRecurringUnknownCategory RecurringErrorCode = "REC-010005"

	// Lookup errors (02XXXX)
	ErrCodeRecurringNotFound RecurringErrorCode = "REC-020001"
)

// RecurringError represents a recurring item error with code and message.
type RecurringError struct {
	Code    RecurringErrorCode
	Message string
	Err     error
}

func (e *RecurringError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *RecurringError) Unwrap() error {
	return e.Err
}

// NewRecurringError creates a new RecurringError.
func NewRecurringError(code RecurringErrorCode, message string, err error) *RecurringError {
	return &RecurringError{Code: code, Message: message, Err: err}
}
