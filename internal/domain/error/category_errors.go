package error

import "errors"

// Category domain errors.
var (
	// ErrCategoryNotFound is returned when a custom category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryNameExists is returned when the name is a base category or an
	// existing custom category.
	ErrCategoryNameExists = errors.New("category already exists")

	// ErrInvalidCategoryName is returned for empty or overlong names.
	ErrInvalidCategoryName = errors.New("category name must have between 1 and 50 characters")

	// ErrBaseCategoryImmutable is returned when deleting a base category.
	ErrBaseCategoryImmutable = errors.New("base categories cannot be removed")
)

// CategoryErrorCode defines error codes for category errors.
// Format: CAT-XXYYYY where XX is category and YYYY is specific error.
type CategoryErrorCode string

const (
	ErrCodeInvalidCategoryName   CategoryErrorCode = "CAT-010001"
	ErrCodeCategoryNameExists    CategoryErrorCode = "CAT-010002"
	ErrCodeBaseCategoryImmutable CategoryErrorCode = "CAT-010003"
	ErrCodeCategoryNotFound      CategoryErrorCode = "CAT-020001"
)

// CategoryError represents a category error with code and message.
type CategoryError struct {
	Code    CategoryErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CategoryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CategoryError) Unwrap() error {
	return e.Err
}

// NewCategoryError creates a new CategoryError with the given code and message.
func NewCategoryError(code CategoryErrorCode, message string, err error) *CategoryError {
	return &CategoryError{Code: code, Message: message, Err: err}
}
