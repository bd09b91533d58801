package error

import "errors"

// Market data errors.
var (
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrRatesUnavailable    = errors.New("exchange rates unavailable")
	ErrProviderDisabled    = errors.New("rate provider disabled")
)

// RatesErrorCode defines error codes for market data errors.
type RatesErrorCode string

const (
	ErrCodeUnsupportedCurrency RatesErrorCode = "FX-010001"
	ErrCodeRatesUnavailable    RatesErrorCode = "FX-020001"
)

// RatesError represents a market data error with code and message.
type RatesError struct {
	Code    RatesErrorCode
	Message string
	Err     error
}

func (e *RatesError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *RatesError) Unwrap() error {
	return e.Err
}

// NewRatesError creates a new RatesError.
func NewRatesError(code RatesErrorCode, message string, err error) *RatesError {
	return &RatesError{Code: code, Message: message, Err: err}
}
