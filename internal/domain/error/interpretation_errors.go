package error

import "errors"

// Interpretation domain errors.
var (
	// ErrEmptyInput is returned when neither text nor audio was provided.
	ErrEmptyInput = errors.New("input is empty")

	// ErrAudioTooLarge is returned when a voice note exceeds the size limit.
	ErrAudioTooLarge = errors.New("audio exceeds the maximum size")

	// ErrNoAmount is returned when no positive amount could be read.
	ErrNoAmount = errors.New("no amount found in input")

	// ErrInterpretationUnavailable is returned when the remote model failed
	// and the input cannot be read locally.
	ErrInterpretationUnavailable = errors.New("interpretation service unavailable")

	// ErrLLMUnavailable is returned by model adapters that are not configured.
	ErrLLMUnavailable = errors.New("language model not configured")

	// ErrMalformedLLMResponse is returned when the model answer is not the expected JSON.
	ErrMalformedLLMResponse = errors.New("malformed model response")
)

// InterpretationErrorCode defines error codes for interpretation errors.
type InterpretationErrorCode string

const (
	// Input errors (01XXXX)
	ErrCodeEmptyInput    InterpretationErrorCode = "NLP-010001"
	ErrCodeAudioTooLarge InterpretationErrorCode = "NLP-010002"
	ErrCodeNoAmount      InterpretationErrorCode = "NLP-010003"

	// Model errors (02XXXX)
	ErrCodeInterpretationUnavailable InterpretationErrorCode = "NLP-020001"
)

// InterpretationError represents an interpretation error with code and message.
type InterpretationError struct {
	Code    InterpretationErrorCode
	Message string
	Err     error
}

func (e *InterpretationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *InterpretationError) Unwrap() error {
	return e.Err
}

// NewInterpretationError creates a new InterpretationError.
func NewInterpretationError(code InterpretationErrorCode, message string, err error) *InterpretationError {
	return &InterpretationError{Code: code, Message: message, Err: err}
}
