package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error kinds. Match with errors.Is.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidation covers bad type, size or count on user input. Auto-dismissed.
	ErrValidation = errors.New("validation failed")
	// ErrParse is an unparseable analysis response. Terminal for the submission.
	ErrParse = errors.New("parse failed")
	// ErrScoring is a per-image scoring failure. Never blocks the other images.
	ErrScoring = errors.New("scoring failed")
	// ErrPersistence is a corrupt or unavailable local store. Logged, state continues in memory.
	ErrPersistence = errors.New("persistence failed")
	// ErrNetwork is an unreachable collaborator. Surfaced generically, never retried.
	ErrNetwork = errors.New("network error")
)

const (
	CodeConfig      = "CONFIG_ERROR"
	CodeValidation  = "VALIDATION_ERROR"
	CodeParse       = "PARSE_ERROR"
	CodeScoring     = "SCORING_ERROR"
	CodePersistence = "PERSISTENCE_ERROR"
	CodeNetwork     = "NETWORK_ERROR"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewValidationError(message string) *AppError {
	return NewAppError(CodeValidation, message, ErrValidation)
}

func NewParseError(message string, cause error) *AppError {
	return NewAppError(CodeParse, message, joinCause(ErrParse, cause))
}

func NewScoringError(message string, cause error) *AppError {
	return NewAppError(CodeScoring, message, joinCause(ErrScoring, cause))
}

func NewPersistenceError(message string, cause error) *AppError {
	return NewAppError(CodePersistence, message, joinCause(ErrPersistence, cause))
}

func NewNetworkError(message string, cause error) *AppError {
	return NewAppError(CodeNetwork, message, joinCause(ErrNetwork, cause))
}

func joinCause(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return errors.Join(kind, cause)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// UserMessage returns the message of the outermost AppError, or err's text.
func UserMessage(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
