package toolchat

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoMessages is returned when a chat request carries no messages.
var ErrNoMessages = errors.New("no messages")

// ErrorCategory classifies errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorTransient indicates the error is temporary and the operation can be retried.
	// Examples: rate limits, temporary network issues, server overload.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates the error is not recoverable through retry.
	// Examples: invalid API key, insufficient permissions.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput indicates the request was rejected and must be corrected.
	// Examples: malformed request, unknown model, content policy violation.
	ErrorUserInput ErrorCategory = "user_input"
)

// CategorizedError is an error that provides information about how it should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	StatusCode() int
	RetryAfter() time.Duration
}

// Error is a categorized error returned by provider adapters.
type Error struct {
	Msg        string
	Cat        ErrorCategory
	Code       int           // HTTP status code, 0 if not applicable
	RetryDelay time.Duration // from Retry-After header, 0 if not available
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Category returns the error category.
func (e *Error) Category() ErrorCategory { return e.Cat }

// Retryable reports whether the error is transient.
func (e *Error) Retryable() bool { return e.Cat == ErrorTransient }

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int { return e.Code }

// RetryAfter returns the server-suggested retry delay, or 0.
func (e *Error) RetryAfter() time.Duration { return e.RetryDelay }

func newError(cat ErrorCategory, msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: cat, Code: statusCode, Cause: cause}
}

// NewTransientError creates a transient error that can be retried.
func NewTransientError(msg string, statusCode int, cause error) *Error {
	return newError(ErrorTransient, msg, statusCode, cause)
}

// NewTransientErrorWithRetry creates a transient error with a suggested retry delay.
func NewTransientErrorWithRetry(msg string, statusCode int, retryAfter time.Duration, cause error) *Error {
	e := newError(ErrorTransient, msg, statusCode, cause)
	e.RetryDelay = retryAfter
	return e
}

// NewPermanentError creates a permanent error that should not be retried.
func NewPermanentError(msg string, statusCode int, cause error) *Error {
	return newError(ErrorPermanent, msg, statusCode, cause)
}

// NewUserInputError creates an error indicating a rejected request.
func NewUserInputError(msg string, statusCode int, cause error) *Error {
	return newError(ErrorUserInput, msg, statusCode, cause)
}

// CategoryOf returns the category of the first CategorizedError in err's chain.
// The second return value is false when err is not categorized.
func CategoryOf(err error) (ErrorCategory, bool) {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category(), true
	}
	return "", false
}

// IsTransient reports whether err is categorized as transient.
func IsTransient(err error) bool {
	cat, ok := CategoryOf(err)
	return ok && cat == ErrorTransient
}

// IsPermanent reports whether err is categorized as permanent.
func IsPermanent(err error) bool {
	cat, ok := CategoryOf(err)
	return ok && cat == ErrorPermanent
}

// IsUserInput reports whether err is categorized as a user input error.
func IsUserInput(err error) bool {
	cat, ok := CategoryOf(err)
	return ok && cat == ErrorUserInput
}

// StatusCodeOf returns the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}

// RetryAfterOf returns the retry delay from a categorized error, or 0.
func RetryAfterOf(err error) time.Duration {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.RetryAfter()
	}
	return 0
}
