// Package provider holds helpers shared by the provider adapters.
package provider

import (
	"net/http"
	"strconv"
	"time"

	ai "github.com/spetersoncode/toolchat"
)

// CategorizeStatus determines the error category from an HTTP status code.
func CategorizeStatus(code int) ai.ErrorCategory {
	switch {
	case code == 429:
		return ai.ErrorTransient // rate limited
	case code >= 500 && code < 600:
		return ai.ErrorTransient
	case code == 400 || code == 404 || code == 422:
		return ai.ErrorUserInput
	default:
		return ai.ErrorPermanent // 401, 403 and anything unexpected
	}
}

// WrapStatus returns err categorized by its HTTP status code.
// retryAfter is attached to transient errors when positive.
func WrapStatus(err error, code int, retryAfter time.Duration) error {
	msg := err.Error()
	switch CategorizeStatus(code) {
	case ai.ErrorTransient:
		if retryAfter > 0 {
			return ai.NewTransientErrorWithRetry(msg, code, retryAfter, err)
		}
		return ai.NewTransientError(msg, code, err)
	case ai.ErrorUserInput:
		return ai.NewUserInputError(msg, code, err)
	default:
		return ai.NewPermanentError(msg, code, err)
	}
}

// ParseRetryAfter extracts the Retry-After delay from an HTTP response.
// It returns 0 if the header is missing or cannot be parsed.
func ParseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	// HTTP-date form (RFC 7231)
	if t, err := http.ParseTime(header); err == nil {
		if delay := time.Until(t); delay > 0 {
			return delay
		}
	}
	return 0
}
