package retry

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"

	ai "github.com/spetersoncode/toolchat"
)

// statusCoder is implemented by the Anthropic and OpenAI SDK errors.
type statusCoder interface {
	StatusCode() int
}

var transientPatterns = []string{
	"connection reset",
	"connection refused",
	"timeout",
	"temporary failure",
	"service unavailable",
	"too many requests",
	"rate limit",
	"overloaded",
	"bad gateway",
	"gateway timeout",
}

// IsTransient reports whether err should be retried.
//
// Errors categorized by a provider adapter are trusted as-is. Anything else is
// classified heuristically: HTTP 429 and 5xx, network timeouts, connection
// resets and well-known transient messages.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if cat, ok := ai.CategoryOf(err); ok {
		return cat == ai.ErrorTransient
	}

	var sc statusCoder
	if errors.As(err, &sc) && IsTransientStatus(sc.StatusCode()) {
		return true
	}

	return isTransientNetworkError(err)
}

// IsTransientStatus reports whether an HTTP status code is worth retrying.
func IsTransientStatus(code int) bool {
	return code == 429 || (code >= 500 && code < 600)
}

func isTransientNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsTemporary {
		return true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.ETIMEDOUT:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
