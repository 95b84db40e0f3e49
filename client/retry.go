package client

import (
	"errors"

	"github.com/spetersoncode/toolchat/internal/retry"
)

// ErrIncompleteStream indicates a provider stream closed without a final response.
var ErrIncompleteStream = errors.New("client: stream closed without a final response")

// RetryConfig holds retry configuration parameters.
type RetryConfig = retry.Config

// RetryEvent represents an observable occurrence during retry execution.
type RetryEvent = retry.Event

// RetryEventType identifies the kind of event occurring during retry execution.
type RetryEventType = retry.EventType

// Retry event type constants.
const (
	RetryEventAttemptStart  = retry.EventAttemptStart
	RetryEventAttemptFailed = retry.EventAttemptFailed
	RetryEventRetrying      = retry.EventRetrying
	RetryEventSuccess       = retry.EventSuccess
	RetryEventExhausted     = retry.EventExhausted
)

// DefaultRetryConfig returns the default retry configuration:
// 10 attempts, 1s initial delay, 60s max delay, 2x multiplier and 10% jitter.
func DefaultRetryConfig() RetryConfig {
	return retry.DefaultConfig()
}

// DisabledRetryConfig returns a configuration that makes a single attempt.
func DisabledRetryConfig() RetryConfig {
	return retry.Disabled()
}

// IsTransientError reports whether err is worth retrying.
func IsTransientError(err error) bool {
	return retry.IsTransient(err)
}
