package retry

import (
	"context"
	"time"

	ai "github.com/spetersoncode/toolchat"
)

// effectiveDelay returns the configured delay, or the server's Retry-After if larger.
func effectiveDelay(configured time.Duration, err error) time.Duration {
	if server := ai.RetryAfterOf(err); server > configured {
		return server
	}
	return configured
}

// Do executes fn with retry logic.
// Only transient errors are retried; the last error is returned when attempts run out.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	return DoWithEvents(ctx, cfg, nil, fn)
}

// DoStream is like Do for functions that open a stream.
// It retries establishing the stream, not individual chunks.
func DoStream[T any](ctx context.Context, cfg Config, fn func() (<-chan T, error)) (<-chan T, error) {
	return DoWithEvents(ctx, cfg, nil, fn)
}

// DoWithEvents is like Do but reports progress on events.
// Events are sent without blocking and a nil channel disables them.
func DoWithEvents[T any](ctx context.Context, cfg Config, events chan<- Event, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	max := cfg.attempts()

	for attempt := 1; attempt <= max; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		emit(events, Event{Type: EventAttemptStart, Attempt: attempt, MaxAttempts: max})

		result, err := fn()
		if err == nil {
			emit(events, Event{Type: EventSuccess, Attempt: attempt, MaxAttempts: max})
			return result, nil
		}

		lastErr = err
		retryable := IsTransient(err)
		emit(events, Event{
			Type:        EventAttemptFailed,
			Attempt:     attempt,
			MaxAttempts: max,
			Error:       err,
			Retryable:   retryable,
		})
		if !retryable {
			return zero, err
		}
		if attempt == max {
			break
		}

		delay := effectiveDelay(cfg.Delay(attempt-1), err)
		emit(events, Event{Type: EventRetrying, Attempt: attempt, MaxAttempts: max, Delay: delay})

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	emit(events, Event{Type: EventExhausted, Attempt: max, MaxAttempts: max, Error: lastErr})
	return zero, lastErr
}
