package retry

import "time"

// EventType identifies the kind of event occurring during retry execution.
type EventType string

const (
	EventAttemptStart  EventType = "attempt_start"
	EventAttemptFailed EventType = "attempt_failed"
	// EventRetrying fires before sleeping between attempts.
	EventRetrying EventType = "retrying"
	EventSuccess  EventType = "success"
	// EventExhausted fires when every attempt failed with a transient error.
	EventExhausted EventType = "exhausted"
)

// Event represents an observable occurrence during retry execution.
type Event struct {
	Type EventType

	// Attempt is the current attempt number (1-indexed).
	Attempt     int
	MaxAttempts int

	// Error contains the error from a failed attempt.
	Error error

	// Delay is the wait before the next attempt (EventRetrying only).
	Delay time.Duration

	// Retryable indicates whether the error was classified as transient.
	Retryable bool

	Timestamp time.Time
}

func emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
	}
}
