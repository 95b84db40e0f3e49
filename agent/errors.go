package agent

import "errors"

// ErrNoResponse indicates a chat stream closed without a final response.
var ErrNoResponse = errors.New("agent: stream ended without a response")
