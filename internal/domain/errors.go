package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTimeout is returned by the AI client when a request exceeds its
// deadline on every attempt.
var ErrTimeout = errors.New("request timed out")

// ErrRateLimited is returned by the AI client when retries against a 429
// response are exhausted.
var ErrRateLimited = errors.New("rate limit exceeded")

// ConfigError reports the complete set of missing required AI settings.
// It is fatal and raised before any network call is made.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required Azure AI configuration: %s", strings.Join(e.Missing, ", "))
}

// TransportError wraps a network-level failure talking to the AI capability.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports an AI response that could not be parsed as JSON.
// It is never retried; callers fall back immediately.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse JSON from response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports an AI JSON response missing required schema keys.
// Like ParseError it triggers the fallback path immediately.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("AI response missing required keys: %s", strings.Join(e.Missing, ", "))
}
