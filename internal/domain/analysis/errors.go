package analysis

import "errors"

var (
	// ErrMalformedInput indicates the document text is out of bounds.
	ErrMalformedInput = errors.New("malformed input")

	// ErrProviderTimeout indicates the chat call exceeded its hard timeout.
	ErrProviderTimeout = errors.New("provider timeout")

	// ErrProvider covers non-timeout provider failures (HTTP errors and the like).
	ErrProvider = errors.New("provider error")

	// ErrMalformedResponse indicates the provider output could not be parsed
	// into the declared shape.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrCircuitOpen indicates the breaker is shedding load; retryable later.
	ErrCircuitOpen = errors.New("circuit breaker is open - service temporarily unavailable")
)
