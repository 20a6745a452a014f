package llm

import (
	"context"
	"errors"
)

var (
	// ErrOverloaded indicates the provider reported it is over capacity
	// (HTTP 503) on every attempt.
	ErrOverloaded = errors.New("model overloaded")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrMalformedResponse indicates the provider answered without any
	// generated text on every attempt.
	ErrMalformedResponse = errors.New("malformed llm response")

	// ErrProviderRejected indicates a non-retryable HTTP error from the provider.
	ErrProviderRejected = errors.New("llm provider rejected request")

	// ErrProviderUnavailable indicates the provider could not be reached.
	ErrProviderUnavailable = errors.New("llm provider unavailable")

	// ErrNotConfigured indicates the client lacks an API key or model.
	ErrNotConfigured = errors.New("llm provider not configured")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")
)

// ErrorKind is the machine readable error category reported to clients.
type ErrorKind string

const (
	KindValidation    ErrorKind = "VALIDATION_ERROR"
	KindOverloaded    ErrorKind = "MODEL_OVERLOADED"
	KindTimeout       ErrorKind = "REQUEST_TIMEOUT"
	KindMalformed     ErrorKind = "MALFORMED_RESPONSE"
	KindProvider      ErrorKind = "PROVIDER_ERROR"
	KindConfiguration ErrorKind = "CONFIGURATION_ERROR"
	KindInternal      ErrorKind = "INTERNAL_SERVER_ERROR"
)

// Kinder is implemented by errors outside this package that carry their
// own kind, such as request validation errors.
type Kinder interface {
	ErrorKind() ErrorKind
}

// Kind classifies err. It returns "" for a nil error.
func Kind(err error) ErrorKind {
	var k Kinder
	switch {
	case err == nil:
		return ""
	case errors.As(err, &k):
		return k.ErrorKind()
	case errors.Is(err, ErrOverloaded):
		return KindOverloaded
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrMalformedResponse), errors.Is(err, ErrInvalidOutput):
		return KindMalformed
	case errors.Is(err, ErrProviderRejected), errors.Is(err, ErrProviderUnavailable):
		return KindProvider
	case errors.Is(err, ErrNotConfigured):
		return KindConfiguration
	default:
		return KindInternal
	}
}
