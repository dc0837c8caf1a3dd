package llm

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMissingAPIKey is returned before any request is made when the
// provider has no credential configured.
var ErrMissingAPIKey = errors.New("API key not found. Set it in the config file or through the environment")

// ErrorKind classifies provider failures so callers can surface a
// distinct human-readable message for each.
type ErrorKind string

const (
	ErrorKindAuth       ErrorKind = "auth"
	ErrorKindRateLimit  ErrorKind = "rate-limit"
	ErrorKindBadRequest ErrorKind = "bad-request"
	ErrorKindUpstream   ErrorKind = "upstream"
)

// ProviderError wraps a failed completion request with its
// classification.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	switch e.Kind {
	case ErrorKindAuth:
		return fmt.Sprintf("%s: the API key is invalid, please check your credentials", e.Provider)
	case ErrorKindRateLimit:
		return fmt.Sprintf("%s: request limit exceeded, please wait a moment and try again", e.Provider)
	case ErrorKindBadRequest:
		return fmt.Sprintf("%s: invalid request, please check your message", e.Provider)
	default:
		return fmt.Sprintf("%s: upstream error: %v", e.Provider, e.Err)
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status code from a provider API to an
// error kind.
func classifyStatus(status int) ErrorKind {
	switch status {
	case 401, 403:
		return ErrorKindAuth
	case 429:
		return ErrorKindRateLimit
	case 400:
		return ErrorKindBadRequest
	default:
		return ErrorKindUpstream
	}
}
