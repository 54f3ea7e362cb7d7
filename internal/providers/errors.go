package providers

import (
	"errors"
	"fmt"
)

// ErrorKind classifies provider failures in a provider-agnostic way.
type ErrorKind string

const (
	ErrTransport        ErrorKind = "transport"
	ErrAuth             ErrorKind = "auth"
	ErrRateLimit        ErrorKind = "rate_limit"
	ErrUnsupportedModel ErrorKind = "unsupported_model"
)

// ProviderError normalizes backend failures. No provider-specific error
// type surfaces past this package. Provider errors are fatal per attempt:
// the orchestrator does not retry them.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s provider %s error: %s", e.Provider, e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s provider %s error: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s provider %s error", e.Provider, e.Kind)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// AsProviderError unwraps err into a *ProviderError if possible.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	ok := errors.As(err, &pe)
	return pe, ok
}

// ConfigurationError indicates an unknown provider prefix or missing
// credentials. Fatal, never retried.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// IsConfigurationError reports whether err is (or wraps) a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// kindFromStatus maps an HTTP status code onto an ErrorKind.
func kindFromStatus(status int) ErrorKind {
	switch status {
	case 401, 403:
		return ErrAuth
	case 404:
		return ErrUnsupportedModel
	case 429:
		return ErrRateLimit
	default:
		return ErrTransport
	}
}
