package core

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a send failure. Every *Error carries exactly one Kind;
// the retry loop and callers branch on it rather than on error strings.
type Kind int

const (
	// KindInvalidMessage means the message failed local validation.
	// Raised before any transport call; never retryable.
	KindInvalidMessage Kind = iota

	// KindAuthFailed means the provider rejected the request signature or
	// credentials (401/403). Waiting cannot fix it; never retryable.
	KindAuthFailed

	// KindRateLimited means the provider throttled the request (429).
	// Retryable; may carry a provider-suggested delay.
	KindRateLimited

	// KindNetwork means the request never produced a usable HTTP response:
	// connection failure, timeout, or a malformed body. Retryable.
	KindNetwork

	// KindProvider means the provider returned any other non-2xx response.
	// Carries the provider's error code and description; not retryable by
	// default.
	KindProvider

	// KindInterpolation means the message template syntax was malformed.
	// Local failure; never retryable.
	KindInterpolation
)

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidMessage:
		return "invalid_message"
	case KindAuthFailed:
		return "auth_failed"
	case KindRateLimited:
		return "rate_limited"
	case KindNetwork:
		return "network"
	case KindProvider:
		return "provider"
	case KindInterpolation:
		return "interpolation_failed"
	default:
		return "unknown"
	}
}

// Error is the single failure type raised anywhere in the send pipeline.
// Fields beyond Kind and Message are populated only when relevant to the
// kind. Secret credentials never appear in the rendered message.
type Error struct {
	// Kind tags the failure class.
	Kind Kind

	// Provider names the transport that raised the failure, when remote.
	Provider string

	// Field is the message field that failed validation (invalid-message only).
	Field string

	// Code is the provider-specific error code (provider failures only).
	Code string

	// Message is the human readable description.
	Message string

	// StatusCode is the remote HTTP status, when one was received.
	StatusCode int

	// RetryAfterHint is the provider-suggested delay (rate-limited only).
	// Zero when the provider sent none.
	RetryAfterHint time.Duration

	// Cause is the underlying error, when one exists.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidMessage:
		return fmt.Sprintf("invalid message: %s: %s", e.Field, e.Message)
	case KindRateLimited:
		if e.RetryAfterHint > 0 {
			return fmt.Sprintf("%s: rate limited (retry after %v)", e.Provider, e.RetryAfterHint)
		}
		return fmt.Sprintf("%s: rate limited", e.Provider)
	case KindProvider:
		if e.Code != "" {
			return fmt.Sprintf("%s error [%s] (status: %d): %s", e.Provider, e.Code, e.StatusCode, e.Message)
		}
		return fmt.Sprintf("%s error (status: %d): %s", e.Provider, e.StatusCode, e.Message)
	case KindAuthFailed:
		return fmt.Sprintf("%s: authentication failed (status: %d)", e.Provider, e.StatusCode)
	case KindNetwork:
		if e.Cause != nil {
			return fmt.Sprintf("%s: network failure: %v", e.Provider, e.Cause)
		}
		return fmt.Sprintf("%s: network failure: %s", e.Provider, e.Message)
	case KindInterpolation:
		return "interpolation failed: " + e.Message
	default:
		return e.Message
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches two pipeline errors by Kind, so callers can test
// errors.Is(err, &core.Error{Kind: core.KindAuthFailed}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Retryable reports whether waiting and resending could plausibly succeed.
// Only transient conditions qualify; auth and validation failures cannot be
// fixed by another attempt.
func (e *Error) Retryable() bool {
	return e.Kind == KindNetwork || e.Kind == KindRateLimited
}

// RetryAfter returns the provider-suggested delay, zero if none was given.
func (e *Error) RetryAfter() time.Duration {
	return e.RetryAfterHint
}

// NewInvalidMessageError reports a local validation failure on a field.
func NewInvalidMessageError(field, message string) *Error {
	return &Error{Kind: KindInvalidMessage, Field: field, Message: message}
}

// NewAuthError reports a remote 401/403 rejection.
func NewAuthError(provider string, statusCode int, message string) *Error {
	return &Error{Kind: KindAuthFailed, Provider: provider, StatusCode: statusCode, Message: message}
}

// NewRateLimitError reports a remote 429. retryAfter is zero when the
// provider sent no Retry-After header.
func NewRateLimitError(provider string, statusCode int, retryAfter time.Duration) *Error {
	return &Error{Kind: KindRateLimited, Provider: provider, StatusCode: statusCode, RetryAfterHint: retryAfter}
}

// NewNetworkError reports an I/O failure, timeout, or malformed response.
func NewNetworkError(provider string, cause error) *Error {
	return &Error{Kind: KindNetwork, Provider: provider, Cause: cause}
}

// NewProviderError reports any other non-2xx provider response.
func NewProviderError(provider string, statusCode int, code, message string) *Error {
	return &Error{Kind: KindProvider, Provider: provider, StatusCode: statusCode, Code: code, Message: message}
}

// NewInterpolationError reports malformed template syntax.
func NewInterpolationError(message string) *Error {
	return &Error{Kind: KindInterpolation, Message: message}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable()
	}
	return false
}

// KindOf extracts the failure kind from an error, or -1 for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Kind(-1)
}

// GetRetryAfter extracts the provider-suggested retry delay from an error
// if available.
func GetRetryAfter(err error) time.Duration {
	var e *Error
	if errors.As(err, &e) {
		return e.RetryAfterHint
	}
	return 0
}
