package seswire

import (
	"context"

	"github.com/lattiq/seswire/internal/core"
)

// Type aliases re-exporting core types for the public API, so users write
// seswire.Message rather than reaching into internal packages.
type (
	Message    = core.Message
	Address    = core.Address
	SendResult = core.SendResult
	Transport  = core.Transport
	Middleware = core.Middleware
	Outcome    = core.Outcome
	Error      = core.Error
	Kind       = core.Kind
)

// Failure kinds. Every error returned by Send carries exactly one.
const (
	KindInvalidMessage = core.KindInvalidMessage
	KindAuthFailed     = core.KindAuthFailed
	KindRateLimited    = core.KindRateLimited
	KindNetwork        = core.KindNetwork
	KindProvider       = core.KindProvider
	KindInterpolation  = core.KindInterpolation
)

// Error constructors and inspection helpers.
var (
	NewInvalidMessageError = core.NewInvalidMessageError
	NewAuthError           = core.NewAuthError
	NewRateLimitError      = core.NewRateLimitError
	NewNetworkError        = core.NewNetworkError
	NewProviderError       = core.NewProviderError
	NewInterpolationError  = core.NewInterpolationError
	IsRetryable            = core.IsRetryable
	GetRetryAfter          = core.GetRetryAfter
	KindOf                 = core.KindOf
)

// Sender is the externally visible send operation. All methods are safe for
// concurrent use.
type Sender interface {
	// Send validates, interpolates, and delivers a message, retrying
	// transient provider failures per the configured policy.
	Send(ctx context.Context, msg *Message, opts ...SendOption) (*SendResult, error)

	// Close releases held resources. After Close the sender must not be used.
	Close() error
}

// sendOptions collects per-call options.
type sendOptions struct {
	params map[string]string
}

// SendOption customizes a single Send call.
type SendOption func(*sendOptions)

// WithParams supplies values for {{key}} placeholders in the subject and
// bodies. Placeholders without a matching key pass through verbatim.
func WithParams(params map[string]string) SendOption {
	return func(o *sendOptions) { o.params = params }
}
