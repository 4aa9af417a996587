package seswire

import "errors"

// Predefined sentinel errors for construction-time failures. Pipeline
// failures are *Error values tagged with a Kind instead.
var (
	// ErrInvalidConfiguration indicates invalid configuration.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrClientClosed indicates the client has been closed.
	ErrClientClosed = errors.New("client closed")
)
