package seswire

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lattiq/seswire/internal/providers/ses"
)

// Verbosity re-exports the wire logging tiers.
type Verbosity = ses.Verbosity

// Wire logging tiers, from silent to full bodies.
const (
	VerbosityNone    = ses.VerbosityNone
	VerbosityMinimal = ses.VerbosityMinimal
	VerbosityHeaders = ses.VerbosityHeaders
	VerbosityBody    = ses.VerbosityBody
	VerbosityVerbose = ses.VerbosityVerbose
)

// Config holds the complete client configuration. It is consumed at
// construction and immutable thereafter.
type Config struct {
	// Region is the AWS region of the SES endpoint.
	Region string

	// Credentials is the signing credential triple. When AccessKeyID is
	// empty the AWS default chain is consulted at construction time.
	Credentials CredentialsConfig

	// Endpoint overrides the regional SES endpoint (tests, API-compatible
	// stand-ins).
	Endpoint string

	// Timeout bounds a single transport attempt.
	Timeout time.Duration

	// Retry is the backoff policy applied around transport calls.
	Retry RetryPolicy

	// Logging configures wire-level request/response logging.
	Logging LoggingConfig

	// Middlewares observe every send, in registration order.
	Middlewares []Middleware

	// Transport replaces the default SES transport when set. Region,
	// Credentials, and Endpoint are ignored in that case.
	Transport Transport
}

// CredentialsConfig is the static signing credential triple. The secret key
// is never logged or serialized.
type CredentialsConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// LoggingConfig contains wire logging configuration.
type LoggingConfig struct {
	// Logger receives wire records. Defaults to a no-op logger.
	Logger zerolog.Logger

	// Verbosity selects the logging tier.
	Verbosity Verbosity

	// RedactHeaders are additional header names whose values are masked.
	// Authorization and the security token are always masked.
	RedactHeaders []string

	// BodyLimit is the byte ceiling for logged bodies below the verbose
	// tier. Zero selects the default.
	BodyLimit int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout: 30 * time.Second,
		Retry:   DefaultRetryPolicy(),
		Logging: LoggingConfig{
			Logger:    zerolog.Nop(),
			Verbosity: VerbosityNone,
		},
	}
}

// Validate checks if the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be greater than 0", ErrInvalidConfiguration)
	}

	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("%w: retry.max_attempts must be at least 1", ErrInvalidConfiguration)
	}
	if c.Retry.BaseDelay < 0 {
		return fmt.Errorf("%w: retry.base_delay must not be negative", ErrInvalidConfiguration)
	}

	if c.Logging.Verbosity < VerbosityNone || c.Logging.Verbosity > VerbosityVerbose {
		return fmt.Errorf("%w: unknown logging verbosity %d", ErrInvalidConfiguration, c.Logging.Verbosity)
	}
	if c.Logging.BodyLimit < 0 {
		return fmt.Errorf("%w: logging.body_limit must not be negative", ErrInvalidConfiguration)
	}

	if c.Transport == nil && c.Region == "" {
		return fmt.Errorf("%w: region is required", ErrInvalidConfiguration)
	}

	return nil
}
