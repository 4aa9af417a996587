package seswire

import (
	"time"

	"github.com/rs/zerolog"
)

// Option is a functional option for configuring the client.
type Option func(*Config)

// WithRegion sets the AWS region of the SES endpoint.
func WithRegion(region string) Option {
	return func(c *Config) {
		c.Region = region
	}
}

// WithCredentials sets static signing credentials.
func WithCredentials(accessKeyID, secretAccessKey string) Option {
	return func(c *Config) {
		c.Credentials.AccessKeyID = accessKeyID
		c.Credentials.SecretAccessKey = secretAccessKey
	}
}

// WithSessionToken sets the session token for temporary credentials.
func WithSessionToken(token string) Option {
	return func(c *Config) {
		c.Credentials.SessionToken = token
	}
}

// WithEndpoint overrides the regional SES endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Config) {
		c.Endpoint = endpoint
	}
}

// WithTimeout bounds a single transport attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithRetry configures the backoff policy.
func WithRetry(maxAttempts int, baseDelay time.Duration, jitter bool) Option {
	return func(c *Config) {
		c.Retry.MaxAttempts = maxAttempts
		c.Retry.BaseDelay = baseDelay
		c.Retry.Jitter = jitter
	}
}

// WithRetryPredicate overrides which failures are retried.
func WithRetryPredicate(predicate RetryPredicate) Option {
	return func(c *Config) {
		c.Retry.Retryable = predicate
	}
}

// WithoutRetry disables retries entirely.
func WithoutRetry() Option {
	return func(c *Config) {
		c.Retry = NoRetryPolicy()
	}
}

// WithMiddleware appends middlewares to the ordered observer list.
func WithMiddleware(mws ...Middleware) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mws...)
	}
}

// WithTransport replaces the default SES transport. Region, credential, and
// endpoint settings are ignored when a transport is supplied.
func WithTransport(t Transport) Option {
	return func(c *Config) {
		c.Transport = t
	}
}

// WithLogger sets the wire logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) {
		c.Logging.Logger = logger
	}
}

// WithVerbosity selects the wire logging tier.
func WithVerbosity(v Verbosity) Option {
	return func(c *Config) {
		c.Logging.Verbosity = v
	}
}

// WithRedactedHeaders adds header names whose values are masked in wire
// logs. Authorization and the security token are always masked.
func WithRedactedHeaders(names ...string) Option {
	return func(c *Config) {
		c.Logging.RedactHeaders = append(c.Logging.RedactHeaders, names...)
	}
}

// WithBodyLogLimit sets the byte ceiling for logged bodies below the
// verbose tier.
func WithBodyLogLimit(limit int) Option {
	return func(c *Config) {
		c.Logging.BodyLimit = limit
	}
}
