package seswire

import (
	"crypto/rand"
	"math"
	"math/big"
	"time"

	"github.com/lattiq/seswire/internal/core"
)

// RetryPredicate decides whether a failure may be retried.
type RetryPredicate func(error) bool

// RetryPolicy is a pure mapping from attempt number to delay plus a
// predicate classifying retryable failures. Configured once, reused across
// sends.
type RetryPolicy struct {
	// MaxAttempts is the total number of transport invocations, including
	// the initial attempt. Must be at least 1.
	MaxAttempts int

	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration

	// Jitter scales each delay by a uniformly random factor in [1.0, 1.5)
	// to avoid synchronized retry storms.
	Jitter bool

	// Retryable overrides the default predicate. When nil, network and
	// rate-limited failures are retryable and nothing else is.
	Retryable RetryPredicate
}

// DefaultRetryPolicy returns the default backoff policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		Jitter:      true,
	}
}

// NoRetryPolicy returns a policy that never retries and never delays.
func NoRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1}
}

// DelayForAttempt returns the delay before the retry following attempt n,
// where the first retry is attempt 1: BaseDelay * 2^(n-1), jitter-scaled
// when enabled. Attempt 0 and below yield zero.
func (p RetryPolicy) DelayForAttempt(attempt int) time.Duration {
	if attempt <= 0 || p.BaseDelay <= 0 {
		return 0
	}

	delay := time.Duration(float64(p.BaseDelay) * math.Pow(2, float64(attempt-1)))

	if p.Jitter {
		// Uniform extra delay in [0, delay/2) keeps the total inside
		// [delay, delay*1.5).
		maxJitter := int64(delay / 2)
		if maxJitter > 0 {
			jitterBig, err := rand.Int(rand.Reader, big.NewInt(maxJitter))
			if err == nil {
				delay += time.Duration(jitterBig.Int64())
			}
		}
	}

	return delay
}

// IsRetryable reports whether the failure may be retried under this policy.
func (p RetryPolicy) IsRetryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return core.IsRetryable(err)
}
