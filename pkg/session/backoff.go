package session

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Defaults for the reconnection controller.
const (
	DefaultBaseDelay   = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultMaxAttempts = 5
)

// newRetryBackoff builds the delay source for automatic reconnects. The
// randomization factor is zero so the sequence is exactly
// base, 2*base, 4*base, ... clamped at max.
func newRetryBackoff(base, max time.Duration) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = base
	b.MaxInterval = max
	b.Multiplier = 2
	b.RandomizationFactor = 0
	// the attempt cap is enforced by the manager, not by elapsed time
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}
