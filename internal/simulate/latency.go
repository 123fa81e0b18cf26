// Package simulate provides the delay strategy behind every simulated
// command and deployment step. The delays are a UX pacing device, not a
// timing contract, so they are injected: production uses RandomDelay and
// tests use NoDelay for deterministic, instant runs.
package simulate

import (
	"math/rand"
	"time"
)

// Delay yields a simulated execution duration within [min, max].
type Delay func(min, max time.Duration) time.Duration

// RandomDelay returns a strategy drawing uniformly from [min, max].
func RandomDelay() Delay {
	return func(min, max time.Duration) time.Duration {
		if max <= min {
			return min
		}
		return min + time.Duration(rand.Int63n(int64(max-min)))
	}
}

// NoDelay resolves every simulated step instantly.
func NoDelay() Delay {
	return func(min, max time.Duration) time.Duration { return 0 }
}
