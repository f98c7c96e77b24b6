package store_facade

import (
	"math"
	"time"
)

// RetryPolicy governs how many times and how long the Store Façade
// waits before retrying a transaction that failed with mlmderr.Aborted
// (spec §5: "only Aborted errors are retried, and only at the store
// façade"). Adapted from the teacher corpus's exponential-backoff
// retry policy (dwsmith1983-interlock's schedule.RetryPolicy).
type RetryPolicy struct {
	MaxAttempts       int
	BaseBackoff       time.Duration
	BackoffMultiplier float64
	MaxBackoff        time.Duration
}

// DefaultRetryPolicy makes up to 3 attempts at an Aborted transaction
// (the first try plus up to 2 retries) with exponential backoff starting at 10ms, capped at 1s — short enough
// that a caller blocked on a transient SQLITE_BUSY or MySQL deadlock
// does not stall noticeably, generous enough to ride out real
// contention.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       3,
		BaseBackoff:       10 * time.Millisecond,
		BackoffMultiplier: 2.0,
		MaxBackoff:        time.Second,
	}
}

// Backoff returns the wait duration before retry attempt n (1-indexed:
// the delay before the 2nd attempt is Backoff(1)).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	mult := p.BackoffMultiplier
	if mult <= 0 {
		mult = 2.0
	}
	d := float64(p.BaseBackoff) * math.Pow(mult, float64(attempt-1))
	if p.MaxBackoff > 0 && d > float64(p.MaxBackoff) {
		d = float64(p.MaxBackoff)
	}
	return time.Duration(d)
}
