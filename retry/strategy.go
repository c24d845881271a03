package retry

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// Strategy encapsulates the delay between retry attempts.
type Strategy interface {
	// SleepDuration returns how long to wait after the given failed
	// attempt. Attempt indices start at 1.
	SleepDuration(attempt int) time.Duration
}

// NoDelayStrategy performs all retries immediately without waiting.
type NoDelayStrategy struct{}

// SleepDuration always returns zero, causing immediate retries.
func (n NoDelayStrategy) SleepDuration(int) time.Duration { return 0 }

// ExponentialBackoffStrategy implements a capped exponential backoff with
// optional full jitter. Usage example:
//
//	ExponentialBackoffStrategy{
//	    Base:   100 * time.Millisecond,
//	    Factor: 2,
//	    Max:    5 * time.Second,
//	    Jitter: true,
//	}
type ExponentialBackoffStrategy struct {
	// Base is the starting delay (e.g., 100ms)
	Base time.Duration
	// Factor is multiplied each iteration (e.g., 2 => 100ms, 200ms, 400ms, ...)
	Factor float64
	// Max is the maximum delay allowed (caps the exponential growth)
	Max time.Duration
	// Jitter spreads the delay uniformly over [0, computed] to avoid
	// synchronized retry storms
	Jitter bool
}

// SleepDuration implements an exponential backoff with a cap at Max.
func (e ExponentialBackoffStrategy) SleepDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := time.Duration(float64(e.Base) * math.Pow(e.Factor, float64(attempt-1)))
	if e.Max > 0 && delay > e.Max {
		delay = e.Max
	}
	if e.Jitter && delay > 0 {
		delay = time.Duration(rand.Int64N(int64(delay) + 1))
	}
	return delay
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
