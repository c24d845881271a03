package retry

import "context"

// FailFunc reports whether the given attempt fails. Attempt indices start
// at 1.
type FailFunc func(attempt int) bool

// Execute walks attempt indices 1..maxAttempts and returns the first index
// where shouldFail reports success. When every attempt fails it returns
// maxAttempts, so the return value alone does not distinguish "succeeded on
// the last attempt" from "budget exhausted": callers own that threshold
// check (attempts == maxAttempts means failed for budget-aware callers).
//
// Execute holds no state and is safe to call concurrently.
func Execute(maxAttempts int, shouldFail FailFunc) int {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if !shouldFail(attempt) {
			return attempt
		}
	}
	return maxAttempts
}

// ExecuteContext behaves like Execute but checks ctx before each attempt
// and sleeps the strategy delay between attempts. A nil strategy retries
// immediately.
func ExecuteContext(ctx context.Context, maxAttempts int, shouldFail FailFunc, strategy Strategy) (int, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if strategy == nil {
		strategy = NoDelayStrategy{}
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt, err
		}
		if !shouldFail(attempt) {
			return attempt, nil
		}
		if attempt < maxAttempts {
			if err := sleep(ctx, strategy.SleepDuration(attempt)); err != nil {
				return attempt, err
			}
		}
	}
	return maxAttempts, nil
}

// FailUntil returns a predicate that fails every attempt strictly below
// succeedAt. FailUntil(2) fails attempt 1 and succeeds from attempt 2 on,
// which is the reference fulfillment and notification scenario.
func FailUntil(succeedAt int) FailFunc {
	return func(attempt int) bool {
		return attempt < succeedAt
	}
}

// AlwaysFail exhausts any attempt budget.
func AlwaysFail(int) bool { return true }

// NeverFail succeeds on the first attempt.
func NeverFail(int) bool { return false }
