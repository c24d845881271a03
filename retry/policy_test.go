package retry

import (
	"context"
	"testing"
)

func TestExecuteReturnsFirstSuccessfulAttempt(t *testing.T) {
	attempts := Execute(3, FailUntil(2))
	if attempts != 2 {
		t.Fatalf("expected success on attempt 2, got %d", attempts)
	}
}

func TestExecuteFirstAttemptSuccessIgnoresBudget(t *testing.T) {
	for _, budget := range []int{1, 2, 5, 100} {
		if attempts := Execute(budget, NeverFail); attempts != 1 {
			t.Fatalf("budget %d: expected 1 attempt, got %d", budget, attempts)
		}
	}
}

func TestExecuteExhaustedReturnsBudget(t *testing.T) {
	if attempts := Execute(3, AlwaysFail); attempts != 3 {
		t.Fatalf("expected exhausted budget of 3, got %d", attempts)
	}
}

func TestExecuteStaysWithinBounds(t *testing.T) {
	for budget := 1; budget <= 10; budget++ {
		for succeedAt := 1; succeedAt <= budget+2; succeedAt++ {
			attempts := Execute(budget, FailUntil(succeedAt))
			if attempts < 1 || attempts > budget {
				t.Fatalf("budget %d succeedAt %d: attempts %d out of [1, %d]",
					budget, succeedAt, attempts, budget)
			}
		}
	}
}

func TestExecuteStopsProbingAfterSuccess(t *testing.T) {
	var calls int
	Execute(5, func(attempt int) bool {
		calls++
		return attempt < 2
	})
	if calls != 2 {
		t.Fatalf("expected predicate called twice, got %d", calls)
	}
}

func TestExecuteNormalizesInvalidBudget(t *testing.T) {
	if attempts := Execute(0, AlwaysFail); attempts != 1 {
		t.Fatalf("expected zero budget normalized to 1, got %d", attempts)
	}
}

func TestExecuteContextHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExecuteContext(ctx, 3, AlwaysFail, nil)
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestExecuteContextMatchesPureExecute(t *testing.T) {
	attempts, err := ExecuteContext(context.Background(), 3, FailUntil(2), NoDelayStrategy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}
