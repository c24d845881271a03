package workflow

import (
	"context"
	"testing"

	orderflow "github.com/goliatone/go-orderflow"
	"github.com/goliatone/go-orderflow/retry"
)

func TestNotificationFallsBackAfterPrimaryFailure(t *testing.T) {
	stage := NewNotification(nil)

	result, err := stage.Execute(context.Background(), orderflow.Order{ID: "ord-1"})
	if err != nil {
		t.Fatalf("notification failed: %v", err)
	}
	if result.Outcome != orderflow.OutcomeDeliveredFallback {
		t.Fatalf("expected fallback outcome, got %q", result.Outcome)
	}
	if result.Status != orderflow.StatusNotificationFallback {
		t.Fatalf("unexpected status: %q", result.Status)
	}
	if result.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", result.Attempts)
	}
}

func TestNotificationPrimaryDelivery(t *testing.T) {
	stage := NewNotification(nil, WithNotificationFailures(retry.NeverFail))

	result, err := stage.Execute(context.Background(), orderflow.Order{ID: "ord-1"})
	if err != nil {
		t.Fatalf("notification failed: %v", err)
	}
	if result.Outcome != orderflow.OutcomeDeliveredPrimary {
		t.Fatalf("expected primary outcome, got %q", result.Outcome)
	}
	if result.Status != orderflow.StatusNotificationPrimary {
		t.Fatalf("unexpected status: %q", result.Status)
	}
	if result.Attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", result.Attempts)
	}
}

func TestNotificationHasNoDedupMemory(t *testing.T) {
	stage := NewNotification(nil, WithNotificationFailures(retry.NeverFail))

	for i := 0; i < 2; i++ {
		result, err := stage.Execute(context.Background(), orderflow.Order{ID: "ord-1"})
		if err != nil {
			t.Fatalf("notification %d failed: %v", i, err)
		}
		if result.Outcome != orderflow.OutcomeDeliveredPrimary {
			t.Fatalf("run %d: resend must execute normally, got %q", i, result.Outcome)
		}
	}
}
