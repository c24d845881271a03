package workflow

import (
	"context"
	"testing"

	orderflow "github.com/goliatone/go-orderflow"
	"github.com/goliatone/go-orderflow/outbox"
	"github.com/goliatone/go-orderflow/telemetry"
)

func TestCheckoutAcceptsAndPersistsOutboxEvent(t *testing.T) {
	store := outbox.NewInMemoryStore()
	agg := telemetry.NewAggregator()
	stage := NewCheckout(store, agg)

	result, err := stage.Execute(context.Background(), orderflow.Order{
		ID:             "ord-1",
		IdempotencyKey: "req-1",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if result.Outcome != orderflow.OutcomeAccepted {
		t.Fatalf("expected accepted outcome, got %q", result.Outcome)
	}
	if result.Status != orderflow.StatusCheckoutAccepted {
		t.Fatalf("unexpected status: %q", result.Status)
	}
	if result.Attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", result.Attempts)
	}

	entries := store.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 outbox entry, got %d", len(entries))
	}
	if entries[0].Topic != TopicOrderAccepted || entries[0].OrderID != "ord-1" {
		t.Fatalf("unexpected outbox entry: %+v", entries[0])
	}

	if agg.Len() != 1 {
		t.Fatalf("expected 1 telemetry observation, got %d", agg.Len())
	}
}

func TestCheckoutRejectsBlankIdempotencyKey(t *testing.T) {
	for _, key := range []string{"", "   ", "\t\n"} {
		store := outbox.NewInMemoryStore()
		stage := NewCheckout(store, nil)

		result, err := stage.Execute(context.Background(), orderflow.Order{
			ID:             "ord-1",
			IdempotencyKey: key,
		})
		if err != nil {
			t.Fatalf("checkout failed: %v", err)
		}
		if result.Outcome != orderflow.OutcomeRejected {
			t.Fatalf("key %q: expected rejection, got %q", key, result.Outcome)
		}
		if result.Status != orderflow.StatusCheckoutRejected {
			t.Fatalf("key %q: unexpected status %q", key, result.Status)
		}
		if len(store.Entries()) != 0 {
			t.Fatalf("key %q: rejected checkout must not persist outbox events", key)
		}
	}
}

func TestCheckoutTracksConfiguredLatency(t *testing.T) {
	agg := telemetry.NewAggregator()
	stage := NewCheckout(nil, agg, WithCheckoutLatency(33))

	if _, err := stage.Execute(context.Background(), orderflow.Order{ID: "ord-1", IdempotencyKey: "req-1"}); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	obs := agg.Observations()
	if len(obs) != 1 || obs[0].LatencyMs != 33 {
		t.Fatalf("expected single observation with latency 33, got %+v", obs)
	}
}
