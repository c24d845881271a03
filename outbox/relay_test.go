package outbox

import (
	"context"
	"fmt"
	"testing"
)

func TestRelayRunOnceDrainsPending(t *testing.T) {
	store := NewInMemoryStore()
	for i := 0; i < 3; i++ {
		entry := &Entry{OrderID: fmt.Sprintf("ord-%d", i), Topic: "order.accepted"}
		if err := store.Append(context.Background(), entry); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	publisher := NewCollectingPublisher()
	relay := NewRelay(store, publisher)

	published, err := relay.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once failed: %v", err)
	}
	if published != 3 {
		t.Fatalf("expected 3 published, got %d", published)
	}

	pending, err := store.Pending(context.Background())
	if err != nil {
		t.Fatalf("pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty pending set, got %d entries", len(pending))
	}
	if got := len(publisher.Entries()); got != 3 {
		t.Fatalf("expected 3 entries at publisher, got %d", got)
	}
}

func TestRelayRunOnceKeepsFailedEntriesPending(t *testing.T) {
	store := NewInMemoryStore()
	entry := &Entry{OrderID: "ord-1", Topic: "order.accepted"}
	if err := store.Append(context.Background(), entry); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	var handled []error
	relay := NewRelay(store,
		PublisherFunc(func(context.Context, Entry) error {
			return fmt.Errorf("broker unavailable")
		}),
		WithRelayErrorHandler(func(err error) { handled = append(handled, err) }),
	)

	published, err := relay.RunOnce(context.Background())
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if published != 0 {
		t.Fatalf("expected nothing published, got %d", published)
	}
	if len(handled) != 1 {
		t.Fatalf("expected one handled error, got %d", len(handled))
	}

	pending, err := store.Pending(context.Background())
	if err != nil {
		t.Fatalf("pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected entry still pending, got %d", len(pending))
	}
}

func TestRelayValidatesConfiguration(t *testing.T) {
	relay := NewRelay(nil, nil)
	if _, err := relay.RunOnce(context.Background()); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestScheduleRequiresExpression(t *testing.T) {
	relay := NewRelay(NewInMemoryStore(), NewCollectingPublisher())
	schedule := NewSchedule(relay)
	if err := schedule.Add(""); err == nil {
		t.Fatal("expected empty expression error")
	}
	if err := schedule.Add("@every 1h"); err != nil {
		t.Fatalf("add schedule failed: %v", err)
	}
	schedule.Start()
	schedule.Stop()
}
