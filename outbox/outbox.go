// Package outbox provides the integration-event side of order acceptance:
// a store of pending events appended alongside the business decision, and
// a relay that publishes them asynchronously.
package outbox

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one pending integration event.
type Entry struct {
	ID          string
	OrderID     string
	Topic       string
	Payload     []byte
	Metadata    map[string]any
	CreatedAt   time.Time
	PublishedAt time.Time
}

// Published reports whether the entry has been relayed.
func (e Entry) Published() bool {
	return !e.PublishedAt.IsZero()
}

// Store holds pending entries until a relay drains them.
//
// A production store must persist the entry in the same transaction as the
// business record it describes; the in-memory store only simulates that
// atomicity.
type Store interface {
	Append(ctx context.Context, entry *Entry) error
	Pending(ctx context.Context) ([]Entry, error)
	MarkPublished(ctx context.Context, id string) error
}

// InMemoryStore keeps entries in memory, in append order.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Append stores one entry, assigning an ID and creation time when unset.
func (s *InMemoryStore) Append(_ context.Context, entry *Entry) error {
	if s == nil {
		return fmt.Errorf("outbox store not configured")
	}
	if entry == nil {
		return fmt.Errorf("outbox entry required")
	}
	if strings.TrimSpace(entry.Topic) == "" {
		return fmt.Errorf("outbox entry topic required")
	}
	if strings.TrimSpace(entry.ID) == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	cp := *entry
	cp.Payload = append([]byte(nil), entry.Payload...)
	cp.Metadata = copyMap(entry.Metadata)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, cp)
	return nil
}

// Pending returns unpublished entries in append order.
func (s *InMemoryStore) Pending(_ context.Context) ([]Entry, error) {
	if s == nil {
		return nil, fmt.Errorf("outbox store not configured")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for _, entry := range s.entries {
		if !entry.Published() {
			out = append(out, cloneEntry(entry))
		}
	}
	return out, nil
}

// MarkPublished flags one entry as relayed.
func (s *InMemoryStore) MarkPublished(_ context.Context, id string) error {
	if s == nil {
		return fmt.Errorf("outbox store not configured")
	}
	id = strings.TrimSpace(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].PublishedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("outbox entry not found: %s", id)
}

// Entries returns a copy of every stored entry, published or not.
func (s *InMemoryStore) Entries() []Entry {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, cloneEntry(entry))
	}
	return out
}

func cloneEntry(entry Entry) Entry {
	cp := entry
	cp.Payload = append([]byte(nil), entry.Payload...)
	cp.Metadata = copyMap(entry.Metadata)
	return cp
}

func copyMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
