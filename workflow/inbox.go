package workflow

import (
	"strings"
	"sync"
)

// Inbox is the fulfillment dedup set: order identifiers whose fulfillment
// attempt sequence has already run to completion, successful or not. An
// identifier is inserted at most once; a second fulfillment call for the
// same identifier is a deduplicated replay, never a fresh retry sequence.
//
// State is scoped to one coordinator instance and guarded for concurrent
// callers.
type Inbox struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewInbox constructs an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{seen: make(map[string]struct{})}
}

// Contains reports whether the order identifier was already processed.
func (i *Inbox) Contains(orderID string) bool {
	if i == nil {
		return false
	}
	orderID = strings.TrimSpace(orderID)
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.seen[orderID]
	return ok
}

// Add marks the order identifier as processed. Adding an identifier twice
// is a no-op.
func (i *Inbox) Add(orderID string) {
	if i == nil {
		return
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.seen[orderID] = struct{}{}
}

// Len returns the number of distinct identifiers processed.
func (i *Inbox) Len() int {
	if i == nil {
		return 0
	}
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.seen)
}
