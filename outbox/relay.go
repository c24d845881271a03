package outbox

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// Logger interface shared across packages
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Publisher receives drained outbox entries.
type Publisher interface {
	Publish(ctx context.Context, entry Entry) error
}

// PublisherFunc is an adapter that lets you use a function as a Publisher.
type PublisherFunc func(ctx context.Context, entry Entry) error

func (f PublisherFunc) Publish(ctx context.Context, entry Entry) error {
	return f(ctx, entry)
}

// Relay drains pending outbox entries into a publisher.
type Relay struct {
	store     Store
	publisher Publisher

	interval     time.Duration
	logger       Logger
	errorHandler func(error)

	runMu     sync.Mutex
	runCancel context.CancelFunc
	running   bool
}

// RelayOption customizes relay behavior.
type RelayOption func(*Relay)

// WithRelayInterval sets the poll cadence used by Run.
func WithRelayInterval(interval time.Duration) RelayOption {
	return func(r *Relay) {
		if interval > 0 {
			r.interval = interval
		}
	}
}

// WithRelayLogger configures relay logging.
func WithRelayLogger(logger Logger) RelayOption {
	return func(r *Relay) {
		r.logger = logger
	}
}

// WithRelayErrorHandler overrides the handler invoked on publish failures.
func WithRelayErrorHandler(h func(error)) RelayOption {
	return func(r *Relay) {
		if h != nil {
			r.errorHandler = h
		}
	}
}

// NewRelay constructs a relay for the given store and publisher.
func NewRelay(store Store, publisher Publisher, opts ...RelayOption) *Relay {
	r := &Relay{
		store:     store,
		publisher: publisher,
		interval:  500 * time.Millisecond,
		errorHandler: func(err error) {
			log.Printf("outbox relay error: %v\n", err)
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// RunOnce drains every currently pending entry and returns how many were
// published. Entries that fail to publish stay pending for the next cycle.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	if r == nil {
		return 0, fmt.Errorf("outbox relay not configured")
	}
	if err := r.validate(); err != nil {
		return 0, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pending, err := r.store.Pending(ctx)
	if err != nil {
		return 0, err
	}

	published := 0
	var cycleErr error
	for _, entry := range pending {
		if err := ctx.Err(); err != nil {
			return published, err
		}
		if err := r.publisher.Publish(ctx, entry); err != nil {
			r.errorHandler(fmt.Errorf("publish entry %s: %w", entry.ID, err))
			if cycleErr == nil {
				cycleErr = err
			}
			continue
		}
		if err := r.store.MarkPublished(ctx, entry.ID); err != nil {
			r.errorHandler(fmt.Errorf("mark published %s: %w", entry.ID, err))
			if cycleErr == nil {
				cycleErr = err
			}
			continue
		}
		published++
	}

	if r.logger != nil && published > 0 {
		r.logger.Info("outbox relay published %d entries", published)
	}
	return published, cycleErr
}

// Run polls the store until context cancellation or Stop.
func (r *Relay) Run(ctx context.Context) error {
	if r == nil {
		return fmt.Errorf("outbox relay not configured")
	}
	if err := r.validate(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	r.runMu.Lock()
	if r.running {
		r.runMu.Unlock()
		return fmt.Errorf("outbox relay already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.runCancel = cancel
	r.running = true
	r.runMu.Unlock()

	defer func() {
		r.runMu.Lock()
		r.running = false
		r.runCancel = nil
		r.runMu.Unlock()
	}()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.RunOnce(runCtx); err != nil && r.logger != nil {
			r.logger.Error("outbox relay cycle failed: %v", err)
		}
		select {
		case <-runCtx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Stop requests background loop termination.
func (r *Relay) Stop() {
	if r == nil {
		return
	}
	r.runMu.Lock()
	cancel := r.runCancel
	r.runMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (r *Relay) validate() error {
	if r.store == nil {
		return fmt.Errorf("outbox store not configured")
	}
	if r.publisher == nil {
		return fmt.Errorf("outbox publisher not configured")
	}
	return nil
}

// CollectingPublisher stores published entries for inspection/testing.
type CollectingPublisher struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewCollectingPublisher constructs an empty collecting publisher.
func NewCollectingPublisher() *CollectingPublisher {
	return &CollectingPublisher{}
}

func (p *CollectingPublisher) Publish(_ context.Context, entry Entry) error {
	if p == nil {
		return fmt.Errorf("collecting publisher not configured")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, cloneEntry(entry))
	return nil
}

// Entries returns a copy of every published entry.
func (p *CollectingPublisher) Entries() []Entry {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Entry, 0, len(p.entries))
	for _, entry := range p.entries {
		out = append(out, cloneEntry(entry))
	}
	return out
}

// Topics returns the topic of each published entry in order.
func (p *CollectingPublisher) Topics() []string {
	entries := p.Entries()
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, strings.TrimSpace(entry.Topic))
	}
	return out
}
