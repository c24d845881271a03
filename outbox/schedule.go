package outbox

import (
	"context"
	"fmt"
	"sync"

	rcron "github.com/robfig/cron/v3"
)

// Schedule drives relay cycles from a cron expression instead of a fixed
// ticker, for deployments that batch outbox draining.
type Schedule struct {
	mu      sync.Mutex
	cron    *rcron.Cron
	relay   *Relay
	entryID rcron.EntryID
	started bool
}

// NewSchedule wraps the relay with a cron runner supporting the standard
// five-field spec plus the @every descriptors.
func NewSchedule(relay *Relay) *Schedule {
	return &Schedule{
		cron:  rcron.New(),
		relay: relay,
	}
}

// Add registers the relay cycle under the given cron expression.
func (s *Schedule) Add(expression string) error {
	if s == nil || s.relay == nil {
		return fmt.Errorf("outbox schedule not configured")
	}
	if expression == "" {
		return fmt.Errorf("cron expression cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(expression, func() {
		if _, err := s.relay.RunOnce(context.Background()); err != nil {
			if s.relay.logger != nil {
				s.relay.logger.Error("scheduled outbox cycle failed: %v", err)
			}
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}
	s.entryID = id
	return nil
}

// Start begins cron execution in its own goroutine.
func (s *Schedule) Start() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.cron.Start()
	s.started = true
}

// Stop halts cron execution and waits for a running cycle to finish.
func (s *Schedule) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	<-s.cron.Stop().Done()
	s.started = false
}
