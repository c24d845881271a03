package workflow

import (
	"context"

	orderflow "github.com/goliatone/go-orderflow"
	"github.com/goliatone/go-orderflow/retry"
	"github.com/goliatone/go-orderflow/telemetry"
)

// DefaultFulfillmentAttempts is the reference retry budget for inventory
// reservation.
const DefaultFulfillmentAttempts = 3

// Fulfillment reserves inventory with a retry budget. The inbox check runs
// before anything else: a replayed order identifier is absorbed without a
// fresh retry sequence. After an attempt sequence completes the order is
// marked in the inbox regardless of outcome, so retry storms cannot
// trigger duplicate attempt sequences.
type Fulfillment struct {
	inbox      *Inbox
	telemetry  telemetry.Recorder
	budget     int
	shouldFail retry.FailFunc

	latencyMs       int
	replayLatencyMs int
	logger          Logger
}

// FulfillmentOption customizes the fulfillment stage.
type FulfillmentOption func(*Fulfillment)

// WithFulfillmentBudget overrides the retry attempt budget.
func WithFulfillmentBudget(maxAttempts int) FulfillmentOption {
	return func(f *Fulfillment) {
		if maxAttempts >= 1 {
			f.budget = maxAttempts
		}
	}
}

// WithFulfillmentFailures supplies the per-scenario failure predicate.
func WithFulfillmentFailures(fn retry.FailFunc) FulfillmentOption {
	return func(f *Fulfillment) {
		if fn != nil {
			f.shouldFail = fn
		}
	}
}

// WithFulfillmentLatency overrides the simulated latencies for fresh runs
// and deduplicated replays.
func WithFulfillmentLatency(ms, replayMs int) FulfillmentOption {
	return func(f *Fulfillment) {
		if ms >= 0 {
			f.latencyMs = ms
		}
		if replayMs >= 0 {
			f.replayLatencyMs = replayMs
		}
	}
}

// WithFulfillmentLogger configures stage logging.
func WithFulfillmentLogger(logger Logger) FulfillmentOption {
	return func(f *Fulfillment) {
		f.logger = normalizeLogger(logger)
	}
}

// NewFulfillment constructs the fulfillment stage. The reference scenario
// fails only the first attempt.
func NewFulfillment(inbox *Inbox, recorder telemetry.Recorder, opts ...FulfillmentOption) *Fulfillment {
	f := &Fulfillment{
		inbox:           inbox,
		telemetry:       recorder,
		budget:          DefaultFulfillmentAttempts,
		shouldFail:      retry.FailUntil(2),
		latencyMs:       120,
		replayLatencyMs: 5,
		logger:          normalizeLogger(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.inbox == nil {
		f.inbox = NewInbox()
	}
	if f.telemetry == nil {
		f.telemetry = telemetry.NoopRecorder{}
	}
	return f
}

// Execute runs fulfillment for one order.
func (f *Fulfillment) Execute(_ context.Context, order orderflow.Order) (orderflow.StageResult, error) {
	result := orderflow.StageResult{
		OrderID: order.ID,
		Stage:   orderflow.StageFulfillment,
	}

	if f.inbox.Contains(order.ID) {
		result.Outcome = orderflow.OutcomeReplaySkipped
		result.Status = orderflow.StatusFulfillmentReplay
		result.Attempts = 1
		f.telemetry.Track(orderflow.StageFulfillment, f.replayLatencyMs, result.Status)
		f.logger.Info("fulfillment replay ignored for order %s", order.ID)
		return result, nil
	}

	attempts := retry.Execute(f.budget, f.shouldFail)

	// The dedup marker is set once the attempt sequence ran to
	// completion, even when the budget was exhausted.
	f.inbox.Add(order.ID)

	result.Attempts = attempts
	if attempts < f.budget {
		result.Outcome = orderflow.OutcomeReserved
		result.Status = orderflow.StatusFulfillmentReserved
		f.logger.Info("fulfillment reserved order %s after %d attempts", order.ID, attempts)
	} else {
		result.Outcome = orderflow.OutcomeDeadLetter
		result.Status = orderflow.StatusFulfillmentDeadLetter
		f.logger.Warn("fulfillment dead-lettered order %s after %d attempts", order.ID, attempts)
	}
	f.telemetry.Track(orderflow.StageFulfillment, f.latencyMs, result.Status)
	return result, nil
}
