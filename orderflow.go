package orderflow

import (
	"context"
	"strings"
)

// Stage names used for sequencing and telemetry grouping.
const (
	StageCheckout     = "checkout"
	StageFulfillment  = "fulfillment"
	StageNotification = "notification"
)

// Outcome tags one stage result so callers can switch on it instead of
// matching status strings.
type Outcome string

const (
	OutcomeAccepted          Outcome = "accepted"
	OutcomeRejected          Outcome = "rejected"
	OutcomeReserved          Outcome = "reserved"
	OutcomeDeadLetter        Outcome = "dead_letter"
	OutcomeReplaySkipped     Outcome = "replay_skipped"
	OutcomeDeliveredPrimary  Outcome = "delivered_primary"
	OutcomeDeliveredFallback Outcome = "delivered_fallback"
)

// Terminal reports whether the outcome halts a short-circuiting workflow.
func (o Outcome) Terminal() bool {
	return o == OutcomeRejected || o == OutcomeDeadLetter
}

// Human readable status labels attached to stage results. These are the
// values callers see in logs and telemetry summaries; branching logic
// should use the Outcome tag instead.
const (
	StatusCheckoutAccepted      = "accepted with outbox event persisted"
	StatusCheckoutRejected      = "rejected"
	StatusFulfillmentReserved   = "reserved inventory and published FulfillmentStarted"
	StatusFulfillmentDeadLetter = "moved to dead-letter"
	StatusFulfillmentReplay     = "idempotent replay ignored"
	StatusNotificationPrimary   = "delivered through primary provider"
	StatusNotificationFallback  = "delivered through fallback provider"
)

// Order is one simulated order submission. Created once per submission and
// never mutated by the stages.
type Order struct {
	ID             string
	IdempotencyKey string
}

// ReplaySafe reports whether the order carries a usable idempotency key.
// Blank or all-whitespace keys make duplicate detection impossible, so
// checkout treats them as replay unsafe.
func (o Order) ReplaySafe() bool {
	return strings.TrimSpace(o.IdempotencyKey) != ""
}

// Validate checks the fields required to run an order through the workflow.
// A blank idempotency key is not an error here; checkout handles it as a
// business outcome.
func (o Order) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return ErrInvalidOrder.Clone()
	}
	return nil
}

// StageResult captures one stage execution outcome. Lifetime is the single
// workflow invocation; nothing is persisted.
type StageResult struct {
	OrderID  string
	Stage    string
	Outcome  Outcome
	Status   string
	Attempts int
}

// Stage is the common contract for stage executors. The error return is
// reserved for infrastructure failures; expected business outcomes
// (rejection, dead-letter, replay) come back as tagged results.
type Stage interface {
	Execute(ctx context.Context, order Order) (StageResult, error)
}

// StageFunc is an adapter that lets you use a function as a Stage.
type StageFunc func(ctx context.Context, order Order) (StageResult, error)

// Execute calls the underlying function.
func (f StageFunc) Execute(ctx context.Context, order Order) (StageResult, error) {
	return f(ctx, order)
}
