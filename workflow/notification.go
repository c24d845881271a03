package workflow

import (
	"context"

	orderflow "github.com/goliatone/go-orderflow"
	"github.com/goliatone/go-orderflow/retry"
	"github.com/goliatone/go-orderflow/telemetry"
)

// DefaultNotificationAttempts is the reference retry budget for customer
// notification: one primary attempt plus the fallback provider.
const DefaultNotificationAttempts = 2

// Notification delivers the customer notification, falling back to a
// secondary provider when the primary attempt fails. Notifications carry
// no dedup memory: a resent notification is legitimate, unlike a replayed
// fulfillment.
//
// Exhausting the budget still reports fallback delivery; the model assumes
// the fallback provider is reachable within the budget.
type Notification struct {
	telemetry  telemetry.Recorder
	budget     int
	shouldFail retry.FailFunc
	latencyMs  int
	logger     Logger
}

// NotificationOption customizes the notification stage.
type NotificationOption func(*Notification)

// WithNotificationBudget overrides the retry attempt budget.
func WithNotificationBudget(maxAttempts int) NotificationOption {
	return func(n *Notification) {
		if maxAttempts >= 1 {
			n.budget = maxAttempts
		}
	}
}

// WithNotificationFailures supplies the per-scenario failure predicate.
func WithNotificationFailures(fn retry.FailFunc) NotificationOption {
	return func(n *Notification) {
		if fn != nil {
			n.shouldFail = fn
		}
	}
}

// WithNotificationLatency overrides the simulated stage latency.
func WithNotificationLatency(ms int) NotificationOption {
	return func(n *Notification) {
		if ms >= 0 {
			n.latencyMs = ms
		}
	}
}

// WithNotificationLogger configures stage logging.
func WithNotificationLogger(logger Logger) NotificationOption {
	return func(n *Notification) {
		n.logger = normalizeLogger(logger)
	}
}

// NewNotification constructs the notification stage. The reference
// scenario fails only the first attempt.
func NewNotification(recorder telemetry.Recorder, opts ...NotificationOption) *Notification {
	n := &Notification{
		telemetry:  recorder,
		budget:     DefaultNotificationAttempts,
		shouldFail: retry.FailUntil(2),
		latencyMs:  40,
		logger:     normalizeLogger(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	if n.telemetry == nil {
		n.telemetry = telemetry.NoopRecorder{}
	}
	return n
}

// Execute runs notification delivery for one order.
func (n *Notification) Execute(_ context.Context, order orderflow.Order) (orderflow.StageResult, error) {
	attempts := retry.Execute(n.budget, n.shouldFail)

	result := orderflow.StageResult{
		OrderID:  order.ID,
		Stage:    orderflow.StageNotification,
		Attempts: attempts,
	}
	if attempts == 1 {
		result.Outcome = orderflow.OutcomeDeliveredPrimary
		result.Status = orderflow.StatusNotificationPrimary
	} else {
		result.Outcome = orderflow.OutcomeDeliveredFallback
		result.Status = orderflow.StatusNotificationFallback
	}
	n.telemetry.Track(orderflow.StageNotification, n.latencyMs, result.Status)
	n.logger.Info("notification for order %s: %s", order.ID, result.Status)
	return result, nil
}
