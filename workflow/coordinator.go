// Package workflow drives one order through the checkout, fulfillment,
// and notification stages, collecting per-stage telemetry along the way.
package workflow

import (
	"context"

	orderflow "github.com/goliatone/go-orderflow"
	"github.com/goliatone/go-orderflow/outbox"
	"github.com/goliatone/go-orderflow/retry"
	"github.com/goliatone/go-orderflow/telemetry"
)

// Phase tracks coordinator progress through the stage sequence.
type Phase string

const (
	PhaseCheckout     Phase = "checkout"
	PhaseFulfillment  Phase = "fulfillment"
	PhaseNotification Phase = "notification"
	PhaseDone         Phase = "done"
	PhaseHalted       Phase = "halted"
)

// Result is the structured outcome of one coordinator run.
type Result struct {
	Checkout     orderflow.StageResult
	Fulfillment  orderflow.StageResult
	Notification orderflow.StageResult

	// Phase is the terminal phase: PhaseDone, or PhaseHalted when
	// halt-on-failure stopped the sequence early.
	Phase Phase
	// HaltedAt names the stage whose terminal outcome halted the run.
	HaltedAt string

	Summary map[string]telemetry.StageSummary
}

// Coordinator sequences the three stages for one order. Each coordinator
// owns one fulfillment inbox, one telemetry aggregator, and one outbox
// store; constructing a new coordinator resets all three.
type Coordinator struct {
	checkout     *Checkout
	fulfillment  *Fulfillment
	notification *Notification

	inbox      *Inbox
	aggregator *telemetry.Aggregator
	outbox     outbox.Store

	haltOnFailure bool
	logger        Logger

	checkoutOpts     []CheckoutOption
	fulfillmentOpts  []FulfillmentOption
	notificationOpts []NotificationOption
}

// Option customizes coordinator construction.
type Option func(*Coordinator)

// WithLogger configures coordinator and stage logging.
func WithLogger(logger Logger) Option {
	return func(c *Coordinator) {
		c.logger = normalizeLogger(logger)
	}
}

// WithOutboxStore overrides the outbox store used by checkout.
func WithOutboxStore(store outbox.Store) Option {
	return func(c *Coordinator) {
		if store != nil {
			c.outbox = store
		}
	}
}

// WithHaltOnFailure makes a Rejected or DeadLetter outcome transition the
// run to the Halted phase instead of continuing through the remaining
// stages. The default preserves the reference continue-through behavior.
func WithHaltOnFailure() Option {
	return func(c *Coordinator) {
		c.haltOnFailure = true
	}
}

// WithFulfillmentScenario supplies the fulfillment budget and failure
// predicate for this coordinator's scenario.
func WithFulfillmentScenario(maxAttempts int, shouldFail retry.FailFunc) Option {
	return func(c *Coordinator) {
		c.fulfillmentOpts = append(c.fulfillmentOpts,
			WithFulfillmentBudget(maxAttempts),
			WithFulfillmentFailures(shouldFail),
		)
	}
}

// WithNotificationScenario supplies the notification budget and failure
// predicate for this coordinator's scenario.
func WithNotificationScenario(maxAttempts int, shouldFail retry.FailFunc) Option {
	return func(c *Coordinator) {
		c.notificationOpts = append(c.notificationOpts,
			WithNotificationBudget(maxAttempts),
			WithNotificationFailures(shouldFail),
		)
	}
}

// WithCheckoutOptions forwards extra options to the checkout stage.
func WithCheckoutOptions(opts ...CheckoutOption) Option {
	return func(c *Coordinator) {
		c.checkoutOpts = append(c.checkoutOpts, opts...)
	}
}

// WithFulfillmentOptions forwards extra options to the fulfillment stage.
func WithFulfillmentOptions(opts ...FulfillmentOption) Option {
	return func(c *Coordinator) {
		c.fulfillmentOpts = append(c.fulfillmentOpts, opts...)
	}
}

// WithNotificationOptions forwards extra options to the notification stage.
func WithNotificationOptions(opts ...NotificationOption) Option {
	return func(c *Coordinator) {
		c.notificationOpts = append(c.notificationOpts, opts...)
	}
}

// NewCoordinator constructs a coordinator with a fresh inbox, aggregator,
// and in-memory outbox store.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		inbox:      NewInbox(),
		aggregator: telemetry.NewAggregator(),
		outbox:     outbox.NewInMemoryStore(),
		logger:     normalizeLogger(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	c.checkout = NewCheckout(c.outbox, c.aggregator,
		append([]CheckoutOption{WithCheckoutLogger(c.logger)}, c.checkoutOpts...)...)
	c.fulfillment = NewFulfillment(c.inbox, c.aggregator,
		append([]FulfillmentOption{WithFulfillmentLogger(c.logger)}, c.fulfillmentOpts...)...)
	c.notification = NewNotification(c.aggregator,
		append([]NotificationOption{WithNotificationLogger(c.logger)}, c.notificationOpts...)...)
	return c
}

// Aggregator exposes the coordinator's telemetry aggregator.
func (c *Coordinator) Aggregator() *telemetry.Aggregator {
	return c.aggregator
}

// Inbox exposes the coordinator's fulfillment inbox.
func (c *Coordinator) Inbox() *Inbox {
	return c.inbox
}

// Outbox exposes the coordinator's outbox store.
func (c *Coordinator) Outbox() outbox.Store {
	return c.outbox
}

// Run drives one order through checkout, fulfillment, and notification in
// strict sequence and rolls up the telemetry summary. Stage rejections and
// dead-letters are reported in the Result, never as errors; the error
// return covers invalid orders and infrastructure failures.
//
// Running the coordinator twice for the same order id triggers the
// fulfillment replay path on the second run, while checkout and
// notification execute again: those stages keep no dedup memory.
func (c *Coordinator) Run(ctx context.Context, order orderflow.Order) (Result, error) {
	var result Result
	if err := order.Validate(); err != nil {
		return result, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	logger := withLoggerFields(c.logger.WithContext(ctx), map[string]any{
		"order_id": order.ID,
	})
	logger.Info("workflow run started")

	phase := PhaseCheckout
	var err error

	result.Checkout, err = c.checkout.Execute(ctx, order)
	if err != nil {
		return result, err
	}
	if halted, at := c.advance(&phase, PhaseFulfillment, result.Checkout); halted {
		return c.finish(logger, result, PhaseHalted, at), nil
	}

	result.Fulfillment, err = c.fulfillment.Execute(ctx, order)
	if err != nil {
		return result, err
	}
	if halted, at := c.advance(&phase, PhaseNotification, result.Fulfillment); halted {
		return c.finish(logger, result, PhaseHalted, at), nil
	}

	result.Notification, err = c.notification.Execute(ctx, order)
	if err != nil {
		return result, err
	}

	return c.finish(logger, result, PhaseDone, ""), nil
}

// advance moves the phase machine forward, or reports a halt when the
// completed stage ended in a terminal outcome and halt-on-failure is set.
func (c *Coordinator) advance(phase *Phase, next Phase, completed orderflow.StageResult) (bool, string) {
	if c.haltOnFailure && completed.Outcome.Terminal() {
		*phase = PhaseHalted
		return true, completed.Stage
	}
	*phase = next
	return false, ""
}

func (c *Coordinator) finish(logger Logger, result Result, phase Phase, haltedAt string) Result {
	result.Phase = phase
	result.HaltedAt = haltedAt
	result.Summary = c.aggregator.Summarize()
	if phase == PhaseHalted {
		logger.Warn("workflow halted at %s", haltedAt)
	} else {
		logger.Info("workflow run finished")
	}
	return result
}
