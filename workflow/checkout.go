package workflow

import (
	"context"
	"encoding/json"

	orderflow "github.com/goliatone/go-orderflow"
	"github.com/goliatone/go-orderflow/outbox"
	"github.com/goliatone/go-orderflow/telemetry"
)

// TopicOrderAccepted is the outbox topic for accepted checkouts.
const TopicOrderAccepted = "order.accepted"

// Checkout validates the idempotency key and, on acceptance, persists the
// integration event to the outbox. The "persisted" label describes what a
// production implementation must guarantee atomically with the order
// write; the in-memory store only simulates that.
type Checkout struct {
	outbox    outbox.Store
	telemetry telemetry.Recorder
	latencyMs int
	logger    Logger
}

// CheckoutOption customizes the checkout stage.
type CheckoutOption func(*Checkout)

// WithCheckoutLatency overrides the simulated stage latency.
func WithCheckoutLatency(ms int) CheckoutOption {
	return func(c *Checkout) {
		if ms >= 0 {
			c.latencyMs = ms
		}
	}
}

// WithCheckoutLogger configures stage logging.
func WithCheckoutLogger(logger Logger) CheckoutOption {
	return func(c *Checkout) {
		c.logger = normalizeLogger(logger)
	}
}

// NewCheckout constructs the checkout stage. A nil recorder discards
// telemetry; a nil store skips outbox persistence.
func NewCheckout(store outbox.Store, recorder telemetry.Recorder, opts ...CheckoutOption) *Checkout {
	c := &Checkout{
		outbox:    store,
		telemetry: recorder,
		latencyMs: 80,
		logger:    normalizeLogger(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.telemetry == nil {
		c.telemetry = telemetry.NoopRecorder{}
	}
	return c
}

// Execute runs checkout for one order. Rejection is a business outcome,
// not an error; the error return is reserved for outbox failures.
func (c *Checkout) Execute(ctx context.Context, order orderflow.Order) (orderflow.StageResult, error) {
	result := orderflow.StageResult{
		OrderID:  order.ID,
		Stage:    orderflow.StageCheckout,
		Attempts: 1,
	}

	if !order.ReplaySafe() {
		result.Outcome = orderflow.OutcomeRejected
		result.Status = orderflow.StatusCheckoutRejected
		c.telemetry.Track(orderflow.StageCheckout, c.latencyMs, result.Status)
		c.logger.Warn("checkout rejected order %s: blank idempotency key", order.ID)
		return result, nil
	}

	if c.outbox != nil {
		payload, err := json.Marshal(map[string]string{
			"order_id":        order.ID,
			"idempotency_key": order.IdempotencyKey,
		})
		if err != nil {
			return result, err
		}
		entry := &outbox.Entry{
			OrderID: order.ID,
			Topic:   TopicOrderAccepted,
			Payload: payload,
		}
		if err := c.outbox.Append(ctx, entry); err != nil {
			return result, err
		}
	}

	result.Outcome = orderflow.OutcomeAccepted
	result.Status = orderflow.StatusCheckoutAccepted
	c.telemetry.Track(orderflow.StageCheckout, c.latencyMs, result.Status)
	c.logger.Info("checkout accepted order %s", order.ID)
	return result, nil
}
