package workflow

import (
	"strings"

	orderflow "github.com/goliatone/go-orderflow"
	"github.com/goliatone/go-orderflow/retry"
)

// ScenarioConfig declares one simulated submission: the order identity,
// per-stage retry behavior, and simulated latencies.
type ScenarioConfig struct {
	OrderID        string              `yaml:"order_id" json:"order_id"`
	IdempotencyKey string              `yaml:"idempotency_key" json:"idempotency_key"`
	HaltOnFailure  bool                `yaml:"halt_on_failure" json:"halt_on_failure"`
	Fulfillment    StageScenarioConfig `yaml:"fulfillment" json:"fulfillment"`
	Notification   StageScenarioConfig `yaml:"notification" json:"notification"`
	Latencies      LatencyConfig       `yaml:"latencies" json:"latencies"`
}

// StageScenarioConfig declares retry behavior for one stage. A zero
// MaxAttempts keeps the stage default budget.
type StageScenarioConfig struct {
	MaxAttempts  int   `yaml:"max_attempts" json:"max_attempts"`
	FailAttempts []int `yaml:"fail_attempts" json:"fail_attempts"`
}

// Predicate compiles the fail-attempt set into a failure predicate.
func (s StageScenarioConfig) Predicate() retry.FailFunc {
	if len(s.FailAttempts) == 0 {
		return retry.NeverFail
	}
	failing := make(map[int]struct{}, len(s.FailAttempts))
	for _, attempt := range s.FailAttempts {
		failing[attempt] = struct{}{}
	}
	return func(attempt int) bool {
		_, ok := failing[attempt]
		return ok
	}
}

// LatencyConfig declares the simulated stage latencies in milliseconds.
// Zero values keep the stage defaults.
type LatencyConfig struct {
	CheckoutMs     int `yaml:"checkout_ms" json:"checkout_ms"`
	FulfillmentMs  int `yaml:"fulfillment_ms" json:"fulfillment_ms"`
	ReplayMs       int `yaml:"replay_ms" json:"replay_ms"`
	NotificationMs int `yaml:"notification_ms" json:"notification_ms"`
}

// DefaultScenario is the reference scenario: fulfillment fails only its
// first attempt within a budget of 3, notification fails only its first
// attempt within a budget of 2.
func DefaultScenario() ScenarioConfig {
	return ScenarioConfig{
		OrderID:        "ord-9001",
		IdempotencyKey: "req-9001",
		Fulfillment: StageScenarioConfig{
			MaxAttempts:  DefaultFulfillmentAttempts,
			FailAttempts: []int{1},
		},
		Notification: StageScenarioConfig{
			MaxAttempts:  DefaultNotificationAttempts,
			FailAttempts: []int{1},
		},
	}
}

// Validate checks scenario consistency.
func (c ScenarioConfig) Validate() error {
	if strings.TrimSpace(c.OrderID) == "" {
		return orderflow.ErrInvalidScenario.Clone().
			WithMetadata(map[string]any{"field": "order_id", "reason": "required"})
	}
	if err := c.Fulfillment.validate("fulfillment"); err != nil {
		return err
	}
	if err := c.Notification.validate("notification"); err != nil {
		return err
	}
	for field, ms := range map[string]int{
		"latencies.checkout_ms":     c.Latencies.CheckoutMs,
		"latencies.fulfillment_ms":  c.Latencies.FulfillmentMs,
		"latencies.replay_ms":       c.Latencies.ReplayMs,
		"latencies.notification_ms": c.Latencies.NotificationMs,
	} {
		if ms < 0 {
			return orderflow.ErrInvalidScenario.Clone().
				WithMetadata(map[string]any{"field": field, "reason": "must be >= 0"})
		}
	}
	return nil
}

func (s StageScenarioConfig) validate(stage string) error {
	if s.MaxAttempts < 0 {
		return orderflow.ErrInvalidScenario.Clone().
			WithMetadata(map[string]any{"field": stage + ".max_attempts", "reason": "must be >= 1"})
	}
	budget := s.MaxAttempts
	if budget == 0 {
		budget = defaultBudget(stage)
	}
	for _, attempt := range s.FailAttempts {
		if attempt < 1 || attempt > budget {
			return orderflow.ErrInvalidScenario.Clone().
				WithMetadata(map[string]any{
					"field":  stage + ".fail_attempts",
					"reason": "attempt index outside budget",
					"value":  attempt,
					"budget": budget,
				})
		}
	}
	return nil
}

func defaultBudget(stage string) int {
	if stage == "notification" {
		return DefaultNotificationAttempts
	}
	return DefaultFulfillmentAttempts
}

// Order returns the order declared by the scenario.
func (c ScenarioConfig) Order() orderflow.Order {
	return orderflow.Order{
		ID:             strings.TrimSpace(c.OrderID),
		IdempotencyKey: c.IdempotencyKey,
	}
}

// Options compiles the scenario into coordinator options.
func (c ScenarioConfig) Options() []Option {
	opts := []Option{}
	if c.HaltOnFailure {
		opts = append(opts, WithHaltOnFailure())
	}

	fulfillBudget := c.Fulfillment.MaxAttempts
	if fulfillBudget == 0 {
		fulfillBudget = DefaultFulfillmentAttempts
	}
	opts = append(opts, WithFulfillmentScenario(fulfillBudget, c.Fulfillment.Predicate()))

	notifyBudget := c.Notification.MaxAttempts
	if notifyBudget == 0 {
		notifyBudget = DefaultNotificationAttempts
	}
	opts = append(opts, WithNotificationScenario(notifyBudget, c.Notification.Predicate()))

	if c.Latencies.CheckoutMs > 0 {
		opts = append(opts, WithCheckoutOptions(WithCheckoutLatency(c.Latencies.CheckoutMs)))
	}
	if c.Latencies.FulfillmentMs > 0 || c.Latencies.ReplayMs > 0 {
		fulfillMs := c.Latencies.FulfillmentMs
		if fulfillMs == 0 {
			fulfillMs = -1
		}
		replayMs := c.Latencies.ReplayMs
		if replayMs == 0 {
			replayMs = -1
		}
		opts = append(opts, WithFulfillmentOptions(WithFulfillmentLatency(fulfillMs, replayMs)))
	}
	if c.Latencies.NotificationMs > 0 {
		opts = append(opts, WithNotificationOptions(WithNotificationLatency(c.Latencies.NotificationMs)))
	}
	return opts
}
