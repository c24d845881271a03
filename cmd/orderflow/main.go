package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/alecthomas/kong"
	"github.com/goliatone/go-logger/glog"
	orderflow "github.com/goliatone/go-orderflow"
	"github.com/goliatone/go-orderflow/outbox"
	"github.com/goliatone/go-orderflow/workflow"
)

var cli struct {
	Run runCmd `cmd:"" default:"1" help:"Run one order through the workflow and print the results."`
}

type runCmd struct {
	OrderID        string `name:"order-id" help:"Order identifier."`
	IdempotencyKey string `name:"idempotency-key" help:"Caller supplied idempotency key."`
	Scenario       string `name:"scenario" type:"existingfile" help:"YAML scenario file."`
	Halt           bool   `name:"halt" help:"Halt the run when a stage reports a terminal outcome."`
	Relay          bool   `name:"relay" help:"Drain pending outbox events after the run."`
	Verbose        bool   `name:"verbose" short:"v" help:"Enable debug logging."`
}

// glogLogger adapts go-logger to the workflow logging contract.
type glogLogger struct {
	logger glog.Logger
}

func (l glogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l glogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l glogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l glogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l glogLogger) WithContext(ctx context.Context) workflow.Logger {
	return glogLogger{logger: l.logger.WithContext(ctx)}
}

func (l glogLogger) WithFields(fields map[string]any) workflow.Logger {
	if fl, ok := l.logger.(glog.FieldsLogger); ok {
		return glogLogger{logger: fl.WithFields(fields)}
	}
	return l
}

func (r *runCmd) Run() error {
	cfg := workflow.DefaultScenario()
	if r.Scenario != "" {
		loaded, err := workflow.LoadScenario(r.Scenario)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if r.OrderID != "" {
		cfg.OrderID = r.OrderID
	}
	if r.IdempotencyKey != "" {
		cfg.IdempotencyKey = r.IdempotencyKey
	}
	if r.Halt {
		cfg.HaltOnFailure = true
	}

	level := "info"
	if r.Verbose {
		level = "debug"
	}
	logger := glogLogger{logger: glog.NewLogger(glog.WithLevel(level))}

	coordinator, err := workflow.BuildCoordinator(cfg, workflow.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx := context.Background()
	result, err := coordinator.Run(ctx, cfg.Order())
	if err != nil {
		return err
	}

	fmt.Printf("order %s (idempotency key %q)\n", cfg.OrderID, cfg.IdempotencyKey)
	printStage(result.Checkout)
	printStage(result.Fulfillment)
	printStage(result.Notification)
	if result.Phase == workflow.PhaseHalted {
		fmt.Printf("workflow halted at %s\n", result.HaltedAt)
	}

	fmt.Println("telemetry summary:")
	stages := make([]string, 0, len(result.Summary))
	for stage := range result.Summary {
		stages = append(stages, stage)
	}
	sort.Strings(stages)
	for _, stage := range stages {
		summary := result.Summary[stage]
		fmt.Printf("  %-13s avg=%dms latest=%q\n", stage, summary.AverageLatencyMs, summary.LatestStatus)
	}

	if r.Relay {
		relay := outbox.NewRelay(coordinator.Outbox(), outbox.PublisherFunc(
			func(_ context.Context, entry outbox.Entry) error {
				fmt.Printf("published %s for order %s\n", entry.Topic, entry.OrderID)
				return nil
			}))
		if _, err := relay.RunOnce(ctx); err != nil {
			return err
		}
	}
	return nil
}

func printStage(result orderflow.StageResult) {
	if result.Status == "" {
		return
	}
	fmt.Printf("  %-13s %s (attempts=%d)\n", result.Stage, result.Status, result.Attempts)
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("orderflow"),
		kong.Description("Multi-stage order workflow simulator."),
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
