package workflow_test

import (
	"context"
	"fmt"
	"io"

	orderflow "github.com/goliatone/go-orderflow"
	"github.com/goliatone/go-orderflow/workflow"
)

func ExampleCoordinator_Run() {
	coordinator := workflow.NewCoordinator(
		workflow.WithLogger(workflow.NewFmtLogger(io.Discard)),
	)

	result, err := coordinator.Run(context.Background(), orderflow.Order{
		ID:             "ord-9001",
		IdempotencyKey: "req-9001",
	})
	if err != nil {
		fmt.Println("run failed:", err)
		return
	}

	fmt.Println(result.Checkout.Status)
	fmt.Printf("%s (attempts=%d)\n", result.Fulfillment.Status, result.Fulfillment.Attempts)
	fmt.Printf("%s (attempts=%d)\n", result.Notification.Status, result.Notification.Attempts)
	// Output:
	// accepted with outbox event persisted
	// reserved inventory and published FulfillmentStarted (attempts=2)
	// delivered through fallback provider (attempts=2)
}
