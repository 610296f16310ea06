// Package client provides helpers for connecting to Temporal and starting
// inquiry workflows.
package client

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"
	sdklog "go.temporal.io/sdk/log"

	"github.com/tinkerloft/opsdesk/internal/model"
)

// TaskQueue is the Temporal task queue shared by the worker and all starters.
const TaskQueue = "opsdesk-inquiries"

// WorkflowInquiry is the registered name of the inquiry workflow.
const WorkflowInquiry = "Inquiry"

// Options configures the Temporal connection.
type Options struct {
	HostPort  string
	Namespace string
	Logger    sdklog.Logger
}

// Dial connects to the Temporal server.
func Dial(opts Options) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  opts.HostPort,
		Namespace: opts.Namespace,
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Temporal: %w", err)
	}
	return c, nil
}

// StartInquiry starts a durable inquiry workflow. The workflow ID is derived
// from the inquiry ID so a duplicate submission attaches to the running
// execution instead of spawning a second one.
func StartInquiry(ctx context.Context, c client.Client, inquiry model.Inquiry) (client.WorkflowRun, error) {
	opts := client.StartWorkflowOptions{
		ID:        "inquiry-" + inquiry.ID,
		TaskQueue: TaskQueue,
	}
	run, err := c.ExecuteWorkflow(ctx, opts, WorkflowInquiry, inquiry)
	if err != nil {
		return nil, fmt.Errorf("failed to start inquiry workflow: %w", err)
	}
	return run, nil
}
