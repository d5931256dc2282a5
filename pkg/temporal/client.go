// Package temporal wraps the Temporal SDK client for the warehouse workflows.
package temporal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
)

// Config holds Temporal client configuration
type Config struct {
	HostPort  string
	Namespace string
	Identity  string
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HostPort:  "localhost:7233",
		Namespace: "default",
		Identity:  "warehouse-ops",
	}
}

// TaskQueues contains the Temporal task queue names
var TaskQueues = struct {
	Picking string
}{
	Picking: "warehouse-picking-queue",
}

// WorkflowNames contains the registered workflow names
var WorkflowNames = struct {
	Picking string
}{
	Picking: "PickingWorkflow",
}

// Signals sent from the API to running workflows
const (
	SignalPickTaskCompleted = "pickTaskCompleted"
	SignalPickTaskCancelled = "pickTaskCancelled"
)

// PickingWorkflowID returns the workflow id used for an order
func PickingWorkflowID(orderID string) string {
	return "picking-" + orderID
}

// Client wraps the Temporal client with warehouse specific helpers
type Client struct {
	client  client.Client
	config  *Config
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewClient dials the Temporal frontend
func NewClient(config *Config, logger *logging.Logger, m *metrics.Metrics) (*Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  config.HostPort,
		Namespace: config.Namespace,
		Identity:  config.Identity,
		Logger:    logger.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Temporal client: %w", err)
	}

	return Wrap(c, config, logger, m), nil
}

// Wrap builds a Client around an existing SDK client
func Wrap(c client.Client, config *Config, logger *logging.Logger, m *metrics.Metrics) *Client {
	return &Client{
		client:  c,
		config:  config,
		logger:  logger.WithComponent("temporal"),
		metrics: m,
	}
}

// Client returns the underlying Temporal client
func (c *Client) Client() client.Client {
	return c.client
}

// Close closes the client connection
func (c *Client) Close() {
	c.client.Close()
}

// StartWorkflow starts a workflow execution on the given queue
func (c *Client) StartWorkflow(
	ctx context.Context,
	workflowID string,
	taskQueue string,
	workflowName string,
	args ...interface{},
) (client.WorkflowRun, error) {
	options := client.StartWorkflowOptions{
		ID:                       workflowID,
		TaskQueue:                taskQueue,
		WorkflowExecutionTimeout: 24 * time.Hour,
	}

	run, err := c.client.ExecuteWorkflow(ctx, options, workflowName, args...)
	if c.metrics != nil {
		c.metrics.RecordWorkflowStarted(workflowName, err == nil)
	}
	return run, err
}

// SignalWorkflow sends a signal to the latest run of a workflow. A workflow
// that does not exist is logged and reported as ErrWorkflowNotFound.
func (c *Client) SignalWorkflow(ctx context.Context, workflowID, signalName string, arg interface{}) error {
	err := c.client.SignalWorkflow(ctx, workflowID, "", signalName, arg)
	if c.metrics != nil {
		c.metrics.RecordWorkflowSignal(signalName, err == nil)
	}
	if err != nil {
		var notFound *serviceerror.NotFound
		if errors.As(err, &notFound) {
			c.logger.Warn("Workflow not found for signal", "workflowId", workflowID, "signal", signalName)
			return ErrWorkflowNotFound
		}
		return fmt.Errorf("failed to signal workflow %s: %w", workflowID, err)
	}
	return nil
}

// ErrWorkflowNotFound is returned when signalling a workflow that is not running
var ErrWorkflowNotFound = errors.New("workflow not found")

// WorkerOptions contains options for creating a worker
type WorkerOptions struct {
	TaskQueue                    string
	MaxConcurrentActivityPollers int
	MaxConcurrentWorkflowPollers int
	MaxConcurrentActivities      int
	MaxConcurrentWorkflows       int
}

// DefaultWorkerOptions returns default worker options
func DefaultWorkerOptions(taskQueue string) *WorkerOptions {
	return &WorkerOptions{
		TaskQueue:                    taskQueue,
		MaxConcurrentActivityPollers: 4,
		MaxConcurrentWorkflowPollers: 4,
		MaxConcurrentActivities:      50,
		MaxConcurrentWorkflows:       50,
	}
}

// NewWorker creates a new Temporal worker
func (c *Client) NewWorker(opts *WorkerOptions) worker.Worker {
	return worker.New(c.client, opts.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     opts.MaxConcurrentActivities,
		MaxConcurrentWorkflowTaskExecutionSize: opts.MaxConcurrentWorkflows,
		MaxConcurrentActivityTaskPollers:       opts.MaxConcurrentActivityPollers,
		MaxConcurrentWorkflowTaskPollers:       opts.MaxConcurrentWorkflowPollers,
	})
}
