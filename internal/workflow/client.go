// Package workflow defines the contract with the durable-execution
// engine: the client used to start auth workflows, the workflow and
// activity implementations run by the worker, and the translation of
// engine failures into domain errors.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/temporal"
)

// Workflow type names. These are the engine-visible identifiers and
// must match the worker registrations.
const (
	SignUpWorkflowName = "sign-up-wf"
	LoginWorkflowName  = "login-wf"
)

// Application failure types returned by activities. The gateway keys
// off these to map engine failures to domain errors.
const (
	FailureEmailTaken         = "EmailTaken"
	FailureInvalidCredentials = "InvalidCredentials"
)

// ErrTimeout indicates the workflow run did not complete within its
// run timeout.
var ErrTimeout = errors.New("workflow timed out")

// StartOptions carries the per-invocation workflow parameters.
type StartOptions struct {
	// ID is the unique, human-traceable invocation id.
	ID string
	// TaskQueue the workflow is dispatched on.
	TaskQueue string
	// RunTimeout bounds the whole workflow run.
	RunTimeout time.Duration
	// MaxAttempts caps automatic retries by the engine. The gateway
	// always passes 1: retrying credential operations risks duplicate
	// side effects.
	MaxAttempts int32
}

// Run is a handle to a started workflow whose result can be awaited.
type Run interface {
	// Get blocks until the workflow completes and decodes its result
	// into out.
	Get(ctx context.Context, out any) error
}

// Client starts named workflows. Implementations must be safe for
// concurrent use by many simultaneous requests.
type Client interface {
	Start(ctx context.Context, opts StartOptions, workflowName string, arg any) (Run, error)
	Close()
}

// temporalClient adapts a Temporal SDK client to the Client interface.
type temporalClient struct {
	c client.Client
}

// Dial connects to the Temporal frontend. The returned client is a
// process-wide singleton; call Close at shutdown.
func Dial(address, namespace string, logger *slog.Logger) (Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  address,
		Namespace: namespace,
		Logger:    tlog.NewStructuredLogger(logger),
	})
	if err != nil {
		return nil, err
	}
	return &temporalClient{c: c}, nil
}

func (t *temporalClient) Start(ctx context.Context, opts StartOptions, workflowName string, arg any) (Run, error) {
	return t.c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                 opts.ID,
		TaskQueue:          opts.TaskQueue,
		WorkflowRunTimeout: opts.RunTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: opts.MaxAttempts,
		},
	}, workflowName, arg)
}

func (t *temporalClient) Close() {
	t.c.Close()
}

// FailureType extracts the application failure type from a workflow
// error. Returns the empty string when the error carries none.
func FailureType(err error) string {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Type()
	}
	return ""
}

// IsTimeout reports whether a workflow error is a run timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, ErrTimeout) {
		return true
	}
	var timeoutErr *temporal.TimeoutError
	return errors.As(err, &timeoutErr)
}
