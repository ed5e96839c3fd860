package workflow

import (
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	temporalwf "go.temporal.io/sdk/workflow"

	"github.com/sessiongate/sessiongate/internal/repository"
)

// Worker runs the auth workflows and activities on a task queue.
type Worker struct {
	c client.Client
	w worker.Worker
}

// NewWorker connects to Temporal and registers the sign-up and login
// workflows plus their activities on the given task queue.
func NewWorker(address, namespace, taskQueue string, sessionTTL time.Duration, repo *repository.Repository, logger *slog.Logger) (*Worker, error) {
	c, err := client.Dial(client.Options{
		HostPort:  address,
		Namespace: namespace,
		Logger:    tlog.NewStructuredLogger(logger),
	})
	if err != nil {
		return nil, err
	}

	w := worker.New(c, taskQueue, worker.Options{})

	w.RegisterWorkflowWithOptions(SignUp, temporalwf.RegisterOptions{Name: SignUpWorkflowName})
	w.RegisterWorkflowWithOptions(Login, temporalwf.RegisterOptions{Name: LoginWorkflowName})

	a := NewActivities(repo, logger, sessionTTL)
	w.RegisterActivityWithOptions(a.SignUp, activity.RegisterOptions{Name: signUpActivityName})
	w.RegisterActivityWithOptions(a.Login, activity.RegisterOptions{Name: loginActivityName})

	return &Worker{c: c, w: w}, nil
}

// Run blocks processing tasks until an interrupt signal arrives.
func (w *Worker) Run() error {
	return w.w.Run(worker.InterruptCh())
}

// Close releases the underlying Temporal client.
func (w *Worker) Close() {
	w.c.Close()
}
