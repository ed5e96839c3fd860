// Package service implements the auth orchestration logic: delegating
// sign-up and login to durable workflows and translating their results.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/sessiongate/sessiongate/internal/metrics"
	"github.com/sessiongate/sessiongate/internal/model"
	"github.com/sessiongate/sessiongate/internal/workflow"
)

// Orchestrator-level errors. Domain failures inside the workflow are
// mapped onto these; anything else wraps ErrWorkflowFailed.
var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWorkflowTimeout    = errors.New("auth workflow timed out")
	ErrWorkflowFailed     = errors.New("auth workflow failed")
)

// AuthService delegates credential-sensitive operations to durable
// workflows. It never executes them inline and never retries them:
// a retry at this boundary could create an account twice.
type AuthService struct {
	wf         workflow.Client
	taskQueue  string
	runTimeout time.Duration
	logger     *slog.Logger
	metrics    metrics.Recorder
}

// NewAuthService creates an AuthService on top of a workflow client.
func NewAuthService(wf workflow.Client, taskQueue string, runTimeout time.Duration, logger *slog.Logger, recorder metrics.Recorder) *AuthService {
	return &AuthService{
		wf:         wf,
		taskQueue:  taskQueue,
		runTimeout: runTimeout,
		logger:     logger,
		metrics:    recorder,
	}
}

// SignUp starts the sign-up workflow and awaits the new user id.
func (s *AuthService) SignUp(ctx context.Context, input model.SignUpInput) (string, error) {
	if err := input.Validate(); err != nil {
		return "", err
	}

	var userID string
	if err := s.run(ctx, "sign_up", workflow.SignUpWorkflowName, "sign-up-with-email", input, &userID); err != nil {
		return "", err
	}
	return userID, nil
}

// Login starts the login workflow and awaits the session id the
// workflow created. No session is ever issued on a non-success path.
func (s *AuthService) Login(ctx context.Context, input model.LoginInput) (string, error) {
	if err := input.Validate(); err != nil {
		return "", err
	}

	var sessionID string
	if err := s.run(ctx, "login", workflow.LoginWorkflowName, "login-with-email", input, &sessionID); err != nil {
		return "", err
	}
	return sessionID, nil
}

// run starts one workflow invocation and blocks on its result.
func (s *AuthService) run(ctx context.Context, operation, workflowName, idPrefix string, input any, out *string) error {
	invocationID := fmt.Sprintf("%s-%s", idPrefix, ulid.Make().String())
	start := time.Now()

	s.metrics.IncWorkflowStarted(operation)
	s.logger.Info("starting auth workflow",
		slog.String("workflow", workflowName),
		slog.String("workflow_id", invocationID),
	)

	run, err := s.wf.Start(ctx, workflow.StartOptions{
		ID:          invocationID,
		TaskQueue:   s.taskQueue,
		RunTimeout:  s.runTimeout,
		MaxAttempts: 1,
	}, workflowName, input)
	if err != nil {
		s.metrics.IncWorkflowCompleted(operation, "error")
		return fmt.Errorf("%w: %v", ErrWorkflowFailed, err)
	}

	if err := run.Get(ctx, out); err != nil {
		status, mapped := s.translate(err)
		s.metrics.IncWorkflowCompleted(operation, status)
		s.logger.Warn("auth workflow failed",
			slog.String("workflow", workflowName),
			slog.String("workflow_id", invocationID),
			slog.String("status", status),
			slog.String("error", err.Error()),
		)
		return mapped
	}

	s.metrics.IncWorkflowCompleted(operation, "success")
	s.metrics.ObserveWorkflowDuration(operation, time.Since(start))
	s.logger.Info("auth workflow completed",
		slog.String("workflow", workflowName),
		slog.String("workflow_id", invocationID),
		slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
	)
	return nil
}

// translate maps a workflow error to the orchestrator error taxonomy.
func (s *AuthService) translate(err error) (status string, mapped error) {
	if workflow.IsTimeout(err) {
		return "timeout", ErrWorkflowTimeout
	}
	switch workflow.FailureType(err) {
	case workflow.FailureEmailTaken:
		return "domain_failure", ErrEmailTaken
	case workflow.FailureInvalidCredentials:
		return "domain_failure", ErrInvalidCredentials
	}
	return "error", fmt.Errorf("%w: %v", ErrWorkflowFailed, err)
}
