package workflow

import (
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/sessiongate/sessiongate/internal/model"
)

// Activity type names registered on the worker.
const (
	signUpActivityName = "sign-up-activity"
	loginActivityName  = "login-activity"
)

// activityStartToClose bounds a single activity attempt. The workflow
// run timeout set by the gateway is the outer limit.
const activityStartToClose = 5 * time.Second

// SignUp is the sign-up workflow definition. It delegates all real
// work (hashing, uniqueness check, atomic insert) to one activity.
func SignUp(ctx workflow.Context, input model.SignUpInput) (string, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: activityStartToClose,
	})

	var userID string
	if err := workflow.ExecuteActivity(ctx, signUpActivityName, input).Get(ctx, &userID); err != nil {
		return "", err
	}
	return userID, nil
}

// Login is the login workflow definition. On success it returns the id
// of the freshly created session.
func Login(ctx workflow.Context, input model.LoginInput) (string, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: activityStartToClose,
	})

	var sessionID string
	if err := workflow.ExecuteActivity(ctx, loginActivityName, input).Get(ctx, &sessionID); err != nil {
		return "", err
	}
	return sessionID, nil
}
