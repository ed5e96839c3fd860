package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.temporal.io/sdk/temporal"

	"github.com/sessiongate/sessiongate/internal/auth"
	"github.com/sessiongate/sessiongate/internal/model"
	"github.com/sessiongate/sessiongate/internal/repository"
)

// DefaultSessionTTL is how long a session issued by the login activity
// lives unless configured otherwise.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Activities holds the dependencies of the auth activities. One
// instance is registered per worker process.
type Activities struct {
	repo       *repository.Repository
	logger     *slog.Logger
	sessionTTL time.Duration
}

// NewActivities creates the activity set backed by the given repository.
// A non-positive sessionTTL falls back to DefaultSessionTTL.
func NewActivities(repo *repository.Repository, logger *slog.Logger, sessionTTL time.Duration) *Activities {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &Activities{repo: repo, logger: logger, sessionTTL: sessionTTL}
}

// SignUp hashes the password and commits the user and credentials rows
// atomically. A duplicate email is a non-retryable domain failure.
func (a *Activities) SignUp(ctx context.Context, input model.SignUpInput) (string, error) {
	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return "", err
	}

	userID, err := a.repo.CreateUserWithCredentials(ctx, input.FirstName, input.LastName, input.Email, hashed)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return "", temporal.NewNonRetryableApplicationError("email already exists", FailureEmailTaken, err)
		}
		return "", err
	}

	a.logger.Info("user created", slog.String("user_id", userID))
	return userID, nil
}

// Login verifies the credential and creates a session on success.
// Unknown email and bad password both collapse into one non-retryable
// invalid-credentials failure so callers cannot probe for accounts.
func (a *Activities) Login(ctx context.Context, input model.LoginInput) (string, error) {
	creds, err := a.repo.GetCredentialsByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialsNotFound) {
			return "", invalidCredentials(err)
		}
		return "", err
	}

	match, err := auth.VerifyPassword(input.Password, creds.HashedPassword)
	if err != nil {
		return "", err
	}
	if !match {
		return "", invalidCredentials(nil)
	}

	sess, err := a.repo.CreateSession(ctx, creds.UserID, a.sessionTTL)
	if err != nil {
		return "", err
	}

	a.logger.Info("session created",
		slog.String("session_id", sess.ID),
		slog.String("user_id", sess.UserID),
	)
	return sess.ID, nil
}

func invalidCredentials(cause error) error {
	return temporal.NewNonRetryableApplicationError("invalid credentials", FailureInvalidCredentials, cause)
}
