package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sessiongate/sessiongate/internal/model"
)

// ValidateSession looks up an unexpired session together with its user
// in a single query. Returns ErrSessionNotFound for unknown, expired,
// or orphaned (user row missing) sessions; any other error means the
// database itself failed and must not be mistaken for "no session".
func (r *Repository) ValidateSession(ctx context.Context, sessionID string) (*model.Session, *model.User, error) {
	// Cookie values are attacker-controlled. Anything that is not a
	// UUID cannot match a session row, and must not surface as a
	// database error.
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, nil, ErrSessionNotFound
	}

	query := `
		SELECT s.id, s.user_id, s.expires_at, s.created_at, s.updated_at,
		       u.id, u.first_name, u.last_name, u.created_at, u.updated_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1 AND s.expires_at > now()
	`

	var sess model.Session
	var user model.User
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&sess.ID,
		&sess.UserID,
		&sess.ExpiresAt,
		&sess.CreatedAt,
		&sess.UpdatedAt,
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("failed to validate session: %w", err)
	}

	return &sess, &user, nil
}

// CreateSession inserts a new session for the given user with the
// given time-to-live and returns the stored session.
func (r *Repository) CreateSession(ctx context.Context, userID string, ttl time.Duration) (*model.Session, error) {
	query := `
		INSERT INTO sessions (user_id, expires_at)
		VALUES ($1, now() + $2)
		RETURNING id, user_id, expires_at, created_at, updated_at
	`

	var sess model.Session
	err := r.pool.QueryRow(ctx, query, userID, ttl).Scan(
		&sess.ID,
		&sess.UserID,
		&sess.ExpiresAt,
		&sess.CreatedAt,
		&sess.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &sess, nil
}

// DeleteSession removes a session by id. Deleting a session that does
// not exist is not an error.
func (r *Repository) DeleteSession(ctx context.Context, sessionID string) error {
	query := `DELETE FROM sessions WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// DeleteExpiredSessions removes sessions past their expiry and returns
// the number of rows deleted.
func (r *Repository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= now()`

	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}
