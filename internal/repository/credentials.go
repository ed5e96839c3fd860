package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sessiongate/sessiongate/internal/model"
)

// CreateUserWithCredentials inserts the user row and its credentials
// row in a single transaction. Emails are stored lowercased. Returns
// ErrEmailExists when the email is already registered.
//
// Only the sign-up workflow activity calls this.
func (r *Repository) CreateUserWithCredentials(ctx context.Context, firstName, lastName, email, hashedPassword string) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var userID string
	err = tx.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name)
		VALUES ($1, $2)
		RETURNING id
	`, firstName, lastName).Scan(&userID)
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_credentials (user_id, email, hashed_password)
		VALUES ($1, $2, $3)
	`, userID, strings.ToLower(email), hashedPassword)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrEmailExists
		}
		return "", fmt.Errorf("failed to create credentials: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return userID, nil
}

// GetCredentialsByEmail retrieves credentials by lowercased email.
func (r *Repository) GetCredentialsByEmail(ctx context.Context, email string) (*model.UserCredentials, error) {
	query := `
		SELECT user_id, email, hashed_password, created_at, updated_at
		FROM user_credentials
		WHERE email = $1
	`

	var creds model.UserCredentials
	err := r.pool.QueryRow(ctx, query, strings.ToLower(email)).Scan(
		&creds.UserID,
		&creds.Email,
		&creds.HashedPassword,
		&creds.CreatedAt,
		&creds.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to get credentials by email: %w", err)
	}

	return &creds, nil
}
