package model

import "time"

// Session is the server-side record behind a session cookie.
// A session is valid until ExpiresAt; expiry is enforced by the
// store lookup, not re-checked by callers.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserCredentials holds the login secret for a user.
// Only the workflow worker reads or writes credentials; the gateway
// never touches them.
type UserCredentials struct {
	UserID         string    `json:"user_id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
