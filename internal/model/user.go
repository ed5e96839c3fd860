// Package model defines domain entities for the application.
package model

import "time"

// User represents an account holder. The gateway only ever reads users;
// creation happens inside the sign-up workflow.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
