package model

import (
	"errors"
	"strings"
)

// Validation errors for auth inputs.
var (
	ErrEmailRequired     = errors.New("email is required")
	ErrEmailInvalid      = errors.New("email is invalid")
	ErrPasswordRequired  = errors.New("password is required")
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters")
	ErrFirstNameRequired = errors.New("first name is required")
	ErrLastNameRequired  = errors.New("last name is required")
)

// SignUpInput is the payload delegated to the sign-up workflow.
type SignUpInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Validate checks the input shape. Business rules (email uniqueness)
// belong to the workflow, not here.
func (in SignUpInput) Validate() error {
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if err := validatePassword(in.Password); err != nil {
		return err
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return ErrFirstNameRequired
	}
	if strings.TrimSpace(in.LastName) == "" {
		return ErrLastNameRequired
	}
	return nil
}

// LoginInput is the payload delegated to the login workflow.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the input shape.
func (in LoginInput) Validate() error {
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if in.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ErrEmailInvalid
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}
