// Package session implements the session cookie lifecycle.
//
// The codec produces two cookie variants: an active cookie carrying a
// session id, and a blank cookie whose immediate expiry tells the
// client to discard whatever it was holding under the same name.
package session

import (
	"net/http"
	"time"
)

// DefaultCookieName is used when no name is configured.
const DefaultCookieName = "auth_session"

// Codec encodes session identifiers as HTTP cookies.
// It is a pure transformation; both methods are safe for concurrent use.
type Codec struct {
	name string
	// secure is false only in development mode, to allow plain-HTTP
	// local testing.
	secure bool
}

// NewCodec creates a Codec. An empty name falls back to DefaultCookieName.
func NewCodec(name string, secure bool) *Codec {
	if name == "" {
		name = DefaultCookieName
	}
	return &Codec{name: name, secure: secure}
}

// Name returns the configured session cookie name.
func (c *Codec) Name() string {
	return c.name
}

// Active produces a cookie carrying the given session id.
func (c *Codec) Active(sessionID string) *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Value:    sessionID,
		Path:     ".",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Blank produces a cookie that instructs the client to delete any
// previously issued session cookie. Sending it when the client holds
// no cookie is a harmless no-op.
func (c *Codec) Blank() *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     ".",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
