package handler

import (
	"net/http"

	"github.com/sessiongate/sessiongate/internal/auth"
)

// UserHandler serves identity data for the authenticated user.
type UserHandler struct{}

// NewUserHandler creates a new UserHandler.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me handles GET /api/v1/me.
// The session middleware has already resolved the user; this handler
// only reads the request context.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
