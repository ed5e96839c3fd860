package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sessiongate/sessiongate/internal/auth"
	"github.com/sessiongate/sessiongate/internal/model"
	"github.com/sessiongate/sessiongate/internal/service"
	"github.com/sessiongate/sessiongate/internal/session"
)

// SessionDeleter removes a session record, e.g. on logout.
type SessionDeleter interface {
	DeleteSession(ctx context.Context, sessionID string) error
}

// SessionCacheInvalidator drops a cached session entry.
type SessionCacheInvalidator interface {
	DeleteSession(ctx context.Context, sessionID string) error
}

// AuthHandler handles sign-up, login, and logout endpoints.
type AuthHandler struct {
	svc    *service.AuthService
	codec  *session.Codec
	store  SessionDeleter
	cache  SessionCacheInvalidator // nil when caching is disabled
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, codec *session.Codec, store SessionDeleter, cache SessionCacheInvalidator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		codec:  codec,
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// SignUp handles POST /api/v1/auth/signup.
// The durable workflow owns hashing and the uniqueness check; this
// handler only reports the resulting user id.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var input model.SignUpInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	userID, err := h.svc.SignUp(r.Context(), input)
	if err != nil {
		h.writeAuthFailure(w, r, "sign-up", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"userId": userID})
}

// Login handles POST /api/v1/auth/login.
// The session cookie is set only after the workflow has returned a
// concrete session id; no cookie is ever issued speculatively.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input model.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	sessionID, err := h.svc.Login(r.Context(), input)
	if err != nil {
		h.writeAuthFailure(w, r, "login", err)
		return
	}

	http.SetCookie(w, h.codec.Active(sessionID))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout handles POST /api/v1/auth/logout.
// Deletes the current session and clears the client cookie. Requires
// an authenticated session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFromContext(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if err := h.store.DeleteSession(r.Context(), sess.ID); err != nil {
		h.logger.Error("failed to delete session",
			slog.String("error", err.Error()),
			slog.String("session_id", sess.ID),
		)
		writeError(w, http.StatusInternalServerError, "STORE_UNAVAILABLE", "Session store unavailable")
		return
	}
	if h.cache != nil {
		// The cache entry would expire on its own; dropping it just
		// closes the window where a deleted session still validates.
		_ = h.cache.DeleteSession(r.Context(), sess.ID)
	}

	http.SetCookie(w, h.codec.Blank())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// writeAuthFailure maps orchestrator errors onto HTTP responses.
// Domain failures share one generic message so responses never reveal
// whether an email is registered.
func (h *AuthHandler) writeAuthFailure(w http.ResponseWriter, r *http.Request, operation string, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnprocessableEntity, "AUTH_FAILED", "Authentication failed")
	case errors.Is(err, service.ErrWorkflowTimeout):
		writeError(w, http.StatusGatewayTimeout, "WORKFLOW_TIMEOUT", "Operation timed out")
	case errors.Is(err, service.ErrWorkflowFailed):
		h.logger.Error("auth workflow error",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "WORKFLOW_FAILED", "Operation failed")
	default:
		// Input shape validation errors.
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	}
}
