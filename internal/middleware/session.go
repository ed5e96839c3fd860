package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sessiongate/sessiongate/internal/auth"
	"github.com/sessiongate/sessiongate/internal/metrics"
	"github.com/sessiongate/sessiongate/internal/model"
	"github.com/sessiongate/sessiongate/internal/repository"
	"github.com/sessiongate/sessiongate/internal/session"
)

// SessionStore resolves a session id to a consistent (session, user)
// pair. A failed validation returns repository.ErrSessionNotFound; any
// other error means the store itself is unavailable.
type SessionStore interface {
	ValidateSession(ctx context.Context, sessionID string) (*model.Session, *model.User, error)
}

// SessionCache is an optional read-through cache in front of the store.
// Misses are silent; the middleware falls through to the store.
type SessionCache interface {
	GetSession(ctx context.Context, sessionID string) (*model.Session, *model.User)
	SetSession(ctx context.Context, sess *model.Session, user *model.User, ttl time.Duration) error
}

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger   *slog.Logger
	Store    SessionStore
	Codec    *session.Codec
	Cache    SessionCache // nil disables caching
	CacheTTL time.Duration
	Metrics  metrics.Recorder
}

// Session returns the middleware that resolves the current session and
// user from the incoming cookie and publishes them into the request
// context. When no valid session results — cookie absent, unknown,
// or expired — it sets a blank cookie so stale client state gets
// cleared, then lets the request proceed unauthenticated.
//
// A store outage is not an auth failure: it aborts the request with a
// 500 instead of silently treating the caller as anonymous.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.Codec.Name())
			if err != nil || cookie.Value == "" {
				// No cookie at all. The blank cookie is a harmless
				// no-op for clients that genuinely hold nothing.
				cfg.Metrics.IncSessionValidated("none")
				http.SetCookie(w, cfg.Codec.Blank())
				next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), &auth.Identity{})))
				return
			}

			sess, user, err := cfg.lookup(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, repository.ErrSessionNotFound) {
					cfg.Metrics.IncSessionValidated("invalid")
					cfg.Logger.Info("session rejected",
						slog.String("reason", "invalid_or_expired"),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					http.SetCookie(w, cfg.Codec.Blank())
					next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), &auth.Identity{})))
					return
				}

				// Storage outage. Surfacing it as unauthenticated would
				// mask an infrastructure failure as an auth denial.
				cfg.Logger.Error("session store unavailable",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusInternalServerError, "STORE_UNAVAILABLE", "Session store unavailable")
				return
			}

			cfg.Metrics.IncSessionValidated("valid")
			ident := &auth.Identity{User: user, Session: sess}
			next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), ident)))
		})
	}
}

// lookup checks the cache first and falls through to the store.
func (cfg SessionConfig) lookup(ctx context.Context, sessionID string) (*model.Session, *model.User, error) {
	if cfg.Cache != nil {
		if sess, user := cfg.Cache.GetSession(ctx, sessionID); sess != nil {
			cfg.Metrics.IncSessionCacheHit()
			return sess, user, nil
		}
		cfg.Metrics.IncSessionCacheMiss()
	}

	sess, user, err := cfg.Store.ValidateSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Cache != nil {
		// Best effort; a cache write failure never fails the request.
		_ = cfg.Cache.SetSession(ctx, sess, user, cfg.CacheTTL)
	}

	return sess, user, nil
}

// RequireAuth returns a middleware that short-circuits requests without
// an authenticated user. It must run after Session.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.UserFromContext(r.Context()) == nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeError writes a JSON error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":{"code":"` + code + `","message":"` + message + `"}}`))
}
