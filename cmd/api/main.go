// Package main is the entrypoint for the Sessiongate API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sessiongate/sessiongate/internal/cache"
	"github.com/sessiongate/sessiongate/internal/config"
	"github.com/sessiongate/sessiongate/internal/handler"
	"github.com/sessiongate/sessiongate/internal/metrics"
	"github.com/sessiongate/sessiongate/internal/middleware"
	"github.com/sessiongate/sessiongate/internal/repository"
	"github.com/sessiongate/sessiongate/internal/server"
	"github.com/sessiongate/sessiongate/internal/service"
	"github.com/sessiongate/sessiongate/internal/session"
	"github.com/sessiongate/sessiongate/internal/workflow"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	// Initialize workflow client
	wfClient, err := workflow.Dial(cfg.TemporalAddress, cfg.TemporalNamespace, logger)
	if err != nil {
		logger.Error("failed to connect to Temporal",
			slog.String("error", err.Error()),
			slog.String("address", cfg.TemporalAddress),
		)
		os.Exit(1)
	}
	logger.Info("connected to Temporal", "address", cfg.TemporalAddress)

	// Initialize services
	metricsRecorder := metrics.NewNoop()
	authService := service.NewAuthService(wfClient, cfg.TemporalTaskQueue, cfg.WorkflowRunTimeout, logger, metricsRecorder)

	// Session cookie codec: Secure except in development mode
	codec := session.NewCodec(cfg.SessionCookieName, !cfg.IsDevelopment())

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(authService, codec, repo, cacheClient, logger)
	userHandler := handler.NewUserHandler()

	// Setup router
	r := setupRouter(h, healthHandler, authHandler, userHandler, repo, cacheClient, codec, cfg, logger, metricsRecorder)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Registered first, closed last: requests drain before their
	// dependencies go away.
	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return cacheClient.Close()
	})
	srv.OnShutdown("temporal-client", func(context.Context) error {
		wfClient.Close()
		return nil
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"task_queue", cfg.TemporalTaskQueue,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	repo *repository.Repository,
	cacheClient *cache.Cache,
	codec *session.Codec,
	cfg *config.Config,
	logger *slog.Logger,
	recorder metrics.Recorder,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Health endpoints (no session validation)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root info endpoint
	r.Get("/", h.Hello)

	// Session validation configuration
	sessionCfg := middleware.SessionConfig{
		Logger:   logger,
		Store:    repo,
		Codec:    codec,
		Cache:    cacheClient,
		CacheTTL: cfg.SessionCacheTTL,
		Metrics:  recorder,
	}

	// API v1 routes: every request passes through the session gate
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(sessionCfg))

		// Auth operations (sign-up and login are public by nature)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.SignUp)
			r.Post("/login", authHandler.Login)
			r.With(middleware.RequireAuth()).Post("/logout", authHandler.Logout)
		})

		// Protected operations
		r.With(middleware.RequireAuth()).Get("/me", userHandler.Me)
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
