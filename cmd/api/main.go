// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/trailrace/internal/admin"
	"github.com/carterperez-dev/trailrace/internal/auth"
	"github.com/carterperez-dev/trailrace/internal/config"
	"github.com/carterperez-dev/trailrace/internal/contact"
	"github.com/carterperez-dev/trailrace/internal/core"
	"github.com/carterperez-dev/trailrace/internal/events"
	"github.com/carterperez-dev/trailrace/internal/health"
	"github.com/carterperez-dev/trailrace/internal/metrics"
	"github.com/carterperez-dev/trailrace/internal/middleware"
	"github.com/carterperez-dev/trailrace/internal/race"
	"github.com/carterperez-dev/trailrace/internal/registration"
	"github.com/carterperez-dev/trailrace/internal/server"
	"github.com/carterperez-dev/trailrace/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		applied, migErr := core.Migrate(ctx, db.DB)
		if migErr != nil {
			return migErr
		}
		logger.Info("schema migrated", "applied", applied)
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	appMetrics := metrics.New()

	var publisher events.Publisher = events.Nop{}
	if cfg.Events.Enabled {
		amqpPub, pubErr := events.NewAMQPPublisher(cfg.Events, appMetrics)
		if pubErr != nil {
			logger.Warn("event publisher unavailable, events disabled",
				"error", pubErr,
			)
		} else {
			publisher = amqpPub
			logger.Info("event publisher connected", "queue", cfg.Events.Queue)
		}
	}

	tokens := auth.NewTokenCodec(cfg.Auth)
	sessions := auth.NewSessionResolver(
		tokens,
		cfg.Auth.CookieName,
		cfg.IsProduction(),
	)
	admins := auth.NewAdminAllowList(cfg.Auth.AdminEmails)
	logger.Info("session tokens configured",
		"algorithm", "HS256",
		"ttl", tokens.TTL(),
		"admin_emails", len(cfg.Auth.AdminEmails),
	)

	registrationRepo := registration.NewRepository(db.DB)
	admission := registration.NewAdmission(registrationRepo, publisher, appMetrics)
	registrationSvc := registration.NewService(registrationRepo, admission)
	registrationHandler := registration.NewHandler(registrationSvc)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, registrationRepo)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(userSvc, tokens, admins)
	authHandler := auth.NewHandler(authSvc, sessions)

	raceRepo := race.NewRepository(db.DB)
	raceSvc := race.NewService(raceRepo, registration.NewRaceLookup(registrationRepo))
	raceHandler := race.NewHandler(raceSvc)

	contactHandler := contact.NewHandler(
		contact.NewService(contact.NewRepository(db.DB)),
	)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Dependencies: healthHandler,
		DBStats:      db.Stats,
		RedisStats:   redis.PoolStats,
		Races:        raceSvc,
		Pending:      registrationSvc,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	if cfg.Metrics.Enabled {
		router.Use(middleware.Metrics(appMetrics))
	}

	healthHandler.RegisterRoutes(router)
	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, appMetrics.Handler())
	}

	proxies, err := middleware.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return fmt.Errorf("parse trusted proxies: %w", err)
	}

	globalLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerWindow(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
			cfg.RateLimit.Window,
		),
		KeyFunc:  proxies.KeyByIP,
		FailOpen: true,
	})
	authLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(
			cfg.RateLimit.AuthRequests,
			cfg.RateLimit.AuthBurst,
		),
		KeyFunc:  proxies.KeyByIPAndRoute,
		FailOpen: true,
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(globalLimit.Handler)
		r.Use(middleware.Session(sessions))

		authHandler.RegisterRoutes(r, authLimit.Handler)
		userHandler.RegisterRoutes(r)
		userHandler.RegisterAdminRoutes(r)
		raceHandler.RegisterRoutes(r)
		registrationHandler.RegisterRoutes(r)
		registrationHandler.RegisterAdminRoutes(r)
		contactHandler.RegisterRoutes(r)
		adminHandler.RegisterRoutes(r)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := publisher.Close(); err != nil {
		logger.Error("event publisher close error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
