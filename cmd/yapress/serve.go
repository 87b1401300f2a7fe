package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/yapress/yapress/internal/cache"
	"github.com/yapress/yapress/internal/config"
	"github.com/yapress/yapress/internal/events"
	"github.com/yapress/yapress/internal/handler"
	"github.com/yapress/yapress/internal/metrics"
	"github.com/yapress/yapress/internal/middleware"
	"github.com/yapress/yapress/internal/render"
	"github.com/yapress/yapress/internal/repository"
	"github.com/yapress/yapress/internal/repository/memory"
	"github.com/yapress/yapress/internal/server"
	"github.com/yapress/yapress/internal/service"
	"github.com/yapress/yapress/internal/session"
	"github.com/yapress/yapress/internal/wordfilter"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), a.cfg, a.logger)
		},
	}
}

// serve wires every component and blocks until shutdown. Components are
// registered with the server in dependency order so LIFO shutdown closes
// consumers before the stores they use.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	srv := server.New(nil, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	recorder, metricsHandler, err := initMetrics(cfg)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg, logger, srv)
	if err != nil {
		return err
	}

	sessions, limiter, health, err := openCache(ctx, cfg, logger, srv, store)
	if err != nil {
		return err
	}

	filter, err := initFilter(ctx, cfg, logger, srv)
	if err != nil {
		return err
	}

	publisher := events.NewNoop()
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewPublisher(events.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic), logger, recorder)
		srv.OnShutdown("events", publisher.Close)
		logger.Info("kafka_events_enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	renderer, err := render.NewHTML()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	users := service.NewUserService(store, recorder)
	router := handler.NewRouter(handler.RouterConfig{
		Logger:   logger,
		Renderer: renderer,
		Metrics:  recorder,
		Notes:    service.NewNoteService(store, publisher, recorder),
		News:     service.NewNewsService(store, publisher, recorder, cfg.NewsPageSize),
		Comments: service.NewCommentService(store, filter, publisher, recorder),
		Users:    users,
		Sessions: sessions,
		Cookie: middleware.SessionCookie{
			Name:   cfg.SessionCookieName,
			Secure: !cfg.IsDevelopment(),
			TTL:    cfg.SessionTTL,
		},
		Security: middleware.SecurityConfig{
			IsDevelopment:      cfg.IsDevelopment(),
			MaxRequestBodySize: cfg.MaxRequestBodySize,
		},
		RateLimit: middleware.RateLimitConfig{
			Logger:  logger,
			Limiter: limiter,
			Enabled: cfg.RateLimitAuthEnabled && limiter != nil,
			RPS:     cfg.RateLimitAuthRPS,
			Burst:   cfg.RateLimitAuthBurst,
		},
		Health:         health,
		MetricsHandler: metricsHandler,
	})
	srv.SetHandler(router)

	logger.Info("starting_server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"store", storeKind(cfg),
		"metrics", cfg.MetricsEnabled,
	)

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func storeKind(cfg *config.Config) string {
	if cfg.UseMemoryStore() {
		return "memory"
	}
	return "postgres"
}

// initMetrics returns a Prometheus-backed recorder and its /metrics handler,
// or a no-op recorder and no handler when metrics are disabled.
func initMetrics(cfg *config.Config) (metrics.Recorder, *handler.MetricsHandler, error) {
	if !cfg.MetricsEnabled {
		return metrics.NewNoop(), nil, nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	recorder, err := metrics.NewPrometheus(reg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	return recorder, handler.NewMetricsHandler(reg), nil
}

// openStore connects to PostgreSQL, or falls back to the in-memory store
// when no database is configured.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, srv *server.Server) (service.Store, error) {
	if cfg.UseMemoryStore() {
		logger.Warn("memory_store_enabled", "reason", "DATABASE_URL not set, content is lost on restart")
		return memory.New(), nil
	}

	if cfg.AutoMigrate {
		if err := repository.MigrateUp(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("auto migrate: %s", sanitizeError(err, cfg.DatabaseURL))
		}
		logger.Info("migrations_applied")
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database_connect_failed",
			"error", sanitizeError(err, cfg.DatabaseURL),
			"database_url", redactURL(cfg.DatabaseURL),
		)
		return nil, errors.New("failed to connect to database")
	}
	srv.OnShutdown("database", func(context.Context) error {
		repo.Close()
		return nil
	})
	logger.Info("database_connected")

	return repo, nil
}

// openCache connects to Redis for sessions and auth rate limiting. Without
// Redis, sessions live in process memory and the limiter is nil.
func openCache(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	srv *server.Server,
	store service.Store,
) (session.Store, middleware.IPLimiter, *handler.HealthHandler, error) {
	if cfg.RedisURL == "" {
		logger.Warn("memory_sessions_enabled", "reason", "REDIS_URL not set, auth rate limiting is off")
		return session.NewMemoryStore(cfg.SessionTTL), nil, handler.NewHealthHandler(store, nil), nil
	}

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("redis_connect_failed",
			"error", sanitizeError(err, cfg.RedisURL),
			"redis_url", redactURL(cfg.RedisURL),
		)
		return nil, nil, nil, errors.New("failed to connect to Redis")
	}
	srv.OnShutdown("redis", func(context.Context) error {
		return cacheClient.Close()
	})
	logger.Info("redis_connected")

	return cacheClient.Sessions(cfg.SessionTTL), cacheClient, handler.NewHealthHandler(store, cacheClient), nil
}

// initFilter builds the banned-word filter from the YAML file when one is
// configured (reloading it on change), otherwise from the environment.
func initFilter(ctx context.Context, cfg *config.Config, logger *slog.Logger, srv *server.Server) (*wordfilter.Filter, error) {
	if cfg.BannedWordsFile == "" {
		filter, err := wordfilter.New(filterRules(cfg))
		if err != nil {
			return nil, fmt.Errorf("banned words: %w", err)
		}
		return filter, nil
	}

	rules, err := wordfilter.LoadFile(cfg.BannedWordsFile)
	if err != nil {
		return nil, err
	}
	filter, err := wordfilter.New(rules)
	if err != nil {
		return nil, fmt.Errorf("banned words %s: %w", cfg.BannedWordsFile, err)
	}

	watcher, err := wordfilter.NewWatcher(cfg.BannedWordsFile, filter, logger)
	if err != nil {
		return nil, err
	}
	go watcher.Run(ctx)
	srv.OnShutdown("wordfilter", watcher.Close)
	logger.Info("word_list_watch_started", "path", cfg.BannedWordsFile, "words", len(rules.Words))

	return filter, nil
}

// filterRules maps environment settings to filter rules.
func filterRules(cfg *config.Config) wordfilter.Rules {
	return wordfilter.Rules{
		Words:         cfg.BannedWords,
		Match:         wordfilter.Mode(cfg.BannedWordsMatch),
		CaseSensitive: cfg.BannedWordsCaseSensitive,
	}
}
