// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the BlaBlaBook HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when REDIS_URL is set.
//  5. Run database migrations (idempotent).
//  6. Wire the import engine and HTTP handlers.
//  7. Start the import sweeper and the HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/blablabook/internal/api"
	"github.com/taibuivan/blablabook/internal/core/author"
	"github.com/taibuivan/blablabook/internal/core/book"
	"github.com/taibuivan/blablabook/internal/core/genre"
	"github.com/taibuivan/blablabook/internal/core/importer"
	"github.com/taibuivan/blablabook/internal/library"
	"github.com/taibuivan/blablabook/internal/platform/config"
	"github.com/taibuivan/blablabook/internal/platform/constants"
	"github.com/taibuivan/blablabook/internal/platform/migration"
	"github.com/taibuivan/blablabook/internal/platform/openlibrary"
	pgstore "github.com/taibuivan/blablabook/internal/platform/postgres"
	redisstore "github.com/taibuivan/blablabook/internal/platform/redis"
	"github.com/taibuivan/blablabook/internal/platform/sec"
	"github.com/taibuivan/blablabook/internal/social/notice"
	"github.com/taibuivan/blablabook/internal/social/rate"
	"github.com/taibuivan/blablabook/internal/users/account"
	"github.com/taibuivan/blablabook/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("redis_enabled", cfg.RedisURL != ""),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives until shutdown; background workers stop when it is cancelled.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, cfg.Postgres, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	checks := []api.Check{{
		Name: "postgres",
		Ping: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
	}}

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var guard importer.Guard = importer.NewLocalGuard()
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer closeRedis(log, rdb)

		guard = importer.NewRedisGuard(rdb, cfg.Import.LockTTL, cfg.Import.PollInterval, log)
		checks = append(checks, api.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
		})
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security ───────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	txManager := pgstore.NewTxManager(pool)

	bookRepository := book.NewPostgresRepository(pool)
	authorRepository := author.NewPostgresRepository(pool)
	genreRepository := genre.NewPostgresRepository(pool)

	openLibrary := openlibrary.NewClient(openlibrary.Config{
		BaseURL:           cfg.OpenLibrary.BaseURL,
		CoversURL:         cfg.OpenLibrary.CoversURL,
		UserAgent:         cfg.OpenLibrary.UserAgent,
		Timeout:           cfg.OpenLibrary.Timeout,
		MaxRetries:        cfg.OpenLibrary.MaxRetries,
		RequestsPerSecond: cfg.OpenLibrary.RequestsPerSecond,
	}, log)

	engine := importer.NewEngine(importer.Dependencies{
		Books:   bookRepository,
		Authors: authorRepository,
		Genres:  genreRepository,
		Source:  openLibrary,
		Tx:      txManager,
		Guard:   guard,
		Logger:  log,
	})

	liveness, readiness := api.NewHealthHandlers(log, checks...)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(auth.NewService(auth.NewPostgresUserRepository(pool), tokens, log)),
		Account:   account.NewHandler(account.NewService(account.NewPostgresRepository(pool), log)),
		Books:     book.NewHandler(book.NewService(bookRepository, log)),
		Authors:   author.NewHandler(author.NewService(authorRepository, log)),
		Genres:    genre.NewHandler(genre.NewService(genreRepository, log)),
		Importer:  importer.NewHandler(engine),
		Rates:     rate.NewHandler(rate.NewService(rate.NewPostgresRepository(pool), engine, log)),
		Notices:   notice.NewHandler(notice.NewService(notice.NewPostgresRepository(pool), engine, log)),
		Libraries: library.NewHandler(library.NewService(library.NewPostgresRepository(pool), engine, log)),
	}

	// ── 8. Background Sweeper ─────────────────────────────────────────────
	sweeper := importer.NewSweeper(engine, cfg.Import.SweepInterval, cfg.Import.SweepMaxAgeMinutes, log)
	sweeperDone := make(chan struct{})
	go func() {
		defer close(sweeperDone)
		sweeper.Run(appCtx)
	}()

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(appCtx, cfg, log, tokens, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))

	shutdownErr := server.Shutdown(constants.ShutdownTimeout)
	appCancel()
	<-sweeperDone

	// Detached author lookups still hold pool connections.
	engine.WaitBackground()

	if shutdownErr != nil {
		log.Error("shutdown error", slog.Any("error", shutdownErr))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName), slog.String("version", constants.AppVersion))
}

func closeRedis(log *slog.Logger, rdb *goredis.Client) {
	log.Info("closing redis client")
	if err := rdb.Close(); err != nil {
		log.Error("redis close error", slog.Any("error", err))
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
