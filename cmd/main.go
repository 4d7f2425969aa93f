/*
Package main is the entry point for the storyauth service.

It loads configuration, initializes the global logger, opens the configured credential
store, wires the auth service and optional features (proof-of-work, asset storage)
into the HTTP router, and shuts the server down gracefully on SIGINT or SIGTERM.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storyauth/internal/app/auth"
	"storyauth/internal/app/db"
	"storyauth/internal/app/storage"
	"storyauth/internal/app/user"
	"storyauth/internal/configs"
	"storyauth/internal/handler"
	"storyauth/internal/pkg/auth/jwt"
	"storyauth/internal/pkg/limiter"
	"storyauth/internal/pkg/logx"
	"storyauth/internal/pkg/metrics"
	"storyauth/internal/pkg/password"
	"storyauth/internal/pkg/pow"
)

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Str("store_driver", cfg.StoreDriver).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Int("pow_difficulty", cfg.PowDifficulty).
		Bool("assets_enabled", cfg.S3Enabled()).
		Msg("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logx.Fatal(err, "Failed to open credential store", "driver", cfg.StoreDriver)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logx.Error(err, "Failed to close credential store")
		}
	}()

	issuer, err := jwt.NewIssuer(cfg.JWTSecret)
	if err != nil {
		logx.Fatal(err, "Failed to create token issuer")
	}

	m := metrics.New()

	hasher := password.NewHasher(
		password.WithConcurrency(cfg.HashConcurrency),
		password.WithObserver(m.ObserveHash),
	)

	authLimiter := limiter.NewIPRateLimiter(
		limiter.PerMinute(cfg.AuthRatePerMinute),
		cfg.AuthBurst,
		limiter.WithRejectHook(m.RateLimited),
	)
	defer authLimiter.Stop()

	deps := &handler.AppDeps{
		Config:      cfg,
		Auth:        auth.NewService(store, hasher, issuer, auth.WithOutcomeObserver(m.AuthOutcome)),
		Tokens:      issuer,
		AuthLimiter: authLimiter,
		Metrics:     m,
	}

	if cfg.PowEnabled() {
		deps.Pow = pow.NewManager(cfg.PowDifficulty)
		defer deps.Pow.Stop()
	}

	if cfg.S3Enabled() {
		deps.StorageService, err = storage.NewStorageService(ctx, storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			logx.Fatal(err, "Failed to initialize asset storage")
		}
	}

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler.Router(deps),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info("storyauth server starting", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}

// openStore opens the credential store selected by cfg.StoreDriver and returns it
// with a function that releases it.
func openStore(ctx context.Context, cfg *configs.AppConfig) (user.Store, func() error, error) {
	switch cfg.StoreDriver {
	case configs.StoreDriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return db.NewPostgresStore(pool), func() error { pool.Close(); return nil }, nil

	case configs.StoreDriverSQLite:
		s, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case configs.StoreDriverBolt:
		s, err := db.OpenBolt(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case configs.StoreDriverMemory:
		logx.Warn("Using in-memory credential store; users are lost on restart")
		return user.NewMemoryStore(), func() error { return nil }, nil
	}

	return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
