package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inferlab/inquest/internal/api"
	"github.com/inferlab/inquest/internal/config"
	"github.com/inferlab/inquest/internal/kbfile"
)

// newLogger builds the production logger at the configured level. Bad
// levels fall back to info rather than refusing to start.
func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}

	logger := newLogger(config.LogLevel())
	defer func() { _ = logger.Sync() }()

	kb, err := kbfile.Load(config.KBPath())
	if err != nil {
		logger.Fatal("failed to load knowledge base", zap.String("path", config.KBPath()), zap.Error(err))
	}
	logger.Info("knowledge base loaded",
		zap.String("name", kb.Name),
		zap.Int("contexts", len(kb.Contexts())),
		zap.Int("rules", len(kb.Rules())))

	ctx := context.Background()

	// The archive is optional; without DATABASE_URL finished consultations
	// stay in memory until the janitor drops them.
	var pool *pgxpool.Pool
	if dbURL := config.DatabaseURL(); dbURL != "" {
		pool, err = pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}
		logger.Info("connected to database")
	} else {
		logger.Info("running without consultation archive")
	}

	app := api.NewApp(kb, pool, logger)

	// Start background services
	app.Janitor.Start()

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	// Stop background services and abort live consultations
	app.Janitor.Stop()
	app.Svc.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
