// cmd/address-server/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"address-validator/internal/app"
	"address-validator/internal/common/config"
	"address-validator/internal/common/logger"
	"address-validator/internal/common/observability"
	"address-validator/internal/graphql"
	"address-validator/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service":     cfg.App.Name,
		"environment": cfg.App.Environment,
	})

	zapLog.Info("Starting address server...",
		zap.String("version", cfg.App.Version),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.Bool("serverSideLogging", cfg.Features.ServerSideLogging),
		zap.Bool("sessions", cfg.Session.Enabled),
	)

	obs := observability.New(cfg.Observability, nil, log)
	defer obs.Shutdown()

	a, err := app.New(cfg, log, obs)
	if err != nil {
		zapLog.Fatal("failed to initialise dependencies", zap.Error(err))
	}
	defer a.Close()

	// Unreachable stores only degrade /ready; requests still get answered.
	ctx := context.Background()
	for name, check := range a.ReadinessChecks() {
		if err := check.Ping(ctx); err != nil {
			zapLog.Warn("dependency not reachable at startup", zap.String("dependency", name), zap.Error(err))
			continue
		}
		zapLog.Info("dependency connected", zap.String("dependency", name))
	}

	schema, err := graphql.NewSchema(a.GraphQLDependencies())
	if err != nil {
		zapLog.Fatal("failed to build graphql schema", zap.Error(err))
	}

	srv := server.New(cfg.Server, server.Options{
		Schema:   schema,
		Logger:   log,
		Checks:   a.ReadinessChecks(),
		GraphiQL: cfg.Features.Debug,
	})

	go func() {
		if err := srv.Start(); err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	timeout := config.GetDuration(cfg.Server.ShutdownTimeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during http shutdown", zap.Error(err))
	}
	if err := a.DrainActivity(shutdownCtx); err != nil {
		zapLog.Warn("Activity writes still pending at shutdown", zap.Error(err))
	}

	zapLog.Info("Address server stopped gracefully")
}
