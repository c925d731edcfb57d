package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/kinobi/internal/config"
	"github.com/dukerupert/kinobi/internal/logging"
	"github.com/dukerupert/kinobi/internal/metrics"
	"github.com/dukerupert/kinobi/internal/server"
	"github.com/dukerupert/kinobi/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default $KINOBI_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel)
	m := metrics.New()

	st, db, err := store.Open(cfg, logger.With("component", "store"), m)
	if err != nil {
		slog.Error("failed to open database", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.New(st, m, server.Config{
		AppVersion: cfg.AppVersion,
		RateLimit:  cfg.RateLimit,
	}, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Drop expired rate-limit windows.
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := srv.RateLimiter().Sweep(); n > 0 {
					slog.Debug("rate limiter swept", "expired", n)
				}
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	go func() {
		slog.Info("kinobi starting", "addr", ":"+cfg.Port, "store", cfg.Store, "version", cfg.AppVersion)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	cleanupCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
