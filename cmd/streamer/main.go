// streamer subscribes to Lightning realtime channels and logs every record.
// Usage: go run ./cmd/streamer --config configs/streamer.yaml
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rickgao/lightstream/internal/api"
	"github.com/rickgao/lightstream/internal/auth"
	"github.com/rickgao/lightstream/internal/channel"
	"github.com/rickgao/lightstream/internal/config"
	"github.com/rickgao/lightstream/internal/logging"
	"github.com/rickgao/lightstream/internal/metrics"
	"github.com/rickgao/lightstream/internal/stream"
	"github.com/rickgao/lightstream/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/streamer.yaml", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("starting streamer",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"channels", len(cfg.Stream.Channels),
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("streamer exited", "error", err)
		logCloser.Close()
		os.Exit(1)
	}
	logger.Info("streamer stopped")
}

func run(cfg *config.StreamerConfig, logger *slog.Logger) error {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	subs, err := cfg.Stream.Subscriptions()
	if err != nil {
		return fmt.Errorf("build subscriptions: %w", err)
	}

	checkVenue(ctx, cfg, subs, logger)

	restart := newRestarter(cfg.Restart, logger)
	s, err := stream.New(cfg.Stream.Config(), subs, restart.wrap(logHandlers(logger)), stream.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create stream: %w", err)
	}

	// Start metrics and health server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: createHandler(cfg.Metrics.Path, s),
	}
	go func() {
		logger.Info("starting metrics server", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		server.Shutdown(shutdownCtx)
	}()

	err = restart.Run(ctx, s)
	s.Stop()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// checkVenue logs the exchange health for each subscribed instrument.
// Failures are logged and startup continues.
func checkVenue(ctx context.Context, cfg *config.StreamerConfig, subs *channel.Subscriptions, logger *slog.Logger) {
	var creds *auth.Credentials
	if cfg.API.Key != "" {
		c, err := auth.NewCredentials(cfg.API.Key, cfg.API.Secret)
		if err != nil {
			logger.Warn("ignoring api credentials", "error", err)
		} else {
			creds = c
		}
	}

	client := api.NewClient(cfg.API.RestURL, creds,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
	)

	checkCtx, cancel := context.WithTimeout(ctx, cfg.API.Timeout)
	defer cancel()

	seen := make(map[channel.Instrument]bool)
	for _, name := range subs.Names() {
		_, inst, ok := channel.Parse(string(name))
		if !ok || seen[inst] {
			continue
		}
		seen[inst] = true

		health, err := client.GetHealth(checkCtx, inst.String())
		if err != nil {
			logger.Warn("venue health check failed", "instrument", inst, "error", err)
			continue
		}
		logger.Info("venue health", "instrument", inst, "status", health.Status)
	}

	if creds != nil {
		perms, err := client.GetPermissions(checkCtx)
		if err != nil {
			logger.Warn("api key check failed", "error", err)
			return
		}
		logger.Info("api key verified", "permissions", len(perms))
	}
}

// createHandler serves Prometheus metrics and a JSON health check.
func createHandler(metricsPath string, s *stream.Stream) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		state := s.State()
		health := struct {
			Status   string         `json:"status"`
			State    string         `json:"state"`
			Channels []channel.Name `json:"channels"`
			Version  string         `json:"version"`
		}{
			Status:   "healthy",
			State:    state.String(),
			Channels: s.Channels(),
			Version:  version.String(),
		}
		if state != stream.StateOpen {
			health.Status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
