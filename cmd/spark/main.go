// Command spark runs the demo HTTP/1.x server.
//
// Usage:
//
//	spark [-config spark.yaml] [-port 8080] [-metrics-addr 127.0.0.1:9090] [-log-level info]
//
// Flags override values from the config file. The server stops on SIGINT or
// SIGTERM.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/spark/pkg/spark/config"
	"github.com/yourusername/spark/pkg/spark/metrics"
	"github.com/yourusername/spark/pkg/spark/server"
)

// metricsShutdownTimeout bounds the metrics listener shutdown.
const metricsShutdownTimeout = 5 * time.Second

// options holds the command line flags
type options struct {
	ConfigPath  string
	Port        int
	MetricsAddr string
	LogLevel    string
}

func main() {
	var opts options
	flag.StringVar(&opts.ConfigPath, "config", "", "Path to a YAML config file")
	flag.IntVar(&opts.Port, "port", -1, "Port to listen on (overrides config)")
	flag.StringVar(&opts.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (overrides config)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("spark exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return nil, err
		}
	}

	if opts.Port >= 0 {
		cfg.Server.Port = opts.Port
	}
	if opts.MetricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = opts.MetricsAddr
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run serves until ctx is cancelled or either listener fails.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var m *metrics.Collector
	if cfg.Metrics.Enabled {
		m = metrics.New(metrics.Options{RuntimeMetrics: cfg.Metrics.Runtime})
	}

	srv, err := server.New(cfg.ServerConfig(logger, m), routes())
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.ListenAndServe(ctx)
	})

	if m != nil {
		g.Go(func() error {
			return serveMetrics(ctx, cfg.Metrics.Addr, m, logger)
		})
	}

	return g.Wait()
}

// serveMetrics exposes m on addr until ctx is done.
func serveMetrics(ctx context.Context, addr string, m *metrics.Collector, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	hs := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics listening", slog.String("addr", addr))
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()

	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}
