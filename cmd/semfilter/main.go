// Package main implements the semfilter host: it registers the built-in
// data filter services, loads component configurations from a host
// document, a NATS KV bucket and the environment, and creates the
// configured component instances.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360/semfilter/component"
	"github.com/c360/semfilter/componentregistry"
	"github.com/c360/semfilter/config"
	"github.com/c360/semfilter/health"
	"github.com/c360/semfilter/metric"
	"github.com/c360/semfilter/pkg/retry"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semfilter"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet(appName, flag.ExitOnError)
	cliCfg, err := parseFlags(fs, os.Args[1:])
	if err != nil {
		return err
	}
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printDetailedHelp(fs)
		return nil
	}

	logger := setupLogger(os.Stderr, cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	metricsRegistry := metric.NewMetricsRegistry()
	registry, err := setupRegistry(metricsRegistry)
	if err != nil {
		return err
	}

	if cliCfg.List {
		return printServices(os.Stdout, registry)
	}
	if cliCfg.Describe != "" {
		return describeService(os.Stdout, registry, cliCfg.Describe)
	}

	slog.Info("Starting semfilter",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	doc, err := config.LoadDocument(cliCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	nc, kv, err := connectNATS(ctx, doc, cliCfg.PublishLogs)
	if err != nil {
		return err
	}
	if nc != nil {
		defer nc.Close()
	}

	deps := component.Dependencies{
		MetricsRegistry: metricsRegistry,
		Logger:          logger,
	}
	if cliCfg.PublishLogs && nc != nil {
		deps.LogPublisher = nc
	}

	h := &host{
		registry: registry,
		loader:   config.NewLoader(logger),
		kvRetry:  retry.Startup(),
		deps:     deps,
		logger:   logger,
	}
	if kv != nil {
		h.kv = config.NewKVSource(kv, h.loader)
	}

	if cliCfg.Validate {
		if err := h.validate(ctx, doc.Components); err != nil {
			return err
		}
		slog.Info("Configuration is valid", "components", len(doc.Components.Enabled()))
		return nil
	}

	if err := h.start(ctx, doc.Components); err != nil {
		return err
	}
	defer h.stop()

	return runWithSignalHandling(ctx, registry, metricsRegistry, cliCfg)
}

// setupRegistry creates the component registry with all built-in services
func setupRegistry(metricsRegistry *metric.MetricsRegistry) (*component.Registry, error) {
	registry := component.NewRegistry()
	registry.SetMetrics(metricsRegistry.CoreMetrics())
	if err := componentregistry.Register(registry); err != nil {
		return nil, fmt.Errorf("register components: %w", err)
	}

	factories := registry.ListFactories()
	slog.Debug("Component factories registered", "count", len(factories), "factories", factories)
	return registry, nil
}

// connectNATS connects when the document names a KV bucket or log
// publishing is requested. It returns nil values otherwise.
func connectNATS(ctx context.Context, doc *config.Document, publishLogs bool) (*nats.Conn, jetstream.KeyValue, error) {
	if doc.NATS.Bucket == "" && !publishLogs {
		return nil, nil, nil
	}

	natsURL := strings.Join(doc.NATS.URLs, ",")
	// Environment variable override takes precedence
	if envURL := os.Getenv("SEMFILTER_NATS_URLS"); envURL != "" {
		natsURL = envURL
	}

	slog.Info("Connecting to NATS", "url", natsURL)
	nc, err := retry.DoValue(ctx, retry.Startup(), func() (*nats.Conn, error) {
		return nats.Connect(natsURL,
			nats.Name(appName),
			nats.Timeout(10*time.Second),
		)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}

	if doc.NATS.Bucket == "" {
		return nc, nil, nil
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("create JetStream context: %w", err)
	}

	kv, err := retry.DoValue(ctx, retry.Startup(), func() (jetstream.KeyValue, error) {
		kvCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return js.KeyValue(kvCtx, doc.NATS.Bucket)
	})
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("open KV bucket %s: %w", doc.NATS.Bucket, err)
	}
	slog.Info("Using KV bucket for option values", "bucket", doc.NATS.Bucket)
	return nc, kv, nil
}

// runWithSignalHandling serves metrics until a shutdown signal arrives
func runWithSignalHandling(
	ctx context.Context,
	registry *component.Registry,
	metricsRegistry *metric.MetricsRegistry,
	cliCfg *CLIConfig,
) error {
	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	errCh := make(chan error, 1)
	var server *metric.Server
	if cliCfg.MetricsPort > 0 {
		server = metric.NewServer(cliCfg.MetricsPort, "/metrics", metricsRegistry)
		server.SetHealthCheck(func() (bool, any) {
			status := health.Report(appName, registry)
			return !status.IsUnhealthy(), status
		})
		go func() {
			errCh <- server.Start()
		}()
		slog.Info("Metrics server started", "address", server.Address())
	}

	slog.Info("semfilter started")

	select {
	case <-signalCtx.Done():
		slog.Info("Received shutdown signal")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("metrics server: %w", err)
		}
	}

	if server != nil {
		done := make(chan error, 1)
		go func() { done <- server.Stop() }()
		select {
		case err := <-done:
			if err != nil {
				slog.Error("Error stopping metrics server", "error", err)
			}
		case <-time.After(cliCfg.ShutdownTimeout):
			return fmt.Errorf("graceful shutdown timed out after %s", cliCfg.ShutdownTimeout)
		}
	}

	final := health.Report(appName, registry)
	slog.Info("semfilter shutdown complete", "status", final.Status, "components", len(final.SubStatuses))
	return nil
}
