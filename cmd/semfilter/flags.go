package main

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath      string
	LogLevel        string
	LogFormat       string
	Debug           bool
	MetricsPort     int
	ShutdownTimeout time.Duration
	PublishLogs     bool
	List            bool
	Describe        string
	ShowVersion     bool
	ShowHelp        bool
	Validate        bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*CLIConfig, error) {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	fs.StringVar(&cfg.ConfigPath, "config",
		getEnv("SEMFILTER_CONFIG", ""),
		"Path to host configuration file, JSON or YAML (env: SEMFILTER_CONFIG)")

	fs.StringVar(&cfg.ConfigPath, "c",
		getEnv("SEMFILTER_CONFIG", ""),
		"Path to host configuration file, JSON or YAML (env: SEMFILTER_CONFIG)")

	fs.StringVar(&cfg.LogLevel, "log-level",
		getEnv("SEMFILTER_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: SEMFILTER_LOG_LEVEL)")

	fs.StringVar(&cfg.LogFormat, "log-format",
		getEnv("SEMFILTER_LOG_FORMAT", "json"),
		"Log format: json, text (env: SEMFILTER_LOG_FORMAT)")

	fs.BoolVar(&cfg.Debug, "debug",
		getEnvBool("SEMFILTER_DEBUG", false),
		"Enable debug mode (env: SEMFILTER_DEBUG)")

	fs.IntVar(&cfg.MetricsPort, "metrics-port",
		getEnvInt("SEMFILTER_METRICS_PORT", 9090),
		"Prometheus metrics port, 0 to disable (env: SEMFILTER_METRICS_PORT)")

	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout",
		getEnvDuration("SEMFILTER_SHUTDOWN_TIMEOUT", 10*time.Second),
		"Graceful shutdown timeout (env: SEMFILTER_SHUTDOWN_TIMEOUT)")

	fs.BoolVar(&cfg.PublishLogs, "publish-logs",
		getEnvBool("SEMFILTER_PUBLISH_LOGS", false),
		"Publish component logs to NATS (env: SEMFILTER_PUBLISH_LOGS)")

	fs.BoolVar(&cfg.List, "list", false, "List registered services and exit")
	fs.StringVar(&cfg.Describe, "describe", "", "Print configuration template of a service (name or uid) and exit")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	fs.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	fs.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")
	fs.BoolVar(&cfg.Validate, "validate", false, "Validate component configurations and exit")

	fs.Usage = func() {
		printDetailedHelp(fs)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Override log level if debug is set
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	if !slices.Contains([]string{"json", "text"}, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	if cfg.MetricsPort < 0 || cfg.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", cfg.MetricsPort)
	}

	// Listing and describing only need the built-in registry
	if cfg.List || cfg.Describe != "" {
		return nil
	}

	if cfg.ConfigPath == "" {
		return fmt.Errorf("config file required")
	}
	if _, err := os.Stat(cfg.ConfigPath); err != nil {
		return fmt.Errorf("config file not found: %s", cfg.ConfigPath)
	}

	return nil
}

func printDetailedHelp(fs *flag.FlagSet) {
	_, _ = fmt.Fprintf(os.Stderr, `%s - Butler data filter host

Usage: %s [options]

Options:
`, appName, os.Args[0])
	fs.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # List available services
  %s --list

  # Print the configuration template of the line filter
  %s --describe=saturnin.text.linefilter

  # Validate component configurations only
  %s --config=/etc/semfilter/host.yaml --validate

  # Run with debug logging
  %s --config=host.yaml --log-level=debug --log-format=text

Version: %s
Build: %s
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
