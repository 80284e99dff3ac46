package component

import (
	"log/slog"

	"github.com/c360/semfilter/metric"
)

// Dependencies provides the external collaborators a factory may use
type Dependencies struct {
	MetricsRegistry *metric.MetricsRegistry // Metrics registry for Prometheus (can be nil)
	Logger          *slog.Logger            // Structured logger (can be nil, defaults to slog.Default())
	LogPublisher    Publisher               // Remote log sink such as *nats.Conn (can be nil)
}

// GetLogger returns the configured logger or a default logger if none is provided
func (d *Dependencies) GetLogger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// GetLoggerWithComponent returns a logger configured with component context
func (d *Dependencies) GetLoggerWithComponent(componentName string) *slog.Logger {
	return d.GetLogger().With("component", componentName)
}

// ComponentLogger returns a logger for an instance that also publishes to
// LogPublisher when one is configured
func (d *Dependencies) ComponentLogger(service, instance string) *Logger {
	return NewLogger(service, instance, d.LogPublisher, d.GetLogger())
}
