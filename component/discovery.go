package component

import (
	"time"
)

// Discoverable is implemented by every component instance a factory
// produces. The host inspects instances through it without knowing their
// concrete type.
type Discoverable interface {
	// Meta returns basic component information
	Meta() Metadata

	// Health returns current health status
	Health() HealthStatus

	// DataFlow returns current data flow metrics
	DataFlow() FlowMetrics
}

// Metadata describes what a component is
type Metadata struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // service type, e.g. "data_filter"
	Description string `json:"description"`
	Version     string `json:"version"`
}

// HealthStatus describes the current health state of a component
type HealthStatus struct {
	Healthy    bool          `json:"healthy"`
	LastCheck  time.Time     `json:"last_check"`
	ErrorCount int           `json:"error_count"`
	LastError  string        `json:"last_error,omitempty"`
	Uptime     time.Duration `json:"uptime"`
}

// FlowMetrics describes the records that went through a component
type FlowMetrics struct {
	RecordsEvaluated int64     `json:"records_evaluated"`
	RecordsPassed    int64     `json:"records_passed"`
	RecordsDropped   int64     `json:"records_dropped"`
	ErrorRate        float64   `json:"error_rate"`
	LastActivity     time.Time `json:"last_activity"`
}

// Closer is implemented by components holding releasable resources such as
// metric collectors
type Closer interface {
	Close()
}
