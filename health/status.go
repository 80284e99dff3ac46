// Package health turns the health and flow counters of component instances
// into status reports suitable for a health endpoint.
package health

import (
	"regexp"
	"time"

	"github.com/c360/semfilter/component"
)

// Status values
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// DegradedErrorRate is the evaluation error rate above which a healthy
// instance is reported as degraded
const DegradedErrorRate = 0.1

var (
	urlRegex        = regexp.MustCompile(`(?:https?|nats|wss?)://[^\s]+`)
	unixPathRegex   = regexp.MustCompile(`/[a-zA-Z0-9/_.-]+`)
	ipAddrRegex     = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)
	credentialRegex = regexp.MustCompile(`(?i)(password|token|secret|credential)[^a-zA-Z]*[:=][^,\s}]+`)
)

// Status is the health of one instance or of the whole host
type Status struct {
	Component   string    `json:"component"`
	Healthy     bool      `json:"healthy"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	SubStatuses []Status  `json:"sub_statuses,omitempty"`
	Metrics     *Metrics  `json:"metrics,omitempty"`
}

// Metrics are the counters reported with an instance status
type Metrics struct {
	Uptime           time.Duration `json:"uptime"`
	ErrorCount       int           `json:"error_count"`
	RecordsEvaluated int64         `json:"records_evaluated"`
	ErrorRate        float64       `json:"error_rate"`
	LastActivity     time.Time     `json:"last_activity,omitempty"`
}

func newStatus(name, status, message string) Status {
	return Status{
		Component: name,
		Healthy:   status == StatusHealthy,
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// FromComponent reports the health of one instance. Error messages are
// stripped of URLs, paths, addresses and credentials.
func FromComponent(name string, comp component.Discoverable) Status {
	h := comp.Health()
	flow := comp.DataFlow()

	var s Status
	switch {
	case !h.Healthy:
		s = newStatus(name, StatusUnhealthy, sanitize(h.LastError))
	case flow.ErrorRate > DegradedErrorRate:
		s = newStatus(name, StatusDegraded, sanitize(h.LastError))
	default:
		s = newStatus(name, StatusHealthy, "Component healthy")
	}
	s.Metrics = &Metrics{
		Uptime:           h.Uptime,
		ErrorCount:       h.ErrorCount,
		RecordsEvaluated: flow.RecordsEvaluated,
		ErrorRate:        flow.ErrorRate,
		LastActivity:     flow.LastActivity,
	}
	return s
}

func sanitize(msg string) string {
	msg = urlRegex.ReplaceAllString(msg, "[URL]")
	msg = unixPathRegex.ReplaceAllString(msg, "[PATH]")
	msg = ipAddrRegex.ReplaceAllString(msg, "[IP]")
	return credentialRegex.ReplaceAllString(msg, "[REDACTED]")
}

// IsUnhealthy reports whether the status is unhealthy
func (s Status) IsUnhealthy() bool {
	return s.Status == StatusUnhealthy
}
