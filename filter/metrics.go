package filter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/semfilter/metric"
)

// filterMetrics holds Prometheus metrics for one filter instance
type filterMetrics struct {
	registry *metric.MetricsRegistry
	instance string

	// Record counters
	records *prometheus.CounterVec // By status (passed/dropped/error)
	errors  *prometheus.CounterVec // By error_type (evaluation/format)

	// Performance metrics
	evaluationDuration prometheus.Histogram

	// Effectiveness metrics
	passRate prometheus.Gauge // passed / evaluated
}

// newFilterMetrics creates and registers filter metrics with the provided
// registry. Instances share metric names and are told apart by a constant
// component label.
func newFilterMetrics(registry *metric.MetricsRegistry, instance string) (*filterMetrics, error) {
	if registry == nil {
		return nil, nil // Metrics disabled
	}

	labels := prometheus.Labels{"component": instance}
	m := &filterMetrics{
		registry: registry,
		instance: instance,

		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "semfilter",
			Subsystem:   "filter",
			Name:        "records_total",
			Help:        "Total number of records evaluated by the filter",
			ConstLabels: labels,
		}, []string{"status"}), // status: passed, dropped, error

		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "semfilter",
			Subsystem:   "filter",
			Name:        "errors_total",
			Help:        "Total number of filter errors",
			ConstLabels: labels,
		}, []string{"error_type"}), // error_type: evaluation, format

		evaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "semfilter",
			Subsystem:   "filter",
			Name:        "evaluation_duration_seconds",
			Help:        "Predicate evaluation duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01}, // 10us to 10ms
		}),

		passRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "semfilter",
			Subsystem:   "filter",
			Name:        "pass_rate",
			Help:        "Current filter pass rate (passed / evaluated records)",
			ConstLabels: labels,
		}),
	}

	err := registry.RegisterAll(instance, map[string]prometheus.Collector{
		"records":             m.records,
		"errors":              m.errors,
		"evaluation_duration": m.evaluationDuration,
		"pass_rate":           m.passRate,
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// recordEvaluation records one predicate evaluation
func (m *filterMetrics) recordEvaluation(passed bool, duration time.Duration) {
	if m == nil {
		return
	}

	status := "dropped"
	if passed {
		status = "passed"
	}
	m.records.WithLabelValues(status).Inc()
	m.evaluationDuration.Observe(duration.Seconds())
}

// recordError records a filter error
func (m *filterMetrics) recordError(errorType string) {
	if m == nil {
		return
	}

	m.errors.WithLabelValues(errorType).Inc()
	if errorType == "evaluation" {
		m.records.WithLabelValues("error").Inc()
	}
}

// updatePassRate updates the filter effectiveness metric
func (m *filterMetrics) updatePassRate(passed, total int64) {
	if m == nil || total == 0 {
		return
	}

	m.passRate.Set(float64(passed) / float64(total))
}

func (m *filterMetrics) unregister() {
	if m == nil {
		return
	}
	m.registry.UnregisterComponent(m.instance)
}
