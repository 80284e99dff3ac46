package linefilter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/semfilter/metric"
)

// lineMetrics holds Prometheus metrics for one line filter instance
type lineMetrics struct {
	registry *metric.MetricsRegistry
	instance string

	lines  *prometheus.CounterVec // By status (passed/dropped/error)
	blocks prometheus.Counter
}

func newLineMetrics(registry *metric.MetricsRegistry, instance string) (*lineMetrics, error) {
	if registry == nil {
		return nil, nil // Metrics disabled
	}

	labels := prometheus.Labels{"component": instance}
	m := &lineMetrics{
		registry: registry,
		instance: instance,

		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "semfilter",
			Subsystem:   "linefilter",
			Name:        "lines_total",
			Help:        "Total number of text lines evaluated",
			ConstLabels: labels,
		}, []string{"status"}),

		blocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "semfilter",
			Subsystem:   "linefilter",
			Name:        "blocks_total",
			Help:        "Total number of output blocks produced",
			ConstLabels: labels,
		}),
	}

	err := registry.RegisterAll(instance, map[string]prometheus.Collector{
		"lines":  m.lines,
		"blocks": m.blocks,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *lineMetrics) recordLine(passed bool) {
	if m == nil {
		return
	}
	if passed {
		m.lines.WithLabelValues("passed").Inc()
	} else {
		m.lines.WithLabelValues("dropped").Inc()
	}
}

func (m *lineMetrics) recordError() {
	if m == nil {
		return
	}
	m.lines.WithLabelValues("error").Inc()
}

func (m *lineMetrics) recordBlock() {
	if m == nil {
		return
	}
	m.blocks.Inc()
}

func (m *lineMetrics) unregister() {
	if m == nil {
		return
	}
	m.registry.UnregisterComponent(m.instance)
}
