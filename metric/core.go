package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the platform-level metrics of the component registry
type Metrics struct {
	ServicesRegistered prometheus.Gauge
	ComponentsActive   prometheus.Gauge
	ComponentsCreated  *prometheus.CounterVec
	ConfigValidations  *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all platform metrics
func NewMetrics() *Metrics {
	return &Metrics{
		ServicesRegistered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "semfilter",
			Subsystem: "registry",
			Name:      "services",
			Help:      "Number of registered service descriptors",
		}),
		ComponentsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "semfilter",
			Subsystem: "registry",
			Name:      "components",
			Help:      "Number of tracked component instances",
		}),
		ComponentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semfilter",
			Subsystem: "registry",
			Name:      "components_created_total",
			Help:      "Component creation attempts by service and result",
		}, []string{"service", "result"}),
		ConfigValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semfilter",
			Subsystem: "config",
			Name:      "validations_total",
			Help:      "Configuration validations by config name and outcome kind",
		}, []string{"config", "outcome"}),
	}
}

func (m *Metrics) register(r *prometheus.Registry) {
	r.MustRegister(
		m.ServicesRegistered,
		m.ComponentsActive,
		m.ComponentsCreated,
		m.ConfigValidations,
	)
}

// RecordServices records the number of registered services
func (m *Metrics) RecordServices(n int) {
	m.ServicesRegistered.Set(float64(n))
}

// RecordComponents records the number of tracked component instances
func (m *Metrics) RecordComponents(n int) {
	m.ComponentsActive.Set(float64(n))
}

// RecordComponentCreated records a creation attempt
func (m *Metrics) RecordComponentCreated(service string, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	m.ComponentsCreated.WithLabelValues(service, result).Inc()
}

// RecordValidation records a validation outcome; outcome is "ok" or an error kind name
func (m *Metrics) RecordValidation(config, outcome string) {
	m.ConfigValidations.WithLabelValues(config, outcome).Inc()
}
