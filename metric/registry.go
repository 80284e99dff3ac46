package metric

import (
	stderrors "errors"
	"fmt"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/c360/semfilter/errors"
)

// MetricsRegistry owns the Prometheus registry of the host and tracks the
// collectors each component instance registered, so an instance can be
// torn down and recreated under the same name.
type MetricsRegistry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics

	mu         sync.RWMutex
	components map[string]map[string]prometheus.Collector // instance -> metric name
}

// NewMetricsRegistry creates a registry with the core registry metrics and
// the Go runtime and process collectors
func NewMetricsRegistry() *MetricsRegistry {
	r := &MetricsRegistry{
		prometheusRegistry: prometheus.NewRegistry(),
		components:         make(map[string]map[string]prometheus.Collector),
		Metrics:            NewMetrics(),
	}
	r.Metrics.register(r.prometheusRegistry)
	r.prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// PrometheusRegistry returns the underlying Prometheus registry
func (r *MetricsRegistry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// CoreMetrics returns the registry metrics
func (r *MetricsRegistry) CoreMetrics() *Metrics {
	return r.Metrics
}

// Register adds collector under instance and metric name. A name already
// taken by the instance, or a Prometheus descriptor clash with another
// instance, is an invalid error.
func (r *MetricsRegistry) Register(instance, name string, collector prometheus.Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := r.components[instance]
	if _, exists := owned[name]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("metric %s already registered for component %s", name, instance),
			"MetricsRegistry", "Register", "duplicate metric registration")
	}

	if err := r.prometheusRegistry.Register(collector); err != nil {
		var clash prometheus.AlreadyRegisteredError
		if stderrors.As(err, &clash) {
			return errors.WrapInvalid(err, "MetricsRegistry", "Register",
				fmt.Sprintf("prometheus conflict for metric %s", name))
		}
		return errors.WrapFatal(err, "MetricsRegistry", "Register", "collector registration")
	}

	if owned == nil {
		owned = make(map[string]prometheus.Collector)
		r.components[instance] = owned
	}
	owned[name] = collector
	return nil
}

// RegisterAll registers the named collectors of one instance. On failure the
// collectors registered so far are removed again.
func (r *MetricsRegistry) RegisterAll(instance string, collectors map[string]prometheus.Collector) error {
	names := make([]string, 0, len(collectors))
	for name := range collectors {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		if err := r.Register(instance, name, collectors[name]); err != nil {
			for _, done := range names[:i] {
				r.Unregister(instance, done)
			}
			return err
		}
	}
	return nil
}

// Unregister removes one metric of an instance
func (r *MetricsRegistry) Unregister(instance, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	collector, exists := r.components[instance][name]
	if !exists || !r.prometheusRegistry.Unregister(collector) {
		return false
	}
	delete(r.components[instance], name)
	if len(r.components[instance]) == 0 {
		delete(r.components, instance)
	}
	return true
}

// UnregisterComponent removes every metric of an instance and returns how
// many were removed
func (r *MetricsRegistry) UnregisterComponent(instance string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for name, collector := range r.components[instance] {
		if r.prometheusRegistry.Unregister(collector) {
			delete(r.components[instance], name)
			removed++
		}
	}
	if len(r.components[instance]) == 0 {
		delete(r.components, instance)
	}
	return removed
}

// Components lists the instances that currently own metrics
func (r *MetricsRegistry) Components() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
