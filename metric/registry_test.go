package metric

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semfilter/errors"
)

func gathered(t *testing.T, r *MetricsRegistry, name string) bool {
	t.Helper()
	families, err := r.PrometheusRegistry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return true
		}
	}
	return false
}

func TestMetricsRegistry_Register(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_counter", Help: "A test counter"})
	require.NoError(t, registry.Register("filter-a", "test_counter", counter))
	counter.Inc()
	assert.True(t, gathered(t, registry, "test_counter"))

	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_vec_total", Help: "vec"}, []string{"k"})
	require.NoError(t, registry.Register("filter-a", "test_vec", vec))
	vec.WithLabelValues("x").Inc()
	assert.True(t, gathered(t, registry, "test_vec_total"))

	assert.Equal(t, []string{"filter-a"}, registry.Components())
}

func TestMetricsRegistry_DuplicateIsInvalid(t *testing.T) {
	registry := NewMetricsRegistry()

	g1 := prometheus.NewGauge(prometheus.GaugeOpts{Name: "dup_gauge", Help: "g"})
	g2 := prometheus.NewGauge(prometheus.GaugeOpts{Name: "dup_gauge", Help: "g"})
	require.NoError(t, registry.Register("svc", "dup", g1))

	err := registry.Register("svc", "dup", g2)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))

	// Same prometheus name under another instance is a prometheus conflict
	err = registry.Register("other", "dup", g2)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
	assert.Equal(t, []string{"svc"}, registry.Components())
}

func TestMetricsRegistry_RegisterAllRollsBack(t *testing.T) {
	registry := NewMetricsRegistry()
	taken := prometheus.NewGauge(prometheus.GaugeOpts{Name: "taken", Help: "g"})
	require.NoError(t, registry.Register("first", "taken", taken))

	err := registry.RegisterAll("second", map[string]prometheus.Collector{
		"a_fresh": prometheus.NewGauge(prometheus.GaugeOpts{Name: "fresh", Help: "g"}),
		"b_taken": prometheus.NewGauge(prometheus.GaugeOpts{Name: "taken", Help: "g"}),
	})
	require.Error(t, err)
	assert.Equal(t, []string{"first"}, registry.Components())
	assert.False(t, gathered(t, registry, "fresh"))
}

func TestMetricsRegistry_Unregister(t *testing.T) {
	registry := NewMetricsRegistry()
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: "gone", Help: "g"})
	require.NoError(t, registry.Register("svc", "gone", g))

	assert.True(t, registry.Unregister("svc", "gone"))
	assert.False(t, registry.Unregister("svc", "gone"))
	assert.Empty(t, registry.Components())
	require.NoError(t, registry.Register("svc", "gone", g))
}

func TestMetricsRegistry_UnregisterComponent(t *testing.T) {
	registry := NewMetricsRegistry()
	require.NoError(t, registry.RegisterAll("svc", map[string]prometheus.Collector{
		"one": prometheus.NewGauge(prometheus.GaugeOpts{Name: "one", Help: "g"}),
		"two": prometheus.NewGauge(prometheus.GaugeOpts{Name: "two", Help: "g"}),
	}))

	assert.Equal(t, 2, registry.UnregisterComponent("svc"))
	assert.Equal(t, 0, registry.UnregisterComponent("svc"))
	assert.Empty(t, registry.Components())
}

func TestCoreMetrics(t *testing.T) {
	registry := NewMetricsRegistry()
	m := registry.CoreMetrics()

	m.RecordServices(3)
	m.RecordComponents(2)
	m.RecordComponentCreated("saturnin.proto.filter", true)
	m.RecordComponentCreated("saturnin.proto.filter", false)
	m.RecordValidation("saturnin.proto.filter_service", "NoPredicateDefined")

	assert.Equal(t, 3.0, testutil.ToFloat64(m.ServicesRegistered))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ComponentsActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ComponentsCreated.WithLabelValues("saturnin.proto.filter", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.ConfigValidations.WithLabelValues("saturnin.proto.filter_service", "NoPredicateDefined")))
}

func TestServer_Handler(t *testing.T) {
	registry := NewMetricsRegistry()
	registry.CoreMetrics().RecordServices(1)

	s := NewServer(0, "", registry)
	assert.Equal(t, "http://localhost:9090/metrics", s.Address())

	handler, err := s.Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "semfilter_registry_services"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "OK", rec.Body.String())

	_, err = NewServer(0, "", nil).Handler()
	assert.True(t, errors.IsFatal(err))
}

func TestServer_HealthCheck(t *testing.T) {
	s := NewServer(0, "", NewMetricsRegistry())
	healthy := true
	s.SetHealthCheck(func() (bool, any) {
		return healthy, map[string]bool{"healthy": healthy}
	})

	handler, err := s.Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"healthy": true}`, rec.Body.String())

	healthy = false
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"healthy": false}`, rec.Body.String())
}
