// Package metric provides Prometheus-based metrics collection and an HTTP
// endpoint for semfilter hosts.
//
// MetricsRegistry wraps a dedicated prometheus.Registry. It carries the core
// registry metrics (registered services, tracked components, creation and
// validation outcomes) and lets components register their own collectors
// under a "<component>.<metric>" key. Registering the same key twice, or a
// collector whose prometheus name is already taken, is an invalid error.
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(9090, "/metrics", registry)
//	go func() {
//		if err := server.Start(); err != nil {
//			logger.Error("Metrics server stopped", "error", err)
//		}
//	}()
//	defer server.Stop()
package metric
