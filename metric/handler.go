package metric

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c360/semfilter/errors"
)

// Default listen settings of the metrics server
const (
	DefaultPort = 9090
	DefaultPath = "/metrics"
	HealthPath  = "/health"
)

// HealthFunc reports host health and a JSON-encodable body for /health
type HealthFunc func() (healthy bool, body any)

// Server serves Prometheus metrics and the host health report over HTTP
type Server struct {
	port     int
	path     string
	registry *MetricsRegistry

	mu     sync.Mutex
	health HealthFunc
	srv    *http.Server
}

// NewServer creates a metrics server. Zero values select DefaultPort and
// DefaultPath.
func NewServer(port int, path string, registry *MetricsRegistry) *Server {
	if path == "" {
		path = DefaultPath
	}
	if port == 0 {
		port = DefaultPort
	}
	return &Server{port: port, path: path, registry: registry}
}

// SetHealthCheck replaces the plain "OK" health response
func (s *Server) SetHealthCheck(fn HealthFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health = fn
}

// Handler returns the mux serving the metrics path and HealthPath
func (s *Server) Handler() (http.Handler, error) {
	if s.registry == nil {
		return nil, errors.WrapFatal(fmt.Errorf("nil registry"),
			"Server", "Handler", "metrics registry lookup")
	}

	mux := http.NewServeMux()
	mux.Handle(s.path, promhttp.HandlerFor(
		s.registry.PrometheusRegistry(),
		promhttp.HandlerOpts{EnableOpenMetrics: true},
	))
	mux.HandleFunc(HealthPath, s.serveHealth)
	return mux, nil
}

func (s *Server) serveHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	check := s.health
	s.mu.Unlock()

	if check == nil {
		_, _ = w.Write([]byte("OK"))
		return
	}
	healthy, body := check()
	w.Header().Set("Content-Type", "application/json")
	if !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(body)
}

// Start serves until Stop is called. Calling Start twice is an invalid error.
func (s *Server) Start() error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.WrapInvalid(fmt.Errorf("server already running on port %d", s.port),
			"Server", "Start", "state check")
	}
	srv := &http.Server{Addr: fmt.Sprintf(":%d", s.port), Handler: handler}
	s.srv = srv
	s.mu.Unlock()

	if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return errors.WrapFatal(err, "Server", "Start", fmt.Sprintf("listen on port %d", s.port))
	}
	return nil
}

// Stop closes the listener. Stopping a server that is not running is a no-op.
func (s *Server) Stop() error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Close(); err != nil {
		return errors.WrapTransient(err, "Server", "Stop", "listener close")
	}
	return nil
}

// Address returns the URL of the metrics endpoint
func (s *Server) Address() string {
	return fmt.Sprintf("http://localhost:%d%s", s.port, s.path)
}
