package metric

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the metrics registry over HTTP in Prometheus format.
type Server struct {
	addr     string
	path     string
	registry *prometheus.Registry

	mu     sync.Mutex // protects server field
	server *http.Server
}

// NewServer creates a metrics server for the given registry.
// An empty path defaults to "/metrics".
func NewServer(addr, path string, registry *prometheus.Registry) *Server {
	if path == "" {
		path = "/metrics"
	}
	return &Server{addr: addr, path: path, registry: registry}
}

// Start begins serving metrics. It returns an error if the server is
// already running or no registry was provided.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return fmt.Errorf("metric server already running on %s", s.addr)
	}
	if s.registry == nil {
		return fmt.Errorf("metric server requires a registry")
	}

	mux := http.NewServeMux()
	mux.Handle(s.path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s.server = &http.Server{Addr: s.addr, Handler: mux}
	go func() {
		_ = s.server.ListenAndServe()
	}()
	return nil
}

// Stop shuts the server down, waiting up to two seconds for in-flight
// requests.
func (s *Server) Stop() error {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
