package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusServer exposes a Prometheus registry over HTTP.
type PrometheusServer struct {
	srv      *http.Server
	registry *prometheus.Registry
}

// NewPrometheusServer creates a metrics server for the given address and
// path, backed by its own registry.
func NewPrometheusServer(address, path string) *PrometheusServer {
	registry := prometheus.NewRegistry()

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &PrometheusServer{
		srv: &http.Server{
			Addr:              address,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		registry: registry,
	}
}

// Registry returns the server's registry for collector registration.
func (s *PrometheusServer) Registry() *prometheus.Registry {
	return s.registry
}

// Start begins serving metrics. It blocks until the context is canceled or
// the listener fails.
func (s *PrometheusServer) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully stops the metrics server.
func (s *PrometheusServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
