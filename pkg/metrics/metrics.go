package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-arcade/console/pkg/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig holds metrics server configuration.
// Port 0 serves the registry only through the console http app.
type MetricsConfig struct {
	Host   string
	Port   int
	Enable bool
}

// Server owns a private registry so tests and multiple apps never collide
// on the default one.
type Server struct {
	config   MetricsConfig
	server   *http.Server
	registry *prometheus.Registry
}

// NewServer creates a registry with the go runtime and process collectors.
func NewServer(config MetricsConfig) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Server{
		config:   config,
		registry: registry,
	}
}

// Handler serves the registry, for mounting on an existing HTTP app.
func (s *Server) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Start starts a standalone metrics HTTP server when a port is configured.
func (s *Server) Start() error {
	if !s.config.Enable {
		log.Info("Metrics server is disabled")
		return nil
	}
	if s.config.Port == 0 {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", s.Handler())

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		log.Infow("Metrics server started", "address", addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("Metrics server failed", "error", err)
		}
	}()

	return nil
}

// Stop stops the metrics HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// GetRegistry returns the prometheus registry
func (s *Server) GetRegistry() *prometheus.Registry {
	return s.registry
}

// Enabled reports whether metrics are switched on.
func (s *Server) Enabled() bool {
	return s.config.Enable
}
