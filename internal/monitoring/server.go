package monitoring

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"
)

// Server exposes /metrics and /health while a run is in progress
type Server struct {
	httpServer *http.Server
	health     *HealthChecker
}

// NewServer builds the monitoring mux on addr
func NewServer(addr string, health *HealthChecker) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", NewMetricsHandler())
	mux.Handle("/health", health)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		health: health,
	}
}

// Handler returns the mux, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves in the background until Shutdown
func (s *Server) Start() {
	go func() {
		log.Printf("📊 Metrics available at http://%s/metrics", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("❌ Metrics server stopped: %v", err)
			RecordError("metrics_server")
		}
	}()
}

// Shutdown stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
