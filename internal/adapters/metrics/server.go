package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// Server serves /metrics and /healthz for a running listener
type Server struct {
	router *chi.Mux
	log    *slog.Logger
	start  time.Time
	// ready receives the bound address once listening
	ready chan string
}

// NewServer creates the metrics server for the collector's registry
func NewServer(collector *GateCollector, log *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    log.With("component", "metrics"),
		start:  time.Now(),
		ready:  make(chan string, 1),
	}
	s.routes(collector)
	return s
}

func (s *Server) routes(collector *GateCollector) {
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(collector.Gatherer(), promhttp.HandlerOpts{}))
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"uptime": time.Since(s.start).Round(time.Second).String(),
	})
}

// Serve listens on addr until ctx is done, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.log.Info("serving metrics", "addr", ln.Addr().String())
	select {
	case s.ready <- ln.Addr().String():
	default:
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Ensure the server implements the interface
var _ usecase.MetricsServer = (*Server)(nil)
