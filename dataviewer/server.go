package dataviewer

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// readyChecker is the part of the monitor the server reports on.
type readyChecker interface {
	Ready() (bool, error)
	Metrics() *monitorMetrics
}

func (m *monitorCore) Metrics() *monitorMetrics {
	return m.metrics
}

// StatusServer exposes liveness, readiness and prometheus metrics for
// a running monitor.
type StatusServer struct {
	addr    string
	checker readyChecker
	server  *http.Server
	ln      net.Listener
}

type ReadyzResponse struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

func NewStatusServer(addr string, checker readyChecker) *StatusServer {
	return &StatusServer{addr: addr, checker: checker}
}

func (s *StatusServer) Start() error {
	logger := httplog.NewLogger("dataviewer", httplog.Options{
		LogLevel: slog.LevelWarn,
		Concise:  true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Get("/livez", s.handleLivez)
	r.Get("/readyz", s.handleReadyz)
	r.Handle("/metrics", promhttp.HandlerFor(s.checker.Metrics().registry, promhttp.HandlerOpts{}))

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.server = &http.Server{Handler: r}

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("status server error", "err", err)
		}
	}()
	return nil
}

// Addr returns the bound address, useful when the configured port is 0.
func (s *StatusServer) Addr() string {
	if s.ln == nil {
		return s.addr
	}
	return s.ln.Addr().String()
}

func (s *StatusServer) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *StatusServer) handleLivez(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK")) //nolint:errcheck
}

func (s *StatusServer) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ready, err := s.checker.Ready()

	response := ReadyzResponse{Ready: ready}
	if err != nil {
		response.Error = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	if ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(response) //nolint:errcheck
}
