package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/ekisa-team/topology/internal/topology"
)

const shutdownTimeout = 10 * time.Second

// Server serves the topology API over HTTP.
type Server struct {
	srv *http.Server
	api huma.API
}

// NewServer creates a server listening on host:port that exposes registry.
func NewServer(host string, port int, version string, registry *topology.Registry) *Server {
	mux := http.NewServeMux()
	api := humago.New(mux, huma.DefaultConfig("Topology Registry API", version))

	NewTopologyHandler(api, registry)

	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		api: api,
	}
}

// API returns the huma API the handlers are registered on.
func (s *Server) API() huma.API {
	return s.api
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: listen on %s: %w", s.srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}

	slog.Info("HTTP server stopped")
	return nil
}
