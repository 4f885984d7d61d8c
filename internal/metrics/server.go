package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsReadHeaderTimeout = 5 * time.Second

// Server is a running Prometheus scrape endpoint.
type Server struct {
	srv  *http.Server
	addr string
	errc chan error
}

// Disabled reports whether addr turns the metrics endpoint off.
func Disabled(addr string) bool {
	switch strings.ToLower(strings.TrimSpace(addr)) {
	case "", "off", "disabled", "false":
		return true
	default:
		return false
	}
}

// StartServer binds addr and serves /metrics until ctx is done. It returns
// nil, nil when the endpoint is disabled.
func StartServer(ctx context.Context, addr string) (*Server, error) {
	if Disabled(addr) {
		return nil, nil
	}
	addr = strings.TrimSpace(addr)
	if ctx == nil {
		ctx = context.Background()
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	s := &Server{
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: metricsReadHeaderTimeout,
		},
		addr: ln.Addr().String(),
		errc: make(chan error, 1),
	}

	go func() {
		slog.Info("metrics listening", "addr", s.addr)
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errc <- err
		}
		close(s.errc)
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
	}()

	return s, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() string { return s.addr }

// Wait blocks until the server stops and returns its serve error, if any.
func (s *Server) Wait() error {
	if s == nil {
		return nil
	}
	return <-s.errc
}
