// Package diag serves runtime profiling endpoints while devtools mode is
// active. The loop and the websocket pumps are the hot paths worth
// inspecting; everything here is off unless configured.
package diag

import (
	"context"
	"fmt"
	"net"
	"net/http"
	netpprof "net/http/pprof"
	"time"

	"github.com/codefionn/socklet/internal/logger"
)

// Server exposes the Go runtime profiles over HTTP
type Server struct {
	server   *http.Server
	listener net.Listener
}

// Start binds addr and serves /debug/pprof/ in the background
func Start(addr string) (*Server, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", netpprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", netpprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", netpprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", netpprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", netpprof.Trace)
	mux.Handle("/debug/pprof/goroutine", netpprof.Handler("goroutine"))
	mux.Handle("/debug/pprof/heap", netpprof.Handler("heap"))
	mux.Handle("/debug/pprof/block", netpprof.Handler("block"))
	mux.Handle("/debug/pprof/mutex", netpprof.Handler("mutex"))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind diagnostics server: %w", err)
	}

	s := &Server{
		server:   &http.Server{Addr: addr, Handler: mux},
		listener: listener,
	}
	go func() {
		if err := s.server.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			logger.Error("Diagnostics server failed: %v", err)
		}
	}()

	logger.Info("Diagnostics available on http://%s/debug/pprof/", listener.Addr())
	return s, nil
}

// Addr returns the bound address
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Stop shuts the server down
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
