// Package server wraps the HTTP server lifecycle.
package server

import (
	"context"
	"net/http"
	"time"
)

// Server is the admin API HTTP server.
type Server struct {
	srv *http.Server
}

// New creates a server for the given handler and port.
func New(handler http.Handler, port string) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      handler,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}
}

// Start begins serving in a background goroutine.
func (s *Server) Start() error {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()
	return nil
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
