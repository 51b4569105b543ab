// HTTP server initialization and lifecycle management.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Config holds HTTP server configuration.
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns default HTTP server configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // agent executions can run for many seconds
		IdleTimeout:  60 * time.Second,
	}
}

// Server wraps the HTTP server and the resources it owns for shutdown.
type Server struct {
	config  Config
	http    *http.Server
	logger  *slog.Logger
	closers []io.Closer
}

// NewServer creates an HTTP server around handler. closers (database handles,
// remote tool sessions) are closed during Shutdown, in order.
func NewServer(handler http.Handler, config Config, logger *slog.Logger, closers ...io.Closer) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		config:  config,
		http:    httpServer,
		logger:  logger,
		closers: closers,
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string { return s.http.Addr }

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(_ context.Context) error {
	s.logger.Info("starting HTTP server", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the server and closes owned resources.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			return fmt.Errorf("resource close error: %w", err)
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
