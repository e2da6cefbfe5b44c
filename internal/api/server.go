package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// ServerConfig holds configuration for the HTTP server. ShutdownGrace
// is the window between warning realtime clients and closing the
// listener; ShutdownTimeout bounds draining the in-flight requests
// after that.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownGrace   time.Duration
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns sensible defaults for server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "",
		Port:            8080,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    60 * time.Second,
		ShutdownGrace:   10 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// ShutdownNotifier is told about an imminent shutdown so long-lived
// realtime connections can warn their clients before the listener stops
// accepting traffic. Plain HTTP requests don't need it; websocket
// sessions do.
type ShutdownNotifier interface {
	BroadcastShutdown(message string, countdown int)
}

// Server wraps the HTTP server with graceful shutdown support
type Server struct {
	server   *http.Server
	notifier ShutdownNotifier
	logger   *slog.Logger
	config   ServerConfig
}

// NewServer creates a new API server. notifier may be nil when nothing
// holds long-lived connections.
func NewServer(handler http.Handler, config ServerConfig, notifier ShutdownNotifier, logger *slog.Logger) *Server {
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	return &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
		},
		notifier: notifier,
		logger:   logger,
		config:   config,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully stops the server: realtime clients are warned
// first and given the grace window to wind down, then the listener is
// drained.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.notifier != nil && s.config.ShutdownGrace > 0 {
		s.logger.Info("notifying realtime clients",
			slog.Duration("grace", s.config.ShutdownGrace))
		s.notifier.BroadcastShutdown("Server is restarting", int(s.config.ShutdownGrace.Seconds()))

		select {
		case <-time.After(s.config.ShutdownGrace):
		case <-ctx.Done():
		}
	}

	s.logger.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Addr returns the server's listen address
func (s *Server) Addr() string {
	return s.server.Addr
}
