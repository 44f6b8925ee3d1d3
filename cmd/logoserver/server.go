package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tickerlogos/tickerlogos/internal/config"
)

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	// Addr is the address to listen on (e.g., ":8000").
	Addr string

	// TLSCertFile and TLSKeyFile switch the server to HTTPS when both are set.
	TLSCertFile string
	TLSKeyFile  string

	ReadTimeout     config.Duration
	WriteTimeout    config.Duration
	IdleTimeout     config.Duration
	ShutdownTimeout config.Duration
}

// Server is the HTTP server for the logo API.
type Server struct {
	config  ServerConfig
	handler http.Handler
	logger  *zap.Logger
	server  *http.Server

	// ready is closed once Start has tried to bind. addr is nil if that failed.
	ready chan struct{}
	addr  net.Addr
}

// NewServer creates a new server.
func NewServer(config ServerConfig, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		config:  config,
		handler: handler,
		logger:  logger.Named("server"),
		ready:   make(chan struct{}),
	}
}

// Start serves until the context is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.handler,
		ReadTimeout:  time.Duration(s.config.ReadTimeout),
		WriteTimeout: time.Duration(s.config.WriteTimeout),
		IdleTimeout:  time.Duration(s.config.IdleTimeout),
	}

	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		close(s.ready)
		return err
	}
	s.addr = ln.Addr()
	close(s.ready)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		tls := s.config.TLSCertFile != "" && s.config.TLSKeyFile != ""
		s.logger.Info("Starting HTTP server", zap.String("addr", s.addr.String()), zap.Bool("tls", tls))

		var err error
		if tls {
			err = s.server.ServeTLS(ln, s.config.TLSCertFile, s.config.TLSKeyFile)
		} else {
			err = s.server.Serve(ln)
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		timeout := time.Duration(s.config.ShutdownTimeout)
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Addr blocks until Start has tried to bind and returns the listener address,
// or nil if listening failed.
func (s *Server) Addr() net.Addr {
	<-s.ready
	return s.addr
}
