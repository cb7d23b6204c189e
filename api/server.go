package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
)

const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 120 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Server wraps the HTTP listener with sane timeouts and graceful shutdown.
type Server struct {
	http *http.Server
	logg *logger.Logger
}

func NewServer(port string, handler http.Handler, logg *logger.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
		},
		logg: logg,
	}
}

// Start blocks until the listener stops. A closed-server error is not
// surfaced; callers handle shutdown via Shutdown.
func (s *Server) Start(ctx context.Context) error {
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "addr", s.http.Addr), "server.listening")
	}
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listening on %s: %w", s.http.Addr, err)
	}
	return nil
}

// Shutdown drains in-flight requests within the shutdown window.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if s.logg != nil {
		s.logg.Info(ctx, "server.shutting_down")
	}
	return s.http.Shutdown(shutdownCtx)
}
