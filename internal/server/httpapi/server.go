// Package httpapi exposes the user-facing HTTP surface: registration,
// login, logout, token refresh, and profile/media routes. It owns the
// mapping from service sentinel errors to HTTP statuses and the cookie
// transport for the token pair.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rmaksimov/videotube/internal/logging"
	"github.com/rmaksimov/videotube/internal/server/auth"
	"github.com/rmaksimov/videotube/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

// Server wires the services into HTTP handlers.
type Server struct {
	address  string
	logger   logging.Logger
	codec    *auth.Codec
	sessions *services.SessionService
	users    *services.UserService
	media    *services.MediaService
}

func NewServer(address string, l logging.Logger, codec *auth.Codec,
	sessions *services.SessionService, users *services.UserService, media *services.MediaService) *Server {
	return &Server{
		address:  address,
		logger:   l.With("module", "httpapi"),
		codec:    codec,
		sessions: sessions,
		users:    users,
		media:    media,
	}
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
