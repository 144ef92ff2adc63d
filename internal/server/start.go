package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// ShutdownTimeout bounds graceful shutdown of in-flight requests.
const ShutdownTimeout = 10 * time.Second

// Start serves HTTP on the configured address until ctx is canceled, then
// shuts the server down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := s.Cfg.GetAppAddr()
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "event", "server_started", "addr", addr)
		if err := s.E.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	slog.Info("Shutting down HTTP server", "event", "server_stopping")
	return s.E.Shutdown(shutdownCtx)
}
