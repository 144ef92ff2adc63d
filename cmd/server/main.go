package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nfrund/profiledesk/internal/app"
	"github.com/nfrund/profiledesk/internal/config"
	"github.com/nfrund/profiledesk/internal/logging"
	"github.com/nfrund/profiledesk/internal/server"
)

func main() {
	logging.New()

	ctx, stop := server.SignalContext(context.Background())
	defer stop()

	if err := app.Serve(ctx, config.New()); err != nil {
		slog.Error("Server exited with error", "event", "server_exit", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped", "event", "server_stopped")
}
