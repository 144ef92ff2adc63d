package cmd

import (
	"github.com/nfrund/profiledesk/internal/app"
	"github.com/nfrund/profiledesk/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := server.SignalContext(cmd.Context())
		defer stop()
		return app.Serve(ctx, loadConfig())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
