package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nfrund/profiledesk/internal/app"
	"github.com/nfrund/profiledesk/internal/config"
	"github.com/nfrund/profiledesk/internal/logging"
	"github.com/spf13/cobra"
)

// loadConfig is replaced in tests to avoid reading a .env file.
var loadConfig = config.New

var rootCmd = &cobra.Command{
	Use:   "profilectl",
	Short: "ProfileDesk administration tool",
	Long: `profilectl manages a ProfileDesk deployment.

It reads the same environment variables (and .env file) as the server, so
commands act on the configured identity backend and profile store.

Use "profilectl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Logs go to stderr so command output can be piped.
		level := os.Getenv("LOG_LEVEL")
		if level == "" {
			level = "warn"
		}
		slog.SetDefault(logging.NewWithWriter(cmd.ErrOrStderr(), os.Getenv("LOG_FORMAT"), level))
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newApp loads configuration and builds the application container.
func newApp() (*app.App, error) {
	return app.New(loadConfig())
}
