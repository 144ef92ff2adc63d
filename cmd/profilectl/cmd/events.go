package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/nfrund/profiledesk/internal/pubsub"
	// Registers the account events.
	_ "github.com/nfrund/profiledesk/internal/signup"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the events published by the application",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDESCRIPTION")
		for _, e := range pubsub.Events() {
			fmt.Fprintf(w, "%s\t%s\n", e.Name, e.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
