package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/nfrund/profiledesk/internal/app"
	"github.com/nfrund/profiledesk/internal/domain"
	"github.com/spf13/cobra"
)

var (
	profileOutputFormat string
	profileFindUsername string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect stored profiles",
	Long: `Look up profiles in the configured profile store.

Examples:
  profilectl profile get 8f14e45fceea167a
  profilectl profile find --username asha.rao --format json`,
}

var profileGetCmd = &cobra.Command{
	Use:   "get <uid>",
	Short: "Show the profile with the given account id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showProfile(cmd, func(repo domain.ProfileRepository) (*domain.Profile, error) {
			return repo.GetByUID(cmd.Context(), args[0])
		})
	},
}

var profileFindCmd = &cobra.Command{
	Use:   "find",
	Short: "Find the profile with the given username",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showProfile(cmd, func(repo domain.ProfileRepository) (*domain.Profile, error) {
			return repo.FindByUsername(cmd.Context(), profileFindUsername)
		})
	},
}

func showProfile(cmd *cobra.Command, lookup func(domain.ProfileRepository) (*domain.Profile, error)) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Shutdown(cmd.Context())

	repo, err := app.Resolve[domain.ProfileRepository](a)
	if err != nil {
		return err
	}

	p, err := lookup(repo)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return errors.New("profile not found")
	}
	if err != nil {
		return err
	}

	return printProfile(cmd.OutOrStdout(), p, profileOutputFormat)
}

func printProfile(w io.Writer, p *domain.Profile, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "UID\t%s\n", p.UID)
		fmt.Fprintf(tw, "NAME\t%s\n", p.Name)
		fmt.Fprintf(tw, "USERNAME\t%s\n", p.Username)
		fmt.Fprintf(tw, "EMAIL\t%s\n", p.Email)
		fmt.Fprintf(tw, "PHONE\t%s\n", p.Phone)
		if !p.CreatedAt.IsZero() {
			fmt.Fprintf(tw, "CREATED\t%s\n", p.CreatedAt.Format(time.RFC3339))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q (valid: table, json)", format)
	}
}

func init() {
	profileCmd.PersistentFlags().StringVarP(&profileOutputFormat, "format", "f", "table", "Output format (table, json)")
	profileFindCmd.Flags().StringVarP(&profileFindUsername, "username", "u", "", "Username to look up")
	_ = profileFindCmd.MarkFlagRequired("username")

	profileCmd.AddCommand(profileGetCmd, profileFindCmd)
	rootCmd.AddCommand(profileCmd)
}
