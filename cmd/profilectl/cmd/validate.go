package cmd

import (
	"errors"
	"fmt"

	"github.com/nfrund/profiledesk/internal/validation"
	"github.com/spf13/cobra"
)

var signupInput validation.SignupForm

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check input against the form rules",
}

var validateSignupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Run the signup rules over the given values",
	Long: `Run the signup form rules without creating an account.

Example:
  profilectl validate signup --name "Asha Rao" --username asha.rao \
    --email asha@gmail.com --phone 9876543210 --password 's3cret@pass' --confirm 's3cret@pass'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		errs := validation.New().Check(signupInput)
		out := cmd.OutOrStdout()
		if errs.Empty() {
			fmt.Fprintln(out, "OK")
			return nil
		}
		for _, field := range validation.SignupFields {
			if msg := errs.Get(field); msg != "" {
				fmt.Fprintf(out, "%s: %s\n", field, msg)
			}
		}
		return errors.New("signup input is invalid")
	},
}

func init() {
	f := validateSignupCmd.Flags()
	f.StringVar(&signupInput.Name, "name", "", "Full name")
	f.StringVar(&signupInput.Username, "username", "", "Username")
	f.StringVar(&signupInput.Email, "email", "", "Email address")
	f.StringVar(&signupInput.Phone, "phone", "", "10 digit phone number")
	f.StringVar(&signupInput.Password, "password", "", "Password")
	f.StringVar(&signupInput.Confirm, "confirm", "", "Password confirmation")

	validateCmd.AddCommand(validateSignupCmd)
	rootCmd.AddCommand(validateCmd)
}
