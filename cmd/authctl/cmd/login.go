package cmd

import (
	"fmt"
	"os"

	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const passwordEnvVar = "AUTHCTL_PASSWORD"

func newLoginCmd(opts *options) *cobra.Command {
	var username, password string

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with username and password",
		Long: `Signs in to the backend and stores the session in the data directory.

The password is read from --password, then ` + passwordEnvVar + `, and otherwise
prompted for.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				u, err := pterm.DefaultInteractiveTextInput.Show("Username")
				if err != nil {
					return err
				}
				username = u
			}
			if password == "" {
				password = os.Getenv(passwordEnvVar)
			}
			if password == "" {
				p, err := pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
				if err != nil {
					return err
				}
				password = p
			}

			a, err := newApp(opts)
			if err != nil {
				return fmt.Errorf("failed to open session: %w", err)
			}
			s, err := a.controller.Login(cmd.Context(), username, password)
			if errors.Is(err, errors.ErrInvalidCredentials) {
				return fmt.Errorf("invalid username or password")
			}
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			pterm.Success.Printfln("Logged in as %s (%s)", s.Principal.Username, s.Role())
			return nil
		},
	}

	loginCmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "Password (prefer "+passwordEnvVar+")")
	return loginCmd
}
