package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return fmt.Errorf("failed to open session: %w", err)
			}
			if err := a.controller.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}
			pterm.Success.Println("Logged out")
			return nil
		},
	}
}
