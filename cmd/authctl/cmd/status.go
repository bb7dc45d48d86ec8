package cmd

import (
	"fmt"
	"strconv"

	"github.com/jrsteele09/go-auth-client/authapi"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newStatusCmd(opts *options) *cobra.Command {
	var remote bool

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Display the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return fmt.Errorf("failed to open session: %w", err)
			}

			s := a.store.Get()
			if !s.IsAuthenticated() {
				pterm.Info.Println("Not logged in")
				return nil
			}

			pterm.DefaultSection.Println("Authentication Status")
			pterm.Info.Printfln("Server: %s", opts.serverURL)
			if p := s.Principal; p != nil {
				org := "-"
				if p.OrgID != nil {
					org = strconv.FormatInt(*p.OrgID, 10)
				}
				if err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
					{"ID", "USERNAME", "ROLE", "ORG", "NAME"},
					{p.ID, p.Username, p.Role, org, p.RealName},
				}).Render(); err != nil {
					return err
				}
			}

			if !remote {
				return nil
			}
			resp, err := a.client.Get(cmd.Context(), authapi.RouteMe)
			if err != nil {
				return fmt.Errorf("session check failed: %w", err)
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("session check returned %d", resp.StatusCode)
			}
			pterm.Success.Println("Session accepted by server")
			return nil
		},
	}

	statusCmd.Flags().BoolVar(&remote, "check", false, "Verify the session against the server")
	return statusCmd
}
