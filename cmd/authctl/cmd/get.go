package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newGetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "Send an authenticated GET request and print the body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return fmt.Errorf("failed to open session: %w", err)
			}

			resp, err := a.client.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := resp.Body
			var pretty bytes.Buffer
			if json.Indent(&pretty, resp.Body, "", "  ") == nil {
				out = pretty.Bytes()
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if !resp.IsSuccess() {
				return fmt.Errorf("server returned %d", resp.StatusCode)
			}
			return nil
		},
	}
}
