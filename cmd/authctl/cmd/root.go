package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const defaultAppDir = ".authctl"

// options are the persistent flags shared by every subcommand.
type options struct {
	serverURL string
	dataDir   string
	timeout   time.Duration
	verbose   bool
}

// NewRootCmd builds the authctl command tree.
func NewRootCmd() *cobra.Command {
	cfg := config.New()
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "authctl",
		Short: "Cloud console session client",
		Long: `authctl logs in to the cloud console backend, keeps the session on disk and
sends authenticated requests, renewing the access credential when it expires.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if opts.verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
				Level(level).With().Timestamp().Logger()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.serverURL, "server", cfg.GetBaseURL(), "Backend base URL (BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Session directory (default ~/"+defaultAppDir+")")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", cfg.GetRequestTimeout(), "Request timeout (REQUEST_TIMEOUT)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(newLoginCmd(opts))
	rootCmd.AddCommand(newLogoutCmd(opts))
	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newGetCmd(opts))
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
