package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dharmasatrya/flightfinder/internal/client"
	"github.com/dharmasatrya/flightfinder/pkg/logger"
)

type rootOptions struct {
	server   string
	timeout  time.Duration
	logLevel string

	client *client.Client
	logger *logger.Logger
}

// defaultServer checks FLIGHTFINDER_SERVER before falling back to localhost.
func defaultServer() string {
	if s := os.Getenv("FLIGHTFINDER_SERVER"); s != "" {
		return s
	}
	return client.DefaultBaseURL
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "flightctl",
		Short: "Search flights from the command line",
		Long:  "flightctl queries a flightfinder server, then filters and ranks the results locally.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(logger.Config{
				Level:  opts.logLevel,
				Format: "console",
				Output: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			opts.logger = log.Named("flightctl")
			opts.client = client.New(opts.server, nil)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.server, "server", defaultServer(), "flightfinder server URL (or FLIGHTFINDER_SERVER env)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newSearchCmd(opts),
		newLocationsCmd(opts),
	)

	return root
}
