package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"todo-tracker/backend/internal/client"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type rootOptions struct {
	configFile string
	endpoint   string
	timeout    time.Duration
	client     *client.Client
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "todoctl",
		Short: "Command line client for the todo tracker GraphQL API",
		Long: `todoctl talks to a todo tracker server over its GraphQL endpoint.

Each command issues exactly one operation and prints the returned data
as JSON, or the first error message reported by the server.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configFile
			if path == "" {
				path = client.DefaultConfigPath()
			}
			fileConfig, err := client.LoadFileConfig(path)
			if err != nil {
				return err
			}

			endpoint := fileConfig.Endpoint
			if cmd.Flags().Changed("endpoint") {
				endpoint = opts.endpoint
			}
			timeout := fileConfig.Timeout
			if cmd.Flags().Changed("timeout") {
				timeout = opts.timeout
			}
			opts.client = client.New(endpoint, timeout)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: ~/.todoctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.endpoint, "endpoint", client.DefaultEndpoint, "GraphQL endpoint URL")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "request timeout (0 for none)")

	rootCmd.AddCommand(newListCommand(opts))
	rootCmd.AddCommand(newGetCommand(opts))
	rootCmd.AddCommand(newAddCommand(opts))
	rootCmd.AddCommand(newUpdateCommand(opts))
	rootCmd.AddCommand(newToggleCommand(opts))
	rootCmd.AddCommand(newDeleteCommand(opts))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
