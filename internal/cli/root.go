// Package cli implements the ingestctl command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/timmy/ingestq/internal/client"
)

const defaultServer = "http://localhost:8080"

type rootOptions struct {
	server  string
	timeout time.Duration
}

// NewRootCmd builds the ingestctl root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "ingestctl",
		Short:         "Submit ingestion requests and inspect their progress",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	server := os.Getenv("INGESTQ_SERVER")
	if server == "" {
		server = defaultServer
	}
	cmd.PersistentFlags().StringVar(&opts.server, "server", server, "ingestq API base URL (env INGESTQ_SERVER)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")

	cmd.AddCommand(
		newSubmitCmd(opts),
		newStatusCmd(opts),
		newEventsCmd(opts),
	)
	return cmd
}

func (o *rootOptions) client() *client.Client {
	return client.New(&client.Config{BaseURL: o.server, Timeout: o.timeout})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
