package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/timmy/ingestq/internal/client"
	"github.com/timmy/ingestq/internal/domain"
)

func newSubmitCmd(opts *rootOptions) *cobra.Command {
	var priority string

	cmd := &cobra.Command{
		Use:   "submit ID...",
		Short: "Queue work item IDs for ingestion",
		Example: `  ingestctl submit 1 2 3 4 5 --priority HIGH
  ingestctl submit --priority LOW`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := domain.ParsePriority(priority)
			if err != nil {
				return err
			}

			ids := make([]int, 0, len(args))
			for _, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid id %q: %w", arg, err)
				}
				ids = append(ids, id)
			}

			ingestionID, err := opts.client().Submit(cmd.Context(), ids, p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"ingestion_id": ingestionID})
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", string(domain.PriorityMedium), "HIGH, MEDIUM or LOW")
	return cmd
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status INGESTION_ID",
		Short: "Show the status of an ingestion and its batches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.client().Status(cmd.Context(), args[0])
			if errors.Is(err, client.ErrNotFound) {
				return fmt.Errorf("ingestion %s not found", args[0])
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), st)
		},
	}
}

func newEventsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "events INGESTION_ID",
		Short: "Show the recorded batch transitions of an ingestion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := opts.client().Events(cmd.Context(), args[0])
			if errors.Is(err, client.ErrNotFound) {
				return fmt.Errorf("ingestion %s not found", args[0])
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), events)
		},
	}
}
