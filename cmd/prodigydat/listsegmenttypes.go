package main

import (
	"github.com/spf13/cobra"

	"github.com/retrohex/prodigydat/internal/cli"
)

func newListSegmentTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-segment-types",
		Short: "List every known segment type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cli.ListSegmentTypes(cmd.OutOrStdout())
			return nil
		},
	}
}
