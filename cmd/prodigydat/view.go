package main

import (
	"github.com/spf13/cobra"

	"github.com/retrohex/prodigydat/internal/cli"
)

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <stagefile>",
		Short: "Dump every object, segment and decoded field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sf, err := loadStageFile(args[0])
			if err != nil {
				return err
			}
			return cli.View(cmd.OutOrStdout(), sf)
		},
	}
}
