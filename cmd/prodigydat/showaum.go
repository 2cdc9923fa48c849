package main

import (
	"github.com/spf13/cobra"

	"github.com/retrohex/prodigydat/internal/cli"
)

func newShowAUMCmd() *cobra.Command {
	var noSymbols bool

	cmd := &cobra.Command{
		Use:   "show-aum <stagefile>",
		Short: "Dump the active allocation-unit map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sf, err := loadStageFile(args[0])
			if err != nil {
				return err
			}
			cli.ShowAUM(cmd.OutOrStdout(), sf, noSymbols)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noSymbols, "no-symbols", false, "render raw hex values instead of glyphs")
	return cmd
}
