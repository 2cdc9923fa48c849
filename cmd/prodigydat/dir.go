package main

import (
	"github.com/spf13/cobra"

	"github.com/retrohex/prodigydat/internal/cli"
)

func newDirCmd() *cobra.Command {
	var obj objectFlags
	var noHeader, skipImbedded bool

	cmd := &cobra.Command{
		Use:   "dir <stagefile>",
		Short: "List objects (and their imbedded objects) in a STAGE.DAT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sf, err := loadStageFile(args[0])
			if err != nil {
				return err
			}
			objFilter, err := obj.build()
			if err != nil {
				return err
			}
			return cli.Directory(cmd.OutOrStdout(), sf, objFilter, noHeader, skipImbedded)
		},
	}
	addObjectFlags(cmd, &obj)
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "omit the column header")
	cmd.Flags().BoolVar(&skipImbedded, "skip-imbedded", false, "don't descend into imbedded objects")
	return cmd
}
