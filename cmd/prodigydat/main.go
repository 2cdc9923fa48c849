// Command prodigydat inspects Prodigy Classic STAGE.DAT caches: list,
// view, extract and dump objects and their decoded segments.
//
// Grounded on stageutl.py's subcommand tree (view/dir/extract/
// list-segment-types/show-aum) and on viewer.py's VIEW.BAT emitter,
// wired to spf13/cobra's subcommand pattern.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "prodigydat",
		Short:         "Inspect Prodigy Classic STAGE.DAT caches",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	root.AddCommand(
		newViewCmd(),
		newDirCmd(),
		newExtractCmd(),
		newListSegmentTypesCmd(),
		newShowAUMCmd(),
		newUpdateCmd(),
	)
	return root
}
