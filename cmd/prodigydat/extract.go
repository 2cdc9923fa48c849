package main

import (
	"github.com/spf13/cobra"

	"github.com/retrohex/prodigydat/internal/cli"
)

func newExtractCmd() *cobra.Command {
	var obj objectFlags
	var seg segmentFlags
	var attr attributeFlags
	var lines string
	var outDir, nameFormat string
	var asObject, asSegment, force, noHeader, skipImbedded bool

	cmd := &cobra.Command{
		Use:   "extract <stagefile>",
		Short: "Extract objects, segments or attribute values to files",
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
			segFilter, err := seg.build()
			if err != nil {
				return err
			}
			lineVals, err := parseRanges(lines)
			if err != nil {
				return err
			}
			var lineNos []int
			for _, v := range lineVals {
				lineNos = append(lineNos, int(v))
			}

			opts := cli.Default().ExtractOptionsFrom(asObject, asSegment)
			if cmd.Flags().Changed("name-format") {
				opts.NameFormat = nameFormat
			}
			opts.Attributes = attr.attrs
			opts.Lines = lineNos
			if cmd.Flags().Changed("no-header") {
				opts.NoHeader = noHeader
			}
			if cmd.Flags().Changed("force") {
				opts.Force = force
			}
			if cmd.Flags().Changed("skip-imbedded") {
				opts.SkipImbedded = skipImbedded
			}

			return cli.Extract(outDir, sf, objFilter, segFilter, attr.build(), opts)
		},
	}
	addObjectFlags(cmd, &obj)
	addSegmentFlags(cmd, &seg)
	addAttributeFlags(cmd, &attr)
	cmd.Flags().StringVar(&lines, "line", "", "restrict extraction to object/segment line number(s) or RANGE")
	cmd.Flags().StringVar(&outDir, "output-dir", ".", "directory to write extracted files to")
	cmd.Flags().StringVar(&nameFormat, "name-format", "", "output filename template, e.g. {obj_name}_{id}")
	cmd.Flags().BoolVar(&asObject, "object", false, "extract whole objects")
	cmd.Flags().BoolVar(&asSegment, "segment", false, "extract whole segments")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing output files")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "omit object/segment headers from extracted data")
	cmd.Flags().BoolVar(&skipImbedded, "skip-imbedded", false, "don't descend into imbedded objects")
	return cmd
}
