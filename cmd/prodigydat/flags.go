package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/retrohex/prodigydat/internal/filter"
	"github.com/retrohex/prodigydat/internal/stage/segment"
)

// parseRanges parses a comma-separated list of ints and inclusive
// int-int ranges (e.g. "1,2,5-9"), each term accepting any base
// strconv.ParseInt(0, ...) recognizes (0x.., 0.., decimal). Grounded on
// arghelpers.ArrayRangeAction's comma/dash splitting.
func parseRanges(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}
	var out []int64
	for _, term := range strings.Split(s, ",") {
		low, high, isRange := strings.Cut(term, "-")
		if !isRange {
			v, err := strconv.ParseInt(term, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid range %q: %w", term, err)
			}
			out = append(out, v)
			continue
		}
		lo, err := strconv.ParseInt(low, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", term, err)
		}
		hi, err := strconv.ParseInt(high, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", term, err)
		}
		for v := lo; v <= hi; v++ {
			out = append(out, v)
		}
	}
	return out, nil
}

func parseU8Ranges(s string) ([]uint8, error) {
	vals, err := parseRanges(s)
	if err != nil {
		return nil, err
	}
	out := make([]uint8, len(vals))
	for i, v := range vals {
		out[i] = uint8(v)
	}
	return out, nil
}

func parseU16Ranges(s string) ([]uint16, error) {
	vals, err := parseRanges(s)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, len(vals))
	for i, v := range vals {
		out[i] = uint16(v)
	}
	return out, nil
}

// objectFlags holds the raw flag values for conditions.Objects' argparse
// group (--obj-name/--obj-type/--obj-loc/--obj-status/--obj-version/
// --obj-store/--obj-min-size/--obj-max-size, plus the display options
// --obj-delim/--obj-nonascii).
type objectFlags struct {
	delim    string
	nonASCII string
	names    []string
	types    string
	locs     string
	statuses string
	versions string
	stores   string
	minSize  int
	maxSize  int
}

func addObjectFlags(cmd *cobra.Command, f *objectFlags) {
	fs := cmd.Flags()
	fs.StringVar(&f.delim, "obj-delim", ".", "delimiter to use in object names")
	fs.StringVar(&f.nonASCII, "obj-nonascii", "_", "character to use for non-printable characters in object names")
	fs.StringSliceVar(&f.names, "obj-name", nil, "object name glob(s)")
	fs.StringVar(&f.types, "obj-type", "", "object type RANGE")
	fs.StringVar(&f.locs, "obj-loc", "", "object location in set RANGE")
	fs.StringVar(&f.statuses, "obj-status", "", "object status RANGE")
	fs.StringVar(&f.versions, "obj-version", "", "object version RANGE")
	fs.StringVar(&f.stores, "obj-store", "", "object storage candidacy RANGE")
	fs.IntVar(&f.minSize, "obj-min-size", 0, "minimum size of object")
	fs.IntVar(&f.maxSize, "obj-max-size", 0, "maximum size of object")
}

func (f objectFlags) delimByte() byte {
	if f.delim == "" {
		return 0
	}
	return f.delim[0]
}

func (f objectFlags) nonASCIIByte() byte {
	if f.nonASCII == "" {
		return 0
	}
	return f.nonASCII[0]
}

func (f objectFlags) build() (filter.Object, error) {
	of := filter.Object{
		NamePatterns: f.names,
		Delim:        f.delimByte(),
		NonASCII:     f.nonASCIIByte(),
	}
	var err error
	if of.Types, err = parseU8Ranges(f.types); err != nil {
		return of, err
	}
	if of.Locations, err = parseU8Ranges(f.locs); err != nil {
		return of, err
	}
	if of.Statuses, err = parseU16Ranges(f.statuses); err != nil {
		return of, err
	}
	if of.Versions, err = parseU16Ranges(f.versions); err != nil {
		return of, err
	}
	if of.StoreCandidacies, err = parseU16Ranges(f.stores); err != nil {
		return of, err
	}
	if f.minSize > 0 {
		of.MinSize = &f.minSize
	}
	if f.maxSize > 0 {
		of.MaxSize = &f.maxSize
	}
	return of, nil
}

// segmentFlags holds conditions.Segments' argparse group.
type segmentFlags struct {
	types   []string
	minSize uint16
	maxSize uint16
}

func addSegmentFlags(cmd *cobra.Command, f *segmentFlags) {
	fs := cmd.Flags()
	fs.StringSliceVar(&f.types, "seg-type", nil, "segment type (name or numeric code)")
	fs.Uint16Var(&f.minSize, "seg-min-size", 0, "minimum size of segment")
	fs.Uint16Var(&f.maxSize, "seg-max-size", 0, "maximum size of segment")
}

func (f segmentFlags) build() (filter.Segment, error) {
	sf := filter.Segment{}
	for _, t := range f.types {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if t[0] >= '0' && t[0] <= '9' {
			v, err := strconv.ParseInt(t, 0, 16)
			if err != nil {
				return sf, fmt.Errorf("invalid --seg-type %q: %w", t, err)
			}
			sf.Types = append(sf.Types, segment.Type(v))
			continue
		}
		sf.TypeNames = append(sf.TypeNames, t)
	}
	if f.minSize > 0 {
		v := f.minSize
		sf.MinSize = &v
	}
	if f.maxSize > 0 {
		v := f.maxSize
		sf.MaxSize = &v
	}
	return sf, nil
}

// attributeFlags holds conditions.Attributes' argparse group.
type attributeFlags struct {
	attrs []string
}

func addAttributeFlags(cmd *cobra.Command, f *attributeFlags) {
	cmd.Flags().StringSliceVar(&f.attrs, "attr", nil, "attribute key[=value] check")
}

func (f attributeFlags) build() filter.Attributes {
	af := filter.Attributes{}
	for _, a := range f.attrs {
		af.Checks = append(af.Checks, filter.ParseAttribute(a))
	}
	return af
}
