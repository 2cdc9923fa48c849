package cli

import "github.com/retrohex/prodigydat/internal/hexdump"

// RenderOptions mirrors settings.Settings: a struct of rendering defaults
// constructed by Default() and then selectively overridden by flag parsing
// in cmd/prodigydat, exactly as settings.Settings is overridden in
// cmd/bdinfo/main.go.
type RenderOptions struct {
	NoHeader     bool
	SkipImbedded bool
	Force        bool

	// DumpGeometry is the hex/ASCII side-by-side layout for payloads too
	// long to print inline. View does not read it; it dumps with
	// hexdump.Default, which is also this field's default.
	DumpGeometry hexdump.Dumper

	// ShortDumpLen is the byte count at or under which a field's dump is
	// printed inline rather than on its own indented block. View does not
	// read it; it uses its own constant of 8, this field's default.
	ShortDumpLen int

	// Default name-format templates, keyed by Extract mode.
	// ExtractOptionsFrom seeds ExtractOptions.NameFormat from these.
	// Extract's own fallback for an empty NameFormat uses the same three
	// templates as literals.
	ObjectNameFormat    string
	SegmentNameFormat   string
	AttributeNameFormat string
}

// Default returns the baseline RenderOptions: full headers, imbedded
// objects descended into, no overwrite, and the package's standard hex
// dump geometry.
func Default() RenderOptions {
	return RenderOptions{
		NoHeader:     false,
		SkipImbedded: false,
		Force:        false,
		DumpGeometry: hexdump.Default,
		ShortDumpLen: 8,

		ObjectNameFormat:    "{obj_name}_{id}",
		SegmentNameFormat:   "{obj_name}_{id}_{segment_name}",
		AttributeNameFormat: "{obj_name}_{id}_{segment_type}_{attribute}",
	}
}

// ExtractOptionsFrom builds an ExtractOptions seeded from ro's defaults,
// letting callers (cmd/prodigydat's extract subcommand) override only the
// fields a flag actually touched.
func (ro RenderOptions) ExtractOptionsFrom(object, segment bool) ExtractOptions {
	nameFormat := ro.AttributeNameFormat
	switch {
	case object:
		nameFormat = ro.ObjectNameFormat
	case segment:
		nameFormat = ro.SegmentNameFormat
	}
	return ExtractOptions{
		NameFormat:   nameFormat,
		Object:       object,
		Segment:      segment,
		NoHeader:     ro.NoHeader,
		Force:        ro.Force,
		SkipImbedded: ro.SkipImbedded,
	}
}
