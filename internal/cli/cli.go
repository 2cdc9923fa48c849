// Package cli implements the view/dir/extract/list-segment-types/show-aum
// operations that drive a decoded StageFile, plus the output helpers they
// share.
//
// Grounded on stageutl.py's five top-level functions (list_segment_types,
// show_aum, directory, view, extract). Each keeps the original's
// explicit-worklist traversal: a slice standing in for Python's
// segment_list, popped from the front, with embedded-object segments
// prepending their own freshly-parsed segment list rather than recursing
// — the same "explicit work-list of pending segment streams" spec.md §9
// calls for, so descent depth is bounded by queue growth, not call stack
// depth.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/retrohex/prodigydat/internal/filter"
	"github.com/retrohex/prodigydat/internal/hexdump"
	"github.com/retrohex/prodigydat/internal/stage/aum"
	"github.com/retrohex/prodigydat/internal/stage/directory"
	"github.com/retrohex/prodigydat/internal/stage/object"
	"github.com/retrohex/prodigydat/internal/stage/segment"
	"github.com/retrohex/prodigydat/internal/stage/stagefile"
)

// ListSegmentTypes prints every known segment type and its code, sorted by
// code, plus a trailing note about the Unknown catch-all.
func ListSegmentTypes(w io.Writer) {
	types := make([]segment.Type, 0, len(segment.Names))
	for t := range segment.Names {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, t := range types {
		fmt.Fprintf(w, "%-35s %#04x(%d)\n", segment.Names[t], uint8(t), uint8(t))
	}
	fmt.Fprintf(w, "\n'%s' matches all others\n", "Unknown")
}

// ShowAUM prints the active AU Map's table, 16 entries per row. With
// symbols, consecutive/EOL/free slots render as compact glyphs the way
// show_aum's char_fmt/hex_fmt do; fragmented or out-of-pattern slots
// always render as hex.
func ShowAUM(w io.Writer, sf *stagefile.StageFile, noSymbols bool) {
	const (
		invalid     = "X"
		consecutive = "-"
		eol         = "%"
		unused      = "U"
	)

	m := sf.AUM()
	start := int(sf.Prologue.PrologueStartID)
	table := m.Table()

	var out []string
	for i := 0; i < start && i < len(table); i++ {
		if noSymbols {
			out = append(out, centerCell(""))
		} else {
			out = append(out, centerCell(invalid))
		}
	}
	for i := start; i < len(table); i++ {
		v := table[i]
		if noSymbols {
			out = append(out, hexCell(v))
			continue
		}
		switch {
		case v == uint32(i+1):
			out = append(out, centerCell(consecutive))
		case v == aum.EOL:
			out = append(out, centerCell(eol))
		case v == aum.Free:
			out = append(out, centerCell(unused))
		default:
			out = append(out, hexCell(v))
		}
	}
	const rowSize = 16
	for i := 0; i < len(out); i += rowSize {
		end := i + rowSize
		if end > len(out) {
			end = len(out)
		}
		fmt.Fprintf(w, "%#5x:  %s\n", i, strings.Join(out[i:end], ""))
	}
}

func centerCell(s string) string { return fmt.Sprintf("%-4s", centerPad(s, 4)) }

func centerPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

func hexCell(v uint32) string {
	return centerPad(fmt.Sprintf("%x", v), 4)
}

// Directory prints one line per object (and, unless skipImbedded, one more
// per embedded object), in the column layout directory() prints in
// stageutl.py.
func Directory(w io.Writer, sf *stagefile.StageFile, objFilter filter.Object, noHeader, skipImbedded bool) error {
	if !noHeader {
		fmt.Fprintln(w, "line      name     loc type   length   stat auid  ver stor check ssize")
	}

	objIdx := 0
	var segs []*segment.Segment
	line := 0
	for {
		if len(segs) == 0 {
			if objIdx >= int(sf.Dir().InUse) {
				return nil
			}
			entry, err := sf.Dir().Entry(objIdx)
			if err != nil {
				return err
			}
			obj, err := sf.GetObjectByIndex(objIdx)
			if err != nil {
				return err
			}
			objIdx++
			segs = segment.Parse(obj.Data(false))
			line++
			if objFilter.Match(entry) {
				fmt.Fprintf(w, "%04d  %-12s %02x   %02x %04x(%5d) %04x %04x  %03x   %02x  %04x    %02x\n",
					line, obj.ID.DisplayName(0, 0), obj.ID.Location, obj.ID.Type,
					entry.Length, entry.Length, entry.Status, entry.StartID,
					entry.Version.VersionValue(), entry.Version.StoreCandidacy(),
					entry.Check, obj.SetSize)
			}
			continue
		}

		seg := segs[0]
		segs = segs[1:]
		line++

		if emb, ok := seg.Fields.(*segment.ImbeddedObject); ok && !skipImbedded {
			inner := segment.Parse(emb.Object.Data(false))
			segs = append(inner, segs...)
			line++
			entry := directory.FromObjectHeader(emb.Object.ID, emb.Object.Length, emb.Object.Version)
			if objFilter.Match(entry) {
				fmt.Fprintf(w, "%04d  %-12s %02x   %02x %04x(%5d)            %03x   %02x          %02x\n",
					line, emb.Object.ID.DisplayName(0, 0), emb.Object.ID.Location, emb.Object.ID.Type,
					emb.Object.Length, emb.Object.Length,
					emb.Object.Version.VersionValue(), emb.Object.Version.StoreCandidacy(),
					emb.Object.SetSize)
			}
		}
	}
}

// View prints every object and segment in full detail, indenting one level
// per embedded-object nesting. A queue item with outdent set (rather than
// a tuple, as Python uses) signals "outdent after this point".
func View(w io.Writer, sf *stagefile.StageFile) error {
	type item struct {
		seg      *segment.Segment
		outdent  bool
	}

	dump := hexdump.Default
	const shortDumpLen = 8

	objIdx := 0
	var queue []item
	line := 0
	indent := 0

	pad := func() string { return strings.Repeat("|   ", indent) }

	for {
		if len(queue) == 0 {
			if objIdx >= int(sf.Dir().InUse) {
				return nil
			}
			entry, err := sf.Dir().Entry(objIdx)
			if err != nil {
				return err
			}
			obj, err := sf.GetObjectByIndex(objIdx)
			if err != nil {
				return err
			}
			objIdx++
			segs := segment.Parse(obj.Data(false))
			for _, s := range segs {
				queue = append(queue, item{seg: s})
			}

			indent = 0
			if line > 0 {
				fmt.Fprintln(w)
			}
			line++
			fmt.Fprintf(w, "%04d %s %#x   length=%#x(%d) status=%#x startid=%#x(%d)\n",
				line, obj.ID.DisplayName('.', '_'), obj.ID.Location, obj.Length, obj.Length,
				entry.Status, entry.StartID, entry.StartID)
			fmt.Fprintf(w, "     -       version=%#x store_candidacy=%d check=%#x setsize=%d\n",
				entry.Version.VersionValue(), entry.Version.StoreCandidacy(), entry.Check, obj.SetSize)
			indent++
			continue
		}

		it := queue[0]
		queue = queue[1:]
		if it.outdent {
			if indent > 0 {
				indent--
			}
			continue
		}

		seg := it.seg
		line++
		fmt.Fprintf(w, "%04d %s%s   st=%#x sl=%#x(%d)\n", line, pad(), seg.TypeName(), uint8(seg.SegType), seg.SegLength, seg.SegLength)

		if emb, ok := seg.Fields.(*segment.ImbeddedObject); ok {
			inner := segment.Parse(emb.Object.Data(false))
			var innerItems []item
			for _, s := range inner {
				innerItems = append(innerItems, item{seg: s})
			}
			innerItems = append(innerItems, item{outdent: true})
			queue = append(innerItems, queue...)

			line++
			fmt.Fprintf(w, "%04d %s- %s %#x %#x   length=%#x(%d) version=%#x\n",
				line, pad(), emb.Object.ID.DisplayName('.', '_'), emb.Object.ID.Location, emb.Object.ID.Type,
				emb.Object.Length, emb.Object.Length, emb.Object.Version.VersionValue())
			fmt.Fprintf(w, "%s-        store_candidacy=%d setsize=%d\n",
				pad(), emb.Object.Version.StoreCandidacy(), emb.Object.SetSize)
			indent++
			continue
		}

		indent++
		for _, exc := range seg.Exceptions {
			fmt.Fprintf(w, "%s%T: %s\n", pad(), exc, exc)
		}

		if _, ok := seg.Fields.(*segment.Unknown); ok {
			data := seg.Fields.(*segment.Unknown).Data
			printField(w, pad(), "data", data, dump, shortDumpLen)
		} else {
			printFields(w, pad(), seg.Fields, dump, shortDumpLen)
		}
		if indent > 0 {
			indent--
		}
	}
}

func printFields(w io.Writer, pad string, fields any, dump hexdump.Dumper, shortDumpLen int) {
	for _, kv := range sortedFields(fields) {
		switch v := kv.value.(type) {
		case []byte:
			printField(w, pad, kv.name, v, dump, shortDumpLen)
		default:
			fmt.Fprintf(w, "%s%-16s: %v\n", pad, kv.name, v)
		}
	}
}

func printField(w io.Writer, pad, name string, data []byte, dump hexdump.Dumper, shortDumpLen int) {
	if len(data) > shortDumpLen {
		fmt.Fprintf(w, "%s%-16s: (%d bytes)\n", pad, name, len(data))
		fmt.Fprintln(w, dump.Dump(data))
	} else {
		fmt.Fprintf(w, "%s%-16s:   %s\n", pad, name, dump.Dump(data))
	}
}

// ExtractOptions configures Extract. NameFormat is a `{token}` format string
// (expanded by expandFormat, not text/template) whose tokens are the keys
// of the fields map Extract builds for each match.
type ExtractOptions struct {
	NameFormat   string
	Object       bool
	Segment      bool
	Attributes   []string
	Lines        []int
	NoHeader     bool
	Force        bool
	SkipImbedded bool
}

// Extract walks every object/segment the way extract() in stageutl.py
// does, writing one output file per match per ExtractOptions.
func Extract(outDir string, sf *stagefile.StageFile, objFilter filter.Object, segFilter filter.Segment, attrFilter filter.Attributes, opts ExtractOptions) error {
	type restoreFrame struct {
		obj      *object.Object
		entry    directory.DirectoryEntry
		objLine  int
	}
	type queued struct {
		seg     *segment.Segment
		restore *restoreFrame
	}

	objIdx := 0
	var queue []queued
	var obj *object.Object
	var entry directory.DirectoryEntry
	lineNo, objLine, segLine := 0, 0, 0
	seen := make(map[*object.Object]bool)

	bump := func() int { lineNo++; return lineNo }

	for {
		var seg *segment.Segment

		if len(queue) > 0 && queue[0].restore != nil {
			r := queue[0].restore
			queue = queue[1:]
			obj, entry, objLine = r.obj, r.entry, r.objLine
			continue
		}

		if len(queue) == 0 {
			if objIdx >= int(sf.Dir().InUse) {
				return nil
			}
			var err error
			entry, err = sf.Dir().Entry(objIdx)
			if err != nil {
				return err
			}
			obj, err = sf.GetObjectByIndex(objIdx)
			if err != nil {
				return err
			}
			objIdx++
			for _, s := range segment.Parse(obj.Data(false)) {
				queue = append(queue, queued{seg: s})
			}
			objLine = bump()
			continue
		}

		seg = queue[0].seg
		queue = queue[1:]
		segLine = bump()

		if emb, ok := seg.Fields.(*segment.ImbeddedObject); ok && !opts.SkipImbedded {
			saved := restoreFrame{obj: obj, entry: entry, objLine: objLine}
			var inner []queued
			for _, s := range segment.Parse(emb.Object.Data(false)) {
				inner = append(inner, queued{seg: s})
			}
			inner = append(inner, queued{restore: &saved})
			queue = append(inner, queue...)

			obj = emb.Object
			entry = directory.FromObjectHeader(emb.Object.ID, emb.Object.Length, emb.Object.Version)
			objLine = bump()
			continue
		}

		if seen[obj] {
			continue
		}

		if len(opts.Lines) > 0 && !containsInt(opts.Lines, objLine) && !containsInt(opts.Lines, segLine) {
			continue
		}
		if !objFilter.Match(entry) {
			continue
		}
		if !segFilter.Match(seg) {
			continue
		}
		if !attrFilter.Match(seg.Fields) {
			continue
		}

		id := objLine
		if !opts.Object {
			id = segLine
		}

		base := fields{
			"id":                id,
			"obj_name":          obj.ID.DisplayName('.', 0),
			"obj_name_nodelim":  obj.ID.DisplayName(0, 0),
			"obj_loc":           obj.ID.Location,
			"obj_type":          obj.ID.Type,
			"obj_status":        entry.Status,
			"obj_version":       obj.Version.VersionValue(),
			"obj_store":         obj.Version.StoreCandidacy(),
			"segment_type":      uint8(seg.SegType),
			"segment_name":      seg.TypeName(),
			"segment_len":       seg.SegLength,
			"attribute":         "",
		}

		nameFormat := opts.NameFormat
		if nameFormat == "" {
			switch {
			case opts.Object:
				nameFormat = "{obj_name}_{id}"
			case opts.Segment:
				nameFormat = "{obj_name}_{id}_{segment_name}"
			default:
				nameFormat = "{obj_name}_{id}_{segment_type}_{attribute}"
			}
		}

		write := func(data []byte) error {
			return writeExtracted(outDir, nameFormat, base, opts.Force, data)
		}

		switch {
		case opts.Object:
			seen[obj] = true
			if err := write(obj.Data(!opts.NoHeader)); err != nil {
				return err
			}
		case opts.Segment:
			if err := write(seg.Body(!opts.NoHeader)); err != nil {
				return err
			}
		case len(opts.Attributes) > 0:
			for _, attr := range matchAttributeNames(seg.Fields, opts.Attributes) {
				data, ok := attributeBytes(seg.Fields, attr)
				if !ok {
					continue
				}
				frame := cloneFields(base)
				frame["attribute"] = attr
				if err := writeExtracted(outDir, nameFormat, frame, opts.Force, data); err != nil {
					return err
				}
			}
		}
	}
}

func containsInt(set []int, v int) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

type fields map[string]any

func cloneFields(f fields) fields {
	out := make(fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func writeExtracted(outDir, nameFormat string, f fields, force bool, data []byte) error {
	name := expandFormat(nameFormat, f)
	path := filepath.Join(outDir, name)

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	out, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("extract: %s: %w", path, err)
	}
	defer out.Close()
	_, err = out.Write(data)
	return err
}

func expandFormat(format string, f fields) string {
	var b strings.Builder
	i := 0
	for i < len(format) {
		c := format[i]
		if c == '{' {
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				b.WriteByte(c)
				i++
				continue
			}
			key := format[i+1 : i+end]
			if v, ok := f[key]; ok {
				fmt.Fprintf(&b, "%v", v)
			}
			i += end + 1
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}
