// Package hexdump renders byte slices as addr/hex/ASCII rows, the format
// `view` uses for raw segment field dumps.
//
// Grounded on HexDump in original_source/prodigyclassic/hexdump.py; the
// row-building loop is carried over field for field, with Go's
// strings.Builder + fmt.Fprintf replacing Python's str.format.
package hexdump

import (
	"fmt"
	"strings"
)

// Dumper formats byte rows. The zero value is ready to use and matches
// HexDump's defaults: 16 bytes per row, grouped by 8.
type Dumper struct {
	GroupLength int
	Length      int
}

// Default is the zero-configuration Dumper (Length 16, GroupLength 8).
var Default = Dumper{GroupLength: 8, Length: 16}

func (d Dumper) groupLength() int {
	if d.GroupLength > 0 {
		return d.GroupLength
	}
	return 8
}

func (d Dumper) length() int {
	if d.Length > 0 {
		return d.Length
	}
	return 16
}

// Dump renders data as a multi-line hex dump.
func (d Dumper) Dump(data []byte) string {
	rows := d.DumpRows(data)
	return strings.Join(rows, "\n")
}

// DumpRows renders data as one row per Length()-byte chunk, each row an
// address, its hex groups, and its ASCII rendering.
func (d Dumper) DumpRows(data []byte) []string {
	length := d.length()
	group := d.groupLength()
	var rows []string
	for addr := 0; addr < len(data); addr += length {
		end := addr + length
		if end > len(data) {
			end = len(data)
		}
		row := data[addr:end]

		var hexParts, strParts []string
		for i := 0; i < len(row); i += group {
			gEnd := i + group
			if gEnd > len(row) {
				gEnd = len(row)
			}
			chunk := row[i:gEnd]
			hexParts = append(hexParts, hexGroup(chunk))
			strParts = append(strParts, asciiGroup(chunk))
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%04x  ", addr)
		for i, h := range hexParts {
			if i > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%-23s", h)
		}
		b.WriteString("  |")
		for _, s := range strParts {
			b.WriteString(s)
		}
		b.WriteString("|")
		rows = append(rows, b.String())
	}
	return rows
}

func hexGroup(chunk []byte) string {
	var b strings.Builder
	for i, c := range chunk {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02x", c)
	}
	return b.String()
}

// asciiGroup renders printable ASCII bytes (32..126) verbatim and
// everything else as '.', matching HexDump._str.
func asciiGroup(chunk []byte) string {
	var b strings.Builder
	for _, c := range chunk {
		if c >= 32 && c <= 126 {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}
