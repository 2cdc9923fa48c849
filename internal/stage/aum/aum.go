// Package aum implements the AU Map (AUM): a bit-packed chain table keyed
// by AU id, the FAT of the STAGE.DAT filesystem. Grounded on structures.AUM
// in original_source/prodigyclassic/stage/structures.py, in particular its
// shift-register bit unpacker, and on _StageAUM in stagefile.py for the
// load-from-AU-id wiring.
package aum

import (
	"github.com/retrohex/prodigydat/internal/stage/errs"
	"github.com/retrohex/prodigydat/internal/stage/records"
)

// Reserved table slot values.
const (
	Free uint32 = 0x00
	EOL  uint32 = 0x01
)

// Map is a decoded AU Map: a table from AU id to next-AU-id, with the
// leading PrologueStartID slots synthesized as EOL so chain walks starting
// anywhere legal are always correct.
type Map struct {
	Width   uint16
	StartID uint16 // PrologueStartID: first legal AU id, and table prefix length
	Entries uint16 // MaxMapEntries

	Check records.Check
	table []uint32
}

// Size is the packed byte length of a map with the given geometry: the
// Check prefix plus ceil(entries * width / 8) bytes.
func Size(width, entries uint16) int {
	check := records.Check{}
	bits := int(entries) * int(width)
	return check.Size() + (bits+7)/8
}

// New constructs an empty Map with the given geometry, ready for Unpack.
func New(width, startID, entries uint16) *Map {
	return &Map{Width: width, StartID: startID, Entries: entries}
}

// byteLen is the number of post-Check bytes this Map's geometry requires.
func (m *Map) byteLen() int {
	bits := int(m.Entries) * int(m.Width)
	return (bits + 7) / 8
}

// PackedSize is the total packed byte length: Check.Size() plus the packed
// table bytes.
func (m *Map) PackedSize() int {
	return m.Check.Size() + m.byteLen()
}

// Unpack decodes the Map from exactly PackedSize() bytes: a Check prefix,
// then a stream of little-endian, LSB-first packed unsigned fields of
// Width bits each.
//
// The unpacker is a streaming shift register (spec.md §9 design note): byte
// values are shifted in at the current bit_count position, and each time
// bit_count reaches Width or more, the low Width bits are emitted as the
// next table entry and the register is shifted right by Width. This avoids
// ever materializing a bit-per-bit buffer.
func (m *Map) Unpack(data []byte) error {
	want := m.PackedSize()
	if len(data) != want {
		return &errs.UnpackError{Struct: "AUM", Want: want, Got: len(data)}
	}

	if err := m.Check.Unpack(data[:m.Check.Size()]); err != nil {
		return err
	}
	body := data[m.Check.Size():]

	m.table = make([]uint32, 0, m.Entries)
	for i := uint16(0); i < m.StartID; i++ {
		m.table = append(m.table, EOL)
	}

	mask := uint64(1)<<m.Width - 1
	var reg uint64
	bitCount := 0
	pos := 0
	remaining := int(m.Entries) - int(m.StartID)
	for n := 0; n < remaining; n++ {
		for bitCount < int(m.Width) {
			reg |= uint64(body[pos]) << bitCount
			pos++
			bitCount += 8
		}
		m.table = append(m.table, uint32(reg&mask))
		reg >>= m.Width
		bitCount -= int(m.Width)
	}
	return nil
}

// Len returns the number of decoded table slots.
func (m *Map) Len() int { return len(m.table) }

// Table returns the decoded table verbatim, for diagnostic dumps
// (show-aum). Callers must not mutate the returned slice.
func (m *Map) Table() []uint32 { return m.table }

// Next returns the AU id that auid chains to. It returns
// *errs.AUFault wrapping errs.ErrAUDoesNotExist if auid is out of range,
// errs.ErrAUEndOfList if the slot is EOL (not a failure — it's the normal
// chain terminator), or errs.ErrAUNotAllocated if the slot is Free.
func (m *Map) Next(auid uint32) (uint32, error) {
	if int(auid) >= len(m.table) {
		return 0, &errs.AUFault{AUID: auid, Err: errs.ErrAUDoesNotExist}
	}
	n := m.table[auid]
	switch n {
	case EOL:
		return 0, &errs.AUFault{AUID: auid, Err: errs.ErrAUEndOfList}
	case Free:
		return 0, &errs.AUFault{AUID: auid, Err: errs.ErrAUNotAllocated}
	default:
		return n, nil
	}
}

// Chain walks the table starting at auid, returning the ordered sequence
// of AU ids up to and including the last id before EOL. Encountering Free
// or an out-of-range id during the walk propagates as an error — the
// chain is never silently truncated.
func (m *Map) Chain(auid uint32) ([]uint32, error) {
	var chain []uint32
	for {
		chain = append(chain, auid)
		next, err := m.Next(auid)
		if err != nil {
			if fault, ok := err.(*errs.AUFault); ok && fault.Err == errs.ErrAUEndOfList {
				return chain, nil
			}
			return nil, err
		}
		auid = next
	}
}
