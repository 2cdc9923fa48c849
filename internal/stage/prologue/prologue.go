// Package prologue decodes the fixed-size STAGE.DAT file header: geometry
// (AU size, start offset, map width, entry count, directory byte size),
// which A/B index is active, and the two StartID pairs used to locate each
// index's AU Map and Directory.
//
// Grounded on structures.Prologue in
// original_source/prodigyclassic/stage/structures.py (struct format
// '<8H4s4s2H') and on _StagePrologue.load in stagefile.py, which reads
// exactly Size() bytes from offset 0.
package prologue

import (
	"fmt"

	"github.com/retrohex/prodigydat/internal/stage/bytereader"
	"github.com/retrohex/prodigydat/internal/stage/errs"
	"github.com/retrohex/prodigydat/internal/stage/records"
)

// Prologue is the decoded STAGE.DAT file header.
type Prologue struct {
	StructureLevel   uint16
	Class            uint16
	AUQuantaSize     uint16
	AUStartOffset    uint16
	MapWidth         uint16
	MaxMapEntries    uint16
	DirTotByteSize   uint16
	CurStartIdx      uint16
	StartIDs         [2]records.StartID
	PrologueStartID  uint16
	Check            uint16
}

// Size is the packed byte length of the documented Prologue layout: eight
// u16 fields, two 4-byte StartIDs, then two trailing u16 fields.
func Size() int { return 8*2 + 4 + 4 + 2*2 }

// Load reads Size() bytes from offset 0 of r and decodes the Prologue.
// Any bytes that follow the documented layout (observed in some Windows
// STAGE.DAT variants, e.g. a trailing ObjectID and three more bytes) are
// left unread; this is intentional, not a bug, per spec.md §4.3.
func Load(r *bytereader.Reader) (*Prologue, error) {
	if _, err := r.Seek(0, bytereader.SeekStart); err != nil {
		return nil, err
	}
	b, err := r.Read(Size())
	if err != nil {
		return nil, &errs.UnpackError{Struct: "Prologue", Want: Size(), Got: r.Remaining()}
	}
	return Unpack(b)
}

// Unpack decodes a Prologue from exactly Size() bytes and validates the
// documented invariants.
func Unpack(b []byte) (*Prologue, error) {
	if len(b) != Size() {
		return nil, &errs.UnpackError{Struct: "Prologue", Want: Size(), Got: len(b)}
	}
	sub := bytereader.New(b)
	p := &Prologue{}

	fields := make([]uint16, 8)
	for i := range fields {
		v, err := sub.U16LE()
		if err != nil {
			return nil, err
		}
		fields[i] = v
	}
	p.StructureLevel = fields[0]
	p.Class = fields[1]
	p.AUQuantaSize = fields[2]
	p.AUStartOffset = fields[3]
	p.MapWidth = fields[4]
	p.MaxMapEntries = fields[5]
	p.DirTotByteSize = fields[6]
	p.CurStartIdx = fields[7]

	for i := range p.StartIDs {
		raw, err := sub.Read(records.StartID{}.Size())
		if err != nil {
			return nil, err
		}
		if err := p.StartIDs[i].Unpack(raw); err != nil {
			return nil, err
		}
	}

	prologueStartID, err := sub.U16LE()
	if err != nil {
		return nil, err
	}
	p.PrologueStartID = prologueStartID

	check, err := sub.U16LE()
	if err != nil {
		return nil, err
	}
	p.Check = check

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the documented invariants: mapWidth in [1,16],
// auQuantaSize > 0, prologueStartID >= 2, curStartIdx in {0,1}.
func (p *Prologue) Validate() error {
	if p.MapWidth < 1 || p.MapWidth > 16 {
		return fmt.Errorf("prologue: mapWidth %d out of range [1,16]", p.MapWidth)
	}
	if p.AUQuantaSize == 0 {
		return fmt.Errorf("prologue: auQuantaSize must be > 0")
	}
	if p.PrologueStartID < 2 {
		return fmt.Errorf("prologue: prologueStartID %d must be >= 2", p.PrologueStartID)
	}
	if p.CurStartIdx != 0 && p.CurStartIdx != 1 {
		return fmt.Errorf("prologue: curStartIdx %d must be 0 or 1", p.CurStartIdx)
	}
	return nil
}
