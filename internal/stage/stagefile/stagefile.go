// Package stagefile orchestrates a decoded STAGE.DAT: the prologue, both
// AU Maps, both directories, and AU-chain-based object retrieval.
//
// Grounded on stagefile.StageFile in
// original_source/prodigyclassic/stage/stagefile.py: the _Stage* loader
// wrappers become StageFile methods since Go has no mixin-style multiple
// inheritance to hang them on, but the load order, the offset/AUid
// formulas, and read_chain's walk-then-concatenate shape carry over
// unchanged.
package stagefile

import (
	"fmt"

	"github.com/retrohex/prodigydat/internal/stage/aum"
	"github.com/retrohex/prodigydat/internal/stage/bytereader"
	"github.com/retrohex/prodigydat/internal/stage/directory"
	"github.com/retrohex/prodigydat/internal/stage/errs"
	"github.com/retrohex/prodigydat/internal/stage/object"
	"github.com/retrohex/prodigydat/internal/stage/prologue"
	"github.com/retrohex/prodigydat/internal/stage/records"
)

// StageFile is a fully decoded STAGE.DAT container.
type StageFile struct {
	data     []byte
	Prologue *prologue.Prologue
	AUMaps   [2]*aum.Map
	Dirs     [2]*directory.Directory
	index    int
}

// Load decodes a whole STAGE.DAT image: the prologue, both AU Maps, both
// directories, then selects the active index from
// Prologue.CurStartIdx, mirroring StageFile.load's fixed order.
func Load(data []byte) (*StageFile, error) {
	sf := &StageFile{data: data}

	r := bytereader.New(data)
	p, err := prologue.Load(r)
	if err != nil {
		return nil, fmt.Errorf("stagefile: prologue: %w", err)
	}
	sf.Prologue = p

	for i := 0; i < 2; i++ {
		m := aum.New(p.MapWidth, p.PrologueStartID, p.MaxMapEntries)
		raw, err := sf.readRaw(uint32(p.StartIDs[i].MapStartID), m.PackedSize())
		if err != nil {
			return nil, fmt.Errorf("stagefile: AUM[%d]: %w", i, err)
		}
		if err := m.Unpack(raw); err != nil {
			return nil, fmt.Errorf("stagefile: AUM[%d]: %w", i, err)
		}
		sf.AUMaps[i] = m
	}

	for i := 0; i < 2; i++ {
		chain, err := sf.AUMaps[i].Chain(uint32(p.StartIDs[i].DirStartID))
		if err != nil {
			return nil, fmt.Errorf("stagefile: dir[%d] chain: %w", i, err)
		}
		raw, err := sf.ReadChain(chain)
		if err != nil {
			return nil, fmt.Errorf("stagefile: dir[%d] read: %w", i, err)
		}
		if len(raw) > int(p.DirTotByteSize) {
			raw = raw[:p.DirTotByteSize]
		}
		d := &directory.Directory{}
		if err := d.Unpack(raw); err != nil {
			return nil, fmt.Errorf("stagefile: dir[%d] unpack: %w", i, err)
		}
		sf.Dirs[i] = d
	}

	sf.UseIndex(int(p.CurStartIdx))
	return sf, nil
}

// UseIndex switches the active A/B index, mirroring change_index.
func (sf *StageFile) UseIndex(index int) {
	sf.index = index
}

// Index returns the currently active A/B index.
func (sf *StageFile) Index() int { return sf.index }

// AUM returns the active AU Map.
func (sf *StageFile) AUM() *aum.Map { return sf.AUMaps[sf.index] }

// Dir returns the active Directory.
func (sf *StageFile) Dir() *directory.Directory { return sf.Dirs[sf.index] }

// OffsetToAUid converts a byte offset to the AU id containing it.
func (sf *StageFile) OffsetToAUid(offset int64) (uint32, error) {
	if offset < 0 {
		return 0, fmt.Errorf("stagefile: offset must be >= 0")
	}
	p := sf.Prologue
	delta := offset - int64(p.AUStartOffset)
	return uint32(delta/int64(p.AUQuantaSize)) + uint32(p.PrologueStartID), nil
}

// AUidToOffset converts an AU id to its starting byte offset.
func (sf *StageFile) AUidToOffset(auid uint32) (int64, error) {
	p := sf.Prologue
	if auid < uint32(p.PrologueStartID) {
		return 0, fmt.Errorf("stagefile: AUid must be >= %d", p.PrologueStartID)
	}
	return int64(p.AUStartOffset) + int64(auid-uint32(p.PrologueStartID))*int64(p.AUQuantaSize), nil
}

// readAUid reads length AUs' worth of bytes starting at auid.
func (sf *StageFile) readAUid(auid uint32, length int) ([]byte, error) {
	return sf.readRaw(auid, int(sf.Prologue.AUQuantaSize)*length)
}

// readRaw reads n contiguous bytes starting at auid's byte offset, without
// rounding to AU-quanta boundaries. The AU Maps are the one structure in a
// STAGE.DAT that is not AU-chain read: _StageAUM.load reads self.size raw
// bytes directly from the AU's starting offset, and a map's packed size
// routinely spans many AUs.
func (sf *StageFile) readRaw(auid uint32, n int) ([]byte, error) {
	off, err := sf.AUidToOffset(auid)
	if err != nil {
		return nil, err
	}
	if off < 0 || int(off)+n > len(sf.data) {
		return nil, errs.ErrEOF
	}
	return sf.data[off : int(off)+n], nil
}

// ReadChain reads and concatenates the AU-sized slice for every AU id in
// chain, in order. Mirrors read_chain's walk-then-join.
func (sf *StageFile) ReadChain(chain []uint32) ([]byte, error) {
	out := make([]byte, 0, len(chain)*int(sf.Prologue.AUQuantaSize))
	for _, auid := range chain {
		b, err := sf.readAUid(auid, 1)
		if err != nil {
			return nil, fmt.Errorf("stagefile: read AU %d: %w", auid, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

// ReadChainFrom walks the active AU Map starting at auid and reads the
// resulting chain.
func (sf *StageFile) ReadChainFrom(auid uint32) ([]byte, error) {
	chain, err := sf.AUM().Chain(auid)
	if err != nil {
		return nil, err
	}
	return sf.ReadChain(chain)
}

// GetObjectByIndex loads the object named by the active directory's entry
// at position i.
func (sf *StageFile) GetObjectByIndex(i int) (*object.Object, error) {
	entry, err := sf.Dir().Entry(i)
	if err != nil {
		return nil, err
	}
	return sf.loadEntry(entry)
}

// GetObjectByName loads the object named by the active directory's entry
// for name.
func (sf *StageFile) GetObjectByName(name string) (*object.Object, error) {
	entry, err := sf.Dir().EntryByName(name)
	if err != nil {
		return nil, err
	}
	return sf.loadEntry(entry)
}

// GetObjectByID loads the object identified by id, resolved through the
// active directory's name index.
func (sf *StageFile) GetObjectByID(id records.ObjectID) (*object.Object, error) {
	i, err := sf.Dir().IndexOfObjectID(id)
	if err != nil {
		return nil, err
	}
	return sf.GetObjectByIndex(i)
}

func (sf *StageFile) loadEntry(entry directory.DirectoryEntry) (*object.Object, error) {
	data, err := sf.ReadChainFrom(uint32(entry.StartID))
	if err != nil {
		return nil, err
	}
	if len(data) > int(entry.Length) {
		data = data[:entry.Length]
	}
	obj := &object.Object{}
	if err := obj.Unpack(data); err != nil {
		return nil, err
	}
	return obj, nil
}
