// Package directory implements the STAGE.DAT directory: an ordered list of
// DirectoryEntry records plus a name index, chain-read via one of the two
// AU Maps. Grounded on structures.Directory/DirectoryEntry in
// original_source/prodigyclassic/stage/structures.py and on
// _StageDirectory in stagefile.py for the chain-read-then-truncate load
// sequence (directories need not fit exactly into whole AUs).
package directory

import (
	"encoding/binary"

	"github.com/retrohex/prodigydat/internal/stage/bytereader"
	"github.com/retrohex/prodigydat/internal/stage/errs"
	"github.com/retrohex/prodigydat/internal/stage/records"
)

// headerSize is 22 bytes: Check(4) + createDate(4) + modifyDate(4) +
// noVClass(2) + inUse(2) + maximum(2) + usageOff(2) + entryOff(2).
const headerSize = 22

// entrySize is the packed byte length of one DirectoryEntry: id(13) +
// unused(1) + status(2) + length(2) + startID(2) + version(2) + check(2).
const entrySize = 24

// DirectoryEntry is one 24-byte directory record.
type DirectoryEntry struct {
	ID      records.ObjectID
	Unused  byte // purpose unknown; preserved verbatim per spec.md §9
	Status  uint16
	Length  uint16
	StartID uint16
	Version records.VersionID
	Check   uint16
}

// Unpack decodes a DirectoryEntry from exactly entrySize bytes.
func (e *DirectoryEntry) Unpack(b []byte) error {
	if len(b) != entrySize {
		return &errs.UnpackError{Struct: "DirectoryEntry", Want: entrySize, Got: len(b)}
	}
	if err := e.ID.Unpack(b[0:13]); err != nil {
		return err
	}
	e.Unused = b[13]
	e.Status = binary.LittleEndian.Uint16(b[14:16])
	e.Length = binary.LittleEndian.Uint16(b[16:18])
	e.StartID = binary.LittleEndian.Uint16(b[18:20])
	if err := e.Version.Unpack(b[20:22]); err != nil {
		return err
	}
	e.Check = binary.LittleEndian.Uint16(b[22:24])
	return nil
}

// FromObjectHeader builds a bare-bones DirectoryEntry out of an object's
// header fields, the way set_from_object does in structures.py — used by
// filter predicates so the same check logic applies to both directory
// entries and freshly-loaded objects.
func FromObjectHeader(id records.ObjectID, length uint16, version records.VersionID) DirectoryEntry {
	return DirectoryEntry{ID: id, Length: length, Version: version}
}

// Directory is the decoded directory: header fields, a usage list, and the
// entry list with its name index.
type Directory struct {
	Check      records.Check
	CreateDate uint32 // raw u32; epoch unclear per spec.md §9, returned verbatim
	ModifyDate uint32
	NoVClass   records.VersionID
	InUse      uint16
	Maximum    uint16
	UsageOff   uint16
	EntryOff   uint16

	UsageList []uint16 // rebased 0-based (stored 1-based on disk)
	EntryList []DirectoryEntry

	nameIndex map[string]int
}

// Size is the packed byte length of a directory with the given maximum
// entry count: 22-byte header + 2 bytes per usage-list slot + 24 bytes per
// entry.
func Size(maximum uint16) int {
	return headerSize + 2*int(maximum) + entrySize*int(maximum)
}

// Unpack decodes a Directory from exactly Size(maximum-encoded-in-header)
// bytes, where maximum is read from the header itself; data must be
// truncated to that total length by the caller (StageFile trims the
// chain-read bytes to Prologue.DirTotByteSize before calling Unpack).
func (d *Directory) Unpack(data []byte) error {
	if len(data) < headerSize {
		return &errs.UnpackError{Struct: "Directory", Want: -1, Got: len(data)}
	}
	r := bytereader.New(data)

	checkRaw, err := r.Read(4)
	if err != nil {
		return err
	}
	if err := d.Check.Unpack(checkRaw); err != nil {
		return err
	}
	if d.CreateDate, err = r.U32LE(); err != nil {
		return err
	}
	if d.ModifyDate, err = r.U32LE(); err != nil {
		return err
	}
	novRaw, err := r.Read(2)
	if err != nil {
		return err
	}
	if err := d.NoVClass.Unpack(novRaw); err != nil {
		return err
	}
	if d.InUse, err = r.U16LE(); err != nil {
		return err
	}
	if d.Maximum, err = r.U16LE(); err != nil {
		return err
	}
	if d.UsageOff, err = r.U16LE(); err != nil {
		return err
	}
	if d.EntryOff, err = r.U16LE(); err != nil {
		return err
	}

	want := Size(d.Maximum)
	if len(data) != want {
		return &errs.UnpackError{Struct: "Directory", Want: want, Got: len(data)}
	}

	d.UsageList = make([]uint16, d.Maximum)
	for i := range d.UsageList {
		v, err := r.U16LE()
		if err != nil {
			return err
		}
		d.UsageList[i] = v - 1
	}

	rest, err := r.Read(-1)
	if err != nil {
		return err
	}
	if len(rest)%entrySize != 0 {
		return &errs.UnpackError{Struct: "Directory.entrylist", Want: -1, Got: len(rest)}
	}
	d.EntryList = make([]DirectoryEntry, 0, len(rest)/entrySize)
	for off := 0; off < len(rest); off += entrySize {
		var e DirectoryEntry
		if err := e.Unpack(rest[off : off+entrySize]); err != nil {
			return err
		}
		d.EntryList = append(d.EntryList, e)
	}
	d.reindex()
	return nil
}

func (d *Directory) reindex() {
	d.nameIndex = make(map[string]int, len(d.EntryList))
	for i, e := range d.EntryList {
		if e.ID.HasName {
			d.nameIndex[e.ID.Name] = i
		}
	}
}

// Entry returns the DirectoryEntry at index i.
func (d *Directory) Entry(i int) (DirectoryEntry, error) {
	if i < 0 || i >= len(d.EntryList) {
		return DirectoryEntry{}, errs.ErrNotFound
	}
	return d.EntryList[i], nil
}

// IndexOf returns the position of the entry named name, accepted either as
// a raw space-padded name or already-trimmed. Returns errs.ErrNotFound if
// absent (all-zero-name entries are never present in the index, matching
// Directory._create_index in structures.py).
func (d *Directory) IndexOf(name string) (int, error) {
	trimmed := trimTrailingSpaces(name)
	i, ok := d.nameIndex[trimmed]
	if !ok {
		return 0, errs.ErrNotFound
	}
	return i, nil
}

// IndexOfObjectID returns the position of the entry whose name matches id.
func (d *Directory) IndexOfObjectID(id records.ObjectID) (int, error) {
	if !id.HasName {
		return 0, errs.ErrNotFound
	}
	return d.IndexOf(id.Name)
}

// EntryByName is a convenience combining IndexOf and Entry.
func (d *Directory) EntryByName(name string) (DirectoryEntry, error) {
	i, err := d.IndexOf(name)
	if err != nil {
		return DirectoryEntry{}, err
	}
	return d.Entry(i)
}

func trimTrailingSpaces(s string) string {
	end := len(s)
	for end > 0 && s[end-1] == ' ' {
		end--
	}
	return s[:end]
}
