// Package records implements the fixed-layout value objects shared by the
// stage container: Check, VersionID, ObjectID and StartID. Each type mirrors
// the corresponding class in
// original_source/prodigyclassic/stage/structures.py: a fixed Size(), an
// Unpack that fails with a *errs.UnpackError on a wrong byte count, and a
// Pack inverse.
package records

import (
	"encoding/binary"
	"fmt"

	"github.com/retrohex/prodigydat/internal/stage/errs"
)

// StorageWidth is the number of low bits of a VersionID occupied by
// StoreCandidacy. The patent text says 3 bits but observed STAGE.DAT data
// implies 5; this spec takes 5, per spec.md's resolved Open Question.
const StorageWidth = 5

// StoreCandidacy values, in VersionID's low StorageWidth bits. The set is
// known to be incomplete.
const (
	CacheCandidacy          = 0
	NoCandidacy             = 1
	StageCandidacy          = 2
	StageNoVCandidacy       = 3
	RequiredCandidacy       = 4
	RequiredNoVCandidacy    = 5
)

// Check is the two-uint16 checksum prefix carried by the AU Map and the
// Directory. Fields are parsed but never validated (spec.md Non-goals); the
// comparison is left as a hook for future work.
type Check struct {
	MapCheck uint16
	DirCheck uint16
}

// Size is the packed byte length of a Check.
func (Check) Size() int { return 4 }

// Unpack decodes a Check from exactly Size() little-endian bytes.
func (c *Check) Unpack(b []byte) error {
	if len(b) != c.Size() {
		return &errs.UnpackError{Struct: "Check", Want: c.Size(), Got: len(b)}
	}
	c.MapCheck = binary.LittleEndian.Uint16(b[0:2])
	c.DirCheck = binary.LittleEndian.Uint16(b[2:4])
	return nil
}

// Pack re-encodes the Check.
func (c Check) Pack() []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint16(b[0:2], c.MapCheck)
	binary.LittleEndian.PutUint16(b[2:4], c.DirCheck)
	return b
}

func (c Check) String() string {
	return fmt.Sprintf("Check(mapcheck=%#x, dircheck=%#x)", c.MapCheck, c.DirCheck)
}

// VersionID is the two-byte version/store-candidacy field shared by Object
// and DirectoryEntry. Byte1 is the object header's "version" byte; Byte2 is
// its "store flags" byte.
type VersionID struct {
	Byte1 byte
	Byte2 byte
}

// Size is the packed byte length of a VersionID.
func (VersionID) Size() int { return 2 }

// Unpack decodes a VersionID from exactly Size() bytes.
func (v *VersionID) Unpack(b []byte) error {
	if len(b) != v.Size() {
		return &errs.UnpackError{Struct: "VersionID", Want: v.Size(), Got: len(b)}
	}
	v.Byte1 = b[0]
	v.Byte2 = b[1]
	return nil
}

// Pack re-encodes the VersionID.
func (v VersionID) Pack() []byte {
	return []byte{v.Byte1, v.Byte2}
}

// fields folds the two bytes into the combined 16-bit field the patent
// describes: (byte1 << 8) | byte2.
func (v VersionID) fields() uint16 {
	return uint16(v.Byte1)<<8 | uint16(v.Byte2)
}

// VersionValue is the high bits of the combined field, above StorageWidth.
func (v VersionID) VersionValue() uint16 {
	return v.fields() >> StorageWidth
}

// StoreCandidacy is the low StorageWidth bits of the combined field.
func (v VersionID) StoreCandidacy() uint16 {
	return v.fields() & ((1 << StorageWidth) - 1)
}

func (v VersionID) String() string {
	return fmt.Sprintf("VersionID(byte1=%#x, byte2=%#x)", v.Byte1, v.Byte2)
}

// ObjectID is the 13-byte directory-entry/object identifier: an 11-byte
// space-padded name, a location byte and a type byte.
type ObjectID struct {
	// Name is the space-trimmed 11-byte name. An all-zero on-disk name
	// decodes to HasName == false (there is no such thing as an object
	// literally named "", so the bool carries the sentinel instead of an
	// empty string doing double duty).
	Name     string
	HasName  bool
	Location uint8
	Type     uint8
}

// Size is the packed byte length of an ObjectID.
func (ObjectID) Size() int { return 13 }

// Unpack decodes an ObjectID from exactly Size() bytes. A name of all zero
// bytes means "no name", per structures.py's ObjectID.unpack.
func (o *ObjectID) Unpack(b []byte) error {
	if len(b) != o.Size() {
		return &errs.UnpackError{Struct: "ObjectID", Want: o.Size(), Got: len(b)}
	}
	raw := b[0:11]
	allZero := true
	for _, c := range raw {
		if c != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		o.Name = ""
		o.HasName = false
	} else {
		o.Name = trimTrailingSpaces(raw)
		o.HasName = true
	}
	o.Location = b[11]
	o.Type = b[12]
	return nil
}

func trimTrailingSpaces(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == ' ' {
		end--
	}
	return string(b[:end])
}

// Pack re-encodes the ObjectID, writing 11 zero bytes for an unnamed
// object (the mirror image of Unpack's all-zero sentinel).
func (o ObjectID) Pack() []byte {
	out := make([]byte, 13)
	if o.HasName {
		copy(out[0:11], []byte(fmt.Sprintf("%-11s", o.Name))[:11])
	}
	out[11] = o.Location
	out[12] = o.Type
	return out
}

// RawName returns the name padded (or truncated) to 11 bytes, the on-disk
// encoding used for directory lookups by raw name.
func (o ObjectID) RawName() [11]byte {
	var raw [11]byte
	if o.HasName {
		copy(raw[:], []byte(fmt.Sprintf("%-11s", o.Name))[:11])
	}
	return raw
}

// DisplayName renders the ObjectID's name as an 8.3-style string. delim, if
// non-zero, is inserted between the 8th and 9th characters. nonASCII, if
// non-zero, replaces non-printable bytes (outside 32..126); otherwise
// non-printable bytes render as \xHH.
func (o ObjectID) DisplayName(delim byte, nonASCII byte) string {
	if !o.HasName {
		return ""
	}
	raw := o.RawName()
	chars := make([]string, 0, 12)
	for i, c := range raw {
		if i == 8 && delim != 0 {
			chars = append(chars, string(delim))
		}
		if c > 31 && c < 127 {
			chars = append(chars, string(rune(c)))
			continue
		}
		if nonASCII != 0 {
			chars = append(chars, string(nonASCII))
		} else {
			chars = append(chars, fmt.Sprintf("\\x%02x", c))
		}
	}
	out := ""
	for _, c := range chars {
		out += c
	}
	return out
}

func (o ObjectID) String() string {
	name := o.DisplayName('.', 0)
	return fmt.Sprintf("%s %#x %#x", name, o.Location, o.Type)
}

// StartID is one half of the Prologue's per-index pair: the AU id at which
// that index's AU Map and Directory begin.
type StartID struct {
	MapStartID uint16
	DirStartID uint16
}

// Size is the packed byte length of a StartID.
func (StartID) Size() int { return 4 }

// Unpack decodes a StartID from exactly Size() little-endian bytes.
func (s *StartID) Unpack(b []byte) error {
	if len(b) != s.Size() {
		return &errs.UnpackError{Struct: "StartID", Want: s.Size(), Got: len(b)}
	}
	s.MapStartID = binary.LittleEndian.Uint16(b[0:2])
	s.DirStartID = binary.LittleEndian.Uint16(b[2:4])
	return nil
}

// Pack re-encodes the StartID.
func (s StartID) Pack() []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint16(b[0:2], s.MapStartID)
	binary.LittleEndian.PutUint16(b[2:4], s.DirStartID)
	return b
}

func (s StartID) String() string {
	return fmt.Sprintf("StartID(mapstartid=%#x, dirstartid=%#x)", s.MapStartID, s.DirStartID)
}
