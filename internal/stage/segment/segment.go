// Package segment parses an Object's payload into a sequence of typed
// segments, dispatching on the 3-byte segment header's type byte.
//
// Grounded on segments.py in
// original_source/prodigyclassic/stage/segments.py: the Segment base class,
// its closed set of *Segment subclasses (one per segment type, each with
// its own field schema), and SegmentFactory.parse_segments's
// truncation/malformed-header recovery. The dispatch-by-switch shape also
// follows a stream-type-keyed switch over a closed set of variant structs,
// the same layout dispatch uses elsewhere in this codebase.
package segment

import (
	"fmt"

	"github.com/retrohex/prodigydat/internal/stage/bytereader"
	"github.com/retrohex/prodigydat/internal/stage/errs"
	"github.com/retrohex/prodigydat/internal/stage/object"
	"github.com/retrohex/prodigydat/internal/stage/records"
)

// HeaderSize is the packed byte length of a segment's header: st(1) + sl(2).
const HeaderSize = 3

// Type is a segment-type byte (spec.md §4.7's closed set).
type Type uint8

// Recognized segment types.
const (
	TypeProgramCall        Type = 0x01
	TypeFieldProgramCall   Type = 0x02
	TypeCompDesc           Type = 0x03
	TypeFieldDef           Type = 0x04
	TypeArrayDef           Type = 0x05
	TypeCustomTextDef      Type = 0x0A
	TypeCustomCursorDef    Type = 0x0B
	TypeSelectorCall       Type = 0x20
	TypeElementCall        Type = 0x21
	TypeInventoryCtl       Type = 0x26
	TypePageFormatCall     Type = 0x31
	TypePageFormatDefault  Type = 0x32
	TypePartitionDef       Type = 0x33
	TypePresentationData   Type = 0x51
	TypeImbeddedObject     Type = 0x52
	TypeImbeddedElement    Type = 0x53
	TypeProgramData        Type = 0x61
	TypeNavigate           Type = 0x71
)

// Names maps known segment types to a human-readable name, for
// list-segment-types and error/report output. Unrecognized types are not
// present; callers should fall back to "Unknown".
var Names = map[Type]string{
	TypeProgramCall:       "ProgramCall",
	TypeFieldProgramCall:  "FieldProgramCall",
	TypeCompDesc:          "CompDesc",
	TypeFieldDef:          "FieldDef",
	TypeArrayDef:          "ArrayDef",
	TypeCustomTextDef:     "CustomTextDef",
	TypeCustomCursorDef:   "CustomCursorDef",
	TypeSelectorCall:      "SelectorCall",
	TypeElementCall:       "ElementCall",
	TypeInventoryCtl:      "InventoryCtl",
	TypePageFormatCall:    "PageFormatCall",
	TypePageFormatDefault: "PageFormatDefault",
	TypePartitionDef:      "PartitionDef",
	TypePresentationData:  "PresentationData",
	TypeImbeddedObject:    "ImbeddedObject",
	TypeImbeddedElement:   "ImbeddedElement",
	TypeProgramData:       "ProgramData",
	TypeNavigate:          "Navigate",
}

// Segment is one decoded segment within an object's payload.
type Segment struct {
	// HasHeader is false only for the header-decode-failure path, where
	// fewer than 3 bytes remained to even read st/sl.
	HasHeader bool
	SegType   Type
	SegLength uint16

	// Raw holds every byte that was actually available for this segment,
	// starting at its header (or at whatever's left, for the
	// header-decode-failure path). It may be shorter than SegLength if the
	// segment was truncated.
	Raw []byte

	// Fields is the variant-specific decoded payload. Its concrete type
	// depends on SegType (see the Type* structs below); it is *Unknown for
	// unrecognized types and for the header-decode-failure path.
	Fields any

	Exceptions []error
}

// Header returns the segment's 3-byte header, or nil if fewer than 3 bytes
// were available.
func (s *Segment) Header() []byte {
	if len(s.Raw) < HeaderSize {
		return nil
	}
	return s.Raw[:HeaderSize]
}

// Body returns the segment's payload. withHeader, if true, includes the
// 3-byte header.
func (s *Segment) Body(withHeader bool) []byte {
	if withHeader || len(s.Raw) < HeaderSize {
		return s.Raw
	}
	return s.Raw[HeaderSize:]
}

// TypeName returns the human-readable segment type name, or "Unknown".
func (s *Segment) TypeName() string {
	if name, ok := Names[s.SegType]; ok {
		return name
	}
	return "Unknown"
}

// --- variant field schemas (spec.md §4.7) ---

// ProgramCall is the 0x01 variant.
type ProgramCall struct {
	Event  uint8
	Prefix uint8
	ID     *records.ObjectID
	ParmLength *uint16
	Parm   []byte
}

// FieldProgramCall is the 0x02 variant.
type FieldProgramCall struct {
	Event      uint8
	Field      uint8
	Prefix     uint8
	ID         *records.ObjectID
	ParmLength *uint16
	Parm       []byte
}

// CompDesc is the 0x03 variant.
type CompDesc struct {
	TableNum uint8
	Length1  uint16
	Length2  *uint16
}

// FieldDef is the 0x04 variant.
type FieldDef struct {
	Attributes   uint16
	Origin       [3]byte
	Size         [3]byte
	Name         uint8
	TextID       *uint8
	CursorID     *uint8
	CursorOrigin *[3]byte
}

// ArrayDef is the 0x05 variant.
type ArrayDef struct {
	Occurrences uint8
	VerticalGap [3]byte
	FieldName   []byte
}

// CustomTextDef is the 0x0A variant.
type CustomTextDef struct {
	ID     uint8
	NAPLPS []byte
}

// CustomCursorDef is the 0x0B variant.
type CustomCursorDef struct {
	ID     uint8
	Size   [3]byte
	NAPLPS []byte
}

// SelectorCall is the 0x20 variant.
type SelectorCall struct {
	PartID     uint8
	Priority   uint8
	Prefix     uint8
	ID         *records.ObjectID
	ParmLength *uint16
	Parm       []byte
}

// ElementCall is the 0x21 variant. Its 0x0D branch reads only an id (no
// parm), unlike ProgramCall/SelectorCall's 0x0D branch.
type ElementCall struct {
	PartID     uint8
	Priority   uint8
	Prefix     uint8
	ID         *records.ObjectID
	ParmLength *uint16
	Parm       []byte
}

// InventoryCtl is the 0x26 variant. Schema is best-effort: no corroborated
// sample exists in the source material.
type InventoryCtl struct {
	Type      uint8
	Number    uint16
	SubNumber *uint16
}

// PageFormatCall is the 0x31 variant. Its 0x0D branch reads only an id (no
// parm).
type PageFormatCall struct {
	Prefix     uint8
	ID         *records.ObjectID
	ParmLength *uint16
	Parm       []byte
}

// PageFormatDefault is the 0x32 variant. Schema is best-effort: not used
// in the source material's sample STAGE.DAT.
type PageFormatDefault struct {
	NAPLPS []byte
}

// PartitionDef is the 0x33 variant.
type PartitionDef struct {
	PartID uint8
	Origin [3]byte
	Size   [3]byte
	NAPLPS []byte
}

// PresentationData is the 0x51 variant.
type PresentationData struct {
	Type uint8
	Size [3]byte
	Data []byte
}

// ImbeddedObject is the 0x52 variant: the remaining bytes are another
// Object, header and payload.
type ImbeddedObject struct {
	Object *object.Object
}

// ImbeddedElement is the 0x53 variant. Schema is best-effort: no
// corroborated sample exists.
type ImbeddedElement struct {
	Data []byte
}

// ProgramData is the 0x61 variant.
type ProgramData struct {
	Type uint8
	Data []byte
}

// Navigate is the 0x71 variant.
type Navigate struct {
	Data []byte
}

// Unknown is the variant for any unrecognized segment type, and for the
// header-decode-failure path (where SegType/SegLength carry zero values
// and HasHeader is false).
type Unknown struct {
	Data []byte
}

// decodePrefixCall implements the 0x0D/0x0F prefix branching shared by
// ProgramCall, FieldProgramCall, SelectorCall and (with readParmOnID=false)
// ElementCall/PageFormatCall. On prefix 0x0D it reads an ObjectID, and
// (if readParmOnID) the remaining bytes as parm. On prefix 0x0F it reads a
// u16 parm length then that many bytes. Any other prefix is a
// *errs.SegmentDataError.
func decodePrefixCall(r *bytereader.Reader, prefix uint8, readParmOnID bool) (id *records.ObjectID, parmLength *uint16, parm []byte, err error) {
	switch prefix {
	case 0x0D:
		raw, e := r.Read(records.ObjectID{}.Size())
		if e != nil {
			return nil, nil, nil, e
		}
		var oid records.ObjectID
		if e := oid.Unpack(raw); e != nil {
			return nil, nil, nil, e
		}
		id = &oid
		if readParmOnID {
			rest, e := r.Read(-1)
			if e != nil {
				return nil, nil, nil, e
			}
			if len(rest) > 0 {
				parm = rest
			}
		}
		return id, nil, parm, nil
	case 0x0F:
		pl, e := r.U16LE()
		if e != nil {
			return nil, nil, nil, e
		}
		parmLength = &pl
		body, e := r.Read(int(pl))
		if e != nil {
			return nil, nil, nil, e
		}
		if len(body) > 0 {
			parm = body
		}
		return nil, parmLength, parm, nil
	default:
		return nil, nil, nil, &errs.SegmentDataError{
			Reason: fmt.Sprintf("prefix=%d, data=<reader pos=%d remaining=%d>", prefix, r.Tell(), r.Remaining()),
		}
	}
}
