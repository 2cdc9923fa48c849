package segment

import (
	"github.com/retrohex/prodigydat/internal/stage/bytereader"
	"github.com/retrohex/prodigydat/internal/stage/errs"
	"github.com/retrohex/prodigydat/internal/stage/object"
)

// Parse walks an object's payload and returns every segment found in file
// order. It never returns an error itself: every decoding failure attaches
// to the offending Segment as an entry in Exceptions, and iteration
// continues (spec.md §4.8's error-tolerant iteration contract) — except for
// the single case where the 3-byte header itself can't be read, which ends
// the stream after emitting one Unknown segment carrying whatever bytes
// remained.
//
// Grounded on SegmentFactory.parse_segments in
// original_source/prodigyclassic/stage/segments.py.
func Parse(payload []byte) []*Segment {
	var out []*Segment
	r := bytereader.New(payload)

	for r.IsMore() {
		loc := r.Tell()

		header, err := r.Read(HeaderSize)
		if err != nil {
			r.Seek(loc, bytereader.SeekStart)
			rest, _ := r.Read(-1)
			seg := &Segment{
				HasHeader: false,
				Raw:       rest,
				Fields:    &Unknown{Data: rest},
				Exceptions: []error{&errs.SegmentDataError{
					Reason: "invalid segment header",
				}},
			}
			out = append(out, seg)
			break
		}

		hr := bytereader.New(header)
		st, _ := hr.U8()
		sl, _ := hr.U16LE()
		segType := Type(st)

		readLen := int(sl)
		if readLen < HeaderSize {
			// sl claims a segment shorter than its own header: reading it
			// verbatim would not advance the cursor and spin forever, so
			// consume at least the header and flag the declared length.
			readLen = HeaderSize
		}
		r.Seek(loc, bytereader.SeekStart)
		segData, err := r.Read(readLen)
		var exceptions []error
		if readLen != int(sl) {
			exceptions = append(exceptions, &errs.SegmentDataError{
				Reason: "segment length shorter than header",
			})
		}
		if err != nil {
			exceptions = append(exceptions, &errs.SegmentDataError{
				Reason: "segment extends beyond end of object",
			})
			r.Seek(loc, bytereader.SeekStart)
			segData, _ = r.Read(-1)
		}

		seg := &Segment{
			HasHeader: true,
			SegType:   segType,
			SegLength: sl,
			Raw:       segData,
		}
		fields, derr := decodeVariant(segType, segData)
		seg.Fields = fields
		if derr != nil {
			exceptions = append(exceptions, derr)
		}
		seg.Exceptions = exceptions
		out = append(out, seg)

		if err != nil {
			// We consumed everything that remained; nothing more to read.
			break
		}
	}
	return out
}

// decodeVariant dispatches on segType and decodes segData (the full
// segment, header included) into the matching *Type struct. Unpack
// failures are returned as the error and the partially-decoded variant is
// still returned, matching the "attach exception, yield partial segment"
// contract.
func decodeVariant(segType Type, segData []byte) (any, error) {
	body := segData
	if len(body) >= HeaderSize {
		body = body[HeaderSize:]
	} else {
		body = nil
	}
	r := bytereader.New(body)

	switch segType {
	case TypeProgramCall:
		return unpackProgramCall(r)
	case TypeFieldProgramCall:
		return unpackFieldProgramCall(r)
	case TypeCompDesc:
		return unpackCompDesc(r)
	case TypeFieldDef:
		return unpackFieldDef(r)
	case TypeArrayDef:
		return unpackArrayDef(r)
	case TypeCustomTextDef:
		return unpackCustomTextDef(r)
	case TypeCustomCursorDef:
		return unpackCustomCursorDef(r)
	case TypeSelectorCall:
		return unpackSelectorCall(r)
	case TypeElementCall:
		return unpackElementCall(r)
	case TypeInventoryCtl:
		return unpackInventoryCtl(r)
	case TypePageFormatCall:
		return unpackPageFormatCall(r)
	case TypePageFormatDefault:
		return unpackPageFormatDefault(r)
	case TypePartitionDef:
		return unpackPartitionDef(r)
	case TypePresentationData:
		return unpackPresentationData(r)
	case TypeImbeddedObject:
		return unpackImbeddedObject(r)
	case TypeImbeddedElement:
		return unpackImbeddedElement(r)
	case TypeProgramData:
		return unpackProgramData(r)
	case TypeNavigate:
		return unpackNavigate(r)
	default:
		rest, _ := r.Read(-1)
		return &Unknown{Data: rest}, nil
	}
}

func unpackProgramCall(r *bytereader.Reader) (*ProgramCall, error) {
	v := &ProgramCall{}
	var err error
	if v.Event, err = r.U8(); err != nil {
		return v, err
	}
	if v.Prefix, err = r.U8(); err != nil {
		return v, err
	}
	id, pl, parm, err := decodePrefixCall(r, v.Prefix, true)
	v.ID, v.ParmLength, v.Parm = id, pl, parm
	return v, err
}

func unpackFieldProgramCall(r *bytereader.Reader) (*FieldProgramCall, error) {
	v := &FieldProgramCall{}
	var err error
	if v.Event, err = r.U8(); err != nil {
		return v, err
	}
	if v.Field, err = r.U8(); err != nil {
		return v, err
	}
	if v.Prefix, err = r.U8(); err != nil {
		return v, err
	}
	id, pl, parm, err := decodePrefixCall(r, v.Prefix, true)
	v.ID, v.ParmLength, v.Parm = id, pl, parm
	return v, err
}

func unpackCompDesc(r *bytereader.Reader) (*CompDesc, error) {
	v := &CompDesc{}
	var err error
	if v.TableNum, err = r.U8(); err != nil {
		return v, err
	}
	if v.Length1, err = r.U16LE(); err != nil {
		return v, err
	}
	if r.IsMore() {
		l2, err := r.U16LE()
		if err != nil {
			return v, err
		}
		v.Length2 = &l2
	}
	return v, nil
}

func unpackFieldDef(r *bytereader.Reader) (*FieldDef, error) {
	v := &FieldDef{}
	var err error
	if v.Attributes, err = r.U16LE(); err != nil {
		return v, err
	}
	if b, err := r.Read(3); err != nil {
		return v, err
	} else {
		copy(v.Origin[:], b)
	}
	if b, err := r.Read(3); err != nil {
		return v, err
	} else {
		copy(v.Size[:], b)
	}
	if v.Name, err = r.U8(); err != nil {
		return v, err
	}
	if r.IsMore() {
		id, err := r.U8()
		if err != nil {
			return v, err
		}
		v.TextID = &id
	}
	if r.IsMore() {
		id, err := r.U8()
		if err != nil {
			return v, err
		}
		v.CursorID = &id
	}
	if r.IsMore() {
		b, err := r.Read(3)
		if err != nil {
			return v, err
		}
		var origin [3]byte
		copy(origin[:], b)
		v.CursorOrigin = &origin
	}
	return v, nil
}

func unpackArrayDef(r *bytereader.Reader) (*ArrayDef, error) {
	v := &ArrayDef{}
	var err error
	if v.Occurrences, err = r.U8(); err != nil {
		return v, err
	}
	if b, err := r.Read(3); err != nil {
		return v, err
	} else {
		copy(v.VerticalGap[:], b)
	}
	v.FieldName, err = r.Read(-1)
	return v, err
}

func unpackCustomTextDef(r *bytereader.Reader) (*CustomTextDef, error) {
	v := &CustomTextDef{}
	var err error
	if v.ID, err = r.U8(); err != nil {
		return v, err
	}
	v.NAPLPS, err = r.Read(-1)
	return v, err
}

func unpackCustomCursorDef(r *bytereader.Reader) (*CustomCursorDef, error) {
	v := &CustomCursorDef{}
	var err error
	if v.ID, err = r.U8(); err != nil {
		return v, err
	}
	if b, err := r.Read(3); err != nil {
		return v, err
	} else {
		copy(v.Size[:], b)
	}
	v.NAPLPS, err = r.Read(-1)
	return v, err
}

func unpackSelectorCall(r *bytereader.Reader) (*SelectorCall, error) {
	v := &SelectorCall{}
	var err error
	if v.PartID, err = r.U8(); err != nil {
		return v, err
	}
	if v.Priority, err = r.U8(); err != nil {
		return v, err
	}
	if v.Prefix, err = r.U8(); err != nil {
		return v, err
	}
	id, pl, parm, err := decodePrefixCall(r, v.Prefix, true)
	v.ID, v.ParmLength, v.Parm = id, pl, parm
	return v, err
}

func unpackElementCall(r *bytereader.Reader) (*ElementCall, error) {
	v := &ElementCall{}
	var err error
	if v.PartID, err = r.U8(); err != nil {
		return v, err
	}
	if v.Priority, err = r.U8(); err != nil {
		return v, err
	}
	if v.Prefix, err = r.U8(); err != nil {
		return v, err
	}
	id, pl, parm, err := decodePrefixCall(r, v.Prefix, false)
	v.ID, v.ParmLength, v.Parm = id, pl, parm
	return v, err
}

func unpackInventoryCtl(r *bytereader.Reader) (*InventoryCtl, error) {
	v := &InventoryCtl{}
	var err error
	if v.Type, err = r.U8(); err != nil {
		return v, err
	}
	if v.Number, err = r.U16LE(); err != nil {
		return v, err
	}
	if r.IsMore() {
		sub, err := r.U16LE()
		if err != nil {
			return v, err
		}
		v.SubNumber = &sub
	}
	return v, nil
}

func unpackPageFormatCall(r *bytereader.Reader) (*PageFormatCall, error) {
	v := &PageFormatCall{}
	var err error
	if v.Prefix, err = r.U8(); err != nil {
		return v, err
	}
	id, pl, parm, err := decodePrefixCall(r, v.Prefix, false)
	v.ID, v.ParmLength, v.Parm = id, pl, parm
	return v, err
}

func unpackPageFormatDefault(r *bytereader.Reader) (*PageFormatDefault, error) {
	v := &PageFormatDefault{}
	var err error
	v.NAPLPS, err = r.Read(-1)
	return v, err
}

func unpackPartitionDef(r *bytereader.Reader) (*PartitionDef, error) {
	v := &PartitionDef{}
	var err error
	if v.PartID, err = r.U8(); err != nil {
		return v, err
	}
	if b, err := r.Read(3); err != nil {
		return v, err
	} else {
		copy(v.Origin[:], b)
	}
	if b, err := r.Read(3); err != nil {
		return v, err
	} else {
		copy(v.Size[:], b)
	}
	if r.IsMore() {
		rest, err := r.Read(-1)
		if err != nil {
			return v, err
		}
		v.NAPLPS = rest
	}
	return v, nil
}

func unpackPresentationData(r *bytereader.Reader) (*PresentationData, error) {
	v := &PresentationData{}
	var err error
	if v.Type, err = r.U8(); err != nil {
		return v, err
	}
	if b, err := r.Read(3); err != nil {
		return v, err
	} else {
		copy(v.Size[:], b)
	}
	v.Data, err = r.Read(-1)
	return v, err
}

func unpackImbeddedObject(r *bytereader.Reader) (*ImbeddedObject, error) {
	v := &ImbeddedObject{}
	rest, err := r.Read(-1)
	if err != nil {
		return v, err
	}
	obj := &object.Object{}
	if err := obj.Unpack(rest); err != nil {
		return v, err
	}
	v.Object = obj
	return v, nil
}

func unpackImbeddedElement(r *bytereader.Reader) (*ImbeddedElement, error) {
	v := &ImbeddedElement{}
	var err error
	v.Data, err = r.Read(-1)
	return v, err
}

func unpackProgramData(r *bytereader.Reader) (*ProgramData, error) {
	v := &ProgramData{}
	var err error
	if v.Type, err = r.U8(); err != nil {
		return v, err
	}
	v.Data, err = r.Read(-1)
	return v, err
}

func unpackNavigate(r *bytereader.Reader) (*Navigate, error) {
	v := &Navigate{}
	var err error
	v.Data, err = r.Read(-1)
	return v, err
}
