// Package object decodes a STAGE.DAT Object: an 18-byte header followed by
// a payload whose bytes are a sequence of segments (see package segment).
// Grounded on structures.Object in
// original_source/prodigyclassic/stage/structures.py.
package object

import (
	"encoding/binary"

	"github.com/retrohex/prodigydat/internal/stage/errs"
	"github.com/retrohex/prodigydat/internal/stage/records"
)

// HeaderSize is the packed byte length of an Object's header: id(13) +
// length(2) + storeFlags(1) + setSize(1) + version(1).
const HeaderSize = 18

// Object is a decoded STAGE.DAT object.
type Object struct {
	ID         records.ObjectID
	Length     uint16 // total object length, header included
	SetSize    uint8
	Version    records.VersionID
	StoreFlags uint8

	raw     []byte // full object bytes, header included
	payload []byte // raw[HeaderSize:]
}

// Unpack decodes an Object from data. Mirrors structures.Object.unpack's
// two-stage length check: if data is shorter than the header, fail before
// touching the fields; after decoding Length from the header, check that
// len(data) equals that total length.
func (o *Object) Unpack(data []byte) error {
	if len(data) < HeaderSize {
		return &errs.UnpackError{Struct: "Object", Want: -1, Got: len(data)}
	}
	o.raw = data

	if err := o.ID.Unpack(data[0:13]); err != nil {
		return err
	}
	o.Length = binary.LittleEndian.Uint16(data[13:15])
	o.StoreFlags = data[15]
	o.SetSize = data[16]
	version := data[17]
	o.Version = records.VersionID{Byte1: version, Byte2: o.StoreFlags}

	if int(o.Length) != len(data) {
		return &errs.UnpackError{Struct: "Object", Want: int(o.Length), Got: len(data)}
	}
	o.payload = data[HeaderSize:]
	return nil
}

// Header returns the raw 18-byte header.
func (o *Object) Header() []byte {
	if len(o.raw) < HeaderSize {
		return nil
	}
	return o.raw[:HeaderSize]
}

// Data returns the object's payload. withHeader, if true, includes the
// 18-byte header.
func (o *Object) Data(withHeader bool) []byte {
	if withHeader {
		return o.raw
	}
	return o.payload
}
