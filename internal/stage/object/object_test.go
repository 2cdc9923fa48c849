package object

import (
	"encoding/binary"
	"testing"

	"github.com/retrohex/prodigydat/internal/stage/records"
)

func buildObject(name string, location, typ uint8, payload []byte) []byte {
	id := records.ObjectID{Name: name, HasName: name != "", Location: location, Type: typ}
	header := id.Pack()
	total := HeaderSize + len(payload)
	header = append(header, 0, 0, 0, 0, 0) // length(2) + storeFlags + setSize + version
	binary.LittleEndian.PutUint16(header[13:15], uint16(total))
	header[15] = 0x11 // storeFlags
	header[16] = 0x01 // setSize
	header[17] = 0x22 // version byte
	return append(header, payload...)
}

func TestObjectUnpack(t *testing.T) {
	payload := []byte{0xAA, 0xBB, 0xCC}
	data := buildObject("THING", 2, 5, payload)

	var o Object
	if err := o.Unpack(data); err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if o.ID.Name != "THING" || o.ID.Location != 2 || o.ID.Type != 5 {
		t.Fatalf("ID = %+v", o.ID)
	}
	if int(o.Length) != len(data) {
		t.Errorf("Length = %d, want %d", o.Length, len(data))
	}
	if string(o.Data(false)) != string(payload) {
		t.Errorf("Data(false) = %v, want %v", o.Data(false), payload)
	}
	if len(o.Data(true)) != len(data) {
		t.Errorf("Data(true) len = %d, want %d", len(o.Data(true)), len(data))
	}
	if len(o.Header()) != HeaderSize {
		t.Errorf("Header() len = %d, want %d", len(o.Header()), HeaderSize)
	}
}

func TestObjectUnpackTooShort(t *testing.T) {
	var o Object
	if err := o.Unpack(make([]byte, HeaderSize-1)); err == nil {
		t.Fatal("expected error for truncated header")
	}
}

func TestObjectUnpackLengthMismatch(t *testing.T) {
	data := buildObject("X", 0, 0, []byte{1, 2, 3})
	// Truncate the payload so the decoded Length field disagrees with len(data).
	data = data[:len(data)-1]

	var o Object
	if err := o.Unpack(data); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func FuzzObjectUnpack(f *testing.F) {
	f.Add(buildObject("SEED", 1, 1, []byte{1, 2, 3, 4}))
	f.Add(make([]byte, 0))
	f.Fuzz(func(t *testing.T, data []byte) {
		var o Object
		_ = o.Unpack(data) // must never panic
	})
}
