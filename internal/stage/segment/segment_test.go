package segment

import (
	"encoding/binary"
	"testing"
	"time"
)

// buildSegment assembles one segment's bytes: the 3-byte header (type, 16
// bit little-endian total length including header) followed by body.
func buildSegment(typ Type, body []byte) []byte {
	out := make([]byte, HeaderSize+len(body))
	out[0] = byte(typ)
	binary.LittleEndian.PutUint16(out[1:3], uint16(len(out)))
	copy(out[HeaderSize:], body)
	return out
}

func TestParseProgramCall(t *testing.T) {
	body := []byte{0x07, 0x0D, 0x00, 0x01, 0x02, 0x03, 0x04} // event, prefix=0x0D, then 5 bytes: too short for the 13-byte id, so only event/prefix decode
	payload := buildSegment(TypeProgramCall, body)

	segs := Parse(payload)
	if len(segs) != 1 {
		t.Fatalf("Parse returned %d segments, want 1", len(segs))
	}
	s := segs[0]
	if !s.HasHeader || s.SegType != TypeProgramCall {
		t.Fatalf("segment = %+v", s)
	}
	pc, ok := s.Fields.(*ProgramCall)
	if !ok {
		t.Fatalf("Fields type = %T, want *ProgramCall", s.Fields)
	}
	if pc.Event != 0x07 {
		t.Errorf("Event = %d, want 7", pc.Event)
	}
}

func TestParseMultipleSegments(t *testing.T) {
	a := buildSegment(TypeNavigate, []byte{1, 2, 3})
	b := buildSegment(TypeProgramData, []byte{0x05, 0xAA, 0xBB})
	payload := append(append([]byte{}, a...), b...)

	segs := Parse(payload)
	if len(segs) != 2 {
		t.Fatalf("Parse returned %d segments, want 2", len(segs))
	}
	if segs[0].SegType != TypeNavigate {
		t.Errorf("segs[0].SegType = %v, want Navigate", segs[0].SegType)
	}
	pd, ok := segs[1].Fields.(*ProgramData)
	if !ok || pd.Type != 0x05 {
		t.Errorf("segs[1].Fields = %+v", segs[1].Fields)
	}
}

func TestParseUnknownType(t *testing.T) {
	payload := buildSegment(Type(0xFE), []byte{1, 2, 3, 4})
	segs := Parse(payload)
	if len(segs) != 1 {
		t.Fatalf("Parse returned %d segments, want 1", len(segs))
	}
	if _, ok := segs[0].Fields.(*Unknown); !ok {
		t.Fatalf("Fields type = %T, want *Unknown", segs[0].Fields)
	}
}

func TestParseTruncatedHeaderYieldsUnknown(t *testing.T) {
	payload := []byte{0x01, 0x02} // only 2 bytes, header needs 3
	segs := Parse(payload)
	if len(segs) != 1 {
		t.Fatalf("Parse returned %d segments, want 1", len(segs))
	}
	s := segs[0]
	if s.HasHeader {
		t.Error("expected HasHeader == false")
	}
	if len(s.Exceptions) == 0 {
		t.Error("expected a recorded exception for the truncated header")
	}
}

func TestParseSegmentExtendsPastEnd(t *testing.T) {
	full := buildSegment(TypeNavigate, []byte{1, 2, 3, 4, 5})
	truncated := full[:len(full)-2] // declared length now exceeds available bytes

	segs := Parse(truncated)
	if len(segs) != 1 {
		t.Fatalf("Parse returned %d segments, want 1", len(segs))
	}
	if len(segs[0].Exceptions) == 0 {
		t.Error("expected a recorded exception for the overrun segment")
	}
}

func TestParseEmptyPayload(t *testing.T) {
	if segs := Parse(nil); len(segs) != 0 {
		t.Fatalf("Parse(nil) = %d segments, want 0", len(segs))
	}
}

// TestParseZeroLengthSegmentAdvances guards against sl==0 (or any sl
// shorter than the 3-byte header) leaving the cursor stuck at the header
// it just read, which would otherwise spin Parse forever.
func TestParseZeroLengthSegmentAdvances(t *testing.T) {
	payload := []byte{
		byte(TypeNavigate), 0x00, 0x00, // st, sl=0
		byte(TypeNavigate), 0x00, 0x00, // a second zero-length segment
	}

	done := make(chan []*Segment, 1)
	go func() { done <- Parse(payload) }()

	select {
	case segs := <-done:
		if len(segs) != 2 {
			t.Fatalf("Parse returned %d segments, want 2", len(segs))
		}
		for _, s := range segs {
			if len(s.Exceptions) == 0 {
				t.Error("expected an exception flagging the undersized length")
			}
		}
	case <-time.After(time.Second):
		t.Fatal("Parse did not terminate on a zero-length segment")
	}
}

func FuzzParse(f *testing.F) {
	f.Add(buildSegment(TypeNavigate, []byte{1, 2, 3}))
	f.Add(buildSegment(TypeFieldDef, make([]byte, 10)))
	f.Add([]byte{})
	f.Fuzz(func(t *testing.T, payload []byte) {
		segs := Parse(payload) // must never panic, regardless of content
		for _, s := range segs {
			_ = s.TypeName()
		}
	})
}
