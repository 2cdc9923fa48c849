package prologue

import (
	"encoding/binary"
	"testing"
)

func buildPrologue(mapWidth, prologueStartID, curStartIdx uint16) []byte {
	u16 := func(v uint16) []byte {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, v)
		return b
	}
	var buf []byte
	buf = append(buf, u16(1)...)               // StructureLevel
	buf = append(buf, u16(0)...)                // Class
	buf = append(buf, u16(512)...)              // AUQuantaSize
	buf = append(buf, u16(28)...)               // AUStartOffset
	buf = append(buf, u16(mapWidth)...)
	buf = append(buf, u16(1000)...) // MaxMapEntries
	buf = append(buf, u16(4096)...) // DirTotByteSize
	buf = append(buf, u16(curStartIdx)...)
	buf = append(buf, u16(0)...) // StartIDs[0].MapStartID
	buf = append(buf, u16(1)...) // StartIDs[0].DirStartID
	buf = append(buf, u16(2)...) // StartIDs[1].MapStartID
	buf = append(buf, u16(3)...) // StartIDs[1].DirStartID
	buf = append(buf, u16(prologueStartID)...)
	buf = append(buf, u16(0xCAFE)...) // Check
	return buf
}

func TestUnpackValid(t *testing.T) {
	data := buildPrologue(9, 4, 0)
	p, err := Unpack(data)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if p.MapWidth != 9 || p.PrologueStartID != 4 || p.CurStartIdx != 0 {
		t.Errorf("p = %+v", p)
	}
	if p.StartIDs[1].DirStartID != 3 {
		t.Errorf("StartIDs[1].DirStartID = %d, want 3", p.StartIDs[1].DirStartID)
	}
}

func TestUnpackWrongLength(t *testing.T) {
	if _, err := Unpack(make([]byte, 5)); err == nil {
		t.Fatal("expected error for wrong-length buffer")
	}
}

func TestValidateRejectsBadGeometry(t *testing.T) {
	cases := []struct {
		name            string
		mapWidth        uint16
		prologueStartID uint16
		curStartIdx     uint16
	}{
		{"mapWidth zero", 0, 4, 0},
		{"mapWidth too large", 17, 4, 0},
		{"prologueStartID too small", 9, 1, 0},
		{"curStartIdx out of range", 9, 4, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := buildPrologue(tc.mapWidth, tc.prologueStartID, tc.curStartIdx)
			if _, err := Unpack(data); err == nil {
				t.Errorf("expected Validate to reject %s", tc.name)
			}
		})
	}
}

func FuzzUnpack(f *testing.F) {
	f.Add(buildPrologue(9, 4, 0))
	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = Unpack(data) // must never panic
	})
}
