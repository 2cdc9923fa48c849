package directory

import (
	"encoding/binary"
	"testing"

	"github.com/retrohex/prodigydat/internal/stage/records"
)

func buildEntry(name string, loc, typ uint8, length uint16) []byte {
	id := records.ObjectID{Name: name, HasName: name != "", Location: loc, Type: typ}
	b := id.Pack()
	b = append(b, 0) // unused
	status := make([]byte, 2)
	binary.LittleEndian.PutUint16(status, 1)
	b = append(b, status...)
	lenB := make([]byte, 2)
	binary.LittleEndian.PutUint16(lenB, length)
	b = append(b, lenB...)
	startB := make([]byte, 2)
	binary.LittleEndian.PutUint16(startB, 5)
	b = append(b, startB...)
	b = append(b, 0x10, 0x20) // version bytes
	checkB := make([]byte, 2)
	binary.LittleEndian.PutUint16(checkB, 0xBEEF)
	b = append(b, checkB...)
	return b
}

func buildDirectory(maximum uint16, entries []dirEntrySeed) []byte {
	var buf []byte
	buf = append(buf, 0, 0, 0, 0) // Check
	buf = append(buf, 0, 0, 0, 0) // CreateDate
	buf = append(buf, 0, 0, 0, 0) // ModifyDate
	buf = append(buf, 0, 0)       // NoVClass
	inUse := make([]byte, 2)
	binary.LittleEndian.PutUint16(inUse, uint16(len(entries)))
	buf = append(buf, inUse...)
	maxB := make([]byte, 2)
	binary.LittleEndian.PutUint16(maxB, maximum)
	buf = append(buf, maxB...)
	buf = append(buf, 0, 0) // UsageOff
	buf = append(buf, 0, 0) // EntryOff

	for i := uint16(0); i < maximum; i++ {
		v := make([]byte, 2)
		binary.LittleEndian.PutUint16(v, i+1) // 1-based on disk
		buf = append(buf, v...)
	}
	for _, e := range entries {
		buf = append(buf, buildEntry(e.name, e.loc, e.typ, e.length)...)
	}
	for i := len(entries); i < int(maximum); i++ {
		buf = append(buf, buildEntry("", 0, 0, 0)...)
	}
	return buf
}

type dirEntrySeed struct {
	name   string
	loc    uint8
	typ    uint8
	length uint16
}

func TestDirectoryUnpack(t *testing.T) {
	seeds := []dirEntrySeed{
		{"ALPHA", 1, 2, 100},
		{"BETA", 3, 4, 200},
	}
	data := buildDirectory(4, seeds)

	var d Directory
	if err := d.Unpack(data); err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if d.InUse != 2 {
		t.Errorf("InUse = %d, want 2", d.InUse)
	}
	if d.Maximum != 4 {
		t.Errorf("Maximum = %d, want 4", d.Maximum)
	}
	if len(d.UsageList) != 4 || d.UsageList[0] != 0 {
		t.Errorf("UsageList = %v, want 0-based starting at 0", d.UsageList)
	}

	entry, err := d.Entry(0)
	if err != nil {
		t.Fatalf("Entry(0): %v", err)
	}
	if entry.ID.Name != "ALPHA" || entry.Length != 100 {
		t.Errorf("Entry(0) = %+v", entry)
	}

	idx, err := d.IndexOf("BETA")
	if err != nil || idx != 1 {
		t.Errorf("IndexOf(BETA) = %d, %v, want 1, nil", idx, err)
	}

	if _, err := d.EntryByName("NOSUCH"); err == nil {
		t.Error("expected error for unknown name")
	}
}

func TestDirectoryUnpackTruncated(t *testing.T) {
	var d Directory
	if err := d.Unpack(make([]byte, 10)); err == nil {
		t.Fatal("expected error for too-short header")
	}
}

func TestDirectoryUnpackWrongTotalLength(t *testing.T) {
	data := buildDirectory(2, nil)
	data = data[:len(data)-1]
	var d Directory
	if err := d.Unpack(data); err == nil {
		t.Fatal("expected error for length mismatch against Maximum")
	}
}

func FuzzDirectoryUnpack(f *testing.F) {
	f.Add(buildDirectory(3, []dirEntrySeed{{"X", 0, 0, 10}}))
	f.Fuzz(func(t *testing.T, data []byte) {
		var d Directory
		_ = d.Unpack(data) // must never panic
	})
}
