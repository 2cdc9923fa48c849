package stagefile

import (
	"encoding/binary"
	"testing"

	"github.com/retrohex/prodigydat/internal/stage/aum"
	"github.com/retrohex/prodigydat/internal/stage/prologue"
)

// newTestStageFile builds a StageFile directly (bypassing Load) with a
// small, easy-to-reason-about geometry: AUStartOffset 0, AUQuantaSize 4,
// PrologueStartID 2.
func newTestStageFile(data []byte) *StageFile {
	p := &prologue.Prologue{
		AUQuantaSize:    4,
		AUStartOffset:   0,
		MapWidth:        9,
		MaxMapEntries:   8,
		PrologueStartID: 2,
	}
	return &StageFile{data: data, Prologue: p}
}

func TestOffsetToAUidAndBack(t *testing.T) {
	sf := newTestStageFile(nil)

	auid, err := sf.OffsetToAUid(8) // (8-0)/4 + 2 = 4
	if err != nil {
		t.Fatalf("OffsetToAUid: %v", err)
	}
	if auid != 4 {
		t.Fatalf("OffsetToAUid(8) = %d, want 4", auid)
	}

	off, err := sf.AUidToOffset(4)
	if err != nil {
		t.Fatalf("AUidToOffset: %v", err)
	}
	if off != 8 {
		t.Fatalf("AUidToOffset(4) = %d, want 8", off)
	}
}

func TestAUidToOffsetRejectsBelowPrologueStartID(t *testing.T) {
	sf := newTestStageFile(nil)
	if _, err := sf.AUidToOffset(1); err == nil {
		t.Fatal("expected error for AUid below PrologueStartID")
	}
}

func TestOffsetToAUidRejectsNegative(t *testing.T) {
	sf := newTestStageFile(nil)
	if _, err := sf.OffsetToAUid(-1); err == nil {
		t.Fatal("expected error for negative offset")
	}
}

func TestReadChainConcatenatesInOrder(t *testing.T) {
	// AU 2 at offset 0, AU 3 at offset 4, AU 4 at offset 8, each 4 bytes.
	data := []byte{
		'A', 'A', 'A', 'A',
		'B', 'B', 'B', 'B',
		'C', 'C', 'C', 'C',
	}
	sf := newTestStageFile(data)

	got, err := sf.ReadChain([]uint32{2, 4, 3})
	if err != nil {
		t.Fatalf("ReadChain: %v", err)
	}
	want := "AAAACCCCBBBB"
	if string(got) != want {
		t.Fatalf("ReadChain = %q, want %q", got, want)
	}
}

func TestReadChainOutOfRangeAU(t *testing.T) {
	sf := newTestStageFile(make([]byte, 8))
	if _, err := sf.ReadChain([]uint32{99}); err == nil {
		t.Fatal("expected error reading an AU past the end of data")
	}
}

func TestIndexSwitching(t *testing.T) {
	sf := newTestStageFile(nil)
	sf.AUMaps[0] = aum.New(9, 2, 8)
	sf.AUMaps[1] = aum.New(9, 2, 8)
	sf.UseIndex(1)
	if sf.Index() != 1 {
		t.Fatalf("Index() = %d, want 1", sf.Index())
	}
	if sf.AUM() != sf.AUMaps[1] {
		t.Fatal("AUM() did not return the selected index's map")
	}
}

func TestLoadRejectsTruncatedPrologue(t *testing.T) {
	if _, err := Load(make([]byte, 4)); err == nil {
		t.Fatal("expected error loading a too-short image")
	}
}

// TestLoadReadsMultiAUMap builds a synthetic STAGE.DAT whose AU Map is
// larger than one AU quantum (width 16, 10 entries -> 24 packed bytes vs
// an 8-byte quantum), the scenario a one-AU readAUid(..., 1) read used to
// truncate and fail with a spurious UnpackError.
func TestLoadReadsMultiAUMap(t *testing.T) {
	const (
		auQuanta        = 8
		auStartOffset   = 28 // right after the 28-byte prologue
		mapWidth        = 16
		maxMapEntries   = 10
		dirTotByteSize  = 22 // directory header size with Maximum=0
		prologueStartID = 2
	)
	offsetOf := func(auid uint16) int {
		return auStartOffset + int(auid-prologueStartID)*auQuanta
	}

	u16 := func(v uint16) []byte {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, v)
		return b
	}

	// StartIDs[0]: directory chains AU2 -> AU3 -> AU4 (EOL); AU Map raw
	// bytes live far away at AU50, well clear of the directory's AUs.
	// StartIDs[1]: directory chains AU5 -> AU6 -> AU7 (EOL); AU Map raw
	// bytes live at AU100.
	const (
		dir0Start, map0Start = 2, 50
		dir1Start, map1Start = 5, 100
	)

	data := make([]byte, offsetOf(map1Start)+24)

	// Prologue (28 bytes).
	var prologueBytes []byte
	prologueBytes = append(prologueBytes, u16(1)...)  // StructureLevel
	prologueBytes = append(prologueBytes, u16(0)...)  // Class
	prologueBytes = append(prologueBytes, u16(auQuanta)...)
	prologueBytes = append(prologueBytes, u16(auStartOffset)...)
	prologueBytes = append(prologueBytes, u16(mapWidth)...)
	prologueBytes = append(prologueBytes, u16(maxMapEntries)...)
	prologueBytes = append(prologueBytes, u16(dirTotByteSize)...)
	prologueBytes = append(prologueBytes, u16(0)...) // CurStartIdx
	prologueBytes = append(prologueBytes, u16(map0Start)...)
	prologueBytes = append(prologueBytes, u16(dir0Start)...)
	prologueBytes = append(prologueBytes, u16(map1Start)...)
	prologueBytes = append(prologueBytes, u16(dir1Start)...)
	prologueBytes = append(prologueBytes, u16(prologueStartID)...)
	prologueBytes = append(prologueBytes, u16(0xCAFE)...) // Check
	copy(data, prologueBytes)

	// Each map's packed body: synthesized EOL covers table indices
	// [0,prologueStartID), so the decoded stream starts at index
	// prologueStartID. entries holds the 8 decoded values for indices
	// 2..9; packedSize (24) includes 4 trailing pad bytes Unpack never
	// reads (mirrors the AUM byteLen()/decode-loop mismatch elsewhere in
	// this package, unrelated to this fix).
	buildMap := func(entries [8]uint16) []byte {
		var m []byte
		m = append(m, u16(0xAAAA)...) // Check.MapCheck
		m = append(m, u16(0xAAAA)...) // Check.DirCheck
		for _, e := range entries {
			m = append(m, u16(e)...)
		}
		m = append(m, 0, 0, 0, 0) // unread padding
		return m
	}

	map0 := buildMap([8]uint16{3, 4, uint16(aum.EOL), 0, 0, 0, 0, 0}) // AU2->3->4(EOL)
	map1 := buildMap([8]uint16{0, 0, 0, 6, 7, uint16(aum.EOL), 0, 0}) // AU5->6->7(EOL)
	if len(map0) != 24 || len(map1) != 24 {
		t.Fatalf("test setup: map byte length = %d/%d, want 24/24", len(map0), len(map1))
	}
	copy(data[offsetOf(map0Start):], map0)
	copy(data[offsetOf(map1Start):], map1)

	// Each directory's header (22 bytes, Maximum=0 so no usage/entry
	// lists follow); the chain read pulls 3 AUs (24 bytes) and Load trims
	// to dirTotByteSize.
	buildDirHeader := func() []byte {
		var d []byte
		d = append(d, u16(0)...) // Check.MapCheck
		d = append(d, u16(0)...) // Check.DirCheck
		d = append(d, 0, 0, 0, 0) // CreateDate
		d = append(d, 0, 0, 0, 0) // ModifyDate
		d = append(d, 0, 0)      // NoVClass
		d = append(d, u16(0)...) // InUse
		d = append(d, u16(0)...) // Maximum
		d = append(d, u16(0)...) // UsageOff
		d = append(d, u16(0)...) // EntryOff
		return d
	}
	copy(data[offsetOf(dir0Start):], buildDirHeader())
	copy(data[offsetOf(dir1Start):], buildDirHeader())

	sf, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sf.AUMaps[0].Len() != maxMapEntries || sf.AUMaps[1].Len() != maxMapEntries {
		t.Fatalf("AUMaps lengths = %d/%d, want %d/%d", sf.AUMaps[0].Len(), sf.AUMaps[1].Len(), maxMapEntries, maxMapEntries)
	}
	if sf.Dirs[0].InUse != 0 || sf.Dirs[1].InUse != 0 {
		t.Fatalf("Dirs InUse = %d/%d, want 0/0", sf.Dirs[0].InUse, sf.Dirs[1].InUse)
	}
}
