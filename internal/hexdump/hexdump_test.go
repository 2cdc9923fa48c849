package hexdump

import "testing"

func TestDumpRowsSingleRow(t *testing.T) {
	data := []byte("Hello, world!")
	rows := Default.DumpRows(data)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if got := rows[0]; got == "" {
		t.Fatal("expected non-empty row")
	}
}

func TestDumpRowsMultipleRows(t *testing.T) {
	data := make([]byte, 40)
	for i := range data {
		data[i] = byte(i)
	}
	rows := Default.DumpRows(data)
	if len(rows) != 3 { // 16 + 16 + 8
		t.Fatalf("got %d rows, want 3", len(rows))
	}
}

func TestAsciiGroupNonPrintable(t *testing.T) {
	got := asciiGroup([]byte{0x00, 'A', 0x7F, ' '})
	want := ".A. "
	if got != want {
		t.Fatalf("asciiGroup = %q, want %q", got, want)
	}
}

func TestHexGroup(t *testing.T) {
	got := hexGroup([]byte{0x00, 0xAB, 0xFF})
	want := "00 ab ff"
	if got != want {
		t.Fatalf("hexGroup = %q, want %q", got, want)
	}
}

func TestDumpEmptyData(t *testing.T) {
	if rows := Default.DumpRows(nil); len(rows) != 0 {
		t.Fatalf("got %d rows for nil input, want 0", len(rows))
	}
}

func TestDumperCustomGeometry(t *testing.T) {
	d := Dumper{Length: 4, GroupLength: 2}
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	rows := d.DumpRows(data)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
}
