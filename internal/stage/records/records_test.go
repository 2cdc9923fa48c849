package records

import "testing"

func TestObjectIDUnpackRoundTrip(t *testing.T) {
	id := ObjectID{Name: "README", HasName: true, Location: 3, Type: 7}
	b := id.Pack()
	if len(b) != 13 {
		t.Fatalf("Pack() len = %d, want 13", len(b))
	}

	var got ObjectID
	if err := got.Unpack(b); err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if got != id {
		t.Fatalf("Unpack(Pack(id)) = %+v, want %+v", got, id)
	}
}

func TestObjectIDUnpackUnnamed(t *testing.T) {
	b := make([]byte, 13)
	b[11] = 9
	b[12] = 1
	var got ObjectID
	if err := got.Unpack(b); err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if got.HasName {
		t.Error("all-zero name should decode to HasName=false")
	}
	if got.Location != 9 || got.Type != 1 {
		t.Errorf("got Location=%d Type=%d, want 9,1", got.Location, got.Type)
	}
}

func TestObjectIDUnpackWrongLength(t *testing.T) {
	var id ObjectID
	if err := id.Unpack(make([]byte, 5)); err == nil {
		t.Fatal("expected error for wrong-length buffer")
	}
}

func TestObjectIDDisplayName(t *testing.T) {
	id := ObjectID{Name: "AB", HasName: true}
	got := id.DisplayName('.', 0)
	want := "AB      .   " // first 8 padded chars, delim, last 3 padded chars (spaces are printable, so no \xHH)
	if got != want {
		t.Errorf("DisplayName('.', 0) = %q, want %q", got, want)
	}
}

func TestVersionIDFields(t *testing.T) {
	v := VersionID{Byte1: 0x01, Byte2: 0x23}
	combined := uint16(0x01)<<8 | 0x23
	if v.VersionValue() != combined>>StorageWidth {
		t.Errorf("VersionValue() = %d, want %d", v.VersionValue(), combined>>StorageWidth)
	}
	if v.StoreCandidacy() != combined&((1<<StorageWidth)-1) {
		t.Errorf("StoreCandidacy() = %d, want %d", v.StoreCandidacy(), combined&((1<<StorageWidth)-1))
	}
}

func TestCheckRoundTrip(t *testing.T) {
	c := Check{MapCheck: 0xABCD, DirCheck: 0x1234}
	var got Check
	if err := got.Unpack(c.Pack()); err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if got != c {
		t.Fatalf("got %+v, want %+v", got, c)
	}
}
