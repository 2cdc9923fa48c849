package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestListSegmentTypes(t *testing.T) {
	var buf bytes.Buffer
	ListSegmentTypes(&buf)
	out := buf.String()
	for _, name := range []string{"ProgramCall", "Navigate", "Unknown"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected output to mention %q, got:\n%s", name, out)
		}
	}
}

func TestCenterPad(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"ab", 4, " ab "},
		{"abcd", 4, "abcd"},
		{"abcde", 4, "abcde"},
		{"", 4, "    "},
	}
	for _, c := range cases {
		if got := centerPad(c.in, c.width); got != c.want {
			t.Errorf("centerPad(%q, %d) = %q, want %q", c.in, c.width, got, c.want)
		}
	}
}

func TestHexCell(t *testing.T) {
	got := hexCell(0xAB)
	if !strings.Contains(got, "ab") {
		t.Errorf("hexCell(0xAB) = %q, want it to contain %q", got, "ab")
	}
}

func TestExpandFormat(t *testing.T) {
	f := fields{"obj_name": "THING", "id": 3}
	got := expandFormat("{obj_name}_{id}", f)
	want := "THING_3"
	if got != want {
		t.Errorf("expandFormat = %q, want %q", got, want)
	}
}

func TestExpandFormatUnknownKeyOmitted(t *testing.T) {
	f := fields{"id": 1}
	got := expandFormat("{missing}-{id}", f)
	want := "-1"
	if got != want {
		t.Errorf("expandFormat = %q, want %q", got, want)
	}
}

func TestExpandFormatUnterminatedBrace(t *testing.T) {
	f := fields{"id": 1}
	got := expandFormat("prefix{id", f)
	want := "prefix{id"
	if got != want {
		t.Errorf("expandFormat = %q, want %q", got, want)
	}
}
