// Package filter implements the predicate checks the CLI runs objects and
// segments through: name/location/type/status/version/store-candidacy/size
// for objects, type/size for segments, and presence/value for a segment's
// decoded fields.
//
// Grounded on conditions.Objects.check / conditions.Segments.check /
// conditions.Attributes.check in original_source/conditions.py. Each
// Python static-method pair (get_parser + check) becomes one Go struct
// whose zero value matches everything, mirroring argparse's "unset ==
// don't filter" convention.
package filter

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/retrohex/prodigydat/internal/stage/directory"
	"github.com/retrohex/prodigydat/internal/stage/segment"
)

// Object filters directory entries (or entries synthesized from a loaded
// Object via directory.FromObjectHeader). A zero Object matches everything.
type Object struct {
	NamePatterns []string // fnmatch-style globs, matched case-insensitively
	Delim        byte
	NonASCII     byte

	Locations        []uint8
	Types            []uint8
	Statuses         []uint16
	Versions         []uint16
	StoreCandidacies []uint16

	MinSize *int
	MaxSize *int
}

// Match reports whether entry passes every configured check. An unset
// field (nil slice/pointer) never excludes a candidate, matching
// conditions.Objects.check's "if args.X:" guards.
func (f Object) Match(entry directory.DirectoryEntry) bool {
	if len(f.NamePatterns) > 0 {
		name := strings.ToUpper(entry.ID.DisplayName(f.Delim, f.NonASCII))
		matched := false
		for _, pat := range f.NamePatterns {
			if ok, _ := filepath.Match(strings.ToUpper(pat), name); ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if len(f.Locations) > 0 && !containsU8(f.Locations, entry.ID.Location) {
		return false
	}
	if len(f.Types) > 0 && !containsU8(f.Types, entry.ID.Type) {
		return false
	}
	if len(f.Statuses) > 0 && !containsU16(f.Statuses, entry.Status) {
		return false
	}
	if len(f.Versions) > 0 && !containsU16(f.Versions, entry.Version.VersionValue()) {
		return false
	}
	if len(f.StoreCandidacies) > 0 && !containsU16(f.StoreCandidacies, entry.Version.StoreCandidacy()) {
		return false
	}
	if f.MinSize != nil && int(entry.Length) < *f.MinSize {
		return false
	}
	if f.MaxSize != nil && int(entry.Length) > *f.MaxSize {
		return false
	}
	return true
}

func containsU8(set []uint8, v uint8) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsU16(set []uint16, v uint16) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Segment filters decoded segments by type and packed length. Types may be
// given as either a segment.Type value or a case-insensitive variant name
// (matching both segment._st and segment.__class__.__name__ in
// conditions.Segments.check).
type Segment struct {
	Types    []segment.Type
	TypeNames []string // lower-cased variant names, e.g. "programcall", "unknown"

	MinSize *uint16
	MaxSize *uint16
}

// Match reports whether seg passes every configured check.
func (f Segment) Match(seg *segment.Segment) bool {
	if len(f.Types) > 0 || len(f.TypeNames) > 0 {
		matched := false
		for _, t := range f.Types {
			if seg.SegType == t {
				matched = true
				break
			}
		}
		if !matched {
			name := strings.ToLower(seg.TypeName())
			for _, n := range f.TypeNames {
				if n == name {
					matched = true
					break
				}
			}
		}
		if !matched {
			return false
		}
	}
	if f.MinSize != nil && seg.SegLength < *f.MinSize {
		return false
	}
	if f.MaxSize != nil && seg.SegLength > *f.MaxSize {
		return false
	}
	return true
}

// Attribute is one `name[=[value]]` check against a segment's decoded
// Fields struct, parsed the way conditions.Attributes' _attr_type parses
// `--attr`: a bare name checks presence only; `name=value` additionally
// compares value, as an integer if the field is integer-kinded and the
// value string parses as one, else as a string.
type Attribute struct {
	Name     string
	HasValue bool
	ValueStr string
	ValueInt *int64
}

// ParseAttribute parses one `--attr` argument into an Attribute.
func ParseAttribute(arg string) Attribute {
	name, valStr, found := strings.Cut(arg, "=")
	if !found {
		return Attribute{Name: name}
	}
	a := Attribute{Name: name, HasValue: true, ValueStr: valStr}
	if n, err := strconv.ParseInt(valStr, 0, 64); err == nil {
		a.ValueInt = &n
	}
	return a
}

// Attributes filters segments by their decoded Fields. A zero Attributes
// matches everything.
type Attributes struct {
	Checks []Attribute
}

// Match reports whether every configured attribute check passes against
// seg.Fields, looked up by exported field name (case-insensitive, so
// `--attr event` matches a ProgramCall's Event field the way Python's
// lower-case attribute names do).
func (a Attributes) Match(fields any) bool {
	if len(a.Checks) == 0 {
		return true
	}
	v := reflect.ValueOf(fields)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return false
	}
	for _, c := range a.Checks {
		fv, ok := fieldByFoldedName(v, c.Name)
		if !ok {
			return false
		}
		if !c.HasValue {
			continue
		}
		if !matchValue(fv, c) {
			return false
		}
	}
	return true
}

// fieldByFoldedName looks up name case-insensitively among v's fields. A
// nil pointer field still counts as present: Python's variant classes
// assign every declared attribute in __init__ (even as None), so
// hasattr(segment, name) is True regardless of whether the decoder ever
// filled it in. matchValue is what rejects a nil field against a value
// check.
func fieldByFoldedName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if !strings.EqualFold(t.Field(i).Name, name) {
			continue
		}
		return v.Field(i), true
	}
	return reflect.Value{}, false
}

func matchValue(fv reflect.Value, c Attribute) bool {
	for fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return false
		}
		fv = fv.Elem()
	}
	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return c.ValueInt != nil && fv.Int() == *c.ValueInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return c.ValueInt != nil && fv.Uint() == uint64(*c.ValueInt)
	default:
		return fieldString(fv) == c.ValueStr
	}
}

func fieldString(fv reflect.Value) string {
	if fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.Uint8 {
		return string(fv.Bytes())
	}
	return strings.TrimSpace(fmt.Sprint(fv.Interface()))
}
