// Package bytereader implements a cursor over an in-memory byte range with
// explicit little/big-endian primitive reads and fixed-record unpacking.
//
// It plays the role original_source/prodigyclassic/reader.py's Reader plays
// over an mmap: the Go standard library has no portable memory map, so a
// STAGE.DAT is read fully into memory up front with a single os.ReadFile,
// and every Reader below is a lightweight view over that buffer or a slice
// of it.
package bytereader

import (
	"encoding/binary"
	"io"

	"github.com/retrohex/prodigydat/internal/stage/errs"
)

// Whence mirrors io.Seeker's constants so callers don't need to import io
// just to call Seek.
const (
	SeekStart   = io.SeekStart
	SeekCurrent = io.SeekCurrent
	SeekEnd     = io.SeekEnd
)

// Reader is a cursor over a byte slice. The zero value is not usable; use
// New.
type Reader struct {
	data []byte
	pos  int
}

// New wraps data in a Reader starting at offset 0.
func New(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the total number of bytes in the underlying range.
func (r *Reader) Len() int { return len(r.data) }

// Tell returns the current cursor position.
func (r *Reader) Tell() int64 { return int64(r.pos) }

// IsMore reports whether the cursor has not yet reached the end of the
// data, mirroring Reader.ismore() in reader.py.
func (r *Reader) IsMore() bool { return r.pos < len(r.data) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	if r.pos >= len(r.data) {
		return 0
	}
	return len(r.data) - r.pos
}

// Seek repositions the cursor. whence is one of SeekStart/SeekCurrent/SeekEnd.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case SeekStart:
		base = 0
	case SeekCurrent:
		base = int64(r.pos)
	case SeekEnd:
		base = int64(len(r.data))
	default:
		return 0, errs.ErrEOF
	}
	newPos := base + offset
	if newPos < 0 || newPos > int64(len(r.data)) {
		return 0, errs.ErrEOF
	}
	r.pos = int(newPos)
	return newPos, nil
}

// Read returns the next n bytes and advances the cursor. n == -1 reads to
// the end of the data. n == 0 returns an empty, non-nil slice. Asking for
// more bytes than remain returns errs.ErrEOF and leaves the cursor
// unmoved, matching reader.py's read(): "only N of M byte(s) were
// available" raises EOFError without consuming partial data.
func (r *Reader) Read(n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	if n < 0 {
		out := r.data[r.pos:]
		r.pos = len(r.data)
		return out, nil
	}
	if r.pos+n > len(r.data) {
		return nil, errs.ErrEOF
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// SubReader returns an independent Reader over the next n bytes, advancing
// this reader's cursor past them. The sub reader shares the backing array
// (no copy), the same way reader.py's get_reader() wraps a freshly read
// slice.
func (r *Reader) SubReader(n int) (*Reader, error) {
	b, err := r.Read(n)
	if err != nil {
		return nil, err
	}
	return New(b), nil
}

func (r *Reader) read(n int) ([]byte, error) { return r.Read(n) }

// U8 reads an unsigned 8-bit integer.
func (r *Reader) U8() (uint8, error) {
	b, err := r.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// I8 reads a signed 8-bit integer.
func (r *Reader) I8() (int8, error) {
	v, err := r.U8()
	return int8(v), err
}

// U16LE reads an unsigned little-endian 16-bit integer.
func (r *Reader) U16LE() (uint16, error) {
	b, err := r.read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// U16BE reads an unsigned big-endian 16-bit integer.
func (r *Reader) U16BE() (uint16, error) {
	b, err := r.read(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// I16LE reads a signed little-endian 16-bit integer.
func (r *Reader) I16LE() (int16, error) {
	v, err := r.U16LE()
	return int16(v), err
}

// U32LE reads an unsigned little-endian 32-bit integer.
func (r *Reader) U32LE() (uint32, error) {
	b, err := r.read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// U32BE reads an unsigned big-endian 32-bit integer.
func (r *Reader) U32BE() (uint32, error) {
	b, err := r.read(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// I32LE reads a signed little-endian 32-bit integer.
func (r *Reader) I32LE() (int32, error) {
	v, err := r.U32LE()
	return int32(v), err
}

// U64LE reads an unsigned little-endian 64-bit integer.
func (r *Reader) U64LE() (uint64, error) {
	b, err := r.read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// I64LE reads a signed little-endian 64-bit integer.
func (r *Reader) I64LE() (int64, error) {
	v, err := r.U64LE()
	return int64(v), err
}

// Unpack fills dst, a pointer to a fixed-size struct of fixed-width fields,
// via encoding/binary using the given byte order. It is the Go analog of
// reader.py's unpack_struct/make_struct pairing for fixed records.
func (r *Reader) Unpack(order binary.ByteOrder, dst any) error {
	size := binary.Size(dst)
	if size < 0 {
		return &errs.UnpackError{Struct: "Unpack", Want: -1, Got: 0}
	}
	b, err := r.read(size)
	if err != nil {
		return err
	}
	return binary.Read(newSliceReader(b), order, dst)
}

type sliceReader struct {
	b []byte
}

func newSliceReader(b []byte) *sliceReader { return &sliceReader{b: b} }

func (s *sliceReader) Read(p []byte) (int, error) {
	n := copy(p, s.b)
	s.b = s.b[n:]
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}
