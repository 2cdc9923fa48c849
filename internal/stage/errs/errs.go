// Package errs collects the error taxonomy shared across the stage
// decoding packages, so callers can distinguish fatal structural faults
// from the expected end-of-chain condition with errors.Is.
package errs

import "fmt"

// Sentinel errors for AU Map traversal. AUEndOfList is not a failure: it is
// the normal terminator of a chain walk.
var (
	ErrAUEndOfList     = fmt.Errorf("stage: end of AU chain")
	ErrAUNotAllocated  = fmt.Errorf("stage: AU not allocated")
	ErrAUDoesNotExist  = fmt.Errorf("stage: AU does not exist")
	ErrNotFound        = fmt.Errorf("stage: name not found in directory")
	ErrEOF             = fmt.Errorf("stage: unexpected end of data")
	ErrSegmentTrailing = fmt.Errorf("stage: segment has unexpected trailing data")
)

// UnpackError reports a fixed-layout record that received the wrong number
// of bytes, or a record whose internal length fields don't add up.
type UnpackError struct {
	Struct string
	Want   int
	Got    int
}

func (e *UnpackError) Error() string {
	if e.Want >= 0 {
		return fmt.Sprintf("stage: %s: expecting %d bytes, got %d", e.Struct, e.Want, e.Got)
	}
	return fmt.Sprintf("stage: %s: malformed data (%d bytes)", e.Struct, e.Got)
}

// SegmentDataError reports a malformed segment: an unexpected prefix byte,
// truncation, or unexpected residue after unpacking.
type SegmentDataError struct {
	Reason string
}

func (e *SegmentDataError) Error() string {
	return "stage: segment data error: " + e.Reason
}

// AUFault wraps one of the AU Map chain-traversal sentinels with the
// offending AU id, so callers get both errors.Is matching and context.
type AUFault struct {
	AUID uint32
	Err  error
}

func (e *AUFault) Error() string {
	return fmt.Sprintf("stage: AU %d: %s", e.AUID, e.Err)
}

func (e *AUFault) Unwrap() error { return e.Err }
