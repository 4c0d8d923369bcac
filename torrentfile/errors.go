package torrentfile

import (
	"errors"
	"fmt"
)

// ErrPieceAlignment is returned when the pieces blob cannot be split
// into whole 20-byte digests.
var ErrPieceAlignment = errors.New("torrentfile: pieces length is not a multiple of 20")

// TypeMismatchError reports a field that is present but holds the
// wrong bencode type.
type TypeMismatchError struct {
	Field string
	Want  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("torrentfile: field %q is not a %s", e.Field, e.Want)
}

// MissingFieldError reports an absent mandatory field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("torrentfile: missing field %q", e.Field)
}

// RangeError reports a length or size outside its valid range.
type RangeError struct {
	Field string
	Value int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("torrentfile: field %q has out-of-range value %d", e.Field, e.Value)
}
