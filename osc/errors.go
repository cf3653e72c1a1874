package osc

import (
	"errors"
	"fmt"
)

// Decode and encode errors. Errors recorded by a Message or Bundle wrap one of
// these, so callers can test them with errors.Is.
var (
	ErrShortBuffer        = errors.New("not enough bytes left in buffer")
	ErrInvalidString      = errors.New("invalid OSC string")
	ErrInvalidBlob        = errors.New("invalid OSC blob")
	ErrUnsupportedType    = errors.New("unsupported argument type")
	ErrUnsupportedTypeTag = errors.New("unsupported type tag")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrInvalidTypeTags    = errors.New("invalid data types")
	ErrInvalidMarker      = errors.New("invalid marker string")
	ErrInvalidTimetag     = errors.New("invalid timetag")
	ErrInvalidElement     = errors.New("couldn't unpack bundle/message")
)

// ArgumentError reports a failure to encode or decode the argument at Index.
type ArgumentError struct {
	Index int
	Tag   TypeTag // zero when the type could not be mapped to a tag
	Err   error
}

func (e *ArgumentError) Error() string {
	if e.Tag == TypeInvalid {
		return fmt.Sprintf("argument %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("argument %d (%c): %v", e.Index, e.Tag, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// ElementError reports a bundle element that failed to encode or decode.
type ElementError struct {
	Index int
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %d: %v: %v", e.Index, ErrInvalidElement, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

// Is reports ErrInvalidElement as well as whatever Err matches.
func (e *ElementError) Is(target error) bool {
	return target == ErrInvalidElement
}

// kindError tags a cause with one of the sentinels above. It keeps a single
// Unwrap chain so multierr.Errors returns it as one entry.
type kindError struct {
	kind error
	err  error
}

func wrapKind(kind, err error) error {
	return &kindError{kind: kind, err: err}
}

func (e *kindError) Error() string {
	return e.kind.Error() + ": " + e.err.Error()
}

func (e *kindError) Unwrap() error {
	return e.err
}

func (e *kindError) Is(target error) bool {
	return target == e.kind
}
