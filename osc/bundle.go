package osc

import (
	"encoding/binary"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

const (
	bundleTagString = "#bundle"
)

// Bundle represents an OSC bundle. It consists of the OSC-string "#bundle"
// followed by an OSC Time Tag, followed by zero or more OSC bundle/message
// elements. The OSC-timetag is a 64-bit fixed point time tag. See
// http://opensoundcontrol.org/spec-1_0.html for more information.
type Bundle struct {
	Timetag  Timetag
	Elements []Packet

	errs []error
}

// Verify that Bundle implements the Packet interface.
var _ Packet = (*Bundle)(nil)

// NewBundle returns an OSC Bundle that executes immediately and holds the
// given elements.
func NewBundle(elems ...Packet) *Bundle {
	return &Bundle{Timetag: NewTimetag(), Elements: elems}
}

// NewBundleWithTime returns an OSC Bundle scheduled for the given time.
func NewBundleWithTime(time time.Time, elems ...Packet) *Bundle {
	return &Bundle{Timetag: NewTimetagFromTime(time), Elements: elems}
}

// NewBundleFromData returns a new OSC bundle created from the parsed data.
func NewBundleFromData(data []byte) (*Bundle, error) {
	b := &Bundle{}
	if err := b.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return b, nil
}

// Append appends an OSC bundle or OSC message to the bundle.
func (b *Bundle) Append(pck Packet) error {
	switch t := pck.(type) {
	default:
		return fmt.Errorf("unsupported OSC packet type: only Bundle and Message are supported")

	case *Bundle, *Message:
		b.Elements = append(b.Elements, t)
	}

	return nil
}

// Errors returns the errors recorded by the last MarshalBinary or
// UnmarshalBinary call.
func (b *Bundle) Errors() []error {
	return b.errs
}

// Messages returns every message in the bundle, including those in nested
// bundles, depth first in wire order.
func (b *Bundle) Messages() []*Message {
	var msgs []*Message
	for _, e := range b.Elements {
		switch e := e.(type) {
		case *Message:
			msgs = append(msgs, e)
		case *Bundle:
			msgs = append(msgs, e.Messages()...)
		}
	}
	return msgs
}

// Bundles returns the directly nested bundles.
func (b *Bundle) Bundles() []*Bundle {
	var bundles []*Bundle
	for _, e := range b.Elements {
		if nb, ok := e.(*Bundle); ok {
			bundles = append(bundles, nb)
		}
	}
	return bundles
}

// String implements the fmt.Stringer interface.
func (b *Bundle) String() string {
	if b == nil {
		return ""
	}
	return fmt.Sprintf("Bundle %s Elements:%d", b.Timetag, len(b.Elements))
}

// MarshalBinary implements the encoding.BinaryMarshaler interface. The
// format is:
// 1. Bundle string: '#bundle'
// 2. OSC timetag
// 3. Length of first OSC bundle element
// 4. First bundle element
// 5. Length of n OSC bundle element
// 6. n bundle element
func (b *Bundle) MarshalBinary() ([]byte, error) {
	data, err := b.appendBinary(nil)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// AppendFramed appends the bundle prefixed with its 4 byte big-endian length,
// the form it takes inside an enclosing bundle.
func (b *Bundle) AppendFramed(data []byte) ([]byte, error) {
	return appendElement(data, b)
}

func (b *Bundle) appendBinary(data []byte) ([]byte, error) {
	b.errs = nil
	start := len(data)

	data = appendPaddedString(data, bundleTagString)
	data = appendUint64(data, uint64(b.Timetag))

	// Process all Bundle elements
	for i, e := range b.Elements {
		var err error
		if data, err = appendElement(data, e); err != nil {
			b.errs = append(b.errs, &ElementError{Index: i, Err: err})
			break
		}
	}

	if len(b.errs) > 0 {
		return data[:start], multierr.Combine(b.errs...)
	}
	return data, nil
}

// appendElement appends the length of p followed by p itself.
func appendElement(data []byte, p Packet) ([]byte, error) {
	lenAt := len(data)
	data = append(data, 0, 0, 0, 0)

	var (
		out []byte
		err error
	)
	switch p := p.(type) {
	case *Message:
		out, err = p.appendBinary(data)
	case *Bundle:
		out, err = p.appendBinary(data)
	default:
		err = fmt.Errorf("%w: %T", ErrUnsupportedType, p)
	}
	if err != nil {
		return data[:lenAt], err
	}

	binary.BigEndian.PutUint32(out[lenAt:], uint32(len(out)-lenAt-bit32Size))
	return out, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
//
// A wrong marker is recorded but the time tag is still read, so both problems
// are reported together. Element decoding stops at the first error.
func (b *Bundle) UnmarshalBinary(data []byte) error {
	b.Timetag = 0
	b.Elements = nil
	b.errs = nil

	c := NewCursor(data)

	// Read the '#bundle' OSC string
	startTag, next, err := ReadString(c)
	switch {
	case err != nil:
		b.errs = append(b.errs, wrapKind(ErrInvalidMarker, err))
		// Keep going from where the marker should have ended.
		next = c.advance(min(len(bundleTagString)+1, c.Remaining()))
	case startTag != bundleTagString:
		b.errs = append(b.errs, fmt.Errorf("%w: %q", ErrInvalidMarker, startTag))
	}
	c = next

	// Read the timetag
	tt, c, err := ReadUint64(c)
	if err != nil {
		b.errs = append(b.errs, wrapKind(ErrInvalidTimetag, err))
	} else {
		b.Timetag = Timetag(tt)
	}

	// Read until the end of the buffer
	for i := 0; c.Remaining() > 0 && len(b.errs) == 0; i++ {
		var p Packet
		if p, c, err = readElement(c); err != nil {
			b.errs = append(b.errs, &ElementError{Index: i, Err: err})
			break
		}
		b.Elements = append(b.Elements, p)
	}

	if len(b.errs) > 0 {
		return multierr.Combine(b.errs...)
	}
	return nil
}

// readElement reads one size-prefixed bundle element at c.
func readElement(c Cursor) (Packet, Cursor, error) {
	length, next, err := ReadInt32(c)
	if err != nil {
		return nil, c, fmt.Errorf("element length: %w", err)
	}

	elem, next, err := next.take(int(length))
	if err != nil {
		return nil, c, fmt.Errorf("element length %d: %w", length, err)
	}

	p, err := decodeElement(NewCursor(elem))
	if err != nil {
		return nil, c, err
	}
	return p, next, nil
}
