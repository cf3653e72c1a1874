package osc

import (
	"encoding"
	"fmt"
)

// Packet is the interface for Message and Bundle, the two kinds of OSC
// packet and of bundle element.
type Packet interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler

	// Errors returns what the last encode or decode call recorded.
	Errors() []error
}

// ParsePacket decodes data into a *Bundle if it starts with '#', otherwise into
// a *Message. The returned error combines the packet's recorded errors, one
// entry each; use multierr.Errors to split it.
func ParsePacket(data []byte) (Packet, error) {
	return decodeElement(NewCursor(data))
}

// decodeElement decodes the rest of c as one packet, choosing the kind from
// its first byte.
func decodeElement(c Cursor) (Packet, error) {
	first, ok := c.Peek()
	if !ok {
		return nil, fmt.Errorf("%w: empty packet", ErrShortBuffer)
	}

	var p Packet
	if first == bundleTagString[0] {
		p = &Bundle{}
	} else {
		p = &Message{}
	}

	if err := p.UnmarshalBinary(c.Bytes()); err != nil {
		return nil, err
	}
	return p, nil
}
