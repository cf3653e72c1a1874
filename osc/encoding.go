package osc

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	bit32Size = 4
	bit64Size = 8
)

////
// Encoding functions
////

// appendPaddedString appends str, its NUL terminator and enough NUL bytes to
// end on a 4 byte boundary.
func appendPaddedString(b []byte, str string) []byte {
	b = append(b, str...)
	n := len(str) + 1
	return append(b, make([]byte, 1+padBytesNeeded(n))...)
}

func appendInt32(b []byte, v int32) []byte {
	return binary.BigEndian.AppendUint32(b, uint32(v))
}

func appendUint64(b []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(b, v)
}

func appendFloat32(b []byte, v float32) []byte {
	return binary.BigEndian.AppendUint32(b, math.Float32bits(v))
}

// appendBlob appends data as an OSC blob: a 4 byte length, the payload, then
// padding. The length field is not part of the padding calculation.
func appendBlob(b []byte, data []byte) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(len(data)))
	b = append(b, data...)
	return append(b, make([]byte, padBytesNeeded(len(data)))...)
}

// padBytesNeeded determines how many bytes are needed to fill up to the next 4
// byte length.
func padBytesNeeded(elementLen int) int {
	return (4 - (elementLen % 4)) % 4
}

// isReadable reports whether c may appear inside an OSC string.
func isReadable(c byte) bool {
	return c >= 32 && c <= 126
}

// validString reports whether str survives a round trip through ReadString.
func validString(str string) error {
	if len(str) == 0 {
		return fmt.Errorf("%w: empty string", ErrInvalidString)
	}
	for i := 0; i < len(str); i++ {
		if !isReadable(str[i]) {
			return fmt.Errorf("%w: unreadable byte 0x%02x at %d", ErrInvalidString, str[i], i)
		}
	}
	return nil
}

////
// Decoding functions
////

// Cursor is the parse state threaded through the Read functions: a buffer and
// an offset into it. Reads never modify the cursor they are given; they return
// the advanced cursor alongside the value.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor returns a cursor positioned at the start of data.
func NewCursor(data []byte) Cursor {
	return Cursor{buf: data}
}

// Offset returns the number of bytes consumed so far.
func (c Cursor) Offset() int {
	return c.off
}

// Remaining returns the number of unread bytes.
func (c Cursor) Remaining() int {
	return len(c.buf) - c.off
}

// Peek returns the next byte without consuming it.
func (c Cursor) Peek() (byte, bool) {
	if c.Remaining() < 1 {
		return 0, false
	}
	return c.buf[c.off], true
}

// Bytes returns the unread part of the buffer.
func (c Cursor) Bytes() []byte {
	return c.buf[c.off:]
}

func (c Cursor) advance(n int) Cursor {
	c.off += n
	return c
}

// take returns the next n bytes.
func (c Cursor) take(n int) ([]byte, Cursor, error) {
	if n < 0 || c.Remaining() < n {
		return nil, c, fmt.Errorf("%w: need %d, have %d", ErrShortBuffer, n, c.Remaining())
	}
	return c.buf[c.off : c.off+n], c.advance(n), nil
}

// ReadString decodes a padded OSC string. The first byte must be readable,
// the string ends at the first NUL, and every byte up to the next 4 byte
// boundary must be NUL.
func ReadString(c Cursor) (string, Cursor, error) {
	start := c.off
	i := start

	if i >= len(c.buf) {
		return "", c, fmt.Errorf("%w: string at %d", ErrShortBuffer, start)
	}
	if !isReadable(c.buf[i]) {
		return "", c, fmt.Errorf("%w: unreadable first byte 0x%02x at %d", ErrInvalidString, c.buf[i], i)
	}

	for ; i < len(c.buf) && c.buf[i] != 0; i++ {
		if !isReadable(c.buf[i]) {
			return "", c, fmt.Errorf("%w: unreadable byte 0x%02x at %d", ErrInvalidString, c.buf[i], i)
		}
	}
	if i >= len(c.buf) {
		return "", c, fmt.Errorf("%w: unterminated string at %d", ErrShortBuffer, start)
	}
	str := string(c.buf[start:i])

	// Terminator, then padding.
	for i++; (i-start)%4 != 0; i++ {
		if i >= len(c.buf) {
			return "", c, fmt.Errorf("%w: string padding at %d", ErrShortBuffer, i)
		}
		if c.buf[i] != 0 {
			return "", c, fmt.Errorf("%w: non-zero padding byte at %d", ErrInvalidString, i)
		}
	}

	return str, c.advance(i - start), nil
}

// ReadInt32 decodes a big-endian int32.
func ReadInt32(c Cursor) (int32, Cursor, error) {
	b, next, err := c.take(bit32Size)
	if err != nil {
		return 0, c, err
	}
	return int32(binary.BigEndian.Uint32(b)), next, nil
}

// ReadUint64 decodes a big-endian uint64 and advances past all 8 bytes.
func ReadUint64(c Cursor) (uint64, Cursor, error) {
	b, next, err := c.take(bit64Size)
	if err != nil {
		return 0, c, err
	}
	return binary.BigEndian.Uint64(b), next, nil
}

// ReadFloat32 decodes a big-endian IEEE-754 float32.
func ReadFloat32(c Cursor) (float32, Cursor, error) {
	b, next, err := c.take(bit32Size)
	if err != nil {
		return 0, c, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), next, nil
}

// ReadBlob decodes an OSC blob. The payload is copied out of the buffer.
// Padding bytes are skipped without being checked.
func ReadBlob(c Cursor) ([]byte, Cursor, error) {
	n, next, err := ReadInt32(c)
	if err != nil {
		return nil, c, fmt.Errorf("blob length: %w", err)
	}
	if n < 0 {
		return nil, c, fmt.Errorf("%w: negative length %d", ErrInvalidBlob, n)
	}

	payload, next, err := next.take(int(n))
	if err != nil {
		return nil, c, fmt.Errorf("blob payload: %w", err)
	}

	pad := padBytesNeeded(next.off)
	if next.Remaining() < pad {
		return nil, c, fmt.Errorf("blob padding: %w: need %d, have %d", ErrShortBuffer, pad, next.Remaining())
	}

	blob := make([]byte, len(payload))
	copy(blob, payload)
	return blob, next.advance(pad), nil
}
