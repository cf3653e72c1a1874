package osc

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"

	"go.uber.org/multierr"
)

// Message represents a single OSC message. An OSC message consists of an OSC
// address pattern and zero or more arguments.
//
// Each argument must be an int32, float32, float64, string or []byte; this is
// checked when the message is encoded, not when it is built.
//
// The address and every string argument must be non-empty printable ASCII
// (bytes 32 to 126). An empty string or one with other bytes cannot be
// decoded again, so encoding rejects it with ErrInvalidString.
type Message struct {
	Address   string
	Arguments []interface{}

	errs []error
}

// Verify that Messages implements the Packet interface.
var _ Packet = (*Message)(nil)

// NewMessage returns a new Message. The address parameter is the OSC address.
func NewMessage(addr string, args ...interface{}) *Message {
	return &Message{Address: addr, Arguments: args}
}

// NewMessageFromData returns a new OSC message decoded from data.
func NewMessageFromData(data []byte) (*Message, error) {
	m := &Message{}
	if err := m.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return m, nil
}

// Append appends the given arguments to the arguments list. The types are
// checked when the message is encoded.
func (m *Message) Append(args ...interface{}) {
	m.Arguments = append(m.Arguments, args...)
}

// AppendArgs appends typed arguments to m.
func AppendArgs[T Argument](m *Message, args ...T) {
	for _, a := range args {
		m.Arguments = append(m.Arguments, a)
	}
}

// Clear clears the OSC address, all arguments and recorded errors.
func (m *Message) Clear() {
	m.Address = ""
	m.Arguments = nil
	m.errs = nil
}

// Errors returns the errors recorded by the last MarshalBinary or
// UnmarshalBinary call. An empty list means the call succeeded.
func (m *Message) Errors() []error {
	return m.errs
}

// Equal reports whether m and o have the same address and arguments.
func (m *Message) Equal(o *Message) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.Address == o.Address && reflect.DeepEqual(m.Arguments, o.Arguments)
}

// TypeTags returns the type tag string.
func (m *Message) TypeTags() (string, error) {
	if m == nil {
		return "", fmt.Errorf("TypeTags: message is nil")
	}
	return GetTypeTag(m.Arguments...)
}

// String implements the fmt.Stringer interface. It is meant for diagnostics,
// blobs are shown by their size only.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString("Address:")
	buf.WriteString(m.Address)
	buf.WriteString(" Data:")

	for i, arg := range m.Arguments {
		if i > 0 {
			buf.WriteByte(',')
		}
		switch arg := arg.(type) {
		case []byte:
			fmt.Fprintf(&buf, "byte[%d]", len(arg))
		case float32:
			buf.WriteString(strconv.FormatFloat(float64(arg), 'g', -1, 32))
		case float64:
			buf.WriteString(strconv.FormatFloat(float64(float32(arg)), 'g', -1, 32))
		default:
			fmt.Fprint(&buf, arg)
		}
	}

	return buf.String()
}

// MarshalBinary implements the encoding.BinaryMarshaler interface. The byte
// buffer has the following format:
// 1. OSC Address Pattern
// 2. OSC Type Tag String
// 3. OSC Arguments
//
// Every argument is checked before failing, so the returned error (and
// Errors) holds one entry per rejected argument.
func (m *Message) MarshalBinary() ([]byte, error) {
	data, err := m.appendBinary(nil)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (m *Message) appendBinary(data []byte) ([]byte, error) {
	m.errs = nil

	if err := validString(m.Address); err != nil {
		m.errs = append(m.errs, wrapKind(ErrInvalidAddress, err))
	}

	typetags := make([]byte, 1, len(m.Arguments)+1)
	typetags[0] = typeTagPrefix
	var payload []byte

	// Process the type tags and collect all arguments
	for i, arg := range m.Arguments {
		switch t := arg.(type) {
		default:
			m.errs = append(m.errs, &ArgumentError{Index: i, Err: fmt.Errorf("%w: %T", ErrUnsupportedType, t)})
			continue

		case int32:
			payload = appendInt32(payload, t)
		case float32:
			payload = appendFloat32(payload, t)
		case float64:
			payload = appendFloat32(payload, float32(t))
		case string:
			if err := validString(t); err != nil {
				m.errs = append(m.errs, &ArgumentError{Index: i, Tag: TypeString, Err: err})
				continue
			}
			payload = appendPaddedString(payload, t)
		case []byte:
			payload = appendBlob(payload, t)
		}
		typetags = append(typetags, byte(ToTypeTag(arg)))
	}

	if len(m.errs) > 0 {
		return data, multierr.Combine(m.errs...)
	}

	data = appendPaddedString(data, m.Address)
	data = appendPaddedString(data, string(typetags))
	return append(data, payload...), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
// Decoding stops at the first error.
func (m *Message) UnmarshalBinary(data []byte) error {
	m.Address = ""
	m.Arguments = nil
	m.errs = nil

	c := NewCursor(data)

	// First, read the OSC address
	addr, c, err := ReadString(c)
	if err != nil {
		m.errs = append(m.errs, wrapKind(ErrInvalidAddress, err))
		return multierr.Combine(m.errs...)
	}
	m.Address = addr

	if err = m.readArguments(c); err != nil {
		m.errs = append(m.errs, err)
		return multierr.Combine(m.errs...)
	}

	return nil
}

// readArguments reads the type tag string at c and then one value per tag.
func (m *Message) readArguments(c Cursor) error {
	typetags, c, err := ReadString(c)
	if err != nil {
		return wrapKind(ErrInvalidTypeTags, err)
	}

	// If the typetag doesn't start with ',', it's not valid
	if typetags[0] != typeTagPrefix {
		return fmt.Errorf("%w: %q", ErrInvalidTypeTags, typetags)
	}
	typetags = typetags[1:]

	for i := 0; i < len(typetags); i++ {
		tag := TypeTag(typetags[i])

		var arg interface{}
		switch tag {
		default:
			return &ArgumentError{Index: i, Tag: tag, Err: ErrUnsupportedTypeTag}

		case TypeInt32:
			arg, c, err = ReadInt32(c)
		case TypeFloat32:
			arg, c, err = ReadFloat32(c)
		case TypeString:
			arg, c, err = ReadString(c)
		case TypeBlob:
			arg, c, err = ReadBlob(c)
		}
		if err != nil {
			return &ArgumentError{Index: i, Tag: tag, Err: err}
		}

		m.Arguments = append(m.Arguments, arg)
	}

	return nil
}
