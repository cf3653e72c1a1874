package osc

import "fmt"

// TypeTag is a single character of an OSC type tag string.
type TypeTag byte

const (
	TypeInt32   TypeTag = 'i'
	TypeFloat32 TypeTag = 'f'
	TypeString  TypeTag = 's'
	TypeBlob    TypeTag = 'b'
	TypeInvalid TypeTag = 0
)

// typeTagPrefix starts every type tag string.
const typeTagPrefix = ','

// Argument lists the Go types a Message argument can be built from. float64
// values are narrowed to float32 when the message is encoded.
type Argument interface {
	int32 | float32 | float64 | string | []byte
}

// ToTypeTag returns the OSC TypeTag for the given argument.
// Returns TypeInvalid if the argument type is unsupported.
func ToTypeTag(arg interface{}) TypeTag {
	switch arg.(type) {
	case int32:
		return TypeInt32
	case float32, float64:
		return TypeFloat32
	case string:
		return TypeString
	case []byte:
		return TypeBlob
	default:
		return TypeInvalid
	}
}

// GetTypeTag returns the OSC type tag string, including the leading ',', for
// the given arguments.
func GetTypeTag(args ...interface{}) (string, error) {
	tt := make([]byte, 1, len(args)+1)
	tt[0] = typeTagPrefix
	for i, arg := range args {
		s := ToTypeTag(arg)
		if s == TypeInvalid {
			return "", &ArgumentError{Index: i, Err: fmt.Errorf("%w: %T", ErrUnsupportedType, arg)}
		}
		tt = append(tt, byte(s))
	}
	return string(tt), nil
}
