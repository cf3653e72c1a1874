package osc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPaddedString(t *testing.T) {
	for _, tt := range []struct {
		buf   []byte // buffer
		want  int    // bytes consumed
		want1 string // resulting string
		err   error
	}{
		{[]byte{'t', 'e', 's', 't', 's', 't', 'r', 'i', 'n', 'g', 0, 0}, 12, "teststring", nil},
		{[]byte{'t', 'e', 's', 't', 'e', 'r', 's', 0}, 8, "testers", nil},
		{[]byte{'t', 'e', 's', 't', 's', 0, 0, 0}, 8, "tests", nil},
		{[]byte{'t', 'e', 's', 0, 0, 0, 0, 0}, 4, "tes", nil},                                   // OSC uses null terminated strings
		{[]byte{'t', 'e', 's', 't'}, 0, "", ErrShortBuffer},                                     // if there is no null byte at the end, it doesn't work.
		{[]byte{'t', 'e', 's', 't', 0, 0}, 0, "", ErrShortBuffer},                               // padding cut short
		{[]byte{0, 0, 0, 0}, 0, "", ErrInvalidString},                                           // first byte must be readable
		{[]byte{'t', 'e', 0, 'x'}, 0, "", ErrInvalidString},                                     // non-null padding
		{[]byte{'t', 0x07, 's', 0}, 0, "", ErrInvalidString},                                    // control character
		{[]byte{'t', 'e', 's', 't', 0xc3, 0xa9, 0, 0}, 0, "", ErrInvalidString},                 // not ASCII
		{[]byte{}, 0, "", ErrShortBuffer},
	} {
		t.Run(tt.want1, func(t *testing.T) {
			got, c, err := ReadString(NewCursor(tt.buf))
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				assert.Equal(t, 0, c.Offset(), "cursor must not move on error")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want1, got)
			assert.Equal(t, tt.want, c.Offset())
		})
	}
}

func TestReadStringAtOffset(t *testing.T) {
	buf := []byte("/a" + nulls(2) + "abcdef" + nulls(2))

	_, c, err := ReadString(NewCursor(buf))
	require.NoError(t, err)

	got, c, err := ReadString(c)
	require.NoError(t, err)
	assert.Equal(t, "abcdef", got)
	assert.Equal(t, len(buf), c.Offset())
	assert.Equal(t, 0, c.Remaining())
}

func TestAppendPaddedString(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want string
	}{
		{"a", "a" + nulls(3)},
		{"abc", "abc" + nulls(1)},
		{"abcd", "abcd" + nulls(4)},
		{"testString", "testString" + nulls(2)},
		{"Abe*-88= XXXq", "Abe*-88= XXXq" + nulls(3)},
	} {
		got := appendPaddedString(nil, tt.in)
		assert.Equal(t, []byte(tt.want), got, tt.in)
		assert.Zero(t, len(got)%4, tt.in)
	}
}

func TestPrimitiveRoundTrip(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		b := appendPaddedString(nil, "Abe*-88= XXXq")
		require.Len(t, b, 16)
		s, c, err := ReadString(NewCursor(b))
		require.NoError(t, err)
		assert.Equal(t, "Abe*-88= XXXq", s)
		assert.Equal(t, 16, c.Offset())
	})

	t.Run("int32", func(t *testing.T) {
		b := appendInt32(nil, 193082)
		require.Len(t, b, 4)
		v, c, err := ReadInt32(NewCursor(b))
		require.NoError(t, err)
		assert.Equal(t, int32(193082), v)
		assert.Equal(t, 4, c.Offset())
	})

	t.Run("uint64", func(t *testing.T) {
		b := appendUint64(nil, 7340912)
		require.Len(t, b, 8)
		v, c, err := ReadUint64(NewCursor(b))
		require.NoError(t, err)
		assert.Equal(t, uint64(7340912), v)
		assert.Equal(t, 8, c.Offset(), "uint64 must consume all 8 bytes")
	})

	t.Run("float32", func(t *testing.T) {
		b := appendFloat32(nil, 2965.8345)
		require.Len(t, b, 4)
		v, c, err := ReadFloat32(NewCursor(b))
		require.NoError(t, err)
		assert.Equal(t, float32(2965.8345), v)
		assert.Equal(t, 4, c.Offset())
	})

	t.Run("blob", func(t *testing.T) {
		b := appendBlob(nil, []byte{11, 28, 205, 68, 137, 251, 59, 71, 184})
		require.Len(t, b, 16)
		v, c, err := ReadBlob(NewCursor(b))
		require.NoError(t, err)
		require.Len(t, v, 9)
		assert.Equal(t, byte(68), v[3])
		assert.Equal(t, byte(184), v[8])
		assert.Equal(t, 16, c.Offset())
	})
}

func TestBigEndian(t *testing.T) {
	assert.Equal(t, []byte{0x00, 0x00, 0x03, 0x97}, appendInt32(nil, 919))
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, appendInt32(nil, -1))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, appendUint64(nil, 0x0102030405060708))
	assert.Equal(t, []byte{0x3f, 0x80, 0x00, 0x00}, appendFloat32(nil, 1))
}

func TestReadFixedWidthShortBuffer(t *testing.T) {
	short := NewCursor([]byte{1, 2, 3})

	_, c, err := ReadInt32(short)
	assert.ErrorIs(t, err, ErrShortBuffer)
	assert.Equal(t, short, c)

	_, _, err = ReadFloat32(short)
	assert.ErrorIs(t, err, ErrShortBuffer)

	_, _, err = ReadUint64(NewCursor([]byte{1, 2, 3, 4, 5, 6, 7}))
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestReadBlobErrors(t *testing.T) {
	for _, tt := range []struct {
		name string
		buf  []byte
		err  error
	}{
		{"no_length", []byte{0, 0, 1}, ErrShortBuffer},
		{"length_exceeds_buffer", []byte{0, 0, 0, 9, 1, 2, 3, 4}, ErrShortBuffer},
		{"huge_length", []byte{0x7f, 0xff, 0xff, 0xff, 1, 2, 3, 4}, ErrShortBuffer},
		{"negative_length", []byte{0xff, 0xff, 0xff, 0xff, 1, 2, 3, 4}, ErrInvalidBlob},
		{"padding_cut_short", []byte{0, 0, 0, 2, 1, 2}, ErrShortBuffer},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, c, err := ReadBlob(NewCursor(tt.buf))
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 0, c.Offset())
		})
	}
}

func TestReadBlobIgnoresPadContent(t *testing.T) {
	v, c, err := ReadBlob(NewCursor([]byte{0, 0, 0, 1, 0xaa, 0xbb, 0xcc, 0xdd}))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa}, v)
	assert.Equal(t, 8, c.Offset())
}

func TestReadBlobCopies(t *testing.T) {
	buf := appendBlob(nil, []byte{1, 2, 3, 4})
	v, _, err := ReadBlob(NewCursor(buf))
	require.NoError(t, err)

	buf[4] = 0xff
	assert.Equal(t, byte(1), v[0])
}

func TestCursorPeek(t *testing.T) {
	c := NewCursor([]byte{'#', 'b'})
	b, ok := c.Peek()
	assert.True(t, ok)
	assert.Equal(t, byte('#'), b)
	assert.Equal(t, 0, c.Offset())

	_, ok = NewCursor(nil).Peek()
	assert.False(t, ok)
}

func TestPadBytesNeeded(t *testing.T) {
	for _, tt := range []struct{ in, want int }{
		{4, 0}, {3, 1}, {1, 3}, {0, 0}, {32, 0}, {63, 1}, {10, 2},
	} {
		assert.Equal(t, tt.want, padBytesNeeded(tt.in), "padBytesNeeded(%d)", tt.in)
	}
}
