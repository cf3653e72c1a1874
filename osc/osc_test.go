package osc

const zero = string(byte(0))

// nulls returns a string of `i` nulls.
func nulls(i int) string {
	s := ""
	for j := 0; j < i; j++ {
		s += zero
	}
	return s
}

type testCase struct {
	name    string
	obj     Packet
	raw     []byte
	wantErr bool
}

// fooBar is the /foo/bar message with one argument of each type.
var fooBar = testCase{
	"foo_bar",
	NewMessage("/foo/bar", int32(919), "some text", float32(83.743), []byte{11, 28, 205, 68, 137, 251}),
	[]byte("/foo/bar" + nulls(4) +
		",isfb" + nulls(3) +
		"\x00\x00\x03\x97" +
		"some text" + nulls(3) +
		"\x42\xa7\x7c\x6a" +
		"\x00\x00\x00\x06" + "\x0b\x1c\xcd\x44\x89\xfb" + nulls(2)),
	false,
}

var messageTestCases = []testCase{
	{
		"no_arguments",
		NewMessage("/a"),
		[]byte("/a" + nulls(2) + "," + nulls(3)),
		false,
	},
	{
		"int32",
		NewMessage("/a", int32(919)),
		[]byte("/a" + nulls(2) + ",i" + nulls(2) + "\x00\x00\x03\x97"),
		false,
	},
	{
		"negative_int32",
		NewMessage("/a", int32(-2)),
		[]byte("/a" + nulls(2) + ",i" + nulls(2) + "\xff\xff\xff\xfe"),
		false,
	},
	{
		"float32",
		NewMessage("/a", float32(83.743)),
		[]byte("/a" + nulls(2) + ",f" + nulls(2) + "\x42\xa7\x7c\x6a"),
		false,
	},
	{
		"string",
		NewMessage("/foo", "some text"),
		[]byte("/foo" + nulls(4) + ",s" + nulls(2) + "some text" + nulls(3)),
		false,
	},
	{
		"string_multiple_of_four",
		NewMessage("/abc", "abcd"),
		[]byte("/abc" + nulls(4) + ",s" + nulls(2) + "abcd" + nulls(4)),
		false,
	},
	{
		"blob",
		NewMessage("/b", []byte{1, 2, 3}),
		[]byte("/b" + nulls(2) + ",b" + nulls(2) + "\x00\x00\x00\x03\x01\x02\x03" + nulls(1)),
		false,
	},
	{
		"empty_blob",
		NewMessage("/b", []byte{}),
		[]byte("/b" + nulls(2) + ",b" + nulls(2) + nulls(4)),
		false,
	},
	fooBar,
}

var bundleTestCases = []testCase{
	{
		"empty_bundle",
		&Bundle{Timetag: Immediate},
		[]byte("#bundle" + nulls(1) + nulls(7) + "\x01"),
		false,
	},
	{
		"bundle_with_message",
		&Bundle{Timetag: Timetag(0xdeadbeef00000000), Elements: []Packet{NewMessage("/a")}},
		[]byte("#bundle" + nulls(1) + "\xde\xad\xbe\xef" + nulls(4) +
			"\x00\x00\x00\x08" + "/a" + nulls(2) + "," + nulls(3)),
		false,
	},
	{
		"nested_bundle",
		&Bundle{Timetag: Immediate, Elements: []Packet{
			&Bundle{Timetag: Timetag(0x0102030405060708)},
			NewMessage("/a", int32(1)),
		}},
		[]byte("#bundle" + nulls(1) + nulls(7) + "\x01" +
			"\x00\x00\x00\x10" + "#bundle" + nulls(1) + "\x01\x02\x03\x04\x05\x06\x07\x08" +
			"\x00\x00\x00\x0c" + "/a" + nulls(2) + ",i" + nulls(2) + "\x00\x00\x00\x01"),
		false,
	},
}
