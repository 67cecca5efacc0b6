package osc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
	}{
		{"no_args", NewMessage("/reset")},
		{"int32", NewMessage("/xfreq", int32(25))},
		{"float32", NewMessage("/yfreq", float32(12.5))},
		{"mixed", NewMessage("/mixed", int32(1122), float32(3.14), "teststring")},
		{"wide_types", NewMessage("/wide", int64(1 << 40), float64(2.718281828))},
		{"bools_and_nil", NewMessage("/flags", true, false, nil)},
		{"blob", NewMessage("/blob", []byte{0xde, 0xad, 0xbe, 0xef, 0x01})},
		{"trajectory_shape", NewMessage("/trajectory",
			int32(10), int32(2),
			float32(0.1), float32(0.2), float32(0.3), float32(0.4), float32(0.5),
			float32(0.6), float32(0.7), float32(0.8), float32(0.9), float32(1.0),
		)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.msg.MarshalBinary()
			require.NoError(t, err)
			require.Zero(t, len(data)%4, "encoded message must be 32-bit aligned")

			got, err := ParseMessage(data)
			require.NoError(t, err)
			assert.Equal(t, tt.msg, got)
		})
	}
}

func TestParseMessageMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"no_address", []byte("abcd")},
		{"misaligned", []byte("/ab")},
		{"unterminated_address", []byte("/abc")},
		{"unknown_typetag", []byte("/a\x00\x00,z\x00\x00")},
		{"typetag_no_comma", []byte("/a\x00\x00izz\x00")},
		{"truncated_int32", []byte("/a\x00\x00,i\x00\x00")},
		{"truncated_float64", []byte("/a\x00\x00,d\x00\x00\x01\x02\x03\x04")},
		{"truncated_string", []byte("/a\x00\x00,s\x00\x00abcd")},
		{"blob_length_past_end", []byte("/a\x00\x00,b\x00\x00\x00\x00\x00\xffabcd")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMessage(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestMessageAppend(t *testing.T) {
	m := NewMessage("/addr")
	require.NoError(t, m.Append(int32(1), "two", float32(3)))
	assert.Len(t, m.Arguments, 3)

	assert.Error(t, m.Append(uint16(4)), "unsupported argument type must be rejected")
	assert.Len(t, m.Arguments, 3)
}

func TestMessageTypeTags(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want string
	}{
		{"empty", NewMessage("/a"), ","},
		{"ints_floats", NewMessage("/a", int32(1), float32(2), int64(3), float64(4)), ",ifhd"},
		{"string_blob", NewMessage("/a", "s", []byte{1}), ",sb"},
		{"bool_nil", NewMessage("/a", true, false, nil), ",TFN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.msg.TypeTags()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMessageString(t *testing.T) {
	assert.Equal(t, "/reset", NewMessage("/reset").String())
	assert.Equal(t, "/pong ,i 3", NewMessage("/pong", int32(3)).String())
}
