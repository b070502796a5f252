package protocol

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u32(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestDecode_Tags(t *testing.T) {
	tests := []struct {
		name     string
		buf      []byte
		want     Value
		consumed int
	}{
		{
			name:     "nil",
			buf:      []byte{0},
			want:     Nil{},
			consumed: 1,
		},
		{
			name:     "error",
			buf:      cat([]byte{1}, u32(4), u32(16), []byte("expect fp number")),
			want:     Error{Code: 4, Message: "expect fp number"},
			consumed: 9 + 16,
		},
		{
			name:     "string",
			buf:      cat([]byte{2}, u32(2), []byte("12")),
			want:     Str("12"),
			consumed: 7,
		},
		{
			name:     "empty string",
			buf:      cat([]byte{2}, u32(0)),
			want:     Str(""),
			consumed: 5,
		},
		{
			name:     "int",
			buf:      []byte{3, 0x01, 0, 0, 0, 0, 0, 0, 0},
			want:     Int(1),
			consumed: 9,
		},
		{
			name:     "negative int",
			buf:      cat([]byte{3}, binary.LittleEndian.AppendUint64(nil, uint64(math.MaxUint64))),
			want:     Int(-1),
			consumed: 9,
		},
		{
			name:     "double",
			buf:      cat([]byte{4}, binary.LittleEndian.AppendUint64(nil, math.Float64bits(150.5))),
			want:     Double(150.5),
			consumed: 9,
		},
		{
			name:     "empty array",
			buf:      cat([]byte{5}, u32(0)),
			want:     Array{},
			consumed: 5,
		},
		{
			name:     "kv",
			buf:      cat([]byte{6}, u32(8+3+2), u32(3), []byte("age"), u32(2), []byte("12")),
			want:     KeyValue{Key: "age", Value: "12"},
			consumed: 5 + 8 + 3 + 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, n, err := Decode(tt.buf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
			assert.Equal(t, tt.consumed, n)
			assert.Equal(t, tt.want.Tag(), v.Tag())
		})
	}
}

func TestDecode_ArrayOfThree(t *testing.T) {
	buf := cat(
		[]byte{5}, u32(3),
		[]byte{3}, binary.LittleEndian.AppendUint64(nil, 100),
		[]byte{2}, u32(5), []byte("Alice"),
		[]byte{0},
	)

	v, n, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, 5+9+(5+5)+1, n)
	assert.Equal(t, 25, n)
	assert.Equal(t, Array{Int(100), Str("Alice"), Nil{}}, v)
}

func TestDecode_NestedArray(t *testing.T) {
	inner := Array{Str("Bob"), Double(200), KeyValue{Key: "k", Value: "v"}}
	outer := Array{inner, Array{}, Int(7)}
	buf := AppendValue(nil, outer)

	v, n, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, outer, v)
}

func TestDecode_IgnoresTrailingBytes(t *testing.T) {
	buf := []byte{3, 1, 0, 0, 0, 0, 0, 0, 0, 0xde, 0xad}
	v, n, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, Int(1), v)
	assert.Equal(t, 9, n)
}

// The declared kv body length decides the consumed count even when it
// disagrees with the key and value fields.
func TestDecode_KeyValueTrustsDeclaredLength(t *testing.T) {
	fields := cat(u32(3), []byte("age"), u32(2), []byte("12"))
	require.Len(t, fields, 13)

	longer := cat([]byte{6}, u32(20), fields, make([]byte, 7))
	v, n, err := Decode(longer)
	require.NoError(t, err)
	assert.Equal(t, KeyValue{Key: "age", Value: "12"}, v)
	assert.Equal(t, 25, n)

	shorter := cat([]byte{6}, u32(4), fields)
	v, n, err = Decode(shorter)
	require.NoError(t, err)
	assert.Equal(t, KeyValue{Key: "age", Value: "12"}, v)
	assert.Equal(t, 9, n)
}

func TestDecode_KeyValueOverrunInArray(t *testing.T) {
	kv := cat([]byte{6}, u32(100), u32(1), []byte("k"), u32(1), []byte("v"))
	buf := cat([]byte{5}, u32(2), kv, []byte{0})

	_, _, err := Decode(buf)
	assert.ErrorIs(t, err, ErrDecodeBounds)
}

func TestDecode_UnknownTag(t *testing.T) {
	v, n, err := Decode([]byte{99, 1, 2, 3})
	assert.Nil(t, v)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, ErrUnknownResponseType)

	var ute *UnknownTypeError
	require.True(t, errors.As(err, &ute))
	assert.Equal(t, byte(99), ute.Tag)
}

func TestDecode_ArrayAbortsOnUnknownElement(t *testing.T) {
	buf := cat([]byte{5}, u32(3), []byte{0}, []byte{42}, []byte{0})
	v, _, err := Decode(buf)
	assert.Nil(t, v)
	assert.ErrorIs(t, err, ErrUnknownResponseType)
}

func TestDecode_Bounds(t *testing.T) {
	cases := map[string][]byte{
		"empty":                 {},
		"error header":          {1, 0, 0, 0},
		"error message":         cat([]byte{1}, u32(1), u32(10), []byte("abc")),
		"negative error length": cat([]byte{1}, u32(1), u32(0xffffffff)),
		"string length":         {2, 1, 0},
		"string bytes":          cat([]byte{2}, u32(6), []byte("abc")),
		"int":                   {3, 1, 2, 3},
		"double":                {4, 0, 0, 0, 0, 0, 0, 0},
		"array length":          {5, 1},
		"array count":           cat([]byte{5}, u32(4), []byte{0, 0}),
		"array element":         cat([]byte{5}, u32(2), []byte{0}, []byte{2, 9, 0, 0, 0}),
		"kv length":             {6, 0, 0},
		"kv key":                cat([]byte{6}, u32(20), u32(9), []byte("ab")),
		"kv value length":       cat([]byte{6}, u32(20), u32(2), []byte("ab"), []byte{1}),
		"kv value":              cat([]byte{6}, u32(20), u32(2), []byte("ab"), u32(4), []byte("x")),
	}

	for name, buf := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := Decode(buf)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecodeBounds)

			var be *BoundsError
			assert.True(t, errors.As(err, &be))
		})
	}
}

func TestDecode_NestedBoundsOffset(t *testing.T) {
	buf := cat([]byte{5}, u32(2), []byte{0}, []byte{3, 1, 2})
	_, _, err := Decode(buf)

	var be *BoundsError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, 7, be.Offset)
	assert.Equal(t, "int", be.Field)
}

func TestDecode_DoesNotModifyBuffer(t *testing.T) {
	buf := AppendValue(nil, Array{Str("x"), Error{Code: 1, Message: "boom"}})
	snapshot := append([]byte(nil), buf...)

	_, _, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, snapshot, buf)
}

func TestError_ImplementsError(t *testing.T) {
	var err error = Error{Code: ErrCodeArgument, Message: "expect int"}
	assert.Contains(t, err.Error(), "expect int")
	assert.Contains(t, err.Error(), "argument")

	var reply Error
	require.True(t, errors.As(err, &reply))
	assert.Equal(t, ErrCodeArgument, reply.Code)
}
