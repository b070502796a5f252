package protocol

import (
	"encoding/binary"
	"math"
)

// Decode decodes the single value at the start of buf and returns it with
// the number of bytes it occupied, tag byte included. buf may hold trailing
// bytes belonging to sibling values; they are never read.
func Decode(buf []byte) (Value, int, error) {
	if len(buf) < 1 {
		return nil, 0, &BoundsError{Field: "tag", Offset: 0, Need: 1, Have: 0}
	}

	switch Tag(buf[0]) {
	case TagNil:
		return Nil{}, 1, nil

	case TagError:
		if err := need(buf, 1, 8, "error header"); err != nil {
			return nil, 0, err
		}
		code := int32(binary.LittleEndian.Uint32(buf[1:5]))
		msgLen := int32(binary.LittleEndian.Uint32(buf[5:9]))
		if msgLen < 0 {
			return nil, 0, &BoundsError{Field: "error message", Offset: 9, Need: int(msgLen), Have: len(buf) - 9}
		}
		if err := need(buf, 9, int(msgLen), "error message"); err != nil {
			return nil, 0, err
		}
		return Error{Code: code, Message: string(buf[9 : 9+int(msgLen)])}, 9 + int(msgLen), nil

	case TagString:
		s, n, err := readString(buf, 1, "string")
		if err != nil {
			return nil, 0, err
		}
		return Str(s), n, nil

	case TagInt:
		if err := need(buf, 1, 8, "int"); err != nil {
			return nil, 0, err
		}
		return Int(int64(binary.LittleEndian.Uint64(buf[1:9]))), 9, nil

	case TagDouble:
		if err := need(buf, 1, 8, "double"); err != nil {
			return nil, 0, err
		}
		return Double(math.Float64frombits(binary.LittleEndian.Uint64(buf[1:9]))), 9, nil

	case TagArray:
		return decodeArray(buf)

	case TagKV:
		return decodeKV(buf)

	default:
		return nil, 0, &UnknownTypeError{Tag: buf[0]}
	}
}

func decodeArray(buf []byte) (Value, int, error) {
	if err := need(buf, 1, 4, "array length"); err != nil {
		return nil, 0, err
	}
	count := binary.LittleEndian.Uint32(buf[1:5])
	offset := 5
	// Each element occupies at least its tag byte.
	if uint64(count) > uint64(len(buf)-offset) {
		return nil, 0, &BoundsError{Field: "array elements", Offset: offset, Need: int(count), Have: len(buf) - offset}
	}

	arr := make(Array, 0, count)
	for i := uint32(0); i < count; i++ {
		// A key/value element may claim more bytes than the buffer holds.
		if offset > len(buf) {
			return nil, 0, &BoundsError{Field: "array element", Offset: offset, Need: 1, Have: 0}
		}
		v, n, err := Decode(buf[offset:])
		if err != nil {
			return nil, 0, shift(err, offset)
		}
		arr = append(arr, v)
		offset += n
	}
	return arr, offset, nil
}

// decodeKV trusts the declared body length for the consumed count; it is
// not reconciled with the key and value fields actually read.
func decodeKV(buf []byte) (Value, int, error) {
	if err := need(buf, 1, 4, "kv length"); err != nil {
		return nil, 0, err
	}
	total := binary.LittleEndian.Uint32(buf[1:5])

	key, next, err := readString(buf, 5, "kv key")
	if err != nil {
		return nil, 0, err
	}
	val, _, err := readString(buf, next, "kv value")
	if err != nil {
		return nil, 0, err
	}
	return KeyValue{Key: key, Value: val}, 5 + int(total), nil
}

// readString reads a u32 length at offset followed by that many bytes and
// returns the string and the offset just past it.
func readString(buf []byte, offset int, field string) (string, int, error) {
	if err := need(buf, offset, 4, field+" length"); err != nil {
		return "", 0, err
	}
	n := binary.LittleEndian.Uint32(buf[offset : offset+4])
	offset += 4
	if uint64(n) > uint64(len(buf)-offset) {
		return "", 0, &BoundsError{Field: field, Offset: offset, Need: int(n), Have: len(buf) - offset}
	}
	end := offset + int(n)
	return string(buf[offset:end]), end, nil
}

func need(buf []byte, offset, n int, field string) error {
	if offset > len(buf) || len(buf)-offset < n {
		have := len(buf) - offset
		if have < 0 {
			have = 0
		}
		return &BoundsError{Field: field, Offset: offset, Need: n, Have: have}
	}
	return nil
}

// shift rebases a nested bounds error offset onto the enclosing buffer.
func shift(err error, base int) error {
	if be, ok := err.(*BoundsError); ok {
		out := *be
		out.Offset += base
		return &out
	}
	return err
}
