package protocol

import (
	"encoding/binary"
	"math"
)

// AppendValue appends the wire form of v to dst. A KeyValue's body length
// is derived from its key and value.
func AppendValue(dst []byte, v Value) []byte {
	switch v := v.(type) {
	case Nil:
		return append(dst, byte(TagNil))
	case Error:
		dst = append(dst, byte(TagError))
		dst = binary.LittleEndian.AppendUint32(dst, uint32(v.Code))
		dst = binary.LittleEndian.AppendUint32(dst, uint32(len(v.Message)))
		return append(dst, v.Message...)
	case Str:
		dst = append(dst, byte(TagString))
		return appendString(dst, string(v))
	case Int:
		dst = append(dst, byte(TagInt))
		return binary.LittleEndian.AppendUint64(dst, uint64(v))
	case Double:
		dst = append(dst, byte(TagDouble))
		return binary.LittleEndian.AppendUint64(dst, math.Float64bits(float64(v)))
	case Array:
		dst = append(dst, byte(TagArray))
		dst = binary.LittleEndian.AppendUint32(dst, uint32(len(v)))
		for _, el := range v {
			dst = AppendValue(dst, el)
		}
		return dst
	case KeyValue:
		dst = append(dst, byte(TagKV))
		dst = binary.LittleEndian.AppendUint32(dst, uint32(8+len(v.Key)+len(v.Value)))
		dst = appendString(dst, v.Key)
		return appendString(dst, v.Value)
	default:
		return dst
	}
}

// EncodeResponse returns a complete response frame carrying v.
func EncodeResponse(v Value) []byte {
	body := AppendValue(nil, v)
	out := make([]byte, 0, LengthPrefixSize+len(body))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))
	return append(out, body...)
}

func appendString(dst []byte, s string) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(s)))
	return append(dst, s...)
}
