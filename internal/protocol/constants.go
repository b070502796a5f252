package protocol

import "strconv"

const (
	// MaxMsgSize bounds the payload of every frame in both directions.
	MaxMsgSize = 4096 * 12

	// LengthPrefixSize is the size of the little-endian frame length.
	LengthPrefixSize = 4

	DefaultAddr = "127.0.0.1:8085"
)

// Tag identifies the variant of an encoded response value.
type Tag byte

const (
	TagNil    Tag = 0
	TagError  Tag = 1
	TagString Tag = 2
	TagInt    Tag = 3
	TagDouble Tag = 4
	TagArray  Tag = 5
	TagKV     Tag = 6
)

func (t Tag) String() string {
	switch t {
	case TagNil:
		return "nil"
	case TagError:
		return "err"
	case TagString:
		return "str"
	case TagInt:
		return "int"
	case TagDouble:
		return "dbl"
	case TagArray:
		return "arr"
	case TagKV:
		return "kv"
	default:
		return "unknown"
	}
}

// Error codes carried by server error replies.
const (
	ErrCodeUnknown  int32 = 1
	ErrCodeTooBig   int32 = 2
	ErrCodeType     int32 = 3
	ErrCodeArgument int32 = 4
)

// ErrorCodeName returns a short label for a server error code.
func ErrorCodeName(code int32) string {
	switch code {
	case ErrCodeUnknown:
		return "unknown"
	case ErrCodeTooBig:
		return "too big"
	case ErrCodeType:
		return "type"
	case ErrCodeArgument:
		return "argument"
	default:
		return "code " + strconv.FormatInt(int64(code), 10)
	}
}
