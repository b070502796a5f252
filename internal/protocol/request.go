package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// RequestLength returns the payload length of the request built from args:
// the argument count field plus a length field and the UTF-8 bytes of
// every argument.
func RequestLength(args []string) int {
	n := 4
	for _, a := range args {
		n += 4 + len(a)
	}
	return n
}

// EncodeRequest builds a complete request frame (length prefix and payload)
// for args. It fails with ErrMessageTooLarge, returning no buffer, when the
// payload would exceed MaxMsgSize.
func EncodeRequest(args []string) ([]byte, error) {
	length := RequestLength(args)
	if length > MaxMsgSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrMessageTooLarge, length, MaxMsgSize)
	}

	buf := make([]byte, LengthPrefixSize+length)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(length))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(args)))
	offset := 8
	for _, a := range args {
		binary.LittleEndian.PutUint32(buf[offset:offset+4], uint32(len(a)))
		offset += 4
		offset += copy(buf[offset:], a)
	}
	return buf, nil
}

// DecodeRequest parses a request payload (without its length prefix) back
// into its arguments. Trailing bytes are rejected.
func DecodeRequest(payload []byte) ([]string, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("%w: missing argument count", ErrMalformedRequest)
	}
	count := binary.LittleEndian.Uint32(payload[0:4])
	// Every argument needs at least its 4-byte length field.
	if uint64(count)*4 > uint64(len(payload)-4) {
		return nil, fmt.Errorf("%w: argument count %d too large", ErrMalformedRequest, count)
	}

	args := make([]string, 0, count)
	offset := 4
	for i := uint32(0); i < count; i++ {
		if len(payload)-offset < 4 {
			return nil, fmt.Errorf("%w: argument %d length truncated", ErrMalformedRequest, i)
		}
		n := binary.LittleEndian.Uint32(payload[offset : offset+4])
		offset += 4
		if uint64(n) > uint64(len(payload)-offset) {
			return nil, fmt.Errorf("%w: argument %d truncated", ErrMalformedRequest, i)
		}
		args = append(args, string(payload[offset:offset+int(n)]))
		offset += int(n)
	}
	if offset != len(payload) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedRequest, len(payload)-offset)
	}
	return args, nil
}

// WriteRequest encodes args and writes the whole frame to w. Nothing is
// written when encoding fails.
func WriteRequest(w io.Writer, args []string) error {
	buf, err := EncodeRequest(args)
	if err != nil {
		return err
	}
	return WriteFull(w, buf)
}

// WriteFull writes all of buf to w, retrying short writes. A write that
// makes no progress fails with io.ErrShortWrite.
func WriteFull(w io.Writer, buf []byte) error {
	for len(buf) > 0 {
		n, err := w.Write(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		buf = buf[n:]
	}
	return nil
}
