package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ReadFrame reads one length-prefixed frame from r and returns its payload.
// Declared lengths above MaxMsgSize are rejected before the body is read.
func ReadFrame(r io.Reader) ([]byte, error) {
	var prefix [LengthPrefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, readErr(err, "length prefix")
	}

	length := binary.LittleEndian.Uint32(prefix[:])
	if length > MaxMsgSize {
		return nil, fmt.Errorf("%w: declared %d bytes exceeds %d", ErrResponseTooLarge, length, MaxMsgSize)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, readErr(err, "body")
	}
	return body, nil
}

// ReadResponse reads one response frame from r and decodes its value.
//
// When the value does not consume exactly the declared frame length, the
// decoded value is returned together with an *IncompleteResponseError; the
// caller decides whether the connection is still usable.
func ReadResponse(r io.Reader) (Value, error) {
	body, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	return DecodeResponse(body)
}

// DecodeResponse decodes one value from a complete frame body and reconciles
// the consumed count with the body length.
func DecodeResponse(body []byte) (Value, error) {
	v, n, err := Decode(body)
	if err != nil {
		return nil, err
	}
	if n != len(body) {
		return v, &IncompleteResponseError{Declared: len(body), Consumed: n}
	}
	return v, nil
}

func readErr(err error, what string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: reading %s", ErrUnexpectedEOF, what)
	}
	return err
}
