package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrMessageTooLarge     = errors.New("protocol: message too large")
	ErrResponseTooLarge    = errors.New("protocol: response too large")
	ErrUnexpectedEOF       = errors.New("protocol: unexpected end of stream")
	ErrUnknownResponseType = errors.New("protocol: unknown response type")
	ErrIncompleteResponse  = errors.New("protocol: incomplete response")
	ErrDecodeBounds        = errors.New("protocol: read past end of buffer")
	ErrMalformedRequest    = errors.New("protocol: malformed request")
)

// BoundsError reports a field that does not fit in the decode buffer.
type BoundsError struct {
	Field  string
	Offset int
	Need   int
	Have   int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("protocol: %s at offset %d needs %d bytes, %d available", e.Field, e.Offset, e.Need, e.Have)
}

func (e *BoundsError) Is(target error) bool { return target == ErrDecodeBounds }

// UnknownTypeError reports a tag byte outside the known set.
type UnknownTypeError struct {
	Tag byte
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("protocol: unknown response type %d", e.Tag)
}

func (e *UnknownTypeError) Is(target error) bool { return target == ErrUnknownResponseType }

// IncompleteResponseError is returned alongside a decoded value when the
// value did not occupy exactly the declared frame length.
type IncompleteResponseError struct {
	Declared int
	Consumed int
}

func (e *IncompleteResponseError) Error() string {
	return fmt.Sprintf("protocol: incomplete response: frame declared %d bytes, value consumed %d", e.Declared, e.Consumed)
}

func (e *IncompleteResponseError) Is(target error) bool { return target == ErrIncompleteResponse }
