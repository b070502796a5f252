package protocol

import "fmt"

// Value is one decoded response value. The set of implementations is
// closed: Nil, Error, Str, Int, Double, Array and KeyValue.
type Value interface {
	Tag() Tag
	isValue()
}

// Nil is the empty reply.
type Nil struct{}

// Error is an error reply sent by the server. It satisfies the error
// interface so callers can surface it with errors.As.
type Error struct {
	Code    int32
	Message string
}

// Str is a string reply.
type Str string

// Int is a signed 64-bit integer reply.
type Int int64

// Double is an IEEE 754 double reply.
type Double float64

// Array is an ordered list of nested values.
type Array []Value

// KeyValue is a single key/value pair reply.
type KeyValue struct {
	Key   string
	Value string
}

func (Nil) Tag() Tag      { return TagNil }
func (Error) Tag() Tag    { return TagError }
func (Str) Tag() Tag      { return TagString }
func (Int) Tag() Tag      { return TagInt }
func (Double) Tag() Tag   { return TagDouble }
func (Array) Tag() Tag    { return TagArray }
func (KeyValue) Tag() Tag { return TagKV }

func (Nil) isValue()      {}
func (Error) isValue()    {}
func (Str) isValue()      {}
func (Int) isValue()      {}
func (Double) isValue()   {}
func (Array) isValue()    {}
func (KeyValue) isValue() {}

func (e Error) Error() string {
	return fmt.Sprintf("server error %d (%s): %s", e.Code, ErrorCodeName(e.Code), e.Message)
}
