package codec

import "fmt"

// Sizer is an interface for types that can report their binary size.
// This is useful for pre-allocating buffers before encoding.
type Sizer interface {
	// Size returns the size of the type in bytes when binary encoded,
	// or a negative number when the size cannot be known.
	Size() int
}

// Field is a typed, self-describing unit of a binary message layout.
//
// Encode and Decode perform the raw transfer and ignore the gates; callers go
// through Write/Read (or Stream.WriteField/ReadField), which consult ShouldWrite
// and ShouldRead on every call. Size reports the declared contribution of the
// field whatever its gate state: it is a planning figure, not a "will write" answer.
type Field interface {
	Sizer
	ShouldWrite() bool
	ShouldRead() bool
	Encode(s *Stream) error
	Decode(s *Stream) error
}

// Variable is implemented by fields whose size is only known once they have been read.
type Variable interface {
	VariableSize() bool
}

// Equaler is implemented by fields that compare by value.
type Equaler interface {
	Equal(other Field) bool
}

// Gate holds the optional predicates that enable a field's write and read.
// A nil predicate means always. Predicates are evaluated on every call and
// never cached, so they may depend on fields decoded earlier in the same message.
type Gate struct {
	WriteIf func() bool
	ReadIf  func() bool
}

func (g *Gate) ShouldWrite() bool { return g.WriteIf == nil || g.WriteIf() }
func (g *Gate) ShouldRead() bool  { return g.ReadIf == nil || g.ReadIf() }

// Write encodes f into s if its write gate is open.
func Write(s *Stream, f Field) error {
	return s.WriteField(f)
}

// Read decodes f from s if its read gate is open.
func Read(s *Stream, f Field) error {
	return s.ReadField(f)
}

// Sizeof returns the declared size of a field, or the sum over an ordered group
// of fields. Anything else, or a field with no known size, is a usage error.
func Sizeof(x any) (int, error) {
	var f Field
	switch v := x.(type) {
	case []Field:
		f = Group(v)
	case Field:
		f = v
	default:
		return 0, fmt.Errorf("%w: sizeof %T", ErrInvalidArgument, x)
	}
	n := f.Size()
	if n < 0 {
		return 0, fmt.Errorf("%w: %T has no fixed size", ErrInvalidArgument, x)
	}
	return n, nil
}

// isVariable reports whether f's size can only be known after reading it.
func isVariable(f Field) bool {
	v, ok := f.(Variable)
	return ok && v.VariableSize()
}

// equalFields compares two fields by value when they support it, by identity otherwise.
func equalFields(a, b Field) bool {
	if e, ok := a.(Equaler); ok {
		return e.Equal(b)
	}
	return a == b
}
