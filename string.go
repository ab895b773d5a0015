package codec

import (
	"fmt"
	"strings"
)

// String is a raw byte run with no length prefix. Its read length comes from its
// current value: an empty String consumes every remaining byte, a non-empty one
// consumes exactly len(value) bytes and then takes the decoded bytes as its value.
// To parse a fixed-length run, construct the String with a placeholder of that
// length, e.g. NewString(strings.Repeat("\x00", 16)).
type String struct {
	Gate
	value Value[string]
}

var (
	_ Field    = (*String)(nil)
	_ Variable = (*String)(nil)
	_ Equaler  = (*String)(nil)
)

// NewString returns a String holding v.
func NewString(v string) *String {
	return &String{value: Constant(v)}
}

// LazyString returns a String whose value is fn(), evaluated on every access.
func LazyString(fn func() string) *String {
	return &String{value: Computed(fn)}
}

// Placeholder returns a String that will read exactly n bytes.
func Placeholder(n int) *String {
	return NewString(strings.Repeat("\x00", n))
}

// Value never fails; the error result satisfies ValueField so a String can be checked.
func (x *String) Value() (string, error) { return x.value.Get(), nil }
func (x *String) Set(v string)           { x.value = Constant(v) }
func (x *String) SetFunc(fn func() string) {
	x.value = Computed(fn)
}

func (x *String) saveValue() any     { return x.value }
func (x *String) restoreValue(v any) { x.value = v.(Value[string]) }

// Size is the length of the current value.
func (x *String) Size() int { return len(x.value.Get()) }

// VariableSize is always true: the size after a read is whatever was read.
func (x *String) VariableSize() bool { return true }

func (x *String) Encode(s *Stream) error {
	_, err := s.WriteString(x.value.Get())
	return err
}

func (x *String) Decode(s *Stream) error {
	n := len(x.value.Get())
	if n == 0 {
		x.Set(string(s.ReadRest()))
		return nil
	}
	b, err := s.ReadBytes(n)
	if err != nil {
		return err
	}
	x.Set(string(b))
	return nil
}

func (x *String) Equal(other Field) bool {
	y, ok := other.(*String)
	return ok && x.value.Get() == y.value.Get()
}

func (x *String) String() string { return x.value.Get() }

// UniString is a String encoded as 16-bit little-endian units: every byte of the
// value is followed by 0x00 and the run ends with a 0x0000 terminator. It is the
// narrow convention of the protocol family, not general UTF-16.
//
// Decoding follows the String placeholder contract: a non-empty value reads
// exactly 2*len+2 bytes; an empty value reads units up to and including the
// terminator, or to the end of the buffer if there is none. A non-zero high byte,
// or a fixed-length run not ending in 0x0000, fails with ErrMalformedString.
type UniString struct {
	String
}

var _ Field = (*UniString)(nil)

// NewUniString returns a UniString holding v.
func NewUniString(v string) *UniString {
	return &UniString{String{value: Constant(v)}}
}

// LazyUniString returns a UniString whose value is fn(), evaluated on every access.
func LazyUniString(fn func() string) *UniString {
	return &UniString{String{value: Computed(fn)}}
}

func (x *UniString) Size() int { return 2*len(x.value.Get()) + 2 }

func (x *UniString) Encode(s *Stream) error {
	for _, c := range []byte(x.value.Get()) {
		s.WriteByte(c)
		s.WriteByte(0)
	}
	s.WriteByte(0)
	s.WriteByte(0)
	return nil
}

func (x *UniString) Decode(s *Stream) error {
	n := len(x.value.Get())
	if n == 0 {
		return x.decodeTerminated(s)
	}
	offset := s.N
	b, err := s.ReadBytes(2*n + 2)
	if err != nil {
		return err
	}
	if b[2*n] != 0 || b[2*n+1] != 0 {
		return fmt.Errorf("%w: missing terminator at offset %d", ErrMalformedString, offset+2*n)
	}
	out := make([]byte, n)
	for i := range out {
		if b[2*i+1] != 0 {
			return fmt.Errorf("%w: high byte 0x%02x at offset %d", ErrMalformedString, b[2*i+1], offset+2*i+1)
		}
		out[i] = b[2*i]
	}
	x.Set(string(out))
	return nil
}

func (x *UniString) decodeTerminated(s *Stream) error {
	var out []byte
	for s.DataLen() > 0 {
		if s.DataLen() < 2 {
			return fmt.Errorf("%w: odd trailing byte in wide string at offset %d", ErrTruncatedData, s.N)
		}
		b, _ := s.ReadBytes(2)
		if b[0] == 0 && b[1] == 0 {
			break
		}
		if b[1] != 0 {
			return fmt.Errorf("%w: high byte 0x%02x at offset %d", ErrMalformedString, b[1], s.N-1)
		}
		out = append(out, b[0])
	}
	x.Set(string(out))
	return nil
}

func (x *UniString) Equal(other Field) bool {
	y, ok := other.(*UniString)
	return ok && x.value.Get() == y.value.Get()
}
