package codec

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Format describes the wire shape of a scalar: byte width, signedness and byte order.
// Each implementation is a zero-size type so the shape is fixed at compile time.
type Format interface {
	Width() int
	Signed() bool
	// Put packs the low Width() bytes of v into b.
	Put(b []byte, v uint64)
	// Get unpacks Width() bytes of b into the low bits of the result.
	Get(b []byte) uint64
}

type (
	U8    struct{}
	S8    struct{}
	U16BE struct{}
	U16LE struct{}
	S16BE struct{}
	S16LE struct{}
	U24BE struct{}
	U24LE struct{}
	U32BE struct{}
	U32LE struct{}
	S32BE struct{}
	S32LE struct{}
)

func (U8) Width() int             { return 1 }
func (U8) Signed() bool           { return false }
func (U8) Put(b []byte, v uint64) { b[0] = byte(v) }
func (U8) Get(b []byte) uint64    { return uint64(b[0]) }

func (S8) Width() int             { return 1 }
func (S8) Signed() bool           { return true }
func (S8) Put(b []byte, v uint64) { b[0] = byte(v) }
func (S8) Get(b []byte) uint64    { return uint64(b[0]) }

func (U16BE) Width() int             { return 2 }
func (U16BE) Signed() bool           { return false }
func (U16BE) Put(b []byte, v uint64) { BE.PutUint16(b, uint16(v)) }
func (U16BE) Get(b []byte) uint64    { return uint64(BE.Uint16(b)) }

func (U16LE) Width() int             { return 2 }
func (U16LE) Signed() bool           { return false }
func (U16LE) Put(b []byte, v uint64) { LE.PutUint16(b, uint16(v)) }
func (U16LE) Get(b []byte) uint64    { return uint64(LE.Uint16(b)) }

func (S16BE) Width() int             { return 2 }
func (S16BE) Signed() bool           { return true }
func (S16BE) Put(b []byte, v uint64) { BE.PutUint16(b, uint16(v)) }
func (S16BE) Get(b []byte) uint64    { return uint64(BE.Uint16(b)) }

func (S16LE) Width() int             { return 2 }
func (S16LE) Signed() bool           { return true }
func (S16LE) Put(b []byte, v uint64) { LE.PutUint16(b, uint16(v)) }
func (S16LE) Get(b []byte) uint64    { return uint64(LE.Uint16(b)) }

func (U32BE) Width() int             { return 4 }
func (U32BE) Signed() bool           { return false }
func (U32BE) Put(b []byte, v uint64) { BE.PutUint32(b, uint32(v)) }
func (U32BE) Get(b []byte) uint64    { return uint64(BE.Uint32(b)) }

func (U32LE) Width() int             { return 4 }
func (U32LE) Signed() bool           { return false }
func (U32LE) Put(b []byte, v uint64) { LE.PutUint32(b, uint32(v)) }
func (U32LE) Get(b []byte) uint64    { return uint64(LE.Uint32(b)) }

func (S32BE) Width() int             { return 4 }
func (S32BE) Signed() bool           { return true }
func (S32BE) Put(b []byte, v uint64) { BE.PutUint32(b, uint32(v)) }
func (S32BE) Get(b []byte) uint64    { return uint64(BE.Uint32(b)) }

func (S32LE) Width() int             { return 4 }
func (S32LE) Signed() bool           { return true }
func (S32LE) Put(b []byte, v uint64) { LE.PutUint32(b, uint32(v)) }
func (S32LE) Get(b []byte) uint64    { return uint64(LE.Uint32(b)) }

// The 24-bit formats go through the 32-bit routines and drop the extra byte:
// the leading one for big endian, the trailing one for little endian.

func (U24BE) Width() int   { return 3 }
func (U24BE) Signed() bool { return false }

func (U24BE) Put(b []byte, v uint64) {
	var tmp [4]byte
	BE.PutUint32(tmp[:], uint32(v))
	copy(b, tmp[1:])
}

func (U24BE) Get(b []byte) uint64 {
	var tmp [4]byte
	copy(tmp[1:], b[:3])
	return uint64(BE.Uint32(tmp[:]))
}

func (U24LE) Width() int   { return 3 }
func (U24LE) Signed() bool { return false }

func (U24LE) Put(b []byte, v uint64) {
	var tmp [4]byte
	LE.PutUint32(tmp[:], uint32(v))
	copy(b, tmp[:3])
}

func (U24LE) Get(b []byte) uint64 {
	var tmp [4]byte
	copy(tmp[:3], b[:3])
	return uint64(LE.Uint32(tmp[:]))
}

// Scalar is a fixed-width integer field. Observed values are always inside the
// envelope of F: [0, 2^(8w)-1] when unsigned, [-2^(8w-1), 2^(8w-1)-1] when signed.
type Scalar[F Format] struct {
	Gate
	value Value[int64]
}

type (
	UInt8    = Scalar[U8]
	SInt8    = Scalar[S8]
	UInt16Be = Scalar[U16BE]
	UInt16Le = Scalar[U16LE]
	SInt16Be = Scalar[S16BE]
	SInt16Le = Scalar[S16LE]
	UInt24Be = Scalar[U24BE]
	UInt24Le = Scalar[U24LE]
	UInt32Be = Scalar[U32BE]
	UInt32Le = Scalar[U32LE]
	SInt32Be = Scalar[S32BE]
	SInt32Le = Scalar[S32LE]
)

var (
	_ Field   = (*Scalar[U8])(nil)
	_ Equaler = (*Scalar[U8])(nil)
)

// Bounds returns the inclusive value envelope of format F.
func Bounds[F Format]() (lo, hi int64) {
	var f F
	mask := int64(1)<<(8*f.Width()) - 1
	if f.Signed() {
		return -(mask >> 1) - 1, mask >> 1
	}
	return 0, mask
}

func checkRange[F Format](v int64) error {
	lo, hi := Bounds[F]()
	if v < lo || v > hi {
		return &RangeError{Value: v, Min: lo, Max: hi}
	}
	return nil
}

// toInt64 converts any integer to int64, failing for unsigned values above math.MaxInt64.
func toInt64[I constraints.Integer](v I) (int64, bool) {
	if v > 0 && uint64(v) > math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

// New returns a scalar of format F holding the constant v.
func New[F Format, I constraints.Integer](v I) (*Scalar[F], error) {
	n, ok := toInt64(v)
	if !ok {
		lo, hi := Bounds[F]()
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrValueRange, uint64(v), lo, hi)
	}
	x := &Scalar[F]{}
	if err := x.Set(n); err != nil {
		return nil, err
	}
	return x, nil
}

// MustNew is like New but panics if v is out of range.
// It is meant for constants in message definitions.
func MustNew[F Format, I constraints.Integer](v I) *Scalar[F] {
	x, err := New[F](v)
	if err != nil {
		panic(err)
	}
	return x
}

// Lazy returns a scalar of format F whose value is fn(), evaluated on every access.
// The range is checked each time the value is observed.
func Lazy[F Format](fn func() int64) *Scalar[F] {
	x := &Scalar[F]{}
	x.SetFunc(fn)
	return x
}

// Value resolves the current value and checks it against the envelope of F.
func (x *Scalar[F]) Value() (int64, error) {
	v := x.value.Get()
	if err := checkRange[F](v); err != nil {
		return 0, err
	}
	return v, nil
}

// Set stores the constant v, rejecting it if it is out of range.
func (x *Scalar[F]) Set(v int64) error {
	if err := checkRange[F](v); err != nil {
		return err
	}
	x.value = Constant(v)
	return nil
}

// SetFunc binds the value to fn. The result is range checked on access, not here.
func (x *Scalar[F]) SetFunc(fn func() int64) {
	x.value = Computed(fn)
}

func (x *Scalar[F]) saveValue() any     { return x.value }
func (x *Scalar[F]) restoreValue(v any) { x.value = v.(Value[int64]) }

func (x *Scalar[F]) Size() int {
	var f F
	return f.Width()
}

func (x *Scalar[F]) Encode(s *Stream) error {
	v, err := x.Value()
	if err != nil {
		return err
	}
	var f F
	var buf [4]byte
	f.Put(buf[:f.Width()], uint64(v))
	_, err = s.Write(buf[:f.Width()])
	return err
}

func (x *Scalar[F]) Decode(s *Stream) error {
	var f F
	b, err := s.ReadBytes(f.Width())
	if err != nil {
		return err
	}
	raw := f.Get(b)
	var v int64
	if f.Signed() {
		shift := 64 - 8*f.Width()
		v = int64(raw<<shift) >> shift
	} else {
		_, hi := Bounds[F]()
		v = int64(raw) & hi
	}
	return x.Set(v)
}

func (x *Scalar[F]) Equal(other Field) bool {
	y, ok := other.(*Scalar[F])
	if !ok {
		return false
	}
	a, err := x.Value()
	if err != nil {
		return false
	}
	b, err := y.Value()
	return err == nil && a == b
}

func (x *Scalar[F]) String() string {
	v, err := x.Value()
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("%d", v)
}

// --- Arithmetic ---
//
// Every operation builds a new scalar of the same format through New, so a
// result that overflows the width fails exactly like a direct assignment.

func (x *Scalar[F]) operands(y *Scalar[F]) (int64, int64, error) {
	a, err := x.Value()
	if err != nil {
		return 0, 0, err
	}
	b, err := y.Value()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (x *Scalar[F]) Add(y *Scalar[F]) (*Scalar[F], error) {
	a, b, err := x.operands(y)
	if err != nil {
		return nil, err
	}
	return New[F](a + b)
}

func (x *Scalar[F]) Sub(y *Scalar[F]) (*Scalar[F], error) {
	a, b, err := x.operands(y)
	if err != nil {
		return nil, err
	}
	return New[F](a - b)
}

func (x *Scalar[F]) And(y *Scalar[F]) (*Scalar[F], error) {
	a, b, err := x.operands(y)
	if err != nil {
		return nil, err
	}
	return New[F](a & b)
}

func (x *Scalar[F]) Or(y *Scalar[F]) (*Scalar[F], error) {
	a, b, err := x.operands(y)
	if err != nil {
		return nil, err
	}
	return New[F](a | b)
}

// Lsh shifts x left by the value of y.
func (x *Scalar[F]) Lsh(y *Scalar[F]) (*Scalar[F], error) {
	a, b, err := x.operands(y)
	if err != nil {
		return nil, err
	}
	if b < 0 || b > 63 {
		return nil, &RangeError{Value: b, Min: 0, Max: 63}
	}
	// Any set bit shifted past the width overflows; int64 would wrap it back in.
	var f F
	if width := int64(8 * f.Width()); a != 0 && b >= width {
		return nil, &RangeError{Value: b, Min: 0, Max: width - 1}
	}
	return New[F](a << uint(b))
}

// Rsh shifts x right by the value of y. Signed values shift arithmetically.
func (x *Scalar[F]) Rsh(y *Scalar[F]) (*Scalar[F], error) {
	a, b, err := x.operands(y)
	if err != nil {
		return nil, err
	}
	if b < 0 || b > 63 {
		return nil, &RangeError{Value: b, Min: 0, Max: 63}
	}
	return New[F](a >> uint(b))
}

// Not returns the bitwise complement of x within its width.
func (x *Scalar[F]) Not() (*Scalar[F], error) {
	a, err := x.Value()
	if err != nil {
		return nil, err
	}
	var f F
	if f.Signed() {
		return New[F](^a)
	}
	_, hi := Bounds[F]()
	return New[F](^a & hi)
}
