//go:build test

package codec

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip encodes v with format F and decodes it into a fresh scalar.
func roundTrip[F Format](t *testing.T, v int64) {
	t.Helper()
	x, err := New[F](v)
	require.NoError(t, err)

	data, err := Marshal(x)
	require.NoError(t, err)
	require.Len(t, data, x.Size())

	y := &Scalar[F]{}
	require.NoError(t, Unmarshal(data, y))
	got, err := y.Value()
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

// boundaries checks both edges of F's envelope and one step past each.
func boundaries[F Format](t *testing.T) {
	lo, hi := Bounds[F]()
	for _, v := range []int64{lo, hi, 0, 1, hi / 2, lo / 2} {
		roundTrip[F](t, v)
	}

	_, err := New[F](lo - 1)
	assert.ErrorIs(t, err, ErrValueRange)
	_, err = New[F](hi + 1)
	assert.ErrorIs(t, err, ErrValueRange)
}

func TestScalarBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi int64
		run    func(t *testing.T)
	}{
		{"U8", 0, 0xFF, boundaries[U8]},
		{"S8", -128, 127, boundaries[S8]},
		{"U16BE", 0, 0xFFFF, boundaries[U16BE]},
		{"U16LE", 0, 0xFFFF, boundaries[U16LE]},
		{"S16BE", -32768, 32767, boundaries[S16BE]},
		{"S16LE", -32768, 32767, boundaries[S16LE]},
		{"U24BE", 0, 0xFFFFFF, boundaries[U24BE]},
		{"U24LE", 0, 0xFFFFFF, boundaries[U24LE]},
		{"U32BE", 0, 0xFFFFFFFF, boundaries[U32BE]},
		{"U32LE", 0, 0xFFFFFFFF, boundaries[U32LE]},
		{"S32BE", math.MinInt32, math.MaxInt32, boundaries[S32BE]},
		{"S32LE", math.MinInt32, math.MaxInt32, boundaries[S32LE]},
	}
	for _, tt := range tests {
		t.Run(tt.name, tt.run)
	}

	t.Run("Envelopes", func(t *testing.T) {
		bounds := map[string][2]int64{}
		lo, hi := Bounds[U8]()
		bounds["U8"] = [2]int64{lo, hi}
		lo, hi = Bounds[S8]()
		bounds["S8"] = [2]int64{lo, hi}
		lo, hi = Bounds[U16BE]()
		bounds["U16BE"] = [2]int64{lo, hi}
		lo, hi = Bounds[U16LE]()
		bounds["U16LE"] = [2]int64{lo, hi}
		lo, hi = Bounds[S16BE]()
		bounds["S16BE"] = [2]int64{lo, hi}
		lo, hi = Bounds[S16LE]()
		bounds["S16LE"] = [2]int64{lo, hi}
		lo, hi = Bounds[U24BE]()
		bounds["U24BE"] = [2]int64{lo, hi}
		lo, hi = Bounds[U24LE]()
		bounds["U24LE"] = [2]int64{lo, hi}
		lo, hi = Bounds[U32BE]()
		bounds["U32BE"] = [2]int64{lo, hi}
		lo, hi = Bounds[U32LE]()
		bounds["U32LE"] = [2]int64{lo, hi}
		lo, hi = Bounds[S32BE]()
		bounds["S32BE"] = [2]int64{lo, hi}
		lo, hi = Bounds[S32LE]()
		bounds["S32LE"] = [2]int64{lo, hi}
		for _, tt := range tests {
			assert.Equal(t, [2]int64{tt.lo, tt.hi}, bounds[tt.name], tt.name)
		}
	})
}

func TestScalarWireLayout(t *testing.T) {
	encode := func(f Field) []byte {
		data, err := Marshal(f)
		require.NoError(t, err)
		return data
	}
	reversed := func(b []byte) []byte {
		out := make([]byte, len(b))
		for i := range b {
			out[len(b)-1-i] = b[i]
		}
		return out
	}

	t.Run("Uint16", func(t *testing.T) {
		be := encode(MustNew[U16BE](0x1234))
		le := encode(MustNew[U16LE](0x1234))
		assert.Equal(t, []byte{0x12, 0x34}, be)
		assert.Equal(t, reversed(be), le)
	})

	t.Run("Uint24", func(t *testing.T) {
		be := encode(MustNew[U24BE](0x123456))
		le := encode(MustNew[U24LE](0x123456))
		assert.Equal(t, []byte{0x12, 0x34, 0x56}, be)
		assert.Equal(t, []byte{0x56, 0x34, 0x12}, le)
		assert.Equal(t, reversed(be), le)
	})

	t.Run("Uint32", func(t *testing.T) {
		be := encode(MustNew[U32BE](0x01020304))
		le := encode(MustNew[U32LE](0x01020304))
		assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, be)
		assert.Equal(t, reversed(be), le)
	})

	t.Run("SignedTwosComplement", func(t *testing.T) {
		assert.Equal(t, []byte{0xFF}, encode(MustNew[S8](-1)))
		assert.Equal(t, []byte{0xFF, 0xFE}, encode(MustNew[S16BE](-2)))
		assert.Equal(t, []byte{0xFE, 0xFF, 0xFF, 0xFF}, encode(MustNew[S32LE](-2)))
		assert.Equal(t, []byte{0x80, 0x00, 0x00, 0x00}, encode(MustNew[S32BE](math.MinInt32)))
	})

	t.Run("SignedDecode", func(t *testing.T) {
		x := &SInt8{}
		require.NoError(t, Unmarshal([]byte{0x80}, x))
		v, _ := x.Value()
		assert.EqualValues(t, -128, v)

		y := &SInt32Be{}
		require.NoError(t, Unmarshal([]byte{0xFF, 0xFF, 0xFF, 0xFE}, y))
		v, _ = y.Value()
		assert.EqualValues(t, -2, v)

		z := &UInt32Le{}
		require.NoError(t, Unmarshal([]byte{0xFF, 0xFF, 0xFF, 0xFF}, z))
		v, _ = z.Value()
		assert.EqualValues(t, 0xFFFFFFFF, v)
	})
}

func TestScalarValueCell(t *testing.T) {
	t.Run("SetRejectsOutOfRange", func(t *testing.T) {
		x := MustNew[U8](1)
		err := x.Set(256)
		require.ErrorIs(t, err, ErrValueRange)

		var rangeErr *RangeError
		require.True(t, errors.As(err, &rangeErr))
		assert.EqualValues(t, 256, rangeErr.Value)
		assert.EqualValues(t, 255, rangeErr.Max)

		v, err := x.Value()
		require.NoError(t, err)
		assert.EqualValues(t, 1, v, "a rejected Set must leave the old value")
	})

	t.Run("LazyIsEvaluatedOnEveryAccess", func(t *testing.T) {
		n := int64(1)
		x := Lazy[U16LE](func() int64 { return n })

		v, err := x.Value()
		require.NoError(t, err)
		assert.EqualValues(t, 1, v)

		n = 42
		v, err = x.Value()
		require.NoError(t, err)
		assert.EqualValues(t, 42, v)
	})

	t.Run("LazyOutOfRangeFailsOnAccess", func(t *testing.T) {
		x := Lazy[U8](func() int64 { return 300 })
		_, err := x.Value()
		assert.ErrorIs(t, err, ErrValueRange)

		_, err = Marshal(x)
		assert.ErrorIs(t, err, ErrValueRange)
	})

	t.Run("NewRejectsHugeUnsigned", func(t *testing.T) {
		_, err := New[U32BE](uint64(math.MaxUint64))
		assert.ErrorIs(t, err, ErrValueRange)
	})

	t.Run("MustNewPanics", func(t *testing.T) {
		assert.Panics(t, func() { MustNew[S8](128) })
		assert.NotPanics(t, func() { MustNew[S8](int8(-128)) })
	})

	t.Run("Equal", func(t *testing.T) {
		assert.True(t, MustNew[U16BE](7).Equal(MustNew[U16BE](7)))
		assert.False(t, MustNew[U16BE](7).Equal(MustNew[U16BE](8)))
		assert.False(t, MustNew[U16BE](7).Equal(MustNew[U16LE](7)))
		assert.False(t, MustNew[U8](7).Equal(Lazy[U8](func() int64 { return -1 })))
	})
}

func TestScalarArithmetic(t *testing.T) {
	value := func(t *testing.T, x *UInt8, err error) int64 {
		t.Helper()
		require.NoError(t, err)
		v, err := x.Value()
		require.NoError(t, err)
		return v
	}

	p, q := MustNew[U8](200), MustNew[U8](55)

	t.Run("AddWithinRange", func(t *testing.T) {
		sum, err := p.Add(q)
		assert.EqualValues(t, 255, value(t, sum, err))
	})

	t.Run("AddOverflow", func(t *testing.T) {
		_, err := p.Add(MustNew[U8](56))
		assert.ErrorIs(t, err, ErrValueRange)
	})

	t.Run("SubUnderflow", func(t *testing.T) {
		diff, err := p.Sub(q)
		assert.EqualValues(t, 145, value(t, diff, err))
		_, err = q.Sub(p)
		assert.ErrorIs(t, err, ErrValueRange)
	})

	t.Run("Bitwise", func(t *testing.T) {
		a, b := MustNew[U8](0xF0), MustNew[U8](0x3C)
		and, err := a.And(b)
		assert.EqualValues(t, 0x30, value(t, and, err))
		or, err := a.Or(b)
		assert.EqualValues(t, 0xFC, value(t, or, err))
		not, err := b.Not()
		assert.EqualValues(t, 0xC3, value(t, not, err))
	})

	t.Run("Shifts", func(t *testing.T) {
		one := MustNew[U8](1)
		shl, err := one.Lsh(MustNew[U8](7))
		assert.EqualValues(t, 128, value(t, shl, err))

		_, err = one.Lsh(MustNew[U8](8))
		assert.ErrorIs(t, err, ErrValueRange)

		_, err = MustNew[U8](4).Lsh(MustNew[U8](62))
		assert.ErrorIs(t, err, ErrValueRange)

		_, err = MustNew[U32BE](0x10).Lsh(MustNew[U32BE](60))
		assert.ErrorIs(t, err, ErrValueRange)

		zero, err := MustNew[U8](0).Lsh(MustNew[U8](62))
		assert.EqualValues(t, 0, value(t, zero, err))

		shr, err := MustNew[U8](0x80).Rsh(MustNew[U8](4))
		assert.EqualValues(t, 0x08, value(t, shr, err))
	})

	t.Run("Signed", func(t *testing.T) {
		shr, err := MustNew[S8](-8).Rsh(MustNew[S8](1))
		require.NoError(t, err)
		v, _ := shr.Value()
		assert.EqualValues(t, -4, v)

		not, err := MustNew[S8](0).Not()
		require.NoError(t, err)
		v, _ = not.Value()
		assert.EqualValues(t, -1, v)

		_, err = MustNew[S8](1).Lsh(MustNew[S8](-1))
		assert.ErrorIs(t, err, ErrValueRange)

		_, err = MustNew[S8](100).Add(MustNew[S8](28))
		assert.ErrorIs(t, err, ErrValueRange)
	})

	t.Run("OperandsAreUntouched", func(t *testing.T) {
		_, _ = p.Add(q)
		assert.EqualValues(t, 200, value(t, p, nil))
		assert.EqualValues(t, 55, value(t, q, nil))
	})
}
