//go:build test

package codec

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A simple fixed-size struct for testing the Fixed field.
type mockHeader struct {
	Type   uint8
	Flags  uint8
	Length uint16
}

func TestFixed(t *testing.T) {
	t.Run("BigEndianByDefault", func(t *testing.T) {
		h := NewFixed(mockHeader{Type: 1, Flags: 2, Length: 0x0304})
		assert.Equal(t, 4, h.Size())
		out, err := Marshal(h)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3, 4}, out)
	})

	t.Run("OrderOverride", func(t *testing.T) {
		h := NewFixed(mockHeader{Type: 1, Flags: 2, Length: 0x0304})
		h.Order = LE
		out, err := Marshal(h)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 4, 3}, out)

		dst := &Fixed[mockHeader]{Order: LE}
		require.NoError(t, Unmarshal(out, dst))
		assert.Equal(t, h.Payload, dst.Payload)
		assert.True(t, h.Equal(dst))
	})

	t.Run("InsideComposite", func(t *testing.T) {
		msg := NewComposite().
			Add("header", NewFixed(mockHeader{Type: 9, Length: 1})).
			Add("body", NewString("!"))
		out, err := Marshal(msg)
		require.NoError(t, err)
		assert.Equal(t, []byte{9, 0, 0, 1, '!'}, out)
	})

	t.Run("VariablePayloadIsRejected", func(t *testing.T) {
		bad := NewFixed(struct{ B []byte }{B: []byte{1}})
		assert.Equal(t, -1, bad.Size())
		_, err := Marshal(bad)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("UnsizedPayloadPoisonsAggregates", func(t *testing.T) {
		bad := NewFixed(struct{ B []byte }{})
		one := MustNew[U8](1)

		assert.Equal(t, -1, NewComposite().Add("a", one).Add("bad", bad).WithAlignment(4).Size())
		assert.Equal(t, -1, Group{one, bad}.Size())

		_, err := Sizeof(Group{one, bad})
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = Sizeof(bad)
		assert.ErrorIs(t, err, ErrInvalidArgument)

		bad.WriteIf = func() bool { return false }
		n, err := Sizeof(Group{one, bad})
		require.NoError(t, err)
		assert.Equal(t, 1, n, "a closed member is not counted")
	})

	t.Run("Truncated", func(t *testing.T) {
		err := Unmarshal([]byte{1, 2, 3}, &Fixed[mockHeader]{})
		assert.ErrorIs(t, err, ErrTruncatedData)
	})

	t.Run("SizeCache", func(t *testing.T) {
		// The cache is shared globally.
		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				h := &Fixed[mockHeader]{}
				assert.Equal(t, 4, h.Size())
			}()
		}
		wg.Wait()
	})
}

func TestMarshalHelpers(t *testing.T) {
	t.Run("TrailingZerosAreAccepted", func(t *testing.T) {
		x := &UInt16Be{}
		require.NoError(t, Unmarshal([]byte{0, 5, 0, 0}, x))
		v, _ := x.Value()
		assert.EqualValues(t, 5, v)
	})

	t.Run("TrailingDataIsRejected", func(t *testing.T) {
		err := Unmarshal([]byte{0, 5, 0, 1}, &UInt16Be{})
		require.ErrorIs(t, err, ErrTrailingData)
		assert.Contains(t, err.Error(), "non-zero byte")
	})

	t.Run("ExcessPaddingIsRejected", func(t *testing.T) {
		err := Unmarshal(make([]byte, 2+MAX_PADDING+1), &UInt16Be{})
		assert.ErrorIs(t, err, ErrTrailingData)
	})

	t.Run("ReadFromWriteTo", func(t *testing.T) {
		var buf bytes.Buffer
		n, err := WriteTo(&buf, pair(7, 0x0102))
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)

		dst := pair(0, 0)
		n, err = ReadFrom(&buf, dst)
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)
		assert.True(t, dst.Equal(pair(7, 0x0102)))
	})

	t.Run("NilIO", func(t *testing.T) {
		_, err := WriteTo(nil, &UInt8{})
		assert.ErrorIs(t, err, ErrNilIO)
		_, err = ReadFrom(nil, &UInt8{})
		assert.ErrorIs(t, err, ErrNilIO)
	})

	t.Run("ShortWrite", func(t *testing.T) {
		_, err := WriteTo(shortWriter{}, pair(1, 2))
		assert.ErrorIs(t, err, io.ErrShortWrite)
	})
}

// shortWriter accepts a single byte per call.
type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return min(len(p), 1), nil }
