package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
)

// sizeCache avoids the high performance cost of reflection in `binary.Size`
// on every call. Message trees are built per goroutine, so the cache is shared
// and must be concurrent-safe.
var sizeCache = xsync.NewMap[reflect.Type, int]()

// Fixed is a Field for any struct `Payload` composed of fixed-size fields,
// encoded with encoding/binary. It suits opaque headers and reserved blocks
// that are carried as a whole rather than described field by field.
//
// Constraint: The `Payload` type MUST NOT contain variable-size fields like slices,
// maps, or strings; binary.Size rejects them and Encode/Decode fail with ErrInvalidArgument.
type Fixed[Payload any] struct {
	Gate
	Payload Payload
	// Order overrides the package default Order when set.
	Order binary.ByteOrder
}

// Statically assert that Fixed implements Field.
var _ Field = (*Fixed[struct{}])(nil)

// NewFixed returns a Fixed holding p.
func NewFixed[Payload any](p Payload) *Fixed[Payload] {
	return &Fixed[Payload]{Payload: p}
}

func (c *Fixed[Payload]) order() binary.ByteOrder {
	if c.Order != nil {
		return c.Order
	}
	return Order
}

// Size returns the fixed size of the struct in bytes, or -1 if Payload is not fixed-size.
// The result is cached to avoid reflection overhead on subsequent calls.
func (c *Fixed[Payload]) Size() int {
	payloadType := reflect.TypeOf((*Payload)(nil)).Elem()

	// Attempt to load from the concurrent-safe cache first for performance.
	if size, ok := sizeCache.Load(payloadType); ok {
		return size
	}

	// If not cached, perform the expensive reflection-based calculation.
	size := binary.Size(&c.Payload)
	if size >= 0 {
		sizeCache.Store(payloadType, size)
	}
	return size
}

func (c *Fixed[Payload]) Encode(s *Stream) error {
	size := c.Size()
	if size < 0 {
		return fmt.Errorf("%w: %T is not fixed-size", ErrInvalidArgument, c.Payload)
	}
	buf := make([]byte, size)
	if _, err := binary.Encode(buf, c.order(), &c.Payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	_, err := s.Write(buf)
	return err
}

func (c *Fixed[Payload]) Decode(s *Stream) error {
	size := c.Size()
	if size < 0 {
		return fmt.Errorf("%w: %T is not fixed-size", ErrInvalidArgument, c.Payload)
	}
	b, err := s.ReadBytes(size)
	if err != nil {
		return err
	}
	if _, err := binary.Decode(b, c.order(), &c.Payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}

// Equal compares the encoded form of both payloads.
func (c *Fixed[Payload]) Equal(other Field) bool {
	o, ok := other.(*Fixed[Payload])
	if !ok {
		return false
	}
	a, err := Marshal(c)
	if err != nil {
		return false
	}
	b, err := Marshal(o)
	return err == nil && bytes.Equal(a, b)
}
