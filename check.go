package codec

// ValueField is a field that exposes its current value.
type ValueField[V any] interface {
	Field
	Value() (V, error)
}

// Checked wraps a field so that decoding it asserts the wire carries the value
// the field already holds: protocol magic numbers, reserved constants and the like.
// Writes pass through unchanged.
type Checked[V comparable] struct {
	Inner ValueField[V]
}

var (
	_ Field   = (*Checked[int64])(nil)
	_ Equaler = (*Checked[int64])(nil)
)

// CheckValueOnRead wraps f; a read that changes f's value fails with ErrConstantCheck.
// Only leaf fields that expose a comparable value (scalars, strings) can be
// checked. Composites and Groups are not ValueFields; check their members instead.
func CheckValueOnRead[V comparable](f ValueField[V]) *Checked[V] {
	return &Checked[V]{Inner: f}
}

func (c *Checked[V]) Size() int              { return c.Inner.Size() }
func (c *Checked[V]) ShouldWrite() bool      { return c.Inner.ShouldWrite() }
func (c *Checked[V]) ShouldRead() bool       { return c.Inner.ShouldRead() }
func (c *Checked[V]) Encode(s *Stream) error { return c.Inner.Encode(s) }
func (c *Checked[V]) Value() (V, error)      { return c.Inner.Value() }
func (c *Checked[V]) VariableSize() bool     { return isVariable(c.Inner) }

// cell is implemented by fields whose value source can be saved and put back.
type cell interface {
	saveValue() any
	restoreValue(v any)
}

// Decode snapshots the expected value, decodes, and compares. Afterwards the
// wrapped field gets its previous value source back, so a computed expectation
// stays bound and a failed read does not replace the constant.
func (c *Checked[V]) Decode(s *Stream) error {
	expected, err := c.Inner.Value()
	if err != nil {
		return err
	}
	var saved any
	restorable, ok := c.Inner.(cell)
	if ok {
		saved = restorable.saveValue()
	}
	offset := s.N
	if ok {
		defer restorable.restoreValue(saved)
	}
	if err := c.Inner.Decode(s); err != nil {
		return err
	}
	got, err := c.Inner.Value()
	if err != nil {
		return err
	}
	if got == expected {
		return nil
	}
	s.log.Debug().Int("offset", offset).Interface("expected", expected).Interface("got", got).Msg("codec: constant check failed")
	return &CheckError{Expected: expected, Got: got}
}

func (c *Checked[V]) Equal(other Field) bool {
	if o, ok := other.(*Checked[V]); ok {
		other = o.Inner
	}
	return equalFields(c.Inner, other)
}
