package codec

import (
	"fmt"
	"iter"
	"slices"
)

type entry struct {
	name  string
	field Field
}

// Composite is an ordered sequence of named fields. Registration order is the
// wire order for both Encode and Decode, and it is never changed afterwards, so
// fields earlier in the list may gate or size fields that follow them.
type Composite struct {
	Gate
	entries []entry
	index   map[string]int
	// align is the byte boundary each member except the last is padded to.
	// 0 or 1 means packed.
	align int
}

var (
	_ Field    = (*Composite)(nil)
	_ Variable = (*Composite)(nil)
	_ Equaler  = (*Composite)(nil)
)

// NewComposite creates an empty, packed Composite.
func NewComposite() *Composite {
	return &Composite{index: make(map[string]int)}
}

// Add appends f under name and returns c for chaining.
// Names must be unique and fields non-nil; violating either is a bug in the
// message definition and panics.
func (c *Composite) Add(name string, f Field) *Composite {
	if f == nil {
		panic(fmt.Sprintf("codec: Composite.Add(%q) with a nil field", name))
	}
	if _, dup := c.index[name]; dup {
		panic(fmt.Sprintf("codec: Composite.Add(%q) duplicates an existing field", name))
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	c.index[name] = len(c.entries)
	c.entries = append(c.entries, entry{name: name, field: f})
	return c
}

// WithAlignment pads every member except the last to a multiple of n bytes,
// measured from the start of the composite. n must be a power of two.
func (c *Composite) WithAlignment(n int) *Composite {
	c.align = n
	return c
}

// Get returns the field registered under name, or nil.
func (c *Composite) Get(name string) Field {
	i, ok := c.index[name]
	if !ok {
		return nil
	}
	return c.entries[i].field
}

// Names returns the field names in wire order.
func (c *Composite) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.name
	}
	return names
}

// Len returns the number of registered fields.
func (c *Composite) Len() int { return len(c.entries) }

// All iterates over the fields in wire order.
func (c *Composite) All() iter.Seq2[string, Field] {
	return func(yield func(string, Field) bool) {
		for _, e := range c.entries {
			if !yield(e.name, e.field) {
				return
			}
		}
	}
}

// padded reports whether alignment padding follows the i-th registered member.
func (c *Composite) padded(i int) bool {
	return c.align > 1 && i < len(c.entries)-1
}

// Size sums the members whose write gate is open, plus alignment padding,
// so it matches the bytes Encode produces. Leaf fields report their declared
// size whatever their gate; aggregates are the place gates are accounted for.
// A member with no known size makes the whole Composite -1.
func (c *Composite) Size() int {
	total := 0
	for i, e := range c.entries {
		if !e.field.ShouldWrite() {
			continue
		}
		n := e.field.Size()
		if n < 0 {
			return -1
		}
		total += n
		if c.padded(i) {
			total = Roundup(total, c.align)
		}
	}
	return total
}

func (c *Composite) Encode(s *Stream) error {
	start := s.N
	for i, e := range c.entries {
		if !e.field.ShouldWrite() {
			s.log.Trace().Str("field", e.name).Msg("codec: write gate closed")
			continue
		}
		s.log.Trace().Str("field", e.name).Int("offset", s.N).Int("size", e.field.Size()).Msg("codec: write")
		if err := e.field.Encode(s); err != nil {
			return fmt.Errorf("%s: %w", e.name, err)
		}
		if c.padded(i) {
			used := s.N - start
			s.WriteZeros(Roundup(used, c.align) - used)
		}
	}
	return nil
}

func (c *Composite) Decode(s *Stream) error {
	start := s.N
	for i, e := range c.entries {
		if !e.field.ShouldRead() {
			s.log.Trace().Str("field", e.name).Msg("codec: read gate closed")
			continue
		}
		s.log.Trace().Str("field", e.name).Int("offset", s.N).Msg("codec: read")
		if err := e.field.Decode(s); err != nil {
			return fmt.Errorf("%s: %w", e.name, err)
		}
		if c.padded(i) {
			used := s.N - start
			if _, err := s.ReadBytes(Roundup(used, c.align) - used); err != nil {
				return fmt.Errorf("%s: padding: %w", e.name, err)
			}
		}
	}
	return nil
}

func (c *Composite) VariableSize() bool {
	return slices.ContainsFunc(c.entries, func(e entry) bool { return isVariable(e.field) })
}

// Equal compares the ordered field names and then each field pairwise.
func (c *Composite) Equal(other Field) bool {
	o, ok := other.(*Composite)
	if !ok {
		return false
	}
	if !slices.Equal(c.Names(), o.Names()) {
		return false
	}
	for i := range c.entries {
		if !equalFields(c.entries[i].field, o.entries[i].field) {
			return false
		}
	}
	return true
}
