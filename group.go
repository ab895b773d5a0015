package codec

// Group is a nested ordered group of fields. It reads and writes its members in
// slice order and can itself be a member of a Composite or another Group.
type Group []Field

var (
	_ Field    = Group(nil)
	_ Variable = Group(nil)
	_ Equaler  = Group(nil)
)

func (g Group) ShouldWrite() bool { return true }
func (g Group) ShouldRead() bool  { return true }

// Size sums the members whose write gate is currently open.
// It is -1 if any of them has no known size.
func (g Group) Size() int {
	total := 0
	for _, f := range g {
		if !f.ShouldWrite() {
			continue
		}
		n := f.Size()
		if n < 0 {
			return -1
		}
		total += n
	}
	return total
}

func (g Group) Encode(s *Stream) error {
	for _, f := range g {
		if err := s.WriteField(f); err != nil {
			return err
		}
	}
	return nil
}

func (g Group) Decode(s *Stream) error {
	for _, f := range g {
		if err := s.ReadField(f); err != nil {
			return err
		}
	}
	return nil
}

func (g Group) VariableSize() bool {
	for _, f := range g {
		if isVariable(f) {
			return true
		}
	}
	return false
}

func (g Group) Equal(other Field) bool {
	o, ok := other.(Group)
	if !ok || len(o) != len(g) {
		return false
	}
	for i := range g {
		if !equalFields(g[i], o[i]) {
			return false
		}
	}
	return true
}
