package codec

// Pad is a run of n reserved bytes. It writes zeros and skips whatever it reads.
type Pad struct {
	Gate
	N int
}

var _ Field = (*Pad)(nil)

// NewPad returns a Pad of n bytes.
func NewPad(n int) *Pad { return &Pad{N: n} }

func (p *Pad) Size() int { return p.N }

func (p *Pad) Encode(s *Stream) error {
	s.WriteZeros(p.N)
	return nil
}

func (p *Pad) Decode(s *Stream) error {
	_, err := s.ReadBytes(p.N)
	return err
}

func (p *Pad) Equal(other Field) bool {
	o, ok := other.(*Pad)
	return ok && o.N == p.N
}
