package codec

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Logger is the default logger handed to new streams. It discards everything
// until the application replaces it.
var Logger = zerolog.Nop()

// Stream is an in-memory byte buffer with a single cursor shared by reads and writes.
// Writes overwrite from the cursor and grow the buffer past its end; reads consume
// from the cursor. A Stream is not safe for concurrent use: keep one per in-flight message.
type Stream struct {
	B   []byte // underlying buffer
	N   int    // cursor
	log zerolog.Logger
}

var (
	_ io.ReadWriteSeeker = (*Stream)(nil)
	_ io.ByteReader      = (*Stream)(nil)
	_ io.ByteWriter      = (*Stream)(nil)
)

// NewStream creates a Stream over b with the cursor at the start, ready to decode b.
func NewStream(b []byte) *Stream {
	return &Stream{B: b, log: Logger}
}

// NewStreamSize creates an empty Stream with room for size bytes, ready to encode.
func NewStreamSize(size int) *Stream {
	return &Stream{B: make([]byte, 0, size), log: Logger}
}

// WithLogger sets the logger used for field tracing and returns the stream for chaining.
func (s *Stream) WithLogger(l zerolog.Logger) *Stream {
	s.log = l
	return s
}

// Logger returns the stream's logger.
func (s *Stream) Logger() *zerolog.Logger { return &s.log }

// Close do nothing
func (s *Stream) Close() error { return nil }

// Write implements the io.Writer interface. It never fails: the buffer grows as needed.
func (s *Stream) Write(p []byte) (int, error) {
	n := copy(s.B[s.N:], p)
	s.B = append(s.B, p[n:]...)
	s.N += len(p)
	return len(p), nil
}

// WriteString implements the io.StringWriter interface.
func (s *Stream) WriteString(str string) (int, error) {
	n := copy(s.B[s.N:], str)
	s.B = append(s.B, str[n:]...)
	s.N += len(str)
	return len(str), nil
}

// WriteByte implements the io.ByteWriter interface.
func (s *Stream) WriteByte(c byte) error {
	if s.N < len(s.B) {
		s.B[s.N] = c
	} else {
		s.B = append(s.B, c)
	}
	s.N++
	return nil
}

// WriteZeros writes n zero bytes, often for padding.
func (s *Stream) WriteZeros(n int) {
	for n > 0 {
		chunk := min(n, BUFFER_SIZE)
		s.Write(empty[:chunk])
		n -= chunk
	}
}

// Read implements the [io.Reader] interface.
func (s *Stream) Read(p []byte) (int, error) {
	if s.N >= len(s.B) {
		return 0, io.EOF
	}
	n := copy(p, s.B[s.N:])
	s.N += n
	return n, nil
}

// ReadByte implements the [io.ByteReader] interface.
func (s *Stream) ReadByte() (byte, error) {
	if s.N >= len(s.B) {
		return 0, io.EOF
	}
	b := s.B[s.N]
	s.N++
	return b, nil
}

// ReadBytes consumes exactly n bytes. The returned slice aliases the buffer;
// copy it if it must outlive the next write.
func (s *Stream) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: read of %d bytes", ErrInvalidArgument, n)
	}
	if left := s.DataLen(); left < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, %d left", ErrTruncatedData, n, s.N, left)
	}
	b := s.B[s.N : s.N+n]
	s.N += n
	return b, nil
}

// ReadRest consumes every unread byte.
func (s *Stream) ReadRest() []byte {
	b, _ := s.ReadBytes(s.DataLen())
	return b
}

// Seek implements the [io.Seeker] interface.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(s.N) + offset
	case io.SeekEnd:
		abs = int64(len(s.B)) + offset
	default:
		return 0, ErrInvalidWhence
	}

	if abs < 0 || abs > int64(len(s.B)) {
		return int64(s.N), ErrInvalidSeek
	}

	s.N = int(abs)
	return abs, nil
}

// DataLen returns the number of unread bytes.
func (s *Stream) DataLen() int {
	if s.N >= len(s.B) {
		return 0
	}
	return len(s.B) - s.N
}

// ReadLen returns the number of bytes already consumed, which is the cursor position.
func (s *Stream) ReadLen() int { return s.N }

// Len returns the total buffer length.
func (s *Stream) Len() int { return len(s.B) }

// Bytes returns the whole buffer.
func (s *Stream) Bytes() []byte { return s.B }

// Reset rewinds the cursor so the buffer can be read back.
func (s *Stream) Reset() { s.N = 0 }

// Dump returns a hex dump of the whole buffer.
func (s *Stream) Dump() string { return Dump(s.B) }

// WriteField encodes f if its write gate is open.
func (s *Stream) WriteField(f Field) error {
	if !f.ShouldWrite() {
		s.log.Trace().Int("offset", s.N).Msg("codec: write gate closed")
		return nil
	}
	return f.Encode(s)
}

// ReadField decodes f if its read gate is open.
func (s *Stream) ReadField(f Field) error {
	if !f.ShouldRead() {
		s.log.Trace().Int("offset", s.N).Msg("codec: read gate closed")
		return nil
	}
	return f.Decode(s)
}

// Peek reads f and then moves the cursor back by f.Size(), leaving the stream
// position as it was. Only fields whose size is fixed before the read can be
// peeked; String and UniString (and aggregates holding them) fail with ErrVariableSize.
func (s *Stream) Peek(f Field) error {
	if isVariable(f) {
		return fmt.Errorf("%w: cannot peek %T", ErrVariableSize, f)
	}
	if !f.ShouldRead() {
		return nil
	}
	start := s.N
	if err := f.Decode(s); err != nil {
		s.N = start
		return err
	}
	consumed := s.N - start
	s.N -= f.Size()
	if s.N != start {
		s.N = start
		return fmt.Errorf("%w: %T declared %d bytes but read %d", ErrInvalidArgument, f, f.Size(), consumed)
	}
	s.log.Debug().Int("offset", start).Int("size", f.Size()).Msg("codec: peek")
	return nil
}
