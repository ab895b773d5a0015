package codec

import (
	"bytes"
	"fmt"
	"io"
)

// Marshal encodes f into a new byte slice pre-allocated from its Size.
func Marshal(f Field) ([]byte, error) {
	s := NewStreamSize(max(f.Size(), 0))
	if err := s.WriteField(f); err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}

// Unmarshal decodes data into f and adds a crucial check for unexpected
// trailing data: anything left after f must be zero padding.
func Unmarshal(data []byte, f Field) error {
	s := NewStream(data)
	if err := s.ReadField(f); err != nil {
		return err
	}
	// Ensure no unexpected trailing data remains.
	// This prevents parsing ambiguous or potentially malicious payloads.
	if s.DataLen() > 0 {
		return CheckBufferNotZeros(s.ReadRest())
	}
	return nil
}

// ReadFrom drains r and decodes the frame into f.
// WARNING: This is NOT a streaming implementation. It reads the entire `io.Reader`
// into a memory buffer before decoding. It is unsuitable for very large inputs.
func ReadFrom(r io.Reader, f Field) (int64, error) {
	if r == nil {
		return 0, ErrNilIO
	}
	buf := bytesBufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bytesBufPool.Put(buf)

	n, err := buf.ReadFrom(r)
	if err != nil {
		return n, err
	}
	return n, Unmarshal(buf.Bytes(), f)
}

// WriteTo encodes f and writes the frame to w in a single Write.
func WriteTo(w io.Writer, f Field) (int64, error) {
	if w == nil {
		return 0, ErrNilIO
	}
	buf, err := Marshal(f)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	if err != nil {
		return int64(n), err
	}
	if n < len(buf) {
		return int64(n), fmt.Errorf("%w: wrote %d of %d bytes", io.ErrShortWrite, n, len(buf))
	}
	return int64(n), nil
}
