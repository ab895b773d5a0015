package codec

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"golang.org/x/exp/constraints"
)

var (
	BE = binary.BigEndian
	LE = binary.LittleEndian
	// Order is default binary order for Fixed payloads
	Order binary.ByteOrder = BE
)

const BUFFER_SIZE = 4096

var empty [BUFFER_SIZE]byte

// Ptr returns a pointer to v, handy for optional fields in literals.
func Ptr[T any](v T) *T { return &v }

// Roundup rounds n up to the nearest multiple of align.
func Roundup[T constraints.Integer](n, align T) T { return (n + (align - 1)) &^ (align - 1) }

// Dump renders b in the classic offset / hex / ASCII layout for diagnostics.
func Dump(b []byte) string { return hex.Dump(b) }

// MAX_PADDING defines the maximum number of trailing bytes to check.
// Anything larger is considered a protocol error.
const MAX_PADDING = 1024 // 1KB

// CheckBufferNotZeros verifies that trailing bytes are all zero padding.
// This ensures the entire expected payload was consumed and no garbage data follows,
// which could indicate a bug or a malicious payload.
func CheckBufferNotZeros(trailing []byte) error {
	if len(trailing) > MAX_PADDING {
		return fmt.Errorf("%w: %d bytes exceeds maximum expected padding of %d bytes", ErrTrailingData, len(trailing), MAX_PADDING)
	}
	for i, b := range trailing {
		if b != 0 {
			return fmt.Errorf("%w: found non-zero byte 0x%02x at offset %d", ErrTrailingData, b, i)
		}
	}
	return nil
}
