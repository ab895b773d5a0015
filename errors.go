package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrNilIO indicates that ReadFrom/WriteTo was called with a nil io.Reader/io.Writer.
	ErrNilIO = errors.New("codec: ReadFrom/WriteTo called with a nil io.Reader/io.Writer")

	// ErrValueRange indicates a scalar value outside the envelope of its declared
	// width and signedness, either on assignment or when a computed value is resolved.
	ErrValueRange = errors.New("codec: value out of range")

	// ErrConstantCheck indicates a field wrapped by CheckValueOnRead decoded a value
	// different from the one it held before the read.
	ErrConstantCheck = errors.New("codec: constant check failed")

	// ErrInvalidArgument indicates a size or type query was given something that is
	// neither a field nor an ordered group of fields.
	ErrInvalidArgument = errors.New("codec: invalid argument")

	// ErrVariableSize indicates a peek was attempted on a field whose size is only
	// known after it has been read.
	ErrVariableSize = errors.New("codec: field size depends on its own read")

	// ErrInvalidSeek indicates a seek was attempted to invalid position.
	ErrInvalidSeek = errors.New("codec: seek to a invalid position")

	// ErrInvalidWhence indicates that an invalid 'whence' parameter was provided to a Seek operation.
	ErrInvalidWhence = errors.New("codec: unsupported whence")

	// ErrTrailingData is returned by Unmarshal when non-zero bytes are found
	// after the expected end of the data structure, indicating a potential parsing error or malformed data.
	ErrTrailingData = errors.New("codec: non-zero trailing data found after decoding")

	// ErrTruncatedData indicates that a read operation could not complete because the
	// underlying buffer ended before all expected bytes were read.
	ErrTruncatedData = errors.New("codec: truncated data")

	// ErrMalformedString indicates a wide string with a non-zero high byte or a missing terminator.
	ErrMalformedString = errors.New("codec: malformed wide string")
)

// RangeError reports a scalar value that does not fit its declared envelope.
type RangeError struct {
	Value int64
	Min   int64
	Max   int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%v: %d not in [%d, %d]", ErrValueRange, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error {
	return ErrValueRange
}

// CheckError reports a validated read whose decoded value differs from the expected constant.
type CheckError struct {
	Expected any
	Got      any
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("%v: expected %v, got %v", ErrConstantCheck, e.Expected, e.Got)
}

func (e *CheckError) Unwrap() error {
	return ErrConstantCheck
}
