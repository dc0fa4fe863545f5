package pixbuf

import "errors"

var (
	// ErrUnsupportedBitDepth is returned for a depth outside {1, 4, 8, 24}.
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
	// ErrUnsupportedOperation is returned when an operation exists for some
	// depths but not for the one requested, such as shrinking a 4-bit buffer.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrMalformedBuffer is returned when a buffer or sample sequence does not
	// fit the packing law of its depth.
	ErrMalformedBuffer = errors.New("malformed buffer")
	// ErrInvalidFactor is returned for a resize factor below 1.
	ErrInvalidFactor = errors.New("invalid resize factor")
)
