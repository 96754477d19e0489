package cursor

import (
	"errors"
)

// Cursor errors
var (
	// ErrInvalidRange is returned when a peek or consume would read past
	// the end of the underlying byte source. It indicates either a corrupt
	// on-disk structure or an offset arithmetic bug in the caller.
	ErrInvalidRange = errors.New("not enough bytes")
)
