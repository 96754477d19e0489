// Package cursor provides a bounds-checked, position-tracking reader over
// raw byte buffers and memory-mapped regions.
//
// A Cursor performs no I/O of its own. It is the parsing primitive used to
// lay out and decode binary structures over a byte source: peek and consume
// are bounds-checked and return zero-copy subslices of the source, while
// the navigation helpers (MoveTo, Forward, SetBack) are deliberately
// unchecked for callers that have already validated their arithmetic.
package cursor

// SourceKind identifies what backs the cursor. The set is closed: an owned
// slice, a read-only mapping, or a writable mapping. The distinction
// carries no behavioral weight for reads but records the provenance of the
// bytes for callers that need it.
type SourceKind int

const (
	// SourceRaw is a plain in-memory byte slice.
	SourceRaw SourceKind = iota
	// SourceMapped is a read-only memory-mapped region.
	SourceMapped
	// SourceMappedMut is a writable memory-mapped region.
	SourceMappedMut
)

// Cursor tracks a position within a byte source and exposes bounds-checked
// sequential reads. The zero value is not usable; construct with New,
// NewMapped, or NewMappedMut.
//
// A Cursor is not safe for concurrent use. Construct one per parse session.
type Cursor struct {
	data        []byte
	kind        SourceKind
	position    int
	length      int
	startingPos int
	lastSize    int
}

// New returns a cursor over an owned byte slice.
func New(data []byte) *Cursor {
	return &Cursor{
		data:   data,
		kind:   SourceRaw,
		length: len(data),
	}
}

// NewMapped returns a cursor over a read-only memory-mapped region.
func NewMapped(data []byte) *Cursor {
	return &Cursor{
		data:   data,
		kind:   SourceMapped,
		length: len(data),
	}
}

// NewMappedMut returns a cursor over a writable memory-mapped region.
func NewMappedMut(data []byte) *Cursor {
	return &Cursor{
		data:   data,
		kind:   SourceMappedMut,
		length: len(data),
	}
}

// WithStartingPos sets the anchor that Reset rewinds to, and moves the
// current position there. Returns the cursor for chaining at construction.
func (c *Cursor) WithStartingPos(pos int) *Cursor {
	c.startingPos = pos
	c.position = pos
	return c
}

// Kind reports which variant of byte source backs the cursor.
func (c *Cursor) Kind() SourceKind {
	return c.kind
}

// Position returns the current byte offset.
func (c *Cursor) Position() int {
	return c.position
}

// Len returns the total addressable length of the source.
func (c *Cursor) Len() int {
	return c.length
}

// LastConsumedSize returns the number of bytes consumed by the most recent
// Consume call, or zero after construction or Reset.
func (c *Cursor) LastConsumedSize() int {
	return c.lastSize
}

// Range returns the bytes in [from, to) as a view into the source.
// The range is not bounds-checked; callers own the arithmetic.
func (c *Cursor) Range(from, to int) []byte {
	return c.data[from:to]
}

// Peek returns the next size bytes starting at the current position
// without advancing. The returned slice aliases the underlying source.
// Fails with ErrInvalidRange when the read would pass the end; the cursor
// is left unchanged.
func (c *Cursor) Peek(size int) ([]byte, error) {
	if size < 0 || c.position > c.length || size > c.length-c.position {
		return nil, ErrInvalidRange
	}
	return c.data[c.position : c.position+size], nil
}

// Consume returns the next size bytes and advances the position past them,
// recording size as the last consumed size. Fails with ErrInvalidRange
// when the read would pass the end; on failure the cursor is unchanged.
func (c *Cursor) Consume(size int) ([]byte, error) {
	data, err := c.Peek(size)
	if err != nil {
		return nil, err
	}
	c.position += size
	c.lastSize = size
	return data, nil
}

// MoveTo repositions the cursor to an absolute offset. Unchecked.
func (c *Cursor) MoveTo(pos int) {
	c.position = pos
}

// Forward advances the cursor by steps bytes. Unchecked.
func (c *Cursor) Forward(steps int) {
	c.position += steps
}

// SetBack rewinds the cursor by steps bytes. Unchecked: rewinding past
// zero is a programmer error and panics like any negative slice index
// would, rather than being reported as a recoverable failure.
func (c *Cursor) SetBack(steps int) {
	if steps > c.position {
		panic("cursor: SetBack past start of source")
	}
	c.position -= steps
}

// Reset rewinds the cursor to its starting position (zero unless set via
// WithStartingPos) and clears the last consumed size.
func (c *Cursor) Reset() {
	c.position = c.startingPos
	c.lastSize = 0
}

// IsEOF reports whether the position is at or past the end of the source.
func (c *Cursor) IsEOF() bool {
	return c.position >= c.length
}
