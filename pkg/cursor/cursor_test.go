package cursor

import (
	"bytes"
	"errors"
	"testing"
)

func TestCursor_ConsumeWalk(t *testing.T) {
	c := New([]byte("Hello World"))

	hello, err := c.Consume(5)
	if err != nil {
		t.Fatalf("Consume(5) error = %v", err)
	}
	if !bytes.Equal(hello, []byte("Hello")) {
		t.Errorf("Consume(5) = %q, want %q", hello, "Hello")
	}

	world, err := c.Consume(6)
	if err != nil {
		t.Fatalf("Consume(6) error = %v", err)
	}
	if !bytes.Equal(world, []byte(" World")) {
		t.Errorf("Consume(6) = %q, want %q", world, " World")
	}

	if _, err := c.Consume(1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Consume(1) past end error = %v, want ErrInvalidRange", err)
	}
	if !c.IsEOF() {
		t.Error("IsEOF() = false after consuming the full source")
	}
}

func TestCursor_PeekDoesNotAdvance(t *testing.T) {
	c := New([]byte{1, 2, 3, 4})

	first, err := c.Peek(2)
	if err != nil {
		t.Fatalf("Peek(2) error = %v", err)
	}
	if !bytes.Equal(first, []byte{1, 2}) {
		t.Errorf("Peek(2) = %v, want [1 2]", first)
	}
	if c.Position() != 0 {
		t.Errorf("Position() = %d after Peek, want 0", c.Position())
	}

	again, err := c.Peek(2)
	if err != nil {
		t.Fatalf("second Peek(2) error = %v", err)
	}
	if !bytes.Equal(again, first) {
		t.Error("repeated Peek returned different bytes")
	}
}

func TestCursor_FailedConsumeLeavesStateUnchanged(t *testing.T) {
	c := New([]byte{1, 2, 3})
	if _, err := c.Consume(2); err != nil {
		t.Fatalf("Consume(2) error = %v", err)
	}

	if _, err := c.Consume(5); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("Consume(5) error = %v, want ErrInvalidRange", err)
	}
	if c.Position() != 2 {
		t.Errorf("Position() = %d after failed consume, want 2", c.Position())
	}
	if c.LastConsumedSize() != 2 {
		t.Errorf("LastConsumedSize() = %d after failed consume, want 2", c.LastConsumedSize())
	}
}

func TestCursor_HostileSizes(t *testing.T) {
	c := New([]byte{1, 2, 3})
	if _, err := c.Peek(-1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Peek(-1) error = %v, want ErrInvalidRange", err)
	}
	// A length field read from untrusted bytes can decode to a value whose
	// addition to the position overflows int.
	huge := int(^uint(0) >> 1)
	if _, err := c.Consume(huge); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Consume(max int) error = %v, want ErrInvalidRange", err)
	}
	if c.Position() != 0 {
		t.Errorf("Position() = %d after failed consumes, want 0", c.Position())
	}
}

func TestCursor_Navigation(t *testing.T) {
	c := New([]byte("abcdef"))

	c.MoveTo(4)
	if c.Position() != 4 {
		t.Errorf("Position() = %d after MoveTo(4), want 4", c.Position())
	}

	c.SetBack(3)
	if c.Position() != 1 {
		t.Errorf("Position() = %d after SetBack(3), want 1", c.Position())
	}

	c.Forward(2)
	if c.Position() != 3 {
		t.Errorf("Position() = %d after Forward(2), want 3", c.Position())
	}

	b, err := c.Consume(1)
	if err != nil {
		t.Fatalf("Consume(1) error = %v", err)
	}
	if b[0] != 'd' {
		t.Errorf("Consume(1) = %q, want %q", b, "d")
	}
}

func TestCursor_SetBackUnderflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("SetBack past start did not panic")
		}
	}()

	c := New([]byte{1, 2})
	c.SetBack(1)
}

func TestCursor_ResetWithStartingPos(t *testing.T) {
	c := New([]byte("abcdef")).WithStartingPos(2)

	if _, err := c.Consume(3); err != nil {
		t.Fatalf("Consume(3) error = %v", err)
	}
	if c.Position() != 5 {
		t.Errorf("Position() = %d, want 5", c.Position())
	}

	c.Reset()
	if c.Position() != 2 {
		t.Errorf("Position() = %d after Reset, want starting pos 2", c.Position())
	}
	if c.LastConsumedSize() != 0 {
		t.Errorf("LastConsumedSize() = %d after Reset, want 0", c.LastConsumedSize())
	}

	b, err := c.Consume(1)
	if err != nil {
		t.Fatalf("Consume(1) error = %v", err)
	}
	if b[0] != 'c' {
		t.Errorf("Consume(1) after Reset = %q, want %q", b, "c")
	}
}

func TestCursor_SourceKinds(t *testing.T) {
	buf := []byte{1, 2, 3}

	if got := New(buf).Kind(); got != SourceRaw {
		t.Errorf("New().Kind() = %v, want SourceRaw", got)
	}
	if got := NewMapped(buf).Kind(); got != SourceMapped {
		t.Errorf("NewMapped().Kind() = %v, want SourceMapped", got)
	}
	if got := NewMappedMut(buf).Kind(); got != SourceMappedMut {
		t.Errorf("NewMappedMut().Kind() = %v, want SourceMappedMut", got)
	}
}

func TestCursor_ZeroCopyViews(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	c := NewMappedMut(buf)

	view, err := c.Consume(2)
	if err != nil {
		t.Fatalf("Consume(2) error = %v", err)
	}

	// Mutating the source must be visible through the view.
	buf[0] = 9
	if view[0] != 9 {
		t.Error("Consume returned a copy, want a view into the source")
	}
}

func TestCursor_EmptySource(t *testing.T) {
	c := New(nil)

	if !c.IsEOF() {
		t.Error("IsEOF() = false for empty source")
	}
	if _, err := c.Consume(1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Consume(1) error = %v, want ErrInvalidRange", err)
	}
	if _, err := c.Consume(0); err != nil {
		t.Errorf("Consume(0) error = %v, want nil", err)
	}
}
