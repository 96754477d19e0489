// disk.go provides the memory-mapped backing file for the commit log.
//
// A Disk owns a single fixed-size file, memory-mapped in full for the
// lifetime of the handle. Writers never serialize through a single writer
// goroutine: space is handed out with an atomic fetch-and-add on the write
// offset, so concurrent reservations receive pairwise disjoint byte ranges
// and copy into the mapping without further synchronization.
//
// File Format (little-endian):
//
//	| Byte Range | Description                 | Details                            |
//	|------------|-----------------------------|------------------------------------|
//	| 0          | Initialized flag (1 byte)   | 0 = uninitialized, 1 = initialized |
//	| 1          | Locked flag (1 byte)        | 0 = unlocked, 1 = locked           |
//	| 2-10       | Metadata length (8 bytes)   | Length of the metadata record      |
//	| 10...      | Metadata record (variable)  | Versioned tagged record            |
//	| 10+len...  | Data region                 | Append-only writes, up to capacity |
//
// The file's length always equals the configured capacity, fixed at
// creation and never resized.
package disk

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/hexlane/commitlog/internal/logger"
	"github.com/hexlane/commitlog/pkg/cursor"
)

// headerSize is the fixed header prefix: initialized flag + locked flag +
// metadata length.
const headerSize = 1 + 1 + 8

// minCapacity is the smallest mappable file: the fixed header plus a V1
// metadata record (tag byte and payload). Open rejects anything smaller.
const minCapacity = headerSize + 1 + u64Size

// Config describes the backing file for a Disk.
type Config struct {
	// Path is the location of the backing file. Created if absent.
	Path string

	// Capacity is the total file size in bytes, fixed at creation.
	Capacity uint64

	// MaxItems is an advisory soft cap on item count. The disk does not
	// enforce it; the layer above must.
	MaxItems uint64
}

// Option customizes Disk construction. The clock and identifier sources
// are injectable so tests can supply deterministic values.
type Option func(*settings)

type settings struct {
	now     func() time.Time
	id      uuid.UUID
	hasID   bool
	metrics Metrics
}

// WithClock overrides the time source used when initializing a fresh
// file's metadata. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithID overrides the process-unique disk identifier. Defaults to a
// random UUID per open.
func WithID(id uuid.UUID) Option {
	return func(s *settings) {
		s.id = id
		s.hasID = true
	}
}

// WithMetrics attaches an instrumentation hook. Nil disables metrics.
func WithMetrics(m Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

// Disk is the on-disk storage core of the commit log.
//
// All operations are synchronous and safe for concurrent use from multiple
// goroutines sharing one handle. The write offset and busy counter are
// per-handle: two handles opened on the same path each map the file and
// agree only on persisted state (header bytes) as of each other's flushes.
type Disk struct {
	id       uuid.UUID
	capacity uint64
	maxItems uint64
	path     string

	data []byte // mmap'd region, len == capacity
	file *os.File

	writeOffset atomic.Uint64
	locked      atomic.Bool

	// busy counts writes performed but not yet settled by a Flush call.
	// Best-effort: it never blocks anyone and must not be used for mutual
	// exclusion.
	busy atomic.Int64

	closed atomic.Bool

	metadata     Metadata
	metadataSize uint64
	metrics      Metrics
}

// Open opens or creates the backing file at cfg.Path, sizes it to exactly
// cfg.Capacity bytes, maps it read/write, and derives lock state and
// metadata from its header. A fresh file gets its header initialized and
// flushed; an already-initialized file has its header read back, and any
// decode failure aborts the open rather than re-initializing (which would
// destroy existing data).
func Open(cfg Config, opts ...Option) (*Disk, error) {
	if cfg.Capacity < minCapacity {
		return nil, fmt.Errorf("capacity %d: need at least %d bytes: %w", cfg.Capacity, minCapacity, ErrCapacityTooSmall)
	}

	s := settings{now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	if !s.hasID {
		s.id = uuid.New()
	}

	f, err := os.OpenFile(cfg.Path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("open disk file: %w", err)
	}

	if err := f.Truncate(int64(cfg.Capacity)); err != nil {
		f.Close()
		return nil, fmt.Errorf("size disk file to %d bytes: %w", cfg.Capacity, err)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(cfg.Capacity), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap: %w", err)
	}

	locked, metadata, metadataSize, err := readHeader(data, s.now)
	if err != nil {
		_ = unix.Munmap(data)
		f.Close()
		return nil, err
	}

	d := &Disk{
		id:           s.id,
		capacity:     cfg.Capacity,
		maxItems:     cfg.MaxItems,
		path:         cfg.Path,
		data:         data,
		file:         f,
		metadata:     metadata,
		metadataSize: metadataSize,
		metrics:      s.metrics,
	}
	d.writeOffset.Store(headerSize + metadataSize)
	d.locked.Store(locked)

	logger.Debug("disk opened",
		logger.KeyDiskID, d.id.String(),
		logger.KeyPath, d.path,
		logger.KeyCapacity, d.capacity,
		logger.KeyLocked, locked,
		logger.KeyOffset, d.writeOffset.Load(),
	)

	return d, nil
}

// readHeader parses the header of a mapped file, initializing it first
// when the initialized flag is clear.
func readHeader(data []byte, now func() time.Time) (locked bool, metadata Metadata, metadataSize uint64, err error) {
	c := cursor.NewMappedMut(data)

	flags, err := c.Consume(2)
	if err != nil {
		return false, Metadata{}, 0, fmt.Errorf("read header flags: %w", ErrCorrupted)
	}
	initialized := flags[0] == 1
	locked = flags[1] == 1

	if initialized {
		metadata, metadataSize, err = readExistingMetadata(c)
	} else {
		metadata, metadataSize, err = initializeHeader(data, now)
	}
	if err != nil {
		return false, Metadata{}, 0, err
	}

	return locked, metadata, metadataSize, nil
}

// initializeHeader marks a fresh file initialized and unlocked, then
// synthesizes the metadata record and persists its length and payload.
// Metadata is created exactly once per file; the stored value is
// authoritative on every later open.
func initializeHeader(data []byte, now func() time.Time) (Metadata, uint64, error) {
	data[0] = 1 // initialized
	data[1] = 0 // unlocked
	if err := unix.Msync(data, unix.MS_SYNC); err != nil {
		return Metadata{}, 0, fmt.Errorf("flush header flags: %w", err)
	}

	metadata := NewMetadataV1(uint64(now().Unix()))
	record := metadata.Encode()

	binary.LittleEndian.PutUint64(data[2:headerSize], uint64(len(record)))
	copy(data[headerSize:headerSize+len(record)], record)

	if err := unix.Msync(data, unix.MS_SYNC); err != nil {
		return Metadata{}, 0, fmt.Errorf("flush metadata record: %w", err)
	}

	return metadata, uint64(len(record)), nil
}

// readExistingMetadata decodes the metadata record of an initialized file.
// The cursor is positioned right after the header flags.
func readExistingMetadata(c *cursor.Cursor) (Metadata, uint64, error) {
	sizeBytes, err := c.Consume(u64Size)
	if err != nil {
		return Metadata{}, 0, fmt.Errorf("read metadata length: %w", ErrCorrupted)
	}
	size := binary.LittleEndian.Uint64(sizeBytes)

	record, err := c.Consume(int(size))
	if err != nil {
		return Metadata{}, 0, fmt.Errorf("read metadata record (%d bytes): %w", size, ErrCorrupted)
	}

	metadata, err := DecodeMetadata(record)
	if err != nil {
		return Metadata{}, 0, fmt.Errorf("decode metadata record: %w", err)
	}

	return metadata, size, nil
}

// ReserveSpace atomically reserves an exclusive byte range of the given
// size and returns its starting offset. No two reservations ever overlap,
// regardless of goroutine count.
//
// Fails with ErrLocked (nothing reserved) when the advisory lock is set.
// Fails with ErrCapacityReached when the range would extend past capacity;
// the attempted range is still consumed, so the frontier stays
// monotonically increasing and never hands out a previously attempted
// range again. Capacity lost this way is not reclaimed. A size larger
// than the whole capacity can never fit and is rejected up front without
// consuming anything.
//
// The lock observation here is best-effort: a lock taking effect
// concurrently may be missed by a reservation already in flight.
func (d *Disk) ReserveSpace(size uint64) (uint64, error) {
	if d.isLocked() {
		d.observeReservation(size, "locked")
		return 0, ErrLocked
	}

	// A size that can never fit is rejected before touching the frontier,
	// it could otherwise wrap the offset addition.
	if size > d.capacity {
		d.observeReservation(size, "capacity_reached")
		return 0, ErrCapacityReached
	}

	end := d.writeOffset.Add(size)
	offset := end - size

	if end > d.capacity {
		d.observeReservation(size, "capacity_reached")
		return 0, ErrCapacityReached
	}

	d.observeReservation(size, "granted")
	return offset, nil
}

// WriteAt copies data byte-for-byte into the mapping starting at startAt,
// which the caller normally obtained from ReserveSpace. No bounds are
// re-validated beyond what reservation implied: callers must never pass a
// startAt/length combination extending past the mapping.
//
// The lock is checked before and again after raising the busy counter, a
// best-effort pre-write observation rather than mutual exclusion: a write
// that passed its checks completes even if the lock flips mid-copy.
//
// On success the busy counter is left incremented, marking one uncommitted
// write; a matching Flush call settles it.
func (d *Disk) WriteAt(data []byte, startAt uint64) error {
	if d.isLocked() {
		return ErrLocked
	}

	d.busy.Add(1)

	if d.isLocked() {
		d.busy.Add(-1)
		return ErrLocked
	}

	copy(d.data[startAt:], data)

	if d.metrics != nil {
		d.metrics.ObserveWrite(len(data))
	}

	return nil
}

// Flush settles exactly one pending write, decrementing the busy counter
// by one, and syncs the mapped region to the backing store. Callers are
// expected to pair one Flush per successful WriteAt; Flush itself never
// inspects how many writes are actually outstanding, so mismatched call
// counts under- or over-correct the counter.
//
// Fails with ErrInvalidFlushing when the OS-level sync fails; durability
// is not guaranteed past that point.
func (d *Disk) Flush() error {
	d.busy.Add(-1)

	if err := unix.Msync(d.data, unix.MS_SYNC); err != nil {
		logger.Error("disk flush failed",
			logger.KeyDiskID, d.id.String(),
			logger.KeyPath, d.path,
			logger.KeyError, err,
		)
		d.observeFlush(false)
		return ErrInvalidFlushing
	}

	d.observeFlush(true)
	return nil
}

// SetLocked sets the advisory lock state in memory and on the file's lock
// byte, then flushes. The flag gates new reservations and is re-checked
// inside WriteAt, but a reservation or write racing this call may observe
// either state.
func (d *Disk) SetLocked(locked bool) error {
	d.locked.Store(locked)

	if locked {
		d.data[1] = 1
	} else {
		d.data[1] = 0
	}

	if err := unix.Msync(d.data, unix.MS_SYNC); err != nil {
		logger.Error("disk lock flush failed",
			logger.KeyDiskID, d.id.String(),
			logger.KeyPath, d.path,
			logger.KeyError, err,
		)
		return ErrInvalidFlushing
	}

	if d.metrics != nil {
		d.metrics.RecordLocked(locked)
	}

	logger.Info("disk lock state changed",
		logger.KeyDiskID, d.id.String(),
		logger.KeyLocked, locked,
	)

	return nil
}

// Close syncs the mapping, unmaps it, and closes the file handle.
// Safe to call more than once.
func (d *Disk) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}

	// Sync before tearing down the mapping.
	_ = unix.Msync(d.data, unix.MS_SYNC)

	if err := unix.Munmap(d.data); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	d.data = nil

	if err := d.file.Close(); err != nil {
		return fmt.Errorf("close disk file: %w", err)
	}

	return nil
}

// ID returns the process-unique identifier assigned at open.
func (d *Disk) ID() uuid.UUID {
	return d.id
}

// Capacity returns the total file size in bytes.
func (d *Disk) Capacity() uint64 {
	return d.capacity
}

// MaxItems returns the advisory item-count cap. Not enforced here.
func (d *Disk) MaxItems() uint64 {
	return d.maxItems
}

// Path returns the backing file's path.
func (d *Disk) Path() string {
	return d.path
}

// Metadata returns the record stored in the header.
func (d *Disk) Metadata() Metadata {
	return d.metadata
}

// WriteOffset returns the next free byte for reservation. Monotonically
// increasing for the lifetime of the handle.
func (d *Disk) WriteOffset() uint64 {
	return d.writeOffset.Load()
}

// Busy returns the count of writes not yet settled by a flush.
func (d *Disk) Busy() int64 {
	return d.busy.Load()
}

// Locked reports the in-memory advisory lock state.
func (d *Disk) Locked() bool {
	return d.isLocked()
}

// DataStart returns the first writable byte of the data region. The
// header and metadata below this boundary are never writable as log data.
func (d *Disk) DataStart() uint64 {
	return headerSize + d.metadataSize
}

func (d *Disk) isLocked() bool {
	return d.locked.Load()
}

func (d *Disk) observeReservation(size uint64, status string) {
	if d.metrics != nil {
		d.metrics.ObserveReservation(size, status)
	}
}

func (d *Disk) observeFlush(ok bool) {
	if d.metrics != nil {
		d.metrics.ObserveFlush(ok)
	}
}
