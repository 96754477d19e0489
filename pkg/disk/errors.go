package disk

import (
	"errors"
)

// Disk errors
var (
	// ErrLocked is returned when an operation is rejected because the
	// disk's advisory lock flag was observed set. Recoverable: retry after
	// the lock is released.
	ErrLocked = errors.New("disk is locked")

	// ErrCapacityTooSmall is returned by Open when the configured capacity
	// cannot hold the fixed header and a metadata record. No file state is
	// touched.
	ErrCapacityTooSmall = errors.New("capacity below header minimum")

	// ErrCapacityReached is returned when a reservation would exceed the
	// configured capacity. The attempted range is still consumed; treat
	// this as a hard ceiling for the file and do not retry.
	ErrCapacityReached = errors.New("no more bytes allowed")

	// ErrInvalidFlushing is returned when syncing the mapping to the
	// backing store fails. Durability is not guaranteed past this point.
	ErrInvalidFlushing = errors.New("disk could not be flushed")

	// ErrCorrupted is returned when an initialized file's header cannot be
	// read back (truncated length field or payload). The file is never
	// re-initialized on open; doing so would destroy existing data.
	ErrCorrupted = errors.New("disk file corrupted")

	// ErrUnknownMetadataVersion is returned when the header's metadata
	// record carries a version tag this build does not know. Treated as
	// corruption, not retried.
	ErrUnknownMetadataVersion = errors.New("unknown disk metadata version")
)
