package logger

// Standard field keys for structured logging. Use these consistently
// across log statements so output stays queryable.
const (
	// Disk identity
	KeyDiskID = "disk_id" // Process-unique disk identifier
	KeyPath   = "path"    // Backing file path

	// Geometry and state
	KeyCapacity = "capacity" // Configured file size in bytes
	KeyOffset   = "offset"   // Byte offset within the file
	KeySize     = "size"     // Operation size in bytes
	KeyLocked   = "locked"   // Advisory lock state
	KeyBusy     = "busy"     // Unsettled write count

	// Generic
	KeyError    = "error"    // Error value
	KeyDuration = "duration" // Elapsed time in milliseconds
)
