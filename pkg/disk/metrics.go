package disk

// Metrics is the instrumentation hook for disk operations.
//
// A nil Metrics disables instrumentation with zero overhead; callers that
// want Prometheus-backed metrics obtain an implementation from
// pkg/metrics. The interface lives here, next to its consumer, so the
// metrics backend depends on the disk package and not the other way
// around.
type Metrics interface {
	// ObserveReservation records a space reservation attempt.
	// status is "granted", "locked", or "capacity_reached".
	ObserveReservation(size uint64, status string)

	// ObserveWrite records a raw write into the mapping.
	ObserveWrite(bytes int)

	// ObserveFlush records a flush attempt and whether it succeeded.
	ObserveFlush(ok bool)

	// RecordLocked records an advisory lock transition.
	RecordLocked(locked bool)
}
