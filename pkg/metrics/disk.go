package metrics

import (
	"github.com/hexlane/commitlog/pkg/disk"
)

// NewDiskMetrics creates a new Prometheus-backed disk.Metrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
// When nil is returned, callers should pass nil to the disk, which
// results in zero overhead.
//
// Example usage:
//
//	metrics.InitRegistry()
//	d, err := disk.Open(cfg, disk.WithMetrics(metrics.NewDiskMetrics()))
func NewDiskMetrics() disk.Metrics {
	if !IsEnabled() || newPrometheusDiskMetrics == nil {
		return nil
	}
	return newPrometheusDiskMetrics()
}

// newPrometheusDiskMetrics is implemented in pkg/metrics/prometheus.
// The indirection keeps this package free of a hard dependency on the
// backend while keeping the API in one place.
var newPrometheusDiskMetrics func() disk.Metrics

// RegisterDiskMetricsConstructor registers the Prometheus disk metrics
// constructor. Called by pkg/metrics/prometheus during package
// initialization.
func RegisterDiskMetricsConstructor(constructor func() disk.Metrics) {
	newPrometheusDiskMetrics = constructor
}
