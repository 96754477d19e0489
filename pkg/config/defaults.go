package config

import (
	"strings"

	"github.com/hexlane/commitlog/internal/bytesize"
)

// ApplyDefaults sets default values for any unspecified configuration
// fields. Zero values are replaced; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyDiskDefaults(&cfg.Disk)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyDiskDefaults sets disk defaults.
func applyDiskDefaults(cfg *DiskConfig) {
	if cfg.Path == "" {
		cfg.Path = "commitlog.bin"
	}
	if cfg.Capacity == 0 {
		cfg.Capacity = 64 * bytesize.MiB
	}
	if cfg.MaxItems == 0 {
		cfg.MaxItems = 1 << 20
	}
}

// GetDefaultConfig returns a fully defaulted configuration.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
