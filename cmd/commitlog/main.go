package main

import (
	"os"

	"github.com/hexlane/commitlog/cmd/commitlog/commands"

	// Register the Prometheus metrics constructors.
	_ "github.com/hexlane/commitlog/pkg/metrics/prometheus"
)

// Build-time variables injected via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
