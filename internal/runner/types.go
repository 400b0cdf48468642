// internal/runner/types.go
package runner

import (
	"time"

	"github.com/tamzrod/spi-handler/internal/spi"
	"github.com/tamzrod/spi-handler/internal/status"
)

// SequenceRun is the outcome of one scheduled transmission.
type SequenceRun struct {
	Sequence spi.SequenceID
	Err      error // nil means the sequence was accepted (async) or completed OK (sync)
}

// CycleResult is produced by one schedule cycle.
type CycleResult struct {
	At   time.Time
	Runs []SequenceRun

	// Snapshot is taken after the last sequence of the cycle.
	Snapshot status.Snapshot

	Err error // joined per-sequence errors; nil when every run succeeded
}
