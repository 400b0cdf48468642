// internal/runner/builder.go
package runner

import (
	"time"

	cfg "github.com/tamzrod/spi-handler/internal/config"
	"github.com/tamzrod/spi-handler/internal/spi"
)

// Build constructs a Runner from the schedule section.
// Assumes config has already passed validation and normalization.
func Build(s cfg.ScheduleConfig, engine Engine) (*Runner, error) {
	seqs := make([]spi.SequenceID, 0, len(s.Sequences))
	for _, id := range s.Sequences {
		seqs = append(seqs, spi.SequenceID(id))
	}

	return New(
		Config{
			Interval:  time.Duration(s.IntervalMs) * time.Millisecond,
			Sync:      s.Sync,
			Sequences: seqs,
		},
		engine,
	)
}
