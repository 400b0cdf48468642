// internal/runner/runner.go
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tamzrod/spi-handler/internal/spi"
	"github.com/tamzrod/spi-handler/internal/status"
)

// Engine is the part of the SPI engine the schedule drives.
type Engine interface {
	AsyncTransmit(ctx context.Context, seq spi.SequenceID) error
	SyncTransmit(ctx context.Context, seq spi.SequenceID) error
	Snapshot() status.Snapshot
}

// Config is the minimal runtime config the runner needs.
type Config struct {
	Interval  time.Duration
	Sync      bool
	Sequences []spi.SequenceID
}

// Runner is a dumb, clock-driven scheduler.
type Runner struct {
	cfg    Config
	engine Engine
}

// New creates a runner with immutable config.
func New(cfg Config, engine Engine) (*Runner, error) {
	if engine == nil {
		return nil, errors.New("runner: engine required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("runner: interval must be > 0")
	}
	if len(cfg.Sequences) == 0 {
		return nil, errors.New("runner: at least one sequence required")
	}

	seqs := append([]spi.SequenceID(nil), cfg.Sequences...)
	cfg.Sequences = seqs
	return &Runner{cfg: cfg, engine: engine}, nil
}

// RunOnce transmits every scheduled sequence once, in order.
// A failing sequence does not stop the cycle.
func (r *Runner) RunOnce(ctx context.Context) CycleResult {
	res := CycleResult{
		At:   time.Now(),
		Runs: make([]SequenceRun, 0, len(r.cfg.Sequences)),
	}

	var errs []error
	for _, seq := range r.cfg.Sequences {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		var err error
		if r.cfg.Sync {
			err = r.engine.SyncTransmit(ctx, seq)
		} else {
			err = r.engine.AsyncTransmit(ctx, seq)
		}

		res.Runs = append(res.Runs, SequenceRun{Sequence: seq, Err: err})
		if err != nil {
			errs = append(errs, fmt.Errorf("sequence %d: %w", seq, err))
		}
	}

	res.Snapshot = r.engine.Snapshot()
	res.Err = errors.Join(errs...)
	return res
}

// Run starts the ticker loop and emits CycleResult on the provided channel.
// One goroutine. No overlap. No retries.
func (r *Runner) Run(ctx context.Context, out chan<- CycleResult) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res := r.RunOnce(ctx)
			select {
			case out <- res:
			case <-ctx.Done():
				return
			}
		}
	}
}
