// Package spi implements the SPI handler: channel I/O, job/sequence dispatch,
// three-level status tracking, cancellation and completion-mode control.
//
// All state lives in one Engine value. Transceiver calls are made outside the
// engine lock, so Cancel and status queries never wait on an in-flight byte.
package spi

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tamzrod/spi-handler/internal/status"
)

// Engine owns the topology and every status register.
type Engine struct {
	opts options

	mu    sync.Mutex
	state status.DriverStatus // Uninit or Idle; hardware busy is derived on query
	mode  status.AsyncMode
	t     *tables

	// epoch changes on every Init/DeInit; in-flight dispatch drops stale updates.
	epoch uint64

	jobResults []status.JobResult
	seqResults []status.SeqResult

	// cancelGen[s] is bumped by Cancel(s); dispatch compares against its snapshot.
	cancelGen []uint64
	running   []bool
}

// New returns an uninitialised engine.
func New(opts ...Option) *Engine {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Engine{
		opts:  o,
		state: status.Uninit,
	}
}

// Init validates cfg, configures and enables every unit, and moves the
// engine to Idle with all results OK.
// A nil cfg is a silent no-op.
func (e *Engine) Init(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	e.mu.Lock()
	initialized := e.state != status.Uninit
	e.mu.Unlock()
	if initialized {
		return ErrAlreadyInitialized
	}

	t, err := buildTables(cfg)
	if err != nil {
		return err
	}

	// ------------------------------------------------------------
	// HARDWARE BRING-UP (all or nothing)
	// ------------------------------------------------------------

	for i, u := range t.units {
		err := u.Transceiver.Configure(u.Settings)
		if err == nil {
			err = u.Transceiver.Enable()
		}
		if err != nil {
			for _, prev := range t.units[:i+1] {
				_ = prev.Transceiver.Release()
			}
			return fmt.Errorf("spi: unit %d bring-up failed: %w", u.ID, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != status.Uninit {
		for _, u := range t.units {
			_ = u.Transceiver.Release()
		}
		return ErrAlreadyInitialized
	}

	e.t = t
	e.state = status.Idle
	e.mode = status.PollingMode
	e.epoch++
	e.jobResults = make([]status.JobResult, len(t.jobs))
	e.seqResults = make([]status.SeqResult, len(t.sequences))
	e.cancelGen = make([]uint64, len(t.sequences))
	e.running = make([]bool, len(t.sequences))

	e.opts.logger.Printf("spi: initialized (units=%d channels=%d jobs=%d sequences=%d)",
		len(t.units), len(t.channels), len(t.jobs), len(t.sequences))

	return nil
}

// DeInit releases every unit and returns the engine to Uninit.
// All units are released even if some fail; failures are joined.
func (e *Engine) DeInit() error {
	e.mu.Lock()
	if e.state == status.Uninit {
		e.mu.Unlock()
		return ErrNotInitialized
	}

	t := e.t
	e.state = status.Uninit
	e.epoch++
	for i := range e.jobResults {
		e.jobResults[i] = status.JobOK
	}
	for i := range e.seqResults {
		e.seqResults[i] = status.SeqOK
	}
	e.mu.Unlock()

	var errs []error
	for _, u := range t.units {
		if err := u.Transceiver.Release(); err != nil {
			errs = append(errs, fmt.Errorf("unit %d: %w", u.ID, err))
		}
	}

	e.opts.logger.Printf("spi: deinitialized")

	if len(errs) > 0 {
		return fmt.Errorf("spi: release failed: %w", errors.Join(errs...))
	}
	return nil
}

// current returns the tables and epoch, or ErrNotInitialized.
func (e *Engine) current() (*tables, uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == status.Uninit {
		return nil, 0, ErrNotInitialized
	}
	return e.t, e.epoch, nil
}
