// internal/publisher/publisher.go
package publisher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/spi-handler/internal/status"
)

// RegisterWriter is the delivery contract of a status endpoint.
type RegisterWriter interface {
	WriteRegisters(slaveID uint8, addr uint16, regs []uint16) error
}

// Config locates the status block on the endpoint.
type Config struct {
	SlaveID     uint8
	BaseAddress uint16
}

// Publisher mirrors the engine status block into holding registers.
// It writes what it is given. No logic, no interpretation.
type Publisher struct {
	cfg Config
	cli RegisterWriter

	needFull bool
	last     []uint16
}

// New returns a publisher whose first write asserts the full block.
func New(cfg Config, cli RegisterWriter) (*Publisher, error) {
	if cli == nil {
		return nil, errors.New("publisher: client required")
	}
	return &Publisher{cfg: cfg, cli: cli, needFull: true}, nil
}

// Publish delivers one snapshot.
// The first call, a block size change, or any earlier failure writes the
// whole block. Otherwise only changed contiguous runs are written.
// Every request carries at most MaxWriteRegisters registers.
func (p *Publisher) Publish(s status.Snapshot) error {
	regs := status.Encode(s)

	// ------------------------------------------------------------
	// Full block write (re-assert)
	// ------------------------------------------------------------
	if p.needFull || len(regs) != len(p.last) {
		for _, c := range chunks(0, len(regs)) {
			if err := p.write(c, regs); err != nil {
				p.needFull = true
				return fmt.Errorf("publisher: full block write failed: %w", err)
			}
		}

		p.needFull = false
		p.last = regs
		return nil
	}

	var errs []string

	for _, r := range changedRuns(p.last, regs) {
		for _, c := range chunks(r.start, r.end) {
			if err := p.write(c, regs); err != nil {
				addr := p.cfg.BaseAddress + uint16(c.start)
				errs = append(errs, fmt.Sprintf("registers %d-%d write failed: %v", addr, addr+uint16(c.end-c.start)-1, err))
				continue
			}
			copy(p.last[c.start:c.end], regs[c.start:c.end])
		}
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt: re-assert on next success.
		p.needFull = true
		return errors.New("publisher: " + strings.Join(errs, " | "))
	}

	return nil
}

func (p *Publisher) write(c span, regs []uint16) error {
	return p.cli.WriteRegisters(p.cfg.SlaveID, p.cfg.BaseAddress+uint16(c.start), regs[c.start:c.end])
}

type span struct {
	start int
	end   int // exclusive
}

// changedRuns returns the maximal runs where prev and next differ.
// Both slices have the same length.
func changedRuns(prev, next []uint16) []span {
	var out []span
	for i := 0; i < len(next); i++ {
		if prev[i] == next[i] {
			continue
		}
		start := i
		for i < len(next) && prev[i] != next[i] {
			i++
		}
		out = append(out, span{start: start, end: i})
	}
	return out
}
