package spi

import (
	"github.com/google/uuid"

	"github.com/tamzrod/spi-handler/internal/status"
)

// Cancel aborts seq immediately.
//
// The sequence result becomes Canceled before any hardware is touched, then
// every unit the sequence uses is disabled and re-enabled. Jobs already OK
// stay OK. A dispatch in flight observes the cancel between jobs or while
// waiting for a ready flag.
// No-op before Init or for an unknown sequence.
func (e *Engine) Cancel(seq SequenceID) {
	e.mu.Lock()
	if e.state == status.Uninit || int(seq) >= len(e.seqResults) {
		e.mu.Unlock()
		return
	}
	e.cancelGen[seq]++
	e.seqResults[seq] = status.SeqCanceled
	t := e.t
	e.mu.Unlock()

	for _, uid := range t.seqUnits[seq] {
		tr := t.units[uid].Transceiver
		if err := tr.Disable(); err != nil {
			e.opts.logger.Printf("spi: cancel sequence %d: disable unit %d: %v", seq, uid, err)
		}
		if err := tr.Enable(); err != nil {
			e.opts.logger.Printf("spi: cancel sequence %d: enable unit %d: %v", seq, uid, err)
		}
	}

	e.notify(Notification{
		RunID:     uuid.New(),
		Kind:      SequenceEnd,
		Sequence:  seq,
		SeqResult: status.SeqCanceled,
	})
}
