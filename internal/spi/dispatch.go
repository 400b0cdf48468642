package spi

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tamzrod/spi-handler/internal/status"
)

// AsyncTransmit dispatches every job of seq in list order.
//
// Jobs are queued, then each becomes pending, is written to its channel and
// marked OK. The first failure marks the failing job and every job not yet
// reached as failed, marks the sequence failed and stops.
// It returns once all jobs were handed to their transceivers; poll
// GetSequenceResult for hardware completion.
func (e *Engine) AsyncTransmit(ctx context.Context, seq SequenceID) error {
	e.mu.Lock()
	if e.state == status.Uninit {
		e.mu.Unlock()
		return ErrNotInitialized
	}
	t := e.t
	if int(seq) >= len(t.sequences) {
		e.mu.Unlock()
		return fmt.Errorf("%w: sequence %d", ErrInvalidID, seq)
	}
	if e.running[seq] {
		e.mu.Unlock()
		return fmt.Errorf("%w: sequence %d", ErrSequencePending, seq)
	}

	sq := t.sequences[seq]
	epoch := e.epoch
	gen := e.cancelGen[seq]

	e.running[seq] = true
	e.seqResults[seq] = status.SeqPending
	for _, jid := range sq.Jobs {
		e.jobResults[jid] = status.JobQueued
	}
	e.mu.Unlock()

	defer e.update(epoch, func() { e.running[seq] = false })

	run := &dispatchRun{
		e:     e,
		t:     t,
		seq:   sq,
		epoch: epoch,
		gen:   gen,
		id:    uuid.New(),
	}
	return run.execute(ctx)
}

// SyncTransmit runs seq through AsyncTransmit and waits (bounded) until its
// result is no longer pending.
// It returns nil iff the terminal sequence result is OK.
func (e *Engine) SyncTransmit(ctx context.Context, seq SequenceID) error {
	if _, _, err := e.current(); err != nil {
		return err
	}

	if err := e.AsyncTransmit(ctx, seq); err != nil {
		return err
	}

	var res status.SeqResult
	err := e.waitUntil(ctx, func() (bool, error) {
		res = e.GetSequenceResult(seq)
		return res != status.SeqPending, nil
	}, nil)
	if err != nil {
		return fmt.Errorf("spi: sequence %d: %w", seq, err)
	}

	switch res {
	case status.SeqOK:
		return nil
	case status.SeqCanceled:
		return fmt.Errorf("spi: sequence %d: %w", seq, ErrCanceled)
	default:
		return fmt.Errorf("spi: sequence %d: %w", seq, ErrTransferFailed)
	}
}

// update applies fn under the lock unless Init/DeInit happened since epoch.
func (e *Engine) update(epoch uint64, fn func()) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.epoch != epoch || e.state == status.Uninit {
		return false
	}
	fn()
	return true
}

// ---- DISPATCH RUN ----

type dispatchRun struct {
	e     *Engine
	t     *tables
	seq   Sequence
	epoch uint64
	gen   uint64
	id    uuid.UUID
}

// canceled reports whether Cancel or DeInit happened since the run started.
func (r *dispatchRun) canceled() bool {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()

	if r.e.epoch != r.epoch || r.e.state == status.Uninit {
		return true
	}
	return r.e.cancelGen[r.seq.ID] != r.gen
}

func (r *dispatchRun) execute(ctx context.Context) error {
	for i, jid := range r.seq.Jobs {
		if r.canceled() {
			return r.abortCanceled(r.seq.Jobs[i:])
		}

		tr, data, err := r.resolve(jid)
		if err != nil {
			return r.fail(i, err)
		}

		r.e.update(r.epoch, func() { r.e.jobResults[jid] = status.JobPending })

		if err := r.e.writeIB(ctx, tr, data, r.canceled); err != nil {
			if errors.Is(err, ErrCanceled) {
				return r.abortCanceled(r.seq.Jobs[i:])
			}
			return r.fail(i, err)
		}

		r.e.update(r.epoch, func() { r.e.jobResults[jid] = status.JobOK })
		r.e.notify(Notification{
			RunID:     r.id,
			Kind:      JobEnd,
			Sequence:  r.seq.ID,
			Job:       jid,
			JobResult: status.JobOK,
			SeqResult: status.SeqPending,
		})
	}

	completed := r.e.update(r.epoch, func() {
		if r.e.cancelGen[r.seq.ID] == r.gen {
			r.e.seqResults[r.seq.ID] = status.SeqOK
		}
	})
	if !completed {
		return ErrNotInitialized
	}
	if r.canceled() {
		return fmt.Errorf("spi: sequence %d: %w", r.seq.ID, ErrCanceled)
	}

	r.e.notify(Notification{
		RunID:     r.id,
		Kind:      SequenceEnd,
		Sequence:  r.seq.ID,
		SeqResult: status.SeqOK,
	})
	return nil
}

// resolve maps a job to its transceiver and the bytes to send.
// A job without data sends its channel's default value.
func (r *dispatchRun) resolve(jid JobID) (Transceiver, []byte, error) {
	if int(jid) >= len(r.t.jobs) {
		return nil, nil, fmt.Errorf("%w: job %d", ErrInvalidID, jid)
	}
	job := r.t.jobs[jid]

	tr, err := r.t.transceiverFor(job.Channel)
	if err != nil {
		return nil, nil, err
	}

	data := job.Data
	if len(data) == 0 {
		data = []byte{r.t.channels[job.Channel].Default}
	}
	return tr, data, nil
}

// fail records a failure at position i and stops the sequence.
func (r *dispatchRun) fail(i int, cause error) error {
	failed := r.seq.Jobs[i]

	r.e.update(r.epoch, func() {
		for _, jid := range r.seq.Jobs[i:] {
			r.e.jobResults[jid] = status.JobFailed
		}
		if r.e.cancelGen[r.seq.ID] == r.gen {
			r.e.seqResults[r.seq.ID] = status.SeqFailed
		}
	})

	r.e.opts.logger.Printf("spi: sequence %d failed at job %d: %v", r.seq.ID, failed, cause)

	r.e.notify(Notification{
		RunID:     r.id,
		Kind:      JobEnd,
		Sequence:  r.seq.ID,
		Job:       failed,
		JobResult: status.JobFailed,
		SeqResult: status.SeqFailed,
	})
	r.e.notify(Notification{
		RunID:     r.id,
		Kind:      SequenceEnd,
		Sequence:  r.seq.ID,
		SeqResult: status.SeqFailed,
	})

	if errors.Is(cause, ErrInvalidID) {
		return fmt.Errorf("spi: sequence %d job %d: %w", r.seq.ID, failed, cause)
	}
	return fmt.Errorf("spi: sequence %d job %d: %w: %w", r.seq.ID, failed, ErrTransferFailed, cause)
}

// abortCanceled marks the jobs not reached as failed; the sequence keeps
// the Canceled result set by Cancel.
func (r *dispatchRun) abortCanceled(remaining []JobID) error {
	if !r.e.update(r.epoch, func() {
		for _, jid := range remaining {
			r.e.jobResults[jid] = status.JobFailed
		}
	}) {
		return ErrNotInitialized
	}
	return fmt.Errorf("spi: sequence %d: %w", r.seq.ID, ErrCanceled)
}
