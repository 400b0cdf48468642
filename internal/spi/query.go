package spi

import (
	"github.com/tamzrod/spi-handler/internal/status"
)

// GetStatus returns Uninit before Init, Busy while any unit reports busy
// (every unit is checked), Idle otherwise.
func (e *Engine) GetStatus() status.DriverStatus {
	t, _, err := e.current()
	if err != nil {
		return status.Uninit
	}

	for _, u := range t.units {
		if unitBusy(u.Transceiver) {
			return status.Busy
		}
	}
	return status.Idle
}

// GetJobResult returns the most recent result of job.
// Failed before Init or for an unknown id. A recorded OK reads as Pending
// while the job's unit is still busy.
func (e *Engine) GetJobResult(job JobID) status.JobResult {
	e.mu.Lock()
	if e.state == status.Uninit || int(job) >= len(e.jobResults) {
		e.mu.Unlock()
		return status.JobFailed
	}
	res := e.jobResults[job]
	tr := e.t.units[e.t.jobUnit[job]].Transceiver
	e.mu.Unlock()

	if res == status.JobOK && unitBusy(tr) {
		return status.JobPending
	}
	return res
}

// GetSequenceResult returns the most recent result of seq.
// Failed before Init or for an unknown id. A recorded OK reads as Pending
// while any unit the sequence uses is still busy.
func (e *Engine) GetSequenceResult(seq SequenceID) status.SeqResult {
	e.mu.Lock()
	if e.state == status.Uninit || int(seq) >= len(e.seqResults) {
		e.mu.Unlock()
		return status.SeqFailed
	}
	res := e.seqResults[seq]
	t := e.t
	e.mu.Unlock()

	if res != status.SeqOK {
		return res
	}
	for _, u := range t.seqUnits[seq] {
		if unitBusy(t.units[u].Transceiver) {
			return status.SeqPending
		}
	}
	return res
}

// GetHWUnitStatus reports Busy/Idle for one unit, Uninit for an unknown unit.
func (e *Engine) GetHWUnitStatus(unit HWUnitID) status.DriverStatus {
	t, _, err := e.current()
	if err != nil || int(unit) >= len(t.units) {
		return status.Uninit
	}
	if unitBusy(t.units[unit].Transceiver) {
		return status.Busy
	}
	return status.Idle
}

// Mode returns the current completion mode.
func (e *Engine) Mode() status.AsyncMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Snapshot copies every status register.
// Job and sequence entries are the recorded values.
func (e *Engine) Snapshot() status.Snapshot {
	driver := e.GetStatus()

	e.mu.Lock()
	defer e.mu.Unlock()

	return status.Snapshot{
		Driver:    driver,
		Mode:      e.mode,
		Sequences: append([]status.SeqResult(nil), e.seqResults...),
		Jobs:      append([]status.JobResult(nil), e.jobResults...),
	}
}

// unitBusy treats an unreadable unit as busy: idle cannot be confirmed.
func unitBusy(tr Transceiver) bool {
	busy, err := tr.Busy()
	return err != nil || busy
}
