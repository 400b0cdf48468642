// internal/status/constants.go
package status

// Status values are shared with the status block encoding.
// Numeric values are protocol-locked and MUST NOT change.

// ---- DRIVER STATUS ----

// DriverStatus is the engine-wide readiness state.
type DriverStatus uint16

const (
	Uninit DriverStatus = 0
	Idle   DriverStatus = 1
	Busy   DriverStatus = 2
)

func (s DriverStatus) String() string {
	switch s {
	case Uninit:
		return "uninit"
	case Idle:
		return "idle"
	case Busy:
		return "busy"
	}
	return "unknown"
}

// ---- JOB RESULT ----

// JobResult is the most recent outcome of one job.
type JobResult uint16

const (
	JobOK      JobResult = 0
	JobPending JobResult = 1
	JobFailed  JobResult = 2
	JobQueued  JobResult = 3
)

func (r JobResult) String() string {
	switch r {
	case JobOK:
		return "ok"
	case JobPending:
		return "pending"
	case JobFailed:
		return "failed"
	case JobQueued:
		return "queued"
	}
	return "unknown"
}

// ---- SEQUENCE RESULT ----

// SeqResult is the most recent outcome of one sequence.
type SeqResult uint16

const (
	SeqOK       SeqResult = 0
	SeqPending  SeqResult = 1
	SeqFailed   SeqResult = 2
	SeqCanceled SeqResult = 3
)

func (r SeqResult) String() string {
	switch r {
	case SeqOK:
		return "ok"
	case SeqPending:
		return "pending"
	case SeqFailed:
		return "failed"
	case SeqCanceled:
		return "canceled"
	}
	return "unknown"
}

// ---- ASYNC MODE ----

// AsyncMode selects how completion is detected.
type AsyncMode uint16

const (
	// PollingMode: completion interrupts disabled, callers poll.
	PollingMode AsyncMode = 0

	// InterruptMode: completion interrupts enabled, notifications delivered.
	InterruptMode AsyncMode = 1
)

// Valid reports whether m is a known mode.
func (m AsyncMode) Valid() bool {
	return m == PollingMode || m == InterruptMode
}

func (m AsyncMode) String() string {
	switch m {
	case PollingMode:
		return "polling"
	case InterruptMode:
		return "interrupt"
	}
	return "unknown"
}

// ---- BLOCK GEOMETRY ----

// SlotDriverStatus holds the driver status.
const SlotDriverStatus = 0

// SlotMode holds the async mode.
const SlotMode = 1

// SlotSequenceCount holds the number of configured sequences.
const SlotSequenceCount = 2

// SlotJobCount holds the number of configured jobs.
const SlotJobCount = 3

// SlotHeaderSize is the number of header slots.
// Sequence results follow the header, job results follow the sequences.
const SlotHeaderSize = 4
