package spi

import (
	"time"

	"github.com/google/uuid"

	"github.com/tamzrod/spi-handler/internal/status"
)

// NotificationKind distinguishes job and sequence end notifications.
type NotificationKind uint8

const (
	JobEnd NotificationKind = iota
	SequenceEnd
)

func (k NotificationKind) String() string {
	if k == JobEnd {
		return "job-end"
	}
	return "sequence-end"
}

// Notification reports the end of a job or a sequence.
// All notifications of one AsyncTransmit call share RunID.
// Cancel notifications carry a fresh RunID.
type Notification struct {
	RunID     uuid.UUID
	Kind      NotificationKind
	Sequence  SequenceID
	Job       JobID
	JobResult status.JobResult
	SeqResult status.SeqResult
	At        time.Time
}

// Notifier receives notifications. It is called outside the engine lock
// and must not block for long.
type Notifier func(Notification)

// notify delivers n when the engine is in interrupt mode.
func (e *Engine) notify(n Notification) {
	if e.opts.notifier == nil {
		return
	}

	e.mu.Lock()
	mode := e.mode
	e.mu.Unlock()

	if mode != status.InterruptMode {
		return
	}

	n.At = time.Now()
	e.opts.notifier(n)
}
