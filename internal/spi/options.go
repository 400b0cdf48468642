package spi

import (
	"io"
	"log"
	"time"
)

// DefaultWaitTimeout bounds every wait on a transceiver flag or sequence result.
const DefaultWaitTimeout = time.Second

// DefaultPollInterval is the pause between two flag reads while waiting.
const DefaultPollInterval = 50 * time.Microsecond

type options struct {
	logger       *log.Logger
	waitTimeout  time.Duration
	pollInterval time.Duration
	notifier     Notifier
}

func defaultOptions() options {
	return options{
		logger:       log.New(io.Discard, "", 0),
		waitTimeout:  DefaultWaitTimeout,
		pollInterval: DefaultPollInterval,
	}
}

// Option configures an Engine.
type Option func(*options)

// WithLogger sets the logger used for lifecycle and failure messages.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWaitTimeout bounds waits on ready flags and sequence results.
// Zero means wait until the context is done.
func WithWaitTimeout(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.waitTimeout = d
		}
	}
}

// WithPollInterval sets the pause between flag reads. Zero yields instead of sleeping.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.pollInterval = d
		}
	}
}

// WithNotifier sets the callback used for job and sequence end notifications
// while the engine is in interrupt mode.
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}
