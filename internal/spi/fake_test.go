package spi

import (
	"errors"
	"fmt"
	"sync"
)

// ---- shared operation log ----

type opLog struct {
	mu  sync.Mutex
	ops []string
}

func (l *opLog) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, fmt.Sprintf(format, args...))
}

func (l *opLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.ops...)
}

// ---- fake transceiver ----

// fakeTransceiver echoes every transmitted byte + 1 into its receive queue.
type fakeTransceiver struct {
	name string
	log  *opLog

	mu          sync.Mutex
	configured  Settings
	enabled     bool
	released    int
	neverReady  bool
	busy        bool
	busyPolls   int // Busy() reports true this many more times
	busyErr     error
	failOnTx    int // fail the n-th transmit (1-based); 0 = never
	txCount     int
	rx          []byte
	sent        []byte
	irqEnabled  bool
	irqErr      error
	configErr   error
	busyQueries int
}

var errTxFault = errors.New("tx fault")

func newFake(name string, log *opLog) *fakeTransceiver {
	return &fakeTransceiver{name: name, log: log}
}

func (f *fakeTransceiver) Configure(s Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.configErr != nil {
		return f.configErr
	}
	f.configured = s
	f.log.add("%s:configure", f.name)
	return nil
}

func (f *fakeTransceiver) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released++
	f.enabled = false
	f.log.add("%s:release", f.name)
	return nil
}

func (f *fakeTransceiver) ReadyToTransmit() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled && !f.neverReady, nil
}

func (f *fakeTransceiver) DataAvailable() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rx) > 0, nil
}

func (f *fakeTransceiver) Transmit(b byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txCount++
	if f.failOnTx != 0 && f.txCount == f.failOnTx {
		return errTxFault
	}
	f.sent = append(f.sent, b)
	f.rx = append(f.rx, b+1)
	f.log.add("%s:tx:%#02x", f.name, b)
	return nil
}

func (f *fakeTransceiver) Receive() (byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.rx) == 0 {
		return 0, errors.New("rx empty")
	}
	b := f.rx[0]
	f.rx = f.rx[1:]
	f.log.add("%s:rx:%#02x", f.name, b)
	return b, nil
}

func (f *fakeTransceiver) Busy() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.busyQueries++
	if f.busyErr != nil {
		return false, f.busyErr
	}
	if f.busyPolls > 0 {
		f.busyPolls--
		return true, nil
	}
	return f.busy, nil
}

func (f *fakeTransceiver) Disable() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = false
	f.rx = nil
	f.log.add("%s:disable", f.name)
	return nil
}

func (f *fakeTransceiver) Enable() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = true
	f.log.add("%s:enable", f.name)
	return nil
}

func (f *fakeTransceiver) SetInterrupts(enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.irqErr != nil {
		return f.irqErr
	}
	f.irqEnabled = enabled
	return nil
}

func (f *fakeTransceiver) set(fn func(f *fakeTransceiver)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeTransceiver) sentBytes() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.sent...)
}
