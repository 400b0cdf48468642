// internal/transceiver/bus/loopback.go
package bus

import (
	"errors"
	"sync"
)

// Loopback is an in-memory drivers.SPI with MOSI wired to MISO.
// It keeps every byte clocked out, for dry runs.
type Loopback struct {
	mu  sync.Mutex
	out []byte
}

func (l *Loopback) Tx(w, r []byte) error {
	if w != nil && r != nil && len(w) != len(r) {
		return errors.New("loopback: tx buffers differ in length")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		for i := range r {
			r[i] = 0
		}
		l.out = append(l.out, r...)
		return nil
	}

	l.out = append(l.out, w...)
	copy(r, w)
	return nil
}

func (l *Loopback) Transfer(b byte) (byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = append(l.out, b)
	return b, nil
}

// Sent returns a copy of every byte clocked out so far.
func (l *Loopback) Sent() []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]byte(nil), l.out...)
}
