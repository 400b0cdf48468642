// internal/transceiver/bus/transceiver.go
package bus

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"tinygo.org/x/drivers"

	"github.com/tamzrod/spi-handler/internal/spi"
)

// Configurer is implemented by buses whose clock and frame format can be changed.
type Configurer interface {
	Configure(s spi.Settings) error
}

var (
	errDisabled = errors.New("bus: unit disabled")
	errNoData   = errors.New("bus: no received data")
)

// Transceiver drives one SPI unit over a full-duplex drivers.SPI bus.
//
// Every Transmit is a single Transfer; the byte clocked in is latched and
// reported by DataAvailable until Receive or Disable.
type Transceiver struct {
	bus drivers.SPI

	mu       sync.Mutex
	settings spi.Settings
	enabled  bool
	rx       byte
	rxValid  bool
	irq      bool

	busy atomic.Bool
}

// New wraps bus. The unit starts disabled.
func New(bus drivers.SPI) *Transceiver {
	return &Transceiver{bus: bus}
}

// Settings returns the last applied settings.
func (t *Transceiver) Settings() spi.Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings
}

// ---- spi.Transceiver ----

func (t *Transceiver) Configure(s spi.Settings) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if c, ok := t.bus.(Configurer); ok {
		if err := c.Configure(s); err != nil {
			return err
		}
	}
	t.settings = s
	return nil
}

// Release disables the unit and closes the bus if it can be closed.
func (t *Transceiver) Release() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = false
	t.rxValid = false
	t.irq = false

	if c, ok := t.bus.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *Transceiver) ReadyToTransmit() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled && !t.busy.Load(), nil
}

func (t *Transceiver) DataAvailable() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rxValid, nil
}

func (t *Transceiver) Transmit(b byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.enabled {
		return errDisabled
	}

	t.busy.Store(true)
	in, err := t.bus.Transfer(b)
	t.busy.Store(false)
	if err != nil {
		return err
	}

	t.rx = in
	t.rxValid = true
	return nil
}

func (t *Transceiver) Receive() (byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.rxValid {
		return 0, errNoData
	}
	t.rxValid = false
	return t.rx, nil
}

// Busy does not take the unit lock so it can be read during a transfer.
func (t *Transceiver) Busy() (bool, error) {
	return t.busy.Load(), nil
}

func (t *Transceiver) Disable() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = false
	t.rxValid = false
	return nil
}

func (t *Transceiver) Enable() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = true
	return nil
}

// ---- spi.InterruptController ----

// SetInterrupts only records the flag: transfers complete synchronously.
func (t *Transceiver) SetInterrupts(enabled bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.irq = enabled
	return nil
}
