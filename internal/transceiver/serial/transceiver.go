// internal/transceiver/serial/transceiver.go
package serial

import (
	"fmt"
	"io"
	"sync"
	"time"

	tarm "github.com/tarm/serial"

	"github.com/tamzrod/spi-handler/internal/spi"
)

// Transceiver drives one SPI unit behind a UART bridge.
// One request is in flight at a time.
type Transceiver struct {
	mu   sync.Mutex
	port io.ReadWriter
}

// New wraps an open port. If port is an io.Closer, Release closes it.
func New(port io.ReadWriter) *Transceiver {
	return &Transceiver{port: port}
}

// Open opens device with tarm/serial.
func Open(device string, baud int, timeout time.Duration) (*Transceiver, error) {
	p, err := tarm.OpenPort(&tarm.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", device, err)
	}
	return New(p), nil
}

// ---- spi.Transceiver ----

func (t *Transceiver) Configure(s spi.Settings) error {
	units := s.BaudRate / BaudUnit
	if units == 0 || units > 0xFF {
		return fmt.Errorf("serial bridge: baud rate %d out of range", s.BaudRate)
	}

	if _, err := t.command(OpBaud, byte(units)); err != nil {
		return err
	}
	_, err := t.command(OpFormat, encodeFormat(s))
	return err
}

func (t *Transceiver) Release() error {
	_, err := t.command(OpReset, 0)

	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.port.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (t *Transceiver) ReadyToTransmit() (bool, error) {
	return t.statusBit(StatusTXE)
}

func (t *Transceiver) DataAvailable() (bool, error) {
	return t.statusBit(StatusRXNE)
}

func (t *Transceiver) Busy() (bool, error) {
	return t.statusBit(StatusBSY)
}

func (t *Transceiver) Transmit(b byte) error {
	_, err := t.command(OpTransmit, b)
	return err
}

func (t *Transceiver) Receive() (byte, error) {
	r, err := t.command(OpReceive, 0)
	if err != nil {
		return 0, err
	}
	return r.Data, nil
}

func (t *Transceiver) Disable() error {
	_, err := t.command(OpDisable, 0)
	return err
}

func (t *Transceiver) Enable() error {
	_, err := t.command(OpEnable, 0)
	return err
}

// ---- spi.InterruptController ----

func (t *Transceiver) SetInterrupts(enabled bool) error {
	var arg byte
	if enabled {
		arg = 1
	}
	_, err := t.command(OpIRQ, arg)
	return err
}

// ---- helpers ----

func (t *Transceiver) statusBit(bit byte) (bool, error) {
	r, err := t.command(OpStatus, 0)
	if err != nil {
		return false, err
	}
	return r.Status&bit != 0, nil
}

// command performs one request/reply round trip.
func (t *Transceiver) command(op Op, arg byte) (Reply, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	req := EncodeRequest(op, arg)
	if _, err := t.port.Write(req[:]); err != nil {
		return Reply{}, fmt.Errorf("serial bridge: op %#02x: %w", byte(op), err)
	}

	buf := make([]byte, replySize)
	if _, err := io.ReadFull(t.port, buf); err != nil {
		return Reply{}, fmt.Errorf("serial bridge: op %#02x: %w", byte(op), err)
	}

	r, err := DecodeReply(buf)
	if err != nil {
		return r, fmt.Errorf("op %#02x: %w", byte(op), err)
	}
	return r, nil
}

func encodeFormat(s spi.Settings) byte {
	var f byte
	if s.Polarity == spi.PolarityHigh {
		f |= FormatCPOL
	}
	if s.Phase == spi.PhaseSecondEdge {
		f |= FormatCPHA
	}
	if s.Role == spi.RoleSlave {
		f |= FormatSlave
	}
	if s.NSS == spi.NSSSoft {
		f |= FormatSoftNSS
	}
	if s.DataWidth == spi.Width16 {
		f |= Format16Bit
	}
	return f
}
