// internal/transceiver/modbus/transceiver.go
package modbus

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tamzrod/spi-handler/internal/spi"
)

// ---- bridge register map (offsets from the base address) ----

const (
	RegControl uint16 = 0
	RegStatus  uint16 = 1
	RegTX      uint16 = 2
	RegRX      uint16 = 3
	RegBaudHi  uint16 = 4
	RegBaudLo  uint16 = 5
	RegFormat  uint16 = 6
)

// control register bits
const (
	CtrlEnable uint16 = 1 << 0
	CtrlIRQ    uint16 = 1 << 1
)

// status register bits
const (
	StatusTXE  uint16 = 1 << 0
	StatusRXNE uint16 = 1 << 1
	StatusBSY  uint16 = 1 << 2
)

// format register bits
const (
	FormatCPOL    uint16 = 1 << 0
	FormatCPHA    uint16 = 1 << 1
	FormatSlave   uint16 = 1 << 2
	FormatSoftNSS uint16 = 1 << 3
	Format16Bit   uint16 = 1 << 4
)

// Client is the part of the goburrow modbus.Client the bridge needs.
type Client interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteSingleRegister(address, value uint16) ([]byte, error)
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// Transceiver drives one SPI unit exposed by a Modbus bridge.
// Requests are serialized; the control register is shadowed so enable and
// interrupt bits can be changed independently.
type Transceiver struct {
	mu      sync.Mutex
	client  Client
	closer  func() error
	base    uint16
	control uint16
}

// NewTransceiver wraps an already connected client.
// closer may be nil.
func NewTransceiver(client Client, base uint16, closer func() error) *Transceiver {
	return &Transceiver{client: client, base: base, closer: closer}
}

// ---- spi.Transceiver ----

// Configure writes baud rate and frame format in one request.
func (t *Transceiver) Configure(s spi.Settings) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	regs := []uint16{
		uint16(s.BaudRate >> 16),
		uint16(s.BaudRate),
		encodeFormat(s),
	}
	_, err := t.client.WriteMultipleRegisters(t.base+RegBaudHi, uint16(len(regs)), packRegisters(regs))
	if err != nil {
		return fmt.Errorf("modbus bridge: configure: %w", err)
	}
	return nil
}

// Release clears the control register and closes the connection.
func (t *Transceiver) Release() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.control = 0
	_, werr := t.client.WriteSingleRegister(t.base+RegControl, 0)

	var cerr error
	if t.closer != nil {
		cerr = t.closer()
	}
	return errors.Join(werr, cerr)
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
	t.mu.Lock()
	defer t.mu.Unlock()

	_, err := t.client.WriteSingleRegister(t.base+RegTX, uint16(b))
	return err
}

func (t *Transceiver) Receive() (byte, error) {
	v, err := t.readRegister(RegRX)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

func (t *Transceiver) Disable() error {
	return t.updateControl(CtrlEnable, false)
}

func (t *Transceiver) Enable() error {
	return t.updateControl(CtrlEnable, true)
}

// ---- spi.InterruptController ----

func (t *Transceiver) SetInterrupts(enabled bool) error {
	return t.updateControl(CtrlIRQ, enabled)
}

// ---- helpers ----

func (t *Transceiver) statusBit(bit uint16) (bool, error) {
	v, err := t.readRegister(RegStatus)
	if err != nil {
		return false, err
	}
	return v&bit != 0, nil
}

func (t *Transceiver) readRegister(off uint16) (uint16, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	raw, err := t.client.ReadHoldingRegisters(t.base+off, 1)
	if err != nil {
		return 0, err
	}
	if len(raw) < 2 {
		return 0, fmt.Errorf("modbus bridge: short read at register %d", t.base+off)
	}
	return uint16(raw[0])<<8 | uint16(raw[1]), nil
}

// updateControl keeps the shadow unchanged when the write fails.
func (t *Transceiver) updateControl(bit uint16, set bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.control &^ bit
	if set {
		next |= bit
	}

	if _, err := t.client.WriteSingleRegister(t.base+RegControl, next); err != nil {
		return err
	}
	t.control = next
	return nil
}

func encodeFormat(s spi.Settings) uint16 {
	var f uint16
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

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
