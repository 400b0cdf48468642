package modbus

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tamzrod/spi-handler/internal/spi"
)

// ---- fake bridge ----

type write struct {
	addr uint16
	regs []uint16
}

// fakeClient models the bridge as a register file.
type fakeClient struct {
	regs    map[uint16]uint16
	writes  []write
	readErr error
	failAt  uint16
	failErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{regs: map[uint16]uint16{}}
}

func (f *fakeClient) ReadHoldingRegisters(addr, qty uint16) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := make([]byte, 0, qty*2)
	for i := uint16(0); i < qty; i++ {
		v := f.regs[addr+i]
		out = append(out, byte(v>>8), byte(v))
	}
	return out, nil
}

func (f *fakeClient) WriteSingleRegister(addr, value uint16) ([]byte, error) {
	if f.failErr != nil && addr == f.failAt {
		return nil, f.failErr
	}
	f.regs[addr] = value
	f.writes = append(f.writes, write{addr: addr, regs: []uint16{value}})
	return nil, nil
}

func (f *fakeClient) WriteMultipleRegisters(addr, qty uint16, value []byte) ([]byte, error) {
	if f.failErr != nil && addr == f.failAt {
		return nil, f.failErr
	}
	regs := make([]uint16, qty)
	for i := range regs {
		regs[i] = uint16(value[2*i])<<8 | uint16(value[2*i+1])
		f.regs[addr+uint16(i)] = regs[i]
	}
	f.writes = append(f.writes, write{addr: addr, regs: regs})
	return nil, nil
}

const base = 100

// ---- tests ----

func TestConfigure_WritesBaudAndFormat(t *testing.T) {
	fc := newFakeClient()
	tr := NewTransceiver(fc, base, nil)

	s := spi.Settings{
		BaudRate:  4_000_000,
		Polarity:  spi.PolarityHigh,
		Phase:     spi.PhaseSecondEdge,
		NSS:       spi.NSSSoft,
		DataWidth: spi.Width16,
	}.WithDefaults()

	if err := tr.Configure(s); err != nil {
		t.Fatalf("Configure err=%v", err)
	}

	want := write{
		addr: base + RegBaudHi,
		regs: []uint16{0x003D, 0x0900, FormatCPOL | FormatCPHA | FormatSoftNSS | Format16Bit},
	}
	if len(fc.writes) != 1 || !reflect.DeepEqual(fc.writes[0], want) {
		t.Fatalf("configure write: got=%+v want=%+v", fc.writes, want)
	}
}

func TestStatusBits(t *testing.T) {
	fc := newFakeClient()
	tr := NewTransceiver(fc, base, nil)

	fc.regs[base+RegStatus] = StatusTXE | StatusBSY

	if ok, err := tr.ReadyToTransmit(); err != nil || !ok {
		t.Fatalf("expected TXE set, got %v err=%v", ok, err)
	}
	if ok, _ := tr.DataAvailable(); ok {
		t.Fatalf("expected RXNE clear")
	}
	if ok, _ := tr.Busy(); !ok {
		t.Fatalf("expected BSY set")
	}

	fc.readErr = errors.New("timeout")
	if _, err := tr.Busy(); err == nil {
		t.Fatalf("expected read error to surface")
	}
}

func TestTransmitReceive(t *testing.T) {
	fc := newFakeClient()
	tr := NewTransceiver(fc, base, nil)

	if err := tr.Transmit(0x10); err != nil {
		t.Fatalf("Transmit err=%v", err)
	}
	if got := fc.regs[base+RegTX]; got != 0x10 {
		t.Fatalf("expected TX register 0x10, got %#x", got)
	}

	fc.regs[base+RegRX] = 0x0142
	b, err := tr.Receive()
	if err != nil || b != 0x42 {
		t.Fatalf("expected 0x42, got %#x err=%v", b, err)
	}
}

func TestControlShadow(t *testing.T) {
	fc := newFakeClient()
	tr := NewTransceiver(fc, base, nil)

	_ = tr.Enable()
	_ = tr.SetInterrupts(true)
	if got := fc.regs[base+RegControl]; got != CtrlEnable|CtrlIRQ {
		t.Fatalf("expected enable|irq, got %#x", got)
	}

	_ = tr.Disable()
	if got := fc.regs[base+RegControl]; got != CtrlIRQ {
		t.Fatalf("disable must keep irq bit, got %#x", got)
	}

	fc.failAt = base + RegControl
	fc.failErr = errors.New("link down")
	if err := tr.Enable(); err == nil {
		t.Fatalf("expected error, got nil")
	}

	fc.failErr = nil
	_ = tr.SetInterrupts(false)
	if got := fc.regs[base+RegControl]; got != 0 {
		t.Fatalf("failed enable must not reach the shadow, got %#x", got)
	}
}

func TestRelease(t *testing.T) {
	fc := newFakeClient()
	closed := false
	tr := NewTransceiver(fc, base, func() error { closed = true; return nil })

	_ = tr.Enable()
	if err := tr.Release(); err != nil {
		t.Fatalf("Release err=%v", err)
	}
	if fc.regs[base+RegControl] != 0 {
		t.Fatalf("expected control cleared")
	}
	if !closed {
		t.Fatalf("expected connection closed")
	}
}

func TestDial_RequiresOneTransport(t *testing.T) {
	if _, err := Dial(Config{}); err == nil {
		t.Fatalf("expected error without transport")
	}
	if _, err := Dial(Config{Endpoint: "127.0.0.1:502", Device: "/dev/ttyUSB0"}); err == nil {
		t.Fatalf("expected error with both transports")
	}
}
