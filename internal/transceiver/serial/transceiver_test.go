package serial

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tamzrod/spi-handler/internal/spi"
)

// fakePort is a bridge that answers every request from a register model.
type fakePort struct {
	status  byte
	rx      byte
	nakOp   Op
	written [][requestSize]byte
	pending bytes.Buffer
	closed  bool
	badSum  bool
}

func (p *fakePort) Write(b []byte) (int, error) {
	var req [requestSize]byte
	copy(req[:], b)
	p.written = append(p.written, req)

	if req[3] != req[0]^req[1]^req[2] {
		p.badSum = true
	}

	status := p.status
	data := byte(0)
	switch Op(req[1]) {
	case OpReceive:
		data = p.rx
	case OpTransmit:
		p.rx = req[2] + 1
		status |= StatusRXNE
	}
	if Op(req[1]) == p.nakOp {
		status |= StatusNAK
	}

	p.pending.Write([]byte{replyStart, status, data})
	return len(b), nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	return p.pending.Read(b)
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func (p *fakePort) ops() []Op {
	out := make([]Op, 0, len(p.written))
	for _, w := range p.written {
		out = append(out, Op(w[1]))
	}
	return out
}

func TestEncodeDecode(t *testing.T) {
	req := EncodeRequest(OpTransmit, 0x10)
	if req != [requestSize]byte{0xA5, 0x02, 0x10, 0xA5 ^ 0x02 ^ 0x10} {
		t.Fatalf("unexpected frame %#v", req)
	}

	r, err := DecodeReply([]byte{0x5A, StatusTXE, 0x33})
	if err != nil || r.Status != StatusTXE || r.Data != 0x33 {
		t.Fatalf("unexpected reply %+v err=%v", r, err)
	}

	if _, err := DecodeReply([]byte{0x00, 0, 0}); err == nil {
		t.Fatalf("expected bad start error")
	}
	if _, err := DecodeReply([]byte{0x5A, 0}); err == nil {
		t.Fatalf("expected length error")
	}
	if _, err := DecodeReply([]byte{0x5A, StatusNAK, 0}); !errors.Is(err, ErrNAK) {
		t.Fatalf("expected ErrNAK, got %v", err)
	}
}

func TestTransceiver_RoundTrips(t *testing.T) {
	p := &fakePort{status: StatusTXE}
	tr := New(p)

	if ok, err := tr.ReadyToTransmit(); err != nil || !ok {
		t.Fatalf("expected ready, got %v err=%v", ok, err)
	}
	if err := tr.Transmit(0x20); err != nil {
		t.Fatalf("Transmit err=%v", err)
	}
	b, err := tr.Receive()
	if err != nil || b != 0x21 {
		t.Fatalf("expected 0x21, got %#x err=%v", b, err)
	}
	if busy, _ := tr.Busy(); busy {
		t.Fatalf("expected idle")
	}
	if p.badSum {
		t.Fatalf("request checksum mismatch")
	}
}

func TestTransceiver_Configure(t *testing.T) {
	p := &fakePort{}
	tr := New(p)

	s := spi.Settings{Polarity: spi.PolarityHigh, NSS: spi.NSSSoft}.WithDefaults()
	if err := tr.Configure(s); err != nil {
		t.Fatalf("Configure err=%v", err)
	}

	if len(p.written) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(p.written))
	}
	if p.written[0][1] != byte(OpBaud) || p.written[0][2] != 10 {
		t.Fatalf("expected baud 10 units, got %#v", p.written[0])
	}
	if p.written[1][1] != byte(OpFormat) || p.written[1][2] != FormatCPOL|FormatSoftNSS {
		t.Fatalf("unexpected format request %#v", p.written[1])
	}

	if err := tr.Configure(spi.Settings{BaudRate: 50_000}); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestTransceiver_ControlAndRelease(t *testing.T) {
	p := &fakePort{}
	tr := New(p)

	_ = tr.Enable()
	_ = tr.SetInterrupts(true)
	_ = tr.Disable()
	if err := tr.Release(); err != nil {
		t.Fatalf("Release err=%v", err)
	}

	want := []Op{OpEnable, OpIRQ, OpDisable, OpReset}
	got := p.ops()
	if len(got) != len(want) {
		t.Fatalf("ops: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ops: got=%v want=%v", got, want)
		}
	}
	if p.written[1][2] != 1 {
		t.Fatalf("expected irq arg 1, got %d", p.written[1][2])
	}
	if !p.closed {
		t.Fatalf("expected port closed")
	}
}

func TestTransceiver_NAK(t *testing.T) {
	p := &fakePort{nakOp: OpEnable}
	tr := New(p)

	if err := tr.Enable(); !errors.Is(err, ErrNAK) {
		t.Fatalf("expected ErrNAK, got %v", err)
	}
}
