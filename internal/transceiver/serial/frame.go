// internal/transceiver/serial/frame.go
package serial

import (
	"errors"
	"fmt"
)

// ---- wire format ----
//
// request: [0xA5, op, arg, xor(0xA5, op, arg)]
// reply:   [0x5A, status, data]

const (
	requestStart byte = 0xA5
	replyStart   byte = 0x5A

	requestSize = 4
	replySize   = 3
)

// Op is a bridge command.
type Op byte

const (
	OpStatus   Op = 0x01
	OpTransmit Op = 0x02
	OpReceive  Op = 0x03
	OpEnable   Op = 0x04
	OpDisable  Op = 0x05
	OpIRQ      Op = 0x06
	OpFormat   Op = 0x07
	OpBaud     Op = 0x08
	OpReset    Op = 0x09
)

// status byte bits
const (
	StatusTXE  byte = 1 << 0
	StatusRXNE byte = 1 << 1
	StatusBSY  byte = 1 << 2
	StatusNAK  byte = 1 << 7
)

// format argument bits
const (
	FormatCPOL    byte = 1 << 0
	FormatCPHA    byte = 1 << 1
	FormatSlave   byte = 1 << 2
	FormatSoftNSS byte = 1 << 3
	Format16Bit   byte = 1 << 4
)

// BaudUnit is the resolution of the OpBaud argument.
const BaudUnit = 100_000

var ErrNAK = errors.New("serial bridge: command rejected")

// Reply is one decoded bridge reply.
type Reply struct {
	Status byte
	Data   byte
}

// EncodeRequest builds one request frame.
// No IO. No side effects.
func EncodeRequest(op Op, arg byte) [requestSize]byte {
	return [requestSize]byte{requestStart, byte(op), arg, requestStart ^ byte(op) ^ arg}
}

// DecodeReply validates and decodes one reply frame.
func DecodeReply(b []byte) (Reply, error) {
	if len(b) != replySize {
		return Reply{}, fmt.Errorf("serial bridge: reply length %d", len(b))
	}
	if b[0] != replyStart {
		return Reply{}, fmt.Errorf("serial bridge: bad reply start %#02x", b[0])
	}
	r := Reply{Status: b[1], Data: b[2]}
	if r.Status&StatusNAK != 0 {
		return r, ErrNAK
	}
	return r, nil
}
