// internal/publisher/client.go
package publisher

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// MaxWriteRegisters is the largest quantity one Write Multiple Registers
// request may carry.
const MaxWriteRegisters = 123

// ErrTooManyRegisters rejects a single request above MaxWriteRegisters.
var ErrTooManyRegisters = errors.New("publisher modbus: too many registers in one request")

// multiWriter is the part of modbus.Client the endpoint uses.
type multiWriter interface {
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// EndpointClient owns one TCP connection to a status endpoint.
// Requests are serialized because the unit id lives on the shared handler.
type EndpointClient struct {
	mu sync.Mutex

	regs    multiWriter
	unitID  func(uint8)
	release func() error
}

type ClientConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// DialEndpoint connects to cfg.Endpoint over Modbus TCP.
func DialEndpoint(cfg ClientConfig) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("publisher modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("publisher modbus: connect %s: %w", cfg.Endpoint, err)
	}

	return newEndpointClient(
		modbus.NewClient(h),
		func(id uint8) { h.SlaveId = id },
		h.Close,
	), nil
}

func newEndpointClient(regs multiWriter, unitID func(uint8), release func() error) *EndpointClient {
	return &EndpointClient{regs: regs, unitID: unitID, release: release}
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.release()
}

// WriteRegisters issues one Write Multiple Registers request.
// Callers split larger spans with chunks.
func (c *EndpointClient) WriteRegisters(slaveID uint8, addr uint16, regs []uint16) error {
	switch {
	case len(regs) == 0:
		return nil
	case len(regs) > MaxWriteRegisters:
		return fmt.Errorf("%w: %d at %d", ErrTooManyRegisters, len(regs), addr)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.unitID(slaveID)

	buf := make([]byte, 0, len(regs)*2)
	for _, r := range regs {
		buf = append(buf, byte(r>>8), byte(r))
	}

	if _, err := c.regs.WriteMultipleRegisters(addr, uint16(len(regs)), buf); err != nil {
		return fmt.Errorf("publisher modbus: write %d registers at %d: %w", len(regs), addr, err)
	}
	return nil
}

// chunks splits [start, end) into spans of at most MaxWriteRegisters.
func chunks(start, end int) []span {
	var out []span
	for start < end {
		n := end - start
		if n > MaxWriteRegisters {
			n = MaxWriteRegisters
		}
		out = append(out, span{start: start, end: start + n})
		start += n
	}
	return out
}
