// internal/transceiver/modbus/dial.go
package modbus

import (
	"errors"
	"time"

	"github.com/goburrow/modbus"
)

// Config selects the bridge transport.
// Endpoint (host:port) selects Modbus TCP, Device (serial path) selects RTU.
type Config struct {
	Endpoint    string
	Device      string
	SerialBaud  int
	SlaveID     uint8
	BaseAddress uint16
	Timeout     time.Duration
}

// Dial connects to the bridge and returns a transceiver owning the connection.
func Dial(cfg Config) (*Transceiver, error) {
	switch {
	case cfg.Endpoint != "" && cfg.Device != "":
		return nil, errors.New("modbus bridge: endpoint and device are exclusive")

	case cfg.Endpoint != "":
		h := modbus.NewTCPClientHandler(cfg.Endpoint)
		h.Timeout = cfg.Timeout
		h.SlaveId = cfg.SlaveID

		if err := h.Connect(); err != nil {
			return nil, err
		}
		return NewTransceiver(modbus.NewClient(h), cfg.BaseAddress, h.Close), nil

	case cfg.Device != "":
		h := modbus.NewRTUClientHandler(cfg.Device)
		h.BaudRate = cfg.SerialBaud
		h.DataBits = 8
		h.Parity = "E"
		h.StopBits = 1
		h.Timeout = cfg.Timeout
		h.SlaveId = cfg.SlaveID

		if err := h.Connect(); err != nil {
			return nil, err
		}
		return NewTransceiver(modbus.NewClient(h), cfg.BaseAddress, h.Close), nil

	default:
		return nil, errors.New("modbus bridge: endpoint or device required")
	}
}
