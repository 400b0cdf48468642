// internal/transceiver/builder.go
package transceiver

import (
	"errors"
	"fmt"
	"time"

	cfg "github.com/tamzrod/spi-handler/internal/config"
	"github.com/tamzrod/spi-handler/internal/spi"
	"github.com/tamzrod/spi-handler/internal/transceiver/bus"
	tmodbus "github.com/tamzrod/spi-handler/internal/transceiver/modbus"
	tserial "github.com/tamzrod/spi-handler/internal/transceiver/serial"
)

// Build opens the transport of one unit.
// One attempt, no retries. The engine owns the result through Release.
func Build(u cfg.UnitConfig) (spi.Transceiver, error) {
	timeout := time.Duration(u.TimeoutMs) * time.Millisecond

	switch u.Kind {
	case cfg.KindLoopback:
		return bus.New(&bus.Loopback{}), nil

	case cfg.KindSpidev:
		dev, err := bus.OpenSpidev(u.Device)
		if err != nil {
			return nil, err
		}
		return bus.New(dev), nil

	case cfg.KindModbus:
		return tmodbus.Dial(tmodbus.Config{
			Endpoint:    u.Endpoint,
			Device:      u.Device,
			SerialBaud:  u.SerialBaud,
			SlaveID:     u.SlaveID,
			BaseAddress: u.BaseAddress,
			Timeout:     timeout,
		})

	case cfg.KindSerial:
		return tserial.Open(u.Device, u.SerialBaud, timeout)

	default:
		return nil, fmt.Errorf("transceiver: unknown kind %q", u.Kind)
	}
}

// BuildAll opens every unit in id order.
// On failure the units already opened are released.
// The returned closer releases all units; use it only when the engine never took ownership.
func BuildAll(units []cfg.UnitConfig) ([]spi.Transceiver, func() error, error) {
	out := make([]spi.Transceiver, 0, len(units))

	closeAll := func() error {
		var errs []error
		for _, t := range out {
			if err := t.Release(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	for _, u := range units {
		t, err := Build(u)
		if err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("unit %d (%s): %w", u.ID, u.Kind, err)
		}
		out = append(out, t)
	}

	return out, closeAll, nil
}
