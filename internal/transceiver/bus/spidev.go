// internal/transceiver/bus/spidev.go
package bus

import (
	"errors"
	"fmt"

	xspi "golang.org/x/exp/io/spi"

	"github.com/tamzrod/spi-handler/internal/spi"
)

// Spidev is a drivers.SPI over a Linux spidev node.
type Spidev struct {
	path string
	dev  *xspi.Device
}

// OpenSpidev opens path (e.g. /dev/spidev0.0) in mode 0 at the default clock.
// Configure applies the unit settings afterwards.
func OpenSpidev(path string) (*Spidev, error) {
	if path == "" {
		return nil, errors.New("spidev: device path required")
	}

	dev, err := xspi.Open(&xspi.Devfs{
		Dev:      path,
		Mode:     xspi.Mode0,
		MaxSpeed: int64(spi.DefaultBaudRate),
	})
	if err != nil {
		return nil, fmt.Errorf("spidev %s: %w", path, err)
	}

	return &Spidev{path: path, dev: dev}, nil
}

// Configure maps resolved settings onto the spidev ioctls.
// Slave role is rejected: spidev is master-only.
func (s *Spidev) Configure(set spi.Settings) error {
	if set.Role == spi.RoleSlave {
		return fmt.Errorf("spidev %s: slave role not supported", s.path)
	}
	if err := s.dev.SetMode(xspi.Mode(set.Mode())); err != nil {
		return fmt.Errorf("spidev %s: mode: %w", s.path, err)
	}
	if err := s.dev.SetMaxSpeed(int(set.BaudRate)); err != nil {
		return fmt.Errorf("spidev %s: speed: %w", s.path, err)
	}
	if err := s.dev.SetBitsPerWord(int(set.DataWidth)); err != nil {
		return fmt.Errorf("spidev %s: bits per word: %w", s.path, err)
	}
	// software NSS keeps chip select asserted between frames
	if err := s.dev.SetCSChange(set.NSS == spi.NSSSoft); err != nil {
		return fmt.Errorf("spidev %s: cs change: %w", s.path, err)
	}
	return nil
}

func (s *Spidev) Tx(w, r []byte) error {
	return s.dev.Tx(w, r)
}

func (s *Spidev) Transfer(b byte) (byte, error) {
	r := make([]byte, 1)
	if err := s.dev.Tx([]byte{b}, r); err != nil {
		return 0, err
	}
	return r[0], nil
}

func (s *Spidev) Close() error {
	return s.dev.Close()
}
