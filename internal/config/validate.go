// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/tamzrod/spi-handler/internal/status"
)

// Mode names.
const (
	ModePolling   = "polling"
	ModeInterrupt = "interrupt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: empty")
	}
	s := cfg.SPI

	// ------------------------------------------------------------
	// ENGINE OPTIONS
	// ------------------------------------------------------------

	if s.WaitTimeoutMs < 0 {
		return fmt.Errorf("spi: wait_timeout_ms must not be negative (got %d)", s.WaitTimeoutMs)
	}
	if s.PollIntervalUs < 0 {
		return fmt.Errorf("spi: poll_interval_us must not be negative (got %d)", s.PollIntervalUs)
	}
	switch s.Mode {
	case "", ModePolling, ModeInterrupt:
	default:
		return fmt.Errorf("spi: mode %q must be %q or %q", s.Mode, ModePolling, ModeInterrupt)
	}

	// ------------------------------------------------------------
	// UNITS
	// ------------------------------------------------------------

	if len(s.Units) == 0 {
		return fmt.Errorf("spi: at least one unit is required")
	}

	for i, u := range s.Units {
		if int(u.ID) != i {
			return fmt.Errorf("unit %d: ids must be dense, expected id %d at position %d", u.ID, i, i)
		}
		if err := validateUnit(u); err != nil {
			return err
		}
	}

	// ------------------------------------------------------------
	// CHANNELS / JOBS / SEQUENCES
	// ------------------------------------------------------------

	for i, c := range s.Channels {
		if int(c.ID) != i {
			return fmt.Errorf("channel %d: ids must be dense, expected id %d at position %d", c.ID, i, i)
		}
		if int(c.Unit) >= len(s.Units) {
			return fmt.Errorf("channel %d: unknown unit %d", c.ID, c.Unit)
		}
	}

	for i, j := range s.Jobs {
		if int(j.ID) != i {
			return fmt.Errorf("job %d: ids must be dense, expected id %d at position %d", j.ID, i, i)
		}
		if int(j.Channel) >= len(s.Channels) {
			return fmt.Errorf("job %d: unknown channel %d", j.ID, j.Channel)
		}
		for k, b := range j.Data {
			if b < 0 || b > 0xFF {
				return fmt.Errorf("job %d: data[%d]=%d is not a byte", j.ID, k, b)
			}
		}
	}

	for i, sq := range s.Sequences {
		if int(sq.ID) != i {
			return fmt.Errorf("sequence %d: ids must be dense, expected id %d at position %d", sq.ID, i, i)
		}
		if len(sq.Jobs) == 0 {
			return fmt.Errorf("sequence %d: no jobs", sq.ID)
		}
		for _, jid := range sq.Jobs {
			if int(jid) >= len(s.Jobs) {
				return fmt.Errorf("sequence %d: unknown job %d", sq.ID, jid)
			}
		}
	}

	// ------------------------------------------------------------
	// SCHEDULE
	// ------------------------------------------------------------

	if cfg.Schedule.IntervalMs < 0 {
		return fmt.Errorf("schedule: interval_ms must not be negative (got %d)", cfg.Schedule.IntervalMs)
	}
	for _, sid := range cfg.Schedule.Sequences {
		if int(sid) >= len(s.Sequences) {
			return fmt.Errorf("schedule: unknown sequence %d", sid)
		}
	}

	// ------------------------------------------------------------
	// STATUS BLOCK (OPT-IN)
	// ------------------------------------------------------------

	if st := cfg.Status; st != nil {
		if st.Endpoint == "" {
			return fmt.Errorf("status: endpoint is required")
		}
		if st.TimeoutMs < 0 {
			return fmt.Errorf("status: timeout_ms must not be negative (got %d)", st.TimeoutMs)
		}

		size := status.BlockSize(len(s.Sequences), len(s.Jobs))
		if int(st.BaseAddress)+size > 0x10000 {
			return fmt.Errorf(
				"status: block of %d registers at base_address %d exceeds the register space",
				size,
				st.BaseAddress,
			)
		}
	}

	return nil
}

func validateUnit(u UnitConfig) error {
	switch u.Kind {
	case KindLoopback:
	case KindSpidev:
		if u.Device == "" {
			return fmt.Errorf("unit %d: kind %q requires device", u.ID, u.Kind)
		}
	case KindModbus:
		if (u.Endpoint == "") == (u.Device == "") {
			return fmt.Errorf("unit %d: kind %q requires exactly one of endpoint or device", u.ID, u.Kind)
		}
	case KindSerial:
		if u.Device == "" {
			return fmt.Errorf("unit %d: kind %q requires device", u.ID, u.Kind)
		}
	default:
		return fmt.Errorf("unit %d: unknown kind %q", u.ID, u.Kind)
	}

	if u.TimeoutMs < 0 || u.SerialBaud < 0 {
		return fmt.Errorf("unit %d: timeout_ms and serial_baud must not be negative", u.ID)
	}

	if _, err := u.Settings(); err != nil {
		return fmt.Errorf("unit %d: %w", u.ID, err)
	}
	return nil
}
