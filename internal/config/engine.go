// internal/config/engine.go
package config

import (
	"fmt"
	"time"

	"github.com/tamzrod/spi-handler/internal/spi"
	"github.com/tamzrod/spi-handler/internal/status"
)

// Settings maps the unit's bus fields onto engine settings.
// Empty fields stay at their zero value, which the engine resolves to defaults.
func (u UnitConfig) Settings() (spi.Settings, error) {
	s := spi.Settings{BaudRate: u.BaudRate}

	switch u.CPOL {
	case "":
	case "low":
		s.Polarity = spi.PolarityLow
	case "high":
		s.Polarity = spi.PolarityHigh
	default:
		return s, fmt.Errorf("cpol %q must be low or high", u.CPOL)
	}

	switch u.CPHA {
	case "":
	case "first":
		s.Phase = spi.PhaseFirstEdge
	case "second":
		s.Phase = spi.PhaseSecondEdge
	default:
		return s, fmt.Errorf("cpha %q must be first or second", u.CPHA)
	}

	switch u.Role {
	case "":
	case "master":
		s.Role = spi.RoleMaster
	case "slave":
		s.Role = spi.RoleSlave
	default:
		return s, fmt.Errorf("role %q must be master or slave", u.Role)
	}

	switch u.NSS {
	case "":
	case "hard":
		s.NSS = spi.NSSHard
	case "soft":
		s.NSS = spi.NSSSoft
	default:
		return s, fmt.Errorf("nss %q must be hard or soft", u.NSS)
	}

	switch spi.DataWidth(u.DataWidth) {
	case spi.WidthDefault, spi.Width8, spi.Width16:
		s.DataWidth = spi.DataWidth(u.DataWidth)
	default:
		return s, fmt.Errorf("data_width %d must be 8 or 16", u.DataWidth)
	}

	return s, nil
}

// AsyncMode returns the configured completion mode.
func (s SPIConfig) AsyncMode() status.AsyncMode {
	if s.Mode == ModeInterrupt {
		return status.InterruptMode
	}
	return status.PollingMode
}

// Options returns the engine options carried by the file.
func (s SPIConfig) Options() []spi.Option {
	return []spi.Option{
		spi.WithWaitTimeout(time.Duration(s.WaitTimeoutMs) * time.Millisecond),
		spi.WithPollInterval(time.Duration(s.PollIntervalUs) * time.Microsecond),
	}
}

// EngineConfig builds the engine tables.
// transceivers[i] serves unit i. Assumes Validate has passed.
func (s SPIConfig) EngineConfig(transceivers []spi.Transceiver) (*spi.Config, error) {
	if len(transceivers) != len(s.Units) {
		return nil, fmt.Errorf("config: %d transceivers for %d units", len(transceivers), len(s.Units))
	}

	out := &spi.Config{}

	for i, u := range s.Units {
		settings, err := u.Settings()
		if err != nil {
			return nil, fmt.Errorf("unit %d: %w", u.ID, err)
		}
		out.Units = append(out.Units, spi.HWUnit{
			ID:          spi.HWUnitID(u.ID),
			Transceiver: transceivers[i],
			Settings:    settings,
		})
	}

	for _, c := range s.Channels {
		out.Channels = append(out.Channels, spi.Channel{
			ID:      spi.ChannelID(c.ID),
			Unit:    spi.HWUnitID(c.Unit),
			Default: c.Default,
		})
	}

	for _, j := range s.Jobs {
		data := make([]byte, len(j.Data))
		for k, b := range j.Data {
			data[k] = byte(b)
		}
		out.Jobs = append(out.Jobs, spi.Job{
			ID:      spi.JobID(j.ID),
			Channel: spi.ChannelID(j.Channel),
			Data:    data,
		})
	}

	for _, sq := range s.Sequences {
		jobs := make([]spi.JobID, len(sq.Jobs))
		for k, jid := range sq.Jobs {
			jobs[k] = spi.JobID(jid)
		}
		out.Sequences = append(out.Sequences, spi.Sequence{
			ID:   spi.SequenceID(sq.ID),
			Jobs: jobs,
		})
	}

	return out, nil
}
