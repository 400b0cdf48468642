// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultWaitTimeoutMs  = 1000
	DefaultPollIntervalUs = 50
	DefaultUnitTimeoutMs  = 1000
	DefaultSerialBaud     = 115200
	DefaultIntervalMs     = 1000
	DefaultStatusTimeout  = 1000
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	s := &cfg.SPI
	if s.WaitTimeoutMs == 0 {
		s.WaitTimeoutMs = DefaultWaitTimeoutMs
	}
	if s.PollIntervalUs == 0 {
		s.PollIntervalUs = DefaultPollIntervalUs
	}
	if s.Mode == "" {
		s.Mode = ModePolling
	}

	for ui := range s.Units {
		u := &s.Units[ui]

		if u.TimeoutMs == 0 {
			u.TimeoutMs = DefaultUnitTimeoutMs
		}
		// only serial transports use the UART baud rate
		if u.SerialBaud == 0 && u.Device != "" && (u.Kind == KindSerial || u.Kind == KindModbus) {
			u.SerialBaud = DefaultSerialBaud
		}

		// Bus settings stay empty: the engine resolves its own defaults.
	}

	if cfg.Schedule.IntervalMs == 0 {
		cfg.Schedule.IntervalMs = DefaultIntervalMs
	}

	if cfg.Status != nil && cfg.Status.TimeoutMs == 0 {
		cfg.Status.TimeoutMs = DefaultStatusTimeout
	}
}
