// internal/config/validate_test.go
package config

import (
	"strings"
	"testing"

	"github.com/tamzrod/spi-handler/internal/spi"
)

// helper to build a valid two-unit config quickly
func validConfig() *Config {
	return &Config{
		SPI: SPIConfig{
			Units: []UnitConfig{
				{ID: 0, Kind: KindLoopback},
				{ID: 1, Kind: KindModbus, Endpoint: "127.0.0.1:5020", CPOL: "high", DataWidth: 16},
			},
			Channels: []ChannelConfig{
				{ID: 0, Unit: 0, Default: 0xAA},
				{ID: 1, Unit: 1},
			},
			Jobs: []JobConfig{
				{ID: 0, Channel: 0, Data: []int{0x10}},
				{ID: 1, Channel: 1},
			},
			Sequences: []SequenceConfig{
				{ID: 0, Jobs: []uint16{0, 1}},
			},
		},
		Schedule: ScheduleConfig{Sequences: []uint8{0}},
	}
}

func expectError(t *testing.T, cfg *Config, contains string) {
	t.Helper()
	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", contains)
	}
	if !strings.Contains(err.Error(), contains) {
		t.Fatalf("expected error containing %q, got %v", contains, err)
	}
}

// ---- tests ----

func TestValidate_OK(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	cfg := validConfig()
	_ = Validate(cfg)

	if cfg.SPI.Mode != "" || cfg.SPI.WaitTimeoutMs != 0 || cfg.Schedule.IntervalMs != 0 {
		t.Fatalf("Validate must not fill defaults")
	}
}

func TestValidate_SparseIDs(t *testing.T) {
	cfg := validConfig()
	cfg.SPI.Jobs[1].ID = 5
	expectError(t, cfg, "job 5")
}

func TestValidate_UnknownReferences(t *testing.T) {
	cfg := validConfig()
	cfg.SPI.Channels[1].Unit = 7
	expectError(t, cfg, "channel 1: unknown unit 7")

	cfg = validConfig()
	cfg.SPI.Jobs[0].Channel = 3
	expectError(t, cfg, "job 0: unknown channel 3")

	cfg = validConfig()
	cfg.SPI.Sequences[0].Jobs = []uint16{0, 9}
	expectError(t, cfg, "sequence 0: unknown job 9")

	cfg = validConfig()
	cfg.Schedule.Sequences = []uint8{4}
	expectError(t, cfg, "schedule: unknown sequence 4")
}

func TestValidate_EmptySequence(t *testing.T) {
	cfg := validConfig()
	cfg.SPI.Sequences[0].Jobs = nil
	expectError(t, cfg, "no jobs")
}

func TestValidate_DataNotAByte(t *testing.T) {
	cfg := validConfig()
	cfg.SPI.Jobs[0].Data = []int{0x10, 300}
	expectError(t, cfg, "data[1]=300")
}

func TestValidate_UnitKinds(t *testing.T) {
	cfg := validConfig()
	cfg.SPI.Units[0].Kind = "dma"
	expectError(t, cfg, `unknown kind "dma"`)

	cfg = validConfig()
	cfg.SPI.Units[0] = UnitConfig{ID: 0, Kind: KindSpidev}
	expectError(t, cfg, "requires device")

	cfg = validConfig()
	cfg.SPI.Units[1].Device = "/dev/ttyUSB0"
	expectError(t, cfg, "exactly one of endpoint or device")
}

func TestValidate_BusSettings(t *testing.T) {
	cfg := validConfig()
	cfg.SPI.Units[0].CPHA = "third"
	expectError(t, cfg, "cpha")

	cfg = validConfig()
	cfg.SPI.Units[0].DataWidth = 12
	expectError(t, cfg, "data_width")
}

func TestValidate_Mode(t *testing.T) {
	cfg := validConfig()
	cfg.SPI.Mode = "dma"
	expectError(t, cfg, "mode")
}

func TestValidate_StatusBlock(t *testing.T) {
	cfg := validConfig()
	cfg.Status = &StatusConfig{}
	expectError(t, cfg, "endpoint is required")

	cfg = validConfig()
	cfg.Status = &StatusConfig{Endpoint: "127.0.0.1:502", BaseAddress: 0xFFFE}
	expectError(t, cfg, "exceeds the register space")
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := validConfig()
	cfg.SPI.Units = append(cfg.SPI.Units, UnitConfig{ID: 2, Kind: KindSerial, Device: "/dev/ttyUSB0"})
	cfg.Status = &StatusConfig{Endpoint: "127.0.0.1:502"}

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Normalize(cfg)

	if cfg.SPI.Mode != ModePolling {
		t.Fatalf("expected polling mode, got %q", cfg.SPI.Mode)
	}
	if cfg.SPI.WaitTimeoutMs != DefaultWaitTimeoutMs || cfg.SPI.PollIntervalUs != DefaultPollIntervalUs {
		t.Fatalf("expected engine defaults, got %+v", cfg.SPI)
	}
	if cfg.SPI.Units[2].SerialBaud != DefaultSerialBaud {
		t.Fatalf("expected serial baud default, got %d", cfg.SPI.Units[2].SerialBaud)
	}
	if cfg.SPI.Units[0].SerialBaud != 0 {
		t.Fatalf("loopback unit must not get a serial baud")
	}
	if cfg.Schedule.IntervalMs != DefaultIntervalMs || cfg.Status.TimeoutMs != DefaultStatusTimeout {
		t.Fatalf("expected schedule/status defaults")
	}
}

func TestEngineConfig(t *testing.T) {
	cfg := validConfig()

	trs := []spi.Transceiver{nil, nil}
	ec, err := cfg.SPI.EngineConfig(trs)
	if err != nil {
		t.Fatalf("EngineConfig err=%v", err)
	}

	if len(ec.Units) != 2 || ec.Units[1].Settings.Polarity != spi.PolarityHigh || ec.Units[1].Settings.DataWidth != spi.Width16 {
		t.Fatalf("unexpected units %+v", ec.Units)
	}
	if ec.Units[0].Settings != (spi.Settings{}) {
		t.Fatalf("unset fields must stay zero, got %+v", ec.Units[0].Settings)
	}
	if ec.Channels[0].Default != 0xAA {
		t.Fatalf("expected default 0xAA, got %#x", ec.Channels[0].Default)
	}
	if len(ec.Jobs[0].Data) != 1 || ec.Jobs[0].Data[0] != 0x10 || len(ec.Jobs[1].Data) != 0 {
		t.Fatalf("unexpected job data %+v", ec.Jobs)
	}
	if got := ec.Sequences[0].Jobs; len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("unexpected sequence jobs %v", got)
	}

	if _, err := cfg.SPI.EngineConfig(trs[:1]); err == nil {
		t.Fatalf("expected transceiver count mismatch error")
	}
}
