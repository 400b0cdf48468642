// internal/config/config.go
package config

type Config struct {
	SPI      SPIConfig      `yaml:"spi"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Status   *StatusConfig  `yaml:"status"` // optional status block publication
}

type SPIConfig struct {
	WaitTimeoutMs  int    `yaml:"wait_timeout_ms"`
	PollIntervalUs int    `yaml:"poll_interval_us"`
	Mode           string `yaml:"mode"` // polling | interrupt

	Units     []UnitConfig     `yaml:"units"`
	Channels  []ChannelConfig  `yaml:"channels"`
	Jobs      []JobConfig      `yaml:"jobs"`
	Sequences []SequenceConfig `yaml:"sequences"`
}

// ---- UNIT ----

// Unit kinds.
const (
	KindLoopback = "loopback"
	KindSpidev   = "spidev"
	KindModbus   = "modbus"
	KindSerial   = "serial"
)

type UnitConfig struct {
	ID   uint8  `yaml:"id"`
	Kind string `yaml:"kind"`

	// transport
	Device      string `yaml:"device"`   // spidev node, serial port
	Endpoint    string `yaml:"endpoint"` // modbus tcp host:port
	SlaveID     uint8  `yaml:"slave_id"`
	BaseAddress uint16 `yaml:"base_address"`
	SerialBaud  int    `yaml:"serial_baud"`
	TimeoutMs   int    `yaml:"timeout_ms"`

	// bus settings; empty or zero = driver default
	BaudRate  uint32 `yaml:"baud_rate"`
	CPOL      string `yaml:"cpol"` // low | high
	CPHA      string `yaml:"cpha"` // first | second
	Role      string `yaml:"role"` // master | slave
	NSS       string `yaml:"nss"`  // hard | soft
	DataWidth uint8  `yaml:"data_width"`
}

// ---- TOPOLOGY ----

type ChannelConfig struct {
	ID      uint8 `yaml:"id"`
	Unit    uint8 `yaml:"unit"`
	Default uint8 `yaml:"default"` // sent for jobs without data
}

type JobConfig struct {
	ID      uint16 `yaml:"id"`
	Channel uint8  `yaml:"channel"`
	Data    []int  `yaml:"data"` // bytes, 0..255
}

type SequenceConfig struct {
	ID   uint8    `yaml:"id"`
	Jobs []uint16 `yaml:"jobs"`
}

// ---- SCHEDULE ----

type ScheduleConfig struct {
	IntervalMs int     `yaml:"interval_ms"`
	Sync       bool    `yaml:"sync"`
	Sequences  []uint8 `yaml:"sequences"`
}

// ---- STATUS ----

type StatusConfig struct {
	Endpoint    string `yaml:"endpoint"`
	SlaveID     uint8  `yaml:"slave_id"`
	BaseAddress uint16 `yaml:"base_address"`
	TimeoutMs   int    `yaml:"timeout_ms"`
}
