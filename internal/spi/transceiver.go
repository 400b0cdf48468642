package spi

// Transceiver is the hardware-facing contract of one SPI unit.
// One implementation per concrete unit; the engine never branches on unit ids.
type Transceiver interface {
	// Configure applies resolved settings and makes the unit usable.
	Configure(s Settings) error
	// Release returns the unit to its reset state.
	Release() error

	ReadyToTransmit() (bool, error)
	DataAvailable() (bool, error)
	Transmit(b byte) error
	Receive() (byte, error)
	Busy() (bool, error)

	Disable() error
	Enable() error
}

// InterruptController is implemented by units that can raise completion interrupts.
type InterruptController interface {
	SetInterrupts(enabled bool) error
}
