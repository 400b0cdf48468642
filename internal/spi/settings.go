package spi

// DefaultBaudRate is applied when Settings.BaudRate is zero.
const DefaultBaudRate uint32 = 1_000_000

// Polarity is the clock polarity (CPOL).
type Polarity uint8

const (
	PolarityDefault Polarity = iota
	PolarityLow
	PolarityHigh
)

// Phase is the clock phase (CPHA).
type Phase uint8

const (
	PhaseDefault Phase = iota
	PhaseFirstEdge
	PhaseSecondEdge
)

// Role selects master or slave operation.
type Role uint8

const (
	RoleDefault Role = iota
	RoleMaster
	RoleSlave
)

// NSS selects slave-select management.
type NSS uint8

const (
	NSSDefault NSS = iota
	NSSHard
	NSSSoft
)

// DataWidth is the frame size in bits.
type DataWidth uint8

const (
	WidthDefault DataWidth = 0
	Width8       DataWidth = 8
	Width16      DataWidth = 16
)

// Settings is the per-unit bus configuration.
// Every zero value means "use default", never an explicit zero setting.
type Settings struct {
	BaudRate  uint32
	Polarity  Polarity
	Phase     Phase
	Role      Role
	NSS       NSS
	DataWidth DataWidth
}

// WithDefaults returns s with every unset field resolved.
// Defaults: 1 MHz, CPOL low, CPHA first edge, master, hardware NSS, 8-bit frames.
func (s Settings) WithDefaults() Settings {
	if s.BaudRate == 0 {
		s.BaudRate = DefaultBaudRate
	}
	if s.Polarity == PolarityDefault {
		s.Polarity = PolarityLow
	}
	if s.Phase == PhaseDefault {
		s.Phase = PhaseFirstEdge
	}
	if s.Role == RoleDefault {
		s.Role = RoleMaster
	}
	if s.NSS == NSSDefault {
		s.NSS = NSSHard
	}
	if s.DataWidth == WidthDefault {
		s.DataWidth = Width8
	}
	return s
}

// Mode returns the conventional SPI mode number (CPOL<<1 | CPHA).
func (s Settings) Mode() int {
	m := 0
	if s.Polarity == PolarityHigh {
		m |= 2
	}
	if s.Phase == PhaseSecondEdge {
		m |= 1
	}
	return m
}
