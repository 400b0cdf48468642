// internal/status/encode.go
package status

// Encode converts a Snapshot into a full status block.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, BlockSize(len(s.Sequences), len(s.Jobs)))

	regs[SlotDriverStatus] = uint16(s.Driver)
	regs[SlotMode] = uint16(s.Mode)
	regs[SlotSequenceCount] = uint16(len(s.Sequences))
	regs[SlotJobCount] = uint16(len(s.Jobs))

	for i, r := range s.Sequences {
		regs[SlotHeaderSize+i] = uint16(r)
	}

	base := SlotHeaderSize + len(s.Sequences)
	for i, r := range s.Jobs {
		regs[base+i] = uint16(r)
	}

	return regs
}

// BlockSize returns the number of registers a block occupies.
func BlockSize(sequences, jobs int) int {
	return SlotHeaderSize + sequences + jobs
}
