// Package emu provides the functional execution-stage components of the
// RV32 core model: register file, ALU, multiply/divide unit, the
// masked-arithmetic unit contract, and the execution-stage dispatcher.
package emu

// RegFile represents the RV32 integer register file. Register x0 is
// hard-wired to zero: reads return 0 and writes are ignored.
type RegFile struct {
	// X holds the general-purpose registers. An RV32E file exposes only
	// x0-x15; the decoder rejects higher indices before they reach here.
	X [32]uint32

	numRegs uint8
}

// NewRegFile creates a register file with 32 registers, or 16 when
// reduced is set (RV32E).
func NewRegFile(reduced bool) *RegFile {
	n := uint8(32)
	if reduced {
		n = 16
	}
	return &RegFile{numRegs: n}
}

// NumRegs returns the number of architectural registers.
func (r *RegFile) NumRegs() uint8 { return r.numRegs }

// Read reads a register value. Register 0 always reads as zero and
// out-of-range indices read as zero.
func (r *RegFile) Read(reg uint8) uint32 {
	if reg == 0 || reg >= r.numRegs {
		return 0
	}
	return r.X[reg]
}

// Write writes a value to a register when enable is set. Writes to x0 and
// out-of-range indices are ignored.
func (r *RegFile) Write(reg uint8, value uint32, enable bool) {
	if !enable || reg == 0 || reg >= r.numRegs {
		return
	}
	r.X[reg] = value
}

// Reset clears all registers.
func (r *RegFile) Reset() {
	r.X = [32]uint32{}
}
