package emu

import (
	"github.com/GengLUO/coco-ibex-ipmfd/decode"
)

// Machine-mode CSR addresses used by the core model.
const (
	CSRMStatus  uint16 = 0x300
	CSRMTVec    uint16 = 0x305
	CSRMScratch uint16 = 0x340
	CSRMEPC     uint16 = 0x341
	CSRMCause   uint16 = 0x342
)

// CSRFile is a minimal control/status register file. Privilege and
// address-legality checks are out of scope; every address behaves as a
// plain 32-bit register.
type CSRFile struct {
	regs map[uint16]uint32
}

// NewCSRFile creates an empty CSR file.
func NewCSRFile() *CSRFile {
	return &CSRFile{regs: make(map[uint16]uint32)}
}

// Read returns the current value of a CSR.
func (c *CSRFile) Read(addr uint16) uint32 {
	return c.regs[addr]
}

// Write sets a CSR directly.
func (c *CSRFile) Write(addr uint16, value uint32) {
	c.regs[addr] = value
}

// Apply performs one CSR access and returns the pre-modification value,
// which is what the destination register receives. CSROpRead leaves the
// register untouched.
func (c *CSRFile) Apply(op decode.CSROp, addr uint16, operand uint32) uint32 {
	old := c.regs[addr]
	switch op {
	case decode.CSROpWrite:
		c.regs[addr] = operand
	case decode.CSROpSet:
		c.regs[addr] = old | operand
	case decode.CSROpClear:
		c.regs[addr] = old &^ operand
	}
	return old
}
