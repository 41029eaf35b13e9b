// Package decode implements the combinational instruction-decode and
// ALU-control logic of the RV32 core. Both decoders are pure functions of
// the instruction word, the pipeline phase, and the fixed core
// configuration; no decode state survives across cycles.
package decode

// Phase indicates whether this is the first or a later presentation of the
// same instruction word. Multi-cycle sequencing (jumps without a dedicated
// branch-target adder, ternary and rotate ALU operations) is driven by the
// surrounding pipeline controller re-presenting the instruction with
// PhaseSecond.
type Phase uint8

// Pipeline phases.
const (
	PhaseFirst Phase = iota
	PhaseSecond
)

// Trap identifies the trap-like instruction decoded this cycle.
// At most one trap kind is raised per decode, and never together with an
// illegal instruction.
type Trap uint8

// Trap kinds.
const (
	TrapNone Trap = iota
	TrapECall
	TrapEBreak
	TrapMRet
	TrapDRet
	TrapWFI
)

// CSROp selects the read-modify-write operation applied by the CSR unit.
type CSROp uint8

// CSR operations. CSROpRead performs the read with no write-back side
// effect; set/clear with a zero operand field are downgraded to it.
const (
	CSROpRead CSROp = iota
	CSROpWrite
	CSROpSet
	CSROpClear
)

// MemWidth is the memory transaction width, taken from funct3[1:0].
type MemWidth uint8

// Memory access widths.
const (
	MemByte MemWidth = 0b00
	MemHalf MemWidth = 0b01
	MemWord MemWidth = 0b10
)

// Bytes returns the transaction size in bytes.
func (w MemWidth) Bytes() int {
	switch w {
	case MemByte:
		return 1
	case MemHalf:
		return 2
	default:
		return 4
	}
}

// RFWriteSel selects the source of the register-file write data.
type RFWriteSel uint8

// Register-file write-data sources. Load data is committed by the
// load-store unit when it returns, not by the decoder.
const (
	RFWriteEx RFWriteSel = iota
	RFWriteCSR
)

// ControlSignals is the full control-signal set produced for one decode
// cycle. It feeds the register file, the load-store unit, the CSR unit,
// and the execution-stage dispatcher.
type ControlSignals struct {
	// Illegal marks the instruction as undecodable. When set, every
	// committing signal below is forced false.
	Illegal bool

	// Trap is the decoded trap-like instruction, if any.
	Trap Trap

	// Jump is set for JAL, JALR and the instruction-stream fence for the
	// whole multi-cycle sequence; JumpSet commits the new fetch address
	// and is asserted only on the cycle the target is computed.
	Jump    bool
	JumpSet bool

	// Branch is set for conditional branches.
	Branch bool

	// ICacheInval requests invalidation of the instruction cache
	// (instruction-stream fence).
	ICacheInval bool

	// Register-file controls.
	RegWrite   bool
	RFWriteSel RFWriteSel
	ReadA      bool
	ReadB      bool

	// CSR access.
	CSRAccess bool
	CSROp     CSROp

	// Memory request shape.
	DataReq     bool
	DataWrite   bool
	DataWidth   MemWidth
	DataSignExt bool

	// Multiply/divide dispatch. MultSel/DivSel are static selectors
	// derived from opcode and funct fields only; MultDivEn additionally
	// requires the instruction to be legal.
	MultSel       bool
	DivSel        bool
	MultDivEn     bool
	MultDivOp     MultDivOp
	MultDivSigned SignedMode

	// Masked-arithmetic dispatch, same static/dynamic split.
	IPMSel bool
	IPMEn  bool
	IPMOp  IPMOp

	// ALU holds the operand-select and opcode fields produced by the
	// ALU-control decode pass.
	ALU ALUControl
}

// MultDivOp selects the multiply/divide operation class.
type MultDivOp uint8

// Multiply/divide operation classes. The signed-mode pair distinguishes
// mulh/mulhsu/mulhu and div/divu, rem/remu.
const (
	MDOpMulLow MultDivOp = iota
	MDOpMulHigh
	MDOpDiv
	MDOpRem
)

// SignedMode encodes operand signedness for the multiply/divide unit:
// bit 0 covers operand A, bit 1 operand B.
type SignedMode uint8

// Signed modes.
const (
	SignNone SignedMode = 0b00
	SignA    SignedMode = 0b01
	SignBoth SignedMode = 0b11
)

// IPMOp selects one of the masked-arithmetic operations. Their
// arithmetic contract is owned by the masked-arithmetic unit; decode only
// dispatches to it.
type IPMOp uint8

// Masked-arithmetic operations, funct3 encodings 0-5.
const (
	IPMOpMul IPMOp = iota
	IPMOpHomog
	IPMOpSquare
	IPMOpMulConst
	IPMOpUnmask
	IPMOpMask
)
