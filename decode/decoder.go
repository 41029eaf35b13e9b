package decode

import (
	"github.com/GengLUO/coco-ibex-ipmfd/insts"
)

// Decoder is the combinational instruction decoder for one core instance.
// It is stateless: Decode is a pure function of its inputs and the fixed
// configuration, evaluated once per clock by the pipeline controller.
type Decoder struct {
	cfg CoreConfig
}

// NewDecoder creates a decoder for the given static configuration.
func NewDecoder(cfg CoreConfig) *Decoder {
	return &Decoder{cfg: cfg}
}

// Config returns the decoder's static configuration.
func (d *Decoder) Config() CoreConfig {
	return d.cfg
}

// Decode produces the full control-signal set for one decode cycle.
//
// compressedIllegal is the precomputed invalid flag from the compressed
// instruction decompressor; branchTaken is the resolved branch outcome fed
// back by the pipeline controller, consumed only on the second cycle of a
// branch (or every cycle by the dedicated branch-target adder).
func (d *Decoder) Decode(instr insts.Instruction, phase Phase, compressedIllegal, branchTaken bool) ControlSignals {
	sig := d.decodeBase(instr, phase)
	sig.ALU = d.ALUControl(instr, phase, branchTaken)

	// Post-dispatch corrections, in order: the external compressed
	// invalid flag, commit suppression, then the RV32E register-width
	// check against the operand selects the ALU-control pass produced.
	if compressedIllegal {
		sig.Illegal = true
	}
	if sig.Illegal {
		d.suppressCommits(&sig)
	}
	if d.cfg.RV32E && d.rv32eViolation(instr, &sig) {
		sig.Illegal = true
		sig.RegWrite = false
		d.suppressCommits(&sig)
	}

	// Dynamic unit enables: a faulting instruction must not trigger a
	// side-effecting divide or masked operation.
	sig.MultSel = sig.ALU.MultSel
	sig.DivSel = sig.ALU.DivSel
	sig.MultDivOp = sig.ALU.MultDivOp
	sig.MultDivSigned = sig.ALU.MultDivSigned
	sig.IPMSel = sig.ALU.IPMSel
	sig.MultDivEn = (sig.MultSel || sig.DivSel) && !sig.Illegal
	sig.IPMEn = sig.IPMSel && !sig.Illegal

	return sig
}

// suppressCommits forces every committing signal false. Trap kinds are
// mutually exclusive with illegal instructions, so they are cleared too.
func (d *Decoder) suppressCommits(sig *ControlSignals) {
	sig.RegWrite = false
	sig.DataReq = false
	sig.DataWrite = false
	sig.Jump = false
	sig.JumpSet = false
	sig.Branch = false
	sig.CSRAccess = false
	sig.Trap = TrapNone
}

// rv32eViolation reports a reference to a register index >= 16 on an
// operand actually consumed this cycle: source A only when its mux selects
// the register file, source B likewise, and the destination only when a
// register write is asserted.
func (d *Decoder) rv32eViolation(instr insts.Instruction, sig *ControlSignals) bool {
	return (sig.ALU.OpASel == OpARegA && instr.Rs1() >= 16) ||
		(sig.ALU.OpBSel == OpBRegB && instr.Rs2() >= 16) ||
		(sig.RegWrite && instr.Rd() >= 16)
}

// decodeBase is the primary opcode dispatch: legality, register-file
// controls, memory access shape, CSR operation, trap kinds, and jump and
// branch sequencing.
func (d *Decoder) decodeBase(instr insts.Instruction, phase Phase) ControlSignals {
	sig := ControlSignals{
		Trap:      TrapNone,
		DataWidth: MemWord,
	}

	funct3 := instr.Funct3()
	firstCycle := phase == PhaseFirst

	switch instr.Opcode() {
	case insts.OpcodeJAL:
		sig.Jump = true
		if d.cfg.BranchTargetALU {
			// Target and link value are computed simultaneously, so the
			// jump resolves in one cycle.
			sig.JumpSet = firstCycle
			sig.RegWrite = true
		} else if firstCycle {
			sig.JumpSet = true
		} else {
			sig.RegWrite = true
		}

	case insts.OpcodeJALR:
		sig.Jump = true
		sig.ReadA = true
		if d.cfg.BranchTargetALU {
			sig.JumpSet = firstCycle
			sig.RegWrite = true
		} else if firstCycle {
			sig.JumpSet = true
		} else {
			sig.RegWrite = true
		}
		if funct3 != 0b000 {
			sig.Illegal = true
		}

	case insts.OpcodeBranch:
		sig.Branch = true
		sig.ReadA = true
		sig.ReadB = true
		switch funct3 {
		case insts.Funct3BEQ, insts.Funct3BNE, insts.Funct3BLT,
			insts.Funct3BGE, insts.Funct3BLTU, insts.Funct3BGEU:
		default:
			sig.Illegal = true
		}

	case insts.OpcodeStore:
		sig.ReadA = true
		sig.ReadB = true
		sig.DataReq = true
		sig.DataWrite = true
		if instr.Bit(14) {
			sig.Illegal = true
		} else {
			width := MemWidth(funct3 & 0b011)
			if width == 0b11 {
				sig.Illegal = true
			} else {
				sig.DataWidth = width
			}
		}

	case insts.OpcodeLoad:
		sig.ReadA = true
		sig.DataReq = true
		sig.DataSignExt = !instr.Bit(14)
		width := MemWidth(funct3 & 0b011)
		switch {
		case width == 0b11:
			sig.Illegal = true
		case width == MemWord && instr.Bit(14):
			// Load-word-unsigned does not exist in RV32.
			sig.Illegal = true
		default:
			sig.DataWidth = width
		}

	case insts.OpcodeLUI, insts.OpcodeAUIPC:
		sig.RegWrite = true

	case insts.OpcodeOpImm:
		sig.ReadA = true
		sig.RegWrite = true
		sig.Illegal = d.opImmIllegal(instr)

	case insts.OpcodeOp:
		sig.ReadA = true
		sig.ReadB = true
		sig.RegWrite = true
		sig.Illegal = d.opIllegal(instr)

	case insts.OpcodeMiscMem:
		switch funct3 {
		case 0b000:
			// Memory fence: no side effects in this model.
		case 0b001:
			// Instruction-stream fence: jump to the next sequential
			// address and drop any cached instructions.
			sig.Jump = true
			sig.JumpSet = firstCycle
			sig.ICacheInval = true
		default:
			sig.Illegal = true
		}

	case insts.OpcodeSystem:
		if funct3 == 0b000 {
			switch instr.Imm12() {
			case insts.Imm12ECALL:
				sig.Trap = TrapECall
			case insts.Imm12EBREAK:
				sig.Trap = TrapEBreak
			case insts.Imm12MRET:
				sig.Trap = TrapMRet
			case insts.Imm12DRET:
				sig.Trap = TrapDRet
			case insts.Imm12WFI:
				sig.Trap = TrapWFI
			default:
				sig.Illegal = true
			}
			// These encodings require zero source and destination
			// fields regardless of the immediate match.
			if instr.Rs1() != 0 || instr.Rd() != 0 {
				sig.Illegal = true
			}
		} else {
			sig.CSRAccess = true
			sig.RegWrite = true
			sig.RFWriteSel = RFWriteCSR
			sig.ReadA = !instr.Bit(14)
			switch funct3 & 0b011 {
			case 0b01:
				sig.CSROp = CSROpWrite
			case 0b10:
				sig.CSROp = CSROpSet
			case 0b11:
				sig.CSROp = CSROpClear
			default:
				sig.Illegal = true
			}
			// Set and clear with a zero mask must not mutate the CSR:
			// downgrade to a plain read.
			if (sig.CSROp == CSROpSet || sig.CSROp == CSROpClear) && instr.Rs1() == 0 {
				sig.CSROp = CSROpRead
			}
		}

	case insts.OpcodeIPM:
		sig.ReadA = true
		sig.ReadB = true
		sig.RegWrite = true
		if funct3 > uint8(IPMOpMask) {
			sig.Illegal = true
		} else {
			sig.IPMOp = IPMOp(funct3)
		}

	default:
		sig.Illegal = true
	}

	return sig
}

// opImmIllegal checks the register-immediate shift families. Plain shifts
// are always legal; each alternate pattern is gated individually on the
// bit-manipulation extension.
func (d *Decoder) opImmIllegal(instr insts.Instruction) bool {
	funct7 := instr.Funct7()
	shamt := instr.Rs2()

	switch instr.Funct3() {
	case 0b000, 0b010, 0b011, 0b100, 0b110, 0b111:
		return false

	case 0b001: // shift-left family
		switch funct7 {
		case 0b0000000:
			return false
		case 0b0010000, 0b0010100, 0b0100100, 0b0110100:
			return !d.cfg.RV32B
		case 0b0110000:
			switch shamt {
			case 0b00000, 0b00001, 0b00010, 0b00100, 0b00101:
				return !d.cfg.RV32B
			}
			return true
		}
		return true

	default: // 0b101, shift-right family
		if instr.Bit(26) {
			return !d.cfg.RV32B
		}
		switch funct7 {
		case 0b0000000, 0b0100000:
			return false
		case 0b0010000, 0b0110000, 0b0010100, 0b0110100, 0b0100100:
			return !d.cfg.RV32B
		}
		return true
	}
}

// opIllegal checks the register-register dispatch table: base operations
// are always legal, the bit-manipulation set requires RV32B, and the
// multiply/divide family requires RV32M. Any unmatched pattern is illegal.
func (d *Decoder) opIllegal(instr insts.Instruction) bool {
	funct3 := instr.Funct3()
	funct7 := instr.Funct7()

	if instr.Bit(26) && funct3&0b011 == 0b001 {
		return !d.cfg.RV32B
	}

	key := uint16(funct7)<<3 | uint16(funct3)
	switch key {
	case 0b0000000_000, 0b0100000_000, 0b0000000_010, 0b0000000_011,
		0b0000000_100, 0b0000000_110, 0b0000000_111, 0b0000000_001,
		0b0000000_101, 0b0100000_101:
		return false

	case 0b0010000_001, 0b0010000_101, 0b0110000_001, 0b0110000_101,
		0b0000101_100, 0b0000101_101, 0b0000101_110, 0b0000101_111,
		0b0000100_100, 0b0100100_100, 0b0000100_111,
		0b0100100_001, 0b0010100_001, 0b0110100_001, 0b0100100_101,
		0b0110100_101, 0b0010100_101, 0b0000100_001, 0b0000100_101:
		return !d.cfg.RV32B

	case 0b0000001_000, 0b0000001_001, 0b0000001_010, 0b0000001_011,
		0b0000001_100, 0b0000001_101, 0b0000001_110, 0b0000001_111:
		return !d.cfg.RV32M
	}

	return true
}
