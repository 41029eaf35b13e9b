package decode

import (
	"github.com/GengLUO/coco-ibex-ipmfd/insts"
)

// ALUOp is the operation selector for the main ALU.
type ALUOp uint8

// ALU operations.
const (
	// Arithmetic.
	ALUAdd ALUOp = iota
	ALUSub

	// Logic.
	ALUXor
	ALUOr
	ALUAnd

	// Shifts and rotates.
	ALUSll
	ALUSrl
	ALUSra
	ALUSlo
	ALUSro
	ALURol
	ALURor

	// Comparisons.
	ALUEq
	ALUNe
	ALULt
	ALULtu
	ALUGe
	ALUGeu
	ALUSlt
	ALUSltu

	// Min/max.
	ALUMin
	ALUMax
	ALUMinu
	ALUMaxu

	// Byte pack.
	ALUPack
	ALUPacku
	ALUPackh

	// Counts and sign extension.
	ALUClz
	ALUCtz
	ALUCpop
	ALUSextB
	ALUSextH

	// Single-bit operations.
	ALUBClr
	ALUBSet
	ALUBInv
	ALUBExt

	// Generalized reverse / or-combine / shuffle.
	ALUGrev
	ALUGorc
	ALUShfl
	ALUUnshfl

	// Ternary and funnel-shift operations (two-cycle).
	ALUCmov
	ALUCmix
	ALUFsl
	ALUFsr
)

// OperandASel selects the source of ALU operand A.
type OperandASel uint8

// Operand A sources.
const (
	OpARegA OperandASel = iota
	OpACurrPC
	OpAImmZ
	OpAZero
)

// OperandBSel selects the source of ALU operand B.
type OperandBSel uint8

// Operand B sources.
const (
	OpBRegB OperandBSel = iota
	OpBImm
)

// ImmBSel selects the immediate routed to operand B.
type ImmBSel uint8

// Operand B immediates. ImmBIncrPC is the fixed instruction-size
// increment used for link values and fall-through targets.
const (
	ImmBI ImmBSel = iota
	ImmBS
	ImmBB
	ImmBU
	ImmBJ
	ImmBIncrPC
)

// ALUControl is the output of the ALU-control decode pass: operand
// sources, ALU opcode, multi-cycle sequencing flags, the static
// multiply/divide and masked-arithmetic selectors, and the dedicated
// branch-target adder operand selects when one is configured.
type ALUControl struct {
	Op      ALUOp
	OpASel  OperandASel
	OpBSel  OperandBSel
	ImmBSel ImmBSel

	// Multicycle requests a second presentation of this instruction.
	// UseRs3 routes the third source register onto the operand B read
	// port; it is asserted only on the second cycle of ternary and
	// funnel-shift operations.
	Multicycle bool
	UseRs3     bool

	// Static multiply/divide and masked-arithmetic selectors. They
	// depend only on opcode and funct fields, never on the phase, and
	// when set the ALU opcode is left at add so the operands pass
	// through to the specialized unit.
	MultSel       bool
	DivSel        bool
	MultDivOp     MultDivOp
	MultDivSigned SignedMode
	IPMSel        bool
	IPMOp         IPMOp

	// Dedicated branch-target adder operand selects, meaningful only
	// when the core is configured with one.
	BTAluA OperandASel
	BTAluB ImmBSel
}

// ALUControl runs the secondary decode pass. It may be evaluated on a
// duplicated copy of the instruction bits; it shares no state with the
// primary decode. branchTaken is the resolved branch outcome fed back by
// the pipeline controller, consumed only for branch-target selection.
func (d *Decoder) ALUControl(instr insts.Instruction, phase Phase, branchTaken bool) ALUControl {
	ctl := ALUControl{
		Op:      ALUSltu,
		OpASel:  OpARegA,
		OpBSel:  OpBRegB,
		ImmBSel: ImmBI,
		BTAluA:  OpACurrPC,
		BTAluB:  ImmBIncrPC,
	}

	funct3 := instr.Funct3()
	firstCycle := phase == PhaseFirst

	switch instr.Opcode() {
	case insts.OpcodeJAL:
		if d.cfg.BranchTargetALU {
			// The dedicated adder computes the target; the main ALU
			// computes the link value in the same cycle.
			ctl.BTAluA = OpACurrPC
			ctl.BTAluB = ImmBJ
			ctl.OpASel = OpACurrPC
			ctl.OpBSel = OpBImm
			ctl.ImmBSel = ImmBIncrPC
			ctl.Op = ALUAdd
		} else if firstCycle {
			// Target through the main ALU.
			ctl.OpASel = OpACurrPC
			ctl.OpBSel = OpBImm
			ctl.ImmBSel = ImmBJ
			ctl.Op = ALUAdd
		} else {
			// Link value on the second cycle.
			ctl.OpASel = OpACurrPC
			ctl.OpBSel = OpBImm
			ctl.ImmBSel = ImmBIncrPC
			ctl.Op = ALUAdd
		}

	case insts.OpcodeJALR:
		if d.cfg.BranchTargetALU {
			ctl.BTAluA = OpARegA
			ctl.BTAluB = ImmBI
			ctl.OpASel = OpACurrPC
			ctl.OpBSel = OpBImm
			ctl.ImmBSel = ImmBIncrPC
			ctl.Op = ALUAdd
		} else if firstCycle {
			ctl.OpASel = OpARegA
			ctl.OpBSel = OpBImm
			ctl.ImmBSel = ImmBI
			ctl.Op = ALUAdd
		} else {
			ctl.OpASel = OpACurrPC
			ctl.OpBSel = OpBImm
			ctl.ImmBSel = ImmBIncrPC
			ctl.Op = ALUAdd
		}

	case insts.OpcodeBranch:
		switch funct3 {
		case insts.Funct3BEQ:
			ctl.Op = ALUEq
		case insts.Funct3BNE:
			ctl.Op = ALUNe
		case insts.Funct3BLT:
			ctl.Op = ALULt
		case insts.Funct3BGE:
			ctl.Op = ALUGe
		case insts.Funct3BLTU:
			ctl.Op = ALULtu
		case insts.Funct3BGEU:
			ctl.Op = ALUGeu
		}
		if d.cfg.BranchTargetALU {
			// Target computed unconditionally every cycle; the outcome
			// feedback picks between the branch target and fall-through.
			ctl.BTAluA = OpACurrPC
			if branchTaken {
				ctl.BTAluB = ImmBB
			} else {
				ctl.BTAluB = ImmBIncrPC
			}
			ctl.OpASel = OpARegA
			ctl.OpBSel = OpBRegB
		} else if firstCycle {
			// Compare on the first cycle.
			ctl.OpASel = OpARegA
			ctl.OpBSel = OpBRegB
		} else {
			// Reuse the main adder for the next-fetch address.
			ctl.OpASel = OpACurrPC
			ctl.OpBSel = OpBImm
			if branchTaken {
				ctl.ImmBSel = ImmBB
			} else {
				ctl.ImmBSel = ImmBIncrPC
			}
			ctl.Op = ALUAdd
		}

	case insts.OpcodeStore:
		ctl.OpASel = OpARegA
		ctl.OpBSel = OpBRegB
		ctl.Op = ALUAdd
		if !instr.Bit(14) {
			// Address generation for the legal width encodings.
			ctl.ImmBSel = ImmBS
			ctl.OpBSel = OpBImm
		}

	case insts.OpcodeLoad:
		ctl.OpASel = OpARegA
		ctl.OpBSel = OpBImm
		ctl.ImmBSel = ImmBI
		ctl.Op = ALUAdd

	case insts.OpcodeLUI:
		ctl.OpASel = OpAZero
		ctl.OpBSel = OpBImm
		ctl.ImmBSel = ImmBU
		ctl.Op = ALUAdd

	case insts.OpcodeAUIPC:
		ctl.OpASel = OpACurrPC
		ctl.OpBSel = OpBImm
		ctl.ImmBSel = ImmBU
		ctl.Op = ALUAdd

	case insts.OpcodeOpImm:
		ctl.OpASel = OpARegA
		ctl.OpBSel = OpBImm
		ctl.ImmBSel = ImmBI
		d.opImmALUOp(instr, phase, &ctl)

	case insts.OpcodeOp:
		ctl.OpASel = OpARegA
		ctl.OpBSel = OpBRegB
		d.opALUOp(instr, phase, &ctl)

	case insts.OpcodeMiscMem:
		if funct3 == 0b001 {
			// Instruction-stream fence: jump to the next sequential
			// address to flush speculative fetch state.
			if d.cfg.BranchTargetALU {
				ctl.BTAluA = OpACurrPC
				ctl.BTAluB = ImmBIncrPC
			} else {
				ctl.OpASel = OpACurrPC
				ctl.OpBSel = OpBImm
				ctl.ImmBSel = ImmBIncrPC
				ctl.Op = ALUAdd
			}
		}

	case insts.OpcodeSystem:
		if funct3 != 0 {
			// CSR access: the operand is either register A or the
			// zero-extended five-bit immediate from the rs1 field.
			if instr.Bit(14) {
				ctl.OpASel = OpAImmZ
			} else {
				ctl.OpASel = OpARegA
			}
			ctl.OpBSel = OpBImm
			ctl.ImmBSel = ImmBI
		}

	case insts.OpcodeIPM:
		ctl.OpASel = OpARegA
		ctl.OpBSel = OpBRegB
		ctl.Op = ALUAdd
		ctl.IPMSel = true
		if funct3 <= uint8(IPMOpMask) {
			ctl.IPMOp = IPMOp(funct3)
		}
	}

	return ctl
}

// opImmALUOp maps the register-immediate ALU family onto ALU opcodes.
// Legality is decided by the primary decode pass; unrecognized patterns
// keep the default opcode here.
func (d *Decoder) opImmALUOp(instr insts.Instruction, phase Phase, ctl *ALUControl) {
	funct7 := instr.Funct7()
	shamt := instr.Rs2()

	switch instr.Funct3() {
	case 0b000:
		ctl.Op = ALUAdd
	case 0b010:
		ctl.Op = ALUSlt
	case 0b011:
		ctl.Op = ALUSltu
	case 0b100:
		ctl.Op = ALUXor
	case 0b110:
		ctl.Op = ALUOr
	case 0b111:
		ctl.Op = ALUAnd

	case 0b001: // shift-left family
		switch funct7 {
		case 0b0000000:
			ctl.Op = ALUSll
		case 0b0010000:
			if d.cfg.RV32B {
				ctl.Op = ALUSlo
			}
		case 0b0010100:
			if d.cfg.RV32B {
				ctl.Op = ALUBSet
			}
		case 0b0100100:
			if d.cfg.RV32B {
				ctl.Op = ALUBClr
			}
		case 0b0110100:
			if d.cfg.RV32B {
				ctl.Op = ALUBInv
			}
		case 0b0110000:
			if d.cfg.RV32B {
				switch shamt {
				case 0b00000:
					ctl.Op = ALUClz
				case 0b00001:
					ctl.Op = ALUCtz
				case 0b00010:
					ctl.Op = ALUCpop
				case 0b00100:
					ctl.Op = ALUSextB
				case 0b00101:
					ctl.Op = ALUSextH
				}
			}
		}

	case 0b101: // shift-right family
		if instr.Bit(26) {
			// Funnel shift with immediate shift amount; the third
			// source register arrives on the second cycle.
			if d.cfg.RV32B {
				ctl.Op = ALUFsr
				ctl.Multicycle = true
				ctl.UseRs3 = phase == PhaseSecond
			}
			return
		}
		switch funct7 {
		case 0b0000000:
			ctl.Op = ALUSrl
		case 0b0100000:
			ctl.Op = ALUSra
		case 0b0010000:
			if d.cfg.RV32B {
				ctl.Op = ALUSro
			}
		case 0b0110000:
			if d.cfg.RV32B {
				ctl.Op = ALURor
				ctl.Multicycle = true
			}
		case 0b0010100:
			if d.cfg.RV32B {
				ctl.Op = ALUGorc
			}
		case 0b0110100:
			if d.cfg.RV32B {
				ctl.Op = ALUGrev
			}
		case 0b0100100:
			if d.cfg.RV32B {
				ctl.Op = ALUBExt
			}
		}
	}
}

// opALUOp maps the register-register ALU family, the ternary family, and
// the multiply/divide family onto ALU opcodes and unit selectors.
func (d *Decoder) opALUOp(instr insts.Instruction, phase Phase, ctl *ALUControl) {
	funct3 := instr.Funct3()
	funct7 := instr.Funct7()

	// Ternary / conditional-move family: instr[26] with funct3[1:0]==01
	// flags cmix/cmov/fsl/fsr.
	if instr.Bit(26) && funct3&0b011 == 0b001 {
		if !d.cfg.RV32B {
			return
		}
		switch {
		case funct3 == 0b001 && instr.Bit(25):
			ctl.Op = ALUCmix
		case funct3 == 0b001:
			ctl.Op = ALUFsl
		case funct3 == 0b101 && instr.Bit(25):
			ctl.Op = ALUCmov
		default:
			ctl.Op = ALUFsr
		}
		ctl.Multicycle = true
		ctl.UseRs3 = phase == PhaseSecond
		return
	}

	key := uint16(funct7)<<3 | uint16(funct3)
	switch key {
	// Base arithmetic, logic, shifts.
	case 0b0000000_000:
		ctl.Op = ALUAdd
	case 0b0100000_000:
		ctl.Op = ALUSub
	case 0b0000000_010:
		ctl.Op = ALUSlt
	case 0b0000000_011:
		ctl.Op = ALUSltu
	case 0b0000000_100:
		ctl.Op = ALUXor
	case 0b0000000_110:
		ctl.Op = ALUOr
	case 0b0000000_111:
		ctl.Op = ALUAnd
	case 0b0000000_001:
		ctl.Op = ALUSll
	case 0b0000000_101:
		ctl.Op = ALUSrl
	case 0b0100000_101:
		ctl.Op = ALUSra

	// Shift-ones and rotates.
	case 0b0010000_001:
		if d.cfg.RV32B {
			ctl.Op = ALUSlo
		}
	case 0b0010000_101:
		if d.cfg.RV32B {
			ctl.Op = ALUSro
		}
	case 0b0110000_001:
		if d.cfg.RV32B {
			ctl.Op = ALURol
			ctl.Multicycle = true
		}
	case 0b0110000_101:
		if d.cfg.RV32B {
			ctl.Op = ALURor
			ctl.Multicycle = true
		}

	// Min/max.
	case 0b0000101_100:
		if d.cfg.RV32B {
			ctl.Op = ALUMin
		}
	case 0b0000101_101:
		if d.cfg.RV32B {
			ctl.Op = ALUMax
		}
	case 0b0000101_110:
		if d.cfg.RV32B {
			ctl.Op = ALUMinu
		}
	case 0b0000101_111:
		if d.cfg.RV32B {
			ctl.Op = ALUMaxu
		}

	// Byte pack.
	case 0b0000100_100:
		if d.cfg.RV32B {
			ctl.Op = ALUPack
		}
	case 0b0100100_100:
		if d.cfg.RV32B {
			ctl.Op = ALUPacku
		}
	case 0b0000100_111:
		if d.cfg.RV32B {
			ctl.Op = ALUPackh
		}

	// Single-bit operations.
	case 0b0100100_001:
		if d.cfg.RV32B {
			ctl.Op = ALUBClr
		}
	case 0b0010100_001:
		if d.cfg.RV32B {
			ctl.Op = ALUBSet
		}
	case 0b0110100_001:
		if d.cfg.RV32B {
			ctl.Op = ALUBInv
		}
	case 0b0100100_101:
		if d.cfg.RV32B {
			ctl.Op = ALUBExt
		}

	// Generalized reverse / or-combine / shuffle.
	case 0b0110100_101:
		if d.cfg.RV32B {
			ctl.Op = ALUGrev
		}
	case 0b0010100_101:
		if d.cfg.RV32B {
			ctl.Op = ALUGorc
		}
	case 0b0000100_001:
		if d.cfg.RV32B {
			ctl.Op = ALUShfl
		}
	case 0b0000100_101:
		if d.cfg.RV32B {
			ctl.Op = ALUUnshfl
		}

	// Multiply/divide family. The selectors stay static and the ALU
	// opcode is left at add; only the operands reach the unit.
	case 0b0000001_000:
		if d.cfg.RV32M {
			ctl.MultSel = true
			ctl.Op = ALUAdd
			ctl.MultDivOp = MDOpMulLow
			ctl.MultDivSigned = SignNone
		}
	case 0b0000001_001:
		if d.cfg.RV32M {
			ctl.MultSel = true
			ctl.Op = ALUAdd
			ctl.MultDivOp = MDOpMulHigh
			ctl.MultDivSigned = SignBoth
		}
	case 0b0000001_010:
		if d.cfg.RV32M {
			ctl.MultSel = true
			ctl.Op = ALUAdd
			ctl.MultDivOp = MDOpMulHigh
			ctl.MultDivSigned = SignA
		}
	case 0b0000001_011:
		if d.cfg.RV32M {
			ctl.MultSel = true
			ctl.Op = ALUAdd
			ctl.MultDivOp = MDOpMulHigh
			ctl.MultDivSigned = SignNone
		}
	case 0b0000001_100:
		if d.cfg.RV32M {
			ctl.DivSel = true
			ctl.Op = ALUAdd
			ctl.MultDivOp = MDOpDiv
			ctl.MultDivSigned = SignBoth
		}
	case 0b0000001_101:
		if d.cfg.RV32M {
			ctl.DivSel = true
			ctl.Op = ALUAdd
			ctl.MultDivOp = MDOpDiv
			ctl.MultDivSigned = SignNone
		}
	case 0b0000001_110:
		if d.cfg.RV32M {
			ctl.DivSel = true
			ctl.Op = ALUAdd
			ctl.MultDivOp = MDOpRem
			ctl.MultDivSigned = SignBoth
		}
	case 0b0000001_111:
		if d.cfg.RV32M {
			ctl.DivSel = true
			ctl.Op = ALUAdd
			ctl.MultDivOp = MDOpRem
			ctl.MultDivSigned = SignNone
		}
	}
}
