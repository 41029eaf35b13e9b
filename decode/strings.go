package decode

var aluOpNames = map[ALUOp]string{
	ALUAdd:    "add",
	ALUSub:    "sub",
	ALUXor:    "xor",
	ALUOr:     "or",
	ALUAnd:    "and",
	ALUSll:    "sll",
	ALUSrl:    "srl",
	ALUSra:    "sra",
	ALUSlo:    "slo",
	ALUSro:    "sro",
	ALURol:    "rol",
	ALURor:    "ror",
	ALUEq:     "eq",
	ALUNe:     "ne",
	ALULt:     "lt",
	ALULtu:    "ltu",
	ALUGe:     "ge",
	ALUGeu:    "geu",
	ALUSlt:    "slt",
	ALUSltu:   "sltu",
	ALUMin:    "min",
	ALUMax:    "max",
	ALUMinu:   "minu",
	ALUMaxu:   "maxu",
	ALUPack:   "pack",
	ALUPacku:  "packu",
	ALUPackh:  "packh",
	ALUClz:    "clz",
	ALUCtz:    "ctz",
	ALUCpop:   "cpop",
	ALUSextB:  "sext.b",
	ALUSextH:  "sext.h",
	ALUBClr:   "bclr",
	ALUBSet:   "bset",
	ALUBInv:   "binv",
	ALUBExt:   "bext",
	ALUGrev:   "grev",
	ALUGorc:   "gorc",
	ALUShfl:   "shfl",
	ALUUnshfl: "unshfl",
	ALUCmov:   "cmov",
	ALUCmix:   "cmix",
	ALUFsl:    "fsl",
	ALUFsr:    "fsr",
}

func (op ALUOp) String() string {
	if name, ok := aluOpNames[op]; ok {
		return name
	}
	return "unknown"
}

func (t Trap) String() string {
	switch t {
	case TrapECall:
		return "ecall"
	case TrapEBreak:
		return "ebreak"
	case TrapMRet:
		return "mret"
	case TrapDRet:
		return "dret"
	case TrapWFI:
		return "wfi"
	default:
		return "none"
	}
}

func (op CSROp) String() string {
	switch op {
	case CSROpWrite:
		return "write"
	case CSROpSet:
		return "set"
	case CSROpClear:
		return "clear"
	default:
		return "read"
	}
}

func (w MemWidth) String() string {
	switch w {
	case MemByte:
		return "byte"
	case MemHalf:
		return "half"
	default:
		return "word"
	}
}

func (op MultDivOp) String() string {
	switch op {
	case MDOpMulLow:
		return "mul"
	case MDOpMulHigh:
		return "mulh"
	case MDOpDiv:
		return "div"
	default:
		return "rem"
	}
}

func (op IPMOp) String() string {
	switch op {
	case IPMOpMul:
		return "ipm.mul"
	case IPMOpHomog:
		return "ipm.homog"
	case IPMOpSquare:
		return "ipm.square"
	case IPMOpMulConst:
		return "ipm.mulconst"
	case IPMOpUnmask:
		return "ipm.unmask"
	default:
		return "ipm.mask"
	}
}

func (s OperandASel) String() string {
	switch s {
	case OpACurrPC:
		return "pc"
	case OpAImmZ:
		return "zimm"
	case OpAZero:
		return "zero"
	default:
		return "rs1"
	}
}

func (s ImmBSel) String() string {
	switch s {
	case ImmBS:
		return "imm_s"
	case ImmBB:
		return "imm_b"
	case ImmBU:
		return "imm_u"
	case ImmBJ:
		return "imm_j"
	case ImmBIncrPC:
		return "incr_pc"
	default:
		return "imm_i"
	}
}
