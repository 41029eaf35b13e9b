// Package insts provides RV32 instruction field extraction and immediate
// generation. Everything here is a cheap pure function of the raw 32-bit
// instruction word; nothing is conditional on the opcode.
package insts

// Opcode is the primary dispatch key, instruction bits [6:0].
type Opcode uint8

// RV32 base opcodes, plus the custom-0 slot used by the masked-arithmetic
// (IPM) extension.
const (
	OpcodeLoad    Opcode = 0b0000011
	OpcodeMiscMem Opcode = 0b0001111
	OpcodeOpImm   Opcode = 0b0010011
	OpcodeAUIPC   Opcode = 0b0010111
	OpcodeStore   Opcode = 0b0100011
	OpcodeOp      Opcode = 0b0110011
	OpcodeLUI     Opcode = 0b0110111
	OpcodeBranch  Opcode = 0b1100011
	OpcodeJALR    Opcode = 0b1100111
	OpcodeJAL     Opcode = 0b1101111
	OpcodeSystem  Opcode = 0b1110011
	OpcodeIPM     Opcode = 0b0001011 // custom-0
)

// Branch funct3 encodings. 010 and 011 are unassigned.
const (
	Funct3BEQ  uint8 = 0b000
	Funct3BNE  uint8 = 0b001
	Funct3BLT  uint8 = 0b100
	Funct3BGE  uint8 = 0b101
	Funct3BLTU uint8 = 0b110
	Funct3BGEU uint8 = 0b111
)

// SYSTEM funct3==0 immediate encodings (instruction bits [31:20]).
const (
	Imm12ECALL  uint16 = 0x000
	Imm12EBREAK uint16 = 0x001
	Imm12MRET   uint16 = 0x302
	Imm12DRET   uint16 = 0x7b2
	Imm12WFI    uint16 = 0x105
)

// Instruction wraps a raw RV32 instruction word and exposes its fixed
// bit fields. The word is immutable for the duration of a decode cycle.
type Instruction uint32

// Rs1 returns the first source register index, bits [19:15].
func (i Instruction) Rs1() uint8 { return uint8((i >> 15) & 0x1f) }

// Rs2 returns the second source register index, bits [24:20].
func (i Instruction) Rs2() uint8 { return uint8((i >> 20) & 0x1f) }

// Rs3 returns the third source register index, bits [31:27].
// Only ternary bit-manipulation instructions consume it.
func (i Instruction) Rs3() uint8 { return uint8((i >> 27) & 0x1f) }

// Rd returns the destination register index, bits [11:7].
func (i Instruction) Rd() uint8 { return uint8((i >> 7) & 0x1f) }

// Opcode returns the primary dispatch key, bits [6:0].
func (i Instruction) Opcode() Opcode { return Opcode(i & 0x7f) }

// Funct3 returns the secondary dispatch key, bits [14:12].
func (i Instruction) Funct3() uint8 { return uint8((i >> 12) & 0x7) }

// Funct7 returns the tertiary dispatch key, bits [31:25].
func (i Instruction) Funct7() uint8 { return uint8((i >> 25) & 0x7f) }

// Imm12 returns the raw 12-bit immediate field, bits [31:20].
// SYSTEM instructions dispatch on it; CSR accesses use it as the address.
func (i Instruction) Imm12() uint16 { return uint16((i >> 20) & 0xfff) }

// Bit reports whether bit n of the instruction word is set.
func (i Instruction) Bit(n uint) bool { return (i>>n)&1 == 1 }
