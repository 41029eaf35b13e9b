package insts

// ImmediateSet holds the five sign-extended immediate forms plus the
// zero-extended CSR immediate. All six are computed unconditionally for
// every instruction word; the decoders select the one they need.
type ImmediateSet struct {
	// I is sign_extend(instr[31:20]).
	I uint32
	// S is sign_extend(instr[31:25] : instr[11:7]).
	S uint32
	// B is sign_extend(instr[31], instr[7], instr[30:25], instr[11:8], 0).
	B uint32
	// U is instr[31:12] followed by 12 zero bits.
	U uint32
	// J is sign_extend(instr[31], instr[19:12], instr[20], instr[30:21], 0).
	J uint32
	// Z is zero_extend(instr[19:15]), the CSR immediate operand.
	Z uint32
}

// signExtend sign-extends the low `bits` bits of v to 32 bits.
func signExtend(v uint32, bits uint) uint32 {
	shift := 32 - bits
	return uint32(int32(v<<shift) >> shift)
}

// Immediates extracts all immediate forms from the instruction word.
func Immediates(i Instruction) ImmediateSet {
	w := uint32(i)

	immI := signExtend(w>>20, 12)

	immS := signExtend((w>>25)<<5|(w>>7)&0x1f, 12)

	immB := signExtend(
		(w>>31)<<12|
			((w>>7)&0x1)<<11|
			((w>>25)&0x3f)<<5|
			((w>>8)&0xf)<<1,
		13)

	immU := w & 0xfffff000

	immJ := signExtend(
		(w>>31)<<20|
			((w>>12)&0xff)<<12|
			((w>>20)&0x1)<<11|
			((w>>21)&0x3ff)<<1,
		21)

	immZ := (w >> 15) & 0x1f

	return ImmediateSet{I: immI, S: immS, B: immB, U: immU, J: immJ, Z: immZ}
}
