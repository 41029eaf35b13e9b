package emu

import (
	"math/bits"

	"github.com/GengLUO/coco-ibex-ipmfd/decode"
)

// ALUResult is the per-cycle output of the ALU.
type ALUResult struct {
	// Result is the operation result. For multi-cycle operations it is
	// only meaningful on the completing cycle.
	Result uint32

	// Adder is the raw adder path output (operand A + operand B),
	// reused for addresses and branch targets.
	Adder uint32

	// Cmp is the comparison outcome for branch condition operations.
	Cmp bool

	// ImdWrite reports that this cycle wrote the intermediate-value
	// register and the operation needs another cycle to complete.
	ImdWrite bool
}

// ALU implements the RV32 arithmetic, logic, shift, comparison, and
// bit-manipulation operations. Rotates, funnel shifts, and the ternary
// family take two cycles and carry partial results in the
// intermediate-value registers, which the multiply/divide unit shares.
type ALU struct {
	imd [2]uint32
}

// NewALU creates a new ALU.
func NewALU() *ALU {
	return &ALU{}
}

// Imd exposes the intermediate-value registers for the units that share
// them.
func (a *ALU) Imd() *[2]uint32 { return &a.imd }

// Operate evaluates one ALU operation for one cycle. firstCycle
// distinguishes the two presentations of a multi-cycle operation; on the
// second cycle of a ternary or funnel-shift operation, operand B carries
// the third source register.
func (a *ALU) Operate(op decode.ALUOp, opA, opB uint32, firstCycle bool) ALUResult {
	res := ALUResult{Adder: opA + opB}
	sh := uint(opB & 31)

	switch op {
	case decode.ALUAdd:
		res.Result = opA + opB
	case decode.ALUSub:
		res.Result = opA - opB
	case decode.ALUXor:
		res.Result = opA ^ opB
	case decode.ALUOr:
		res.Result = opA | opB
	case decode.ALUAnd:
		res.Result = opA & opB

	case decode.ALUSll:
		res.Result = opA << sh
	case decode.ALUSrl:
		res.Result = opA >> sh
	case decode.ALUSra:
		res.Result = uint32(int32(opA) >> sh)
	case decode.ALUSlo:
		res.Result = ^(^opA << sh)
	case decode.ALUSro:
		res.Result = ^(^opA >> sh)

	case decode.ALURor:
		if firstCycle {
			a.imd[0] = opA >> sh
			res.ImdWrite = true
		} else {
			res.Result = a.imd[0] | opA<<(32-sh)
		}
	case decode.ALURol:
		if firstCycle {
			a.imd[0] = opA << sh
			res.ImdWrite = true
		} else {
			res.Result = a.imd[0] | opA>>(32-sh)
		}

	case decode.ALUEq:
		res.Cmp = opA == opB
	case decode.ALUNe:
		res.Cmp = opA != opB
	case decode.ALULt:
		res.Cmp = int32(opA) < int32(opB)
	case decode.ALULtu:
		res.Cmp = opA < opB
	case decode.ALUGe:
		res.Cmp = int32(opA) >= int32(opB)
	case decode.ALUGeu:
		res.Cmp = opA >= opB
	case decode.ALUSlt:
		if int32(opA) < int32(opB) {
			res.Result = 1
		}
	case decode.ALUSltu:
		if opA < opB {
			res.Result = 1
		}

	case decode.ALUMin:
		res.Result = opB
		if int32(opA) < int32(opB) {
			res.Result = opA
		}
	case decode.ALUMax:
		res.Result = opB
		if int32(opA) > int32(opB) {
			res.Result = opA
		}
	case decode.ALUMinu:
		res.Result = opB
		if opA < opB {
			res.Result = opA
		}
	case decode.ALUMaxu:
		res.Result = opB
		if opA > opB {
			res.Result = opA
		}

	case decode.ALUPack:
		res.Result = opB<<16 | opA&0xffff
	case decode.ALUPacku:
		res.Result = opB&0xffff0000 | opA>>16
	case decode.ALUPackh:
		res.Result = (opB&0xff)<<8 | opA&0xff

	case decode.ALUClz:
		res.Result = uint32(bits.LeadingZeros32(opA))
	case decode.ALUCtz:
		res.Result = uint32(bits.TrailingZeros32(opA))
	case decode.ALUCpop:
		res.Result = uint32(bits.OnesCount32(opA))
	case decode.ALUSextB:
		res.Result = uint32(int32(opA<<24) >> 24)
	case decode.ALUSextH:
		res.Result = uint32(int32(opA<<16) >> 16)

	case decode.ALUBClr:
		res.Result = opA &^ (1 << sh)
	case decode.ALUBSet:
		res.Result = opA | 1<<sh
	case decode.ALUBInv:
		res.Result = opA ^ 1<<sh
	case decode.ALUBExt:
		res.Result = (opA >> sh) & 1

	case decode.ALUGrev:
		res.Result = grev32(opA, opB&31)
	case decode.ALUGorc:
		res.Result = gorc32(opA, opB&31)
	case decode.ALUShfl:
		res.Result = shfl32(opA, opB&15)
	case decode.ALUUnshfl:
		res.Result = unshfl32(opA, opB&15)

	case decode.ALUCmix:
		if firstCycle {
			a.imd[0] = opA & opB
			a.imd[1] = opB
			res.ImdWrite = true
		} else {
			res.Result = a.imd[0] | opB&^a.imd[1]
		}
	case decode.ALUCmov:
		if firstCycle {
			a.imd[0] = opA
			a.imd[1] = opB
			res.ImdWrite = true
		} else {
			if a.imd[1] != 0 {
				res.Result = a.imd[0]
			} else {
				res.Result = opB
			}
		}
	case decode.ALUFsl:
		if firstCycle {
			a.imd[0] = opA
			a.imd[1] = opB
			res.ImdWrite = true
		} else {
			res.Result = funnelLeft(a.imd[0], opB, a.imd[1]&63)
		}
	case decode.ALUFsr:
		if firstCycle {
			a.imd[0] = opA
			a.imd[1] = opB
			res.ImdWrite = true
		} else {
			res.Result = funnelRight(a.imd[0], opB, a.imd[1]&63)
		}
	}

	return res
}

// funnelLeft shifts hi left by sh, drawing bits from lo. Shift amounts of
// 32 or more swap the operand roles.
func funnelLeft(hi, lo uint32, sh uint32) uint32 {
	if sh >= 32 {
		sh -= 32
		hi, lo = lo, hi
	}
	if sh == 0 {
		return hi
	}
	return hi<<sh | lo>>(32-sh)
}

// funnelRight shifts lo right by sh, drawing bits from hi.
func funnelRight(lo, hi uint32, sh uint32) uint32 {
	if sh >= 32 {
		sh -= 32
		lo, hi = hi, lo
	}
	if sh == 0 {
		return lo
	}
	return lo>>sh | hi<<(32-sh)
}

// grev32 is the generalized bit reversal: each set shift bit swaps
// adjacent groups of that size.
func grev32(x, sh uint32) uint32 {
	if sh&1 != 0 {
		x = (x&0x55555555)<<1 | (x&0xaaaaaaaa)>>1
	}
	if sh&2 != 0 {
		x = (x&0x33333333)<<2 | (x&0xcccccccc)>>2
	}
	if sh&4 != 0 {
		x = (x&0x0f0f0f0f)<<4 | (x&0xf0f0f0f0)>>4
	}
	if sh&8 != 0 {
		x = (x&0x00ff00ff)<<8 | (x&0xff00ff00)>>8
	}
	if sh&16 != 0 {
		x = x<<16 | x>>16
	}
	return x
}

// gorc32 is the generalized or-combine: like grev32 but each stage ORs
// the swapped groups instead of exchanging them.
func gorc32(x, sh uint32) uint32 {
	if sh&1 != 0 {
		x |= (x&0x55555555)<<1 | (x&0xaaaaaaaa)>>1
	}
	if sh&2 != 0 {
		x |= (x&0x33333333)<<2 | (x&0xcccccccc)>>2
	}
	if sh&4 != 0 {
		x |= (x&0x0f0f0f0f)<<4 | (x&0xf0f0f0f0)>>4
	}
	if sh&8 != 0 {
		x |= (x&0x00ff00ff)<<8 | (x&0xff00ff00)>>8
	}
	if sh&16 != 0 {
		x |= x<<16 | x>>16
	}
	return x
}

// shuffleStage performs one butterfly stage of the shuffle network.
func shuffleStage(src, maskL, maskR uint32, n uint) uint32 {
	x := src &^ (maskL | maskR)
	x |= (src << n) & maskL
	x |= (src >> n) & maskR
	return x
}

// shfl32 interleaves bit groups according to the shuffle control value.
func shfl32(x, sh uint32) uint32 {
	if sh&8 != 0 {
		x = shuffleStage(x, 0x00ff0000, 0x0000ff00, 8)
	}
	if sh&4 != 0 {
		x = shuffleStage(x, 0x0f000f00, 0x00f000f0, 4)
	}
	if sh&2 != 0 {
		x = shuffleStage(x, 0x30303030, 0x0c0c0c0c, 2)
	}
	if sh&1 != 0 {
		x = shuffleStage(x, 0x44444444, 0x22222222, 1)
	}
	return x
}

// unshfl32 is the inverse of shfl32: the same stages in reverse order.
func unshfl32(x, sh uint32) uint32 {
	if sh&1 != 0 {
		x = shuffleStage(x, 0x44444444, 0x22222222, 1)
	}
	if sh&2 != 0 {
		x = shuffleStage(x, 0x30303030, 0x0c0c0c0c, 2)
	}
	if sh&4 != 0 {
		x = shuffleStage(x, 0x0f000f00, 0x00f000f0, 4)
	}
	if sh&8 != 0 {
		x = shuffleStage(x, 0x00ff0000, 0x0000ff00, 8)
	}
	return x
}
