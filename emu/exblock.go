package emu

import (
	"github.com/GengLUO/coco-ibex-ipmfd/decode"
)

// ExResult is the execution-stage output for one cycle.
type ExResult struct {
	// Result is the selected unit result: masked-arithmetic if selected,
	// else multiply/divide if selected, else the ALU.
	Result uint32

	// Valid reports whether Result is usable this cycle. The ALU is
	// single-cycle valid unless it is mid-sequence in a multi-step
	// operation; the specialized units report their own latency.
	Valid bool

	// BranchTarget is the next-fetch address: the dedicated adder output
	// when one is configured, otherwise the shared ALU adder path.
	BranchTarget uint32

	// Cmp is the branch condition outcome from the ALU comparator.
	Cmp bool
}

// ExBlock composes the ALU, the multiply/divide unit, the
// masked-arithmetic unit, and the optional dedicated branch-target adder,
// and selects the final result. It owns no decode logic.
type ExBlock struct {
	cfg     decode.CoreConfig
	alu     *ALU
	multdiv MultDiv
	ipm     IPMUnit
}

// NewExBlock creates the execution-stage dispatcher. ipm may be nil when
// no masked-arithmetic unit is fitted; the decoder still dispatches to
// the custom opcode, and the caller is responsible for not enabling it.
func NewExBlock(cfg decode.CoreConfig, alu *ALU, multdiv MultDiv, ipm IPMUnit) *ExBlock {
	return &ExBlock{cfg: cfg, alu: alu, multdiv: multdiv, ipm: ipm}
}

// Execute evaluates one execution cycle. opA and opB are the muxed ALU
// operands; btA and btB feed the dedicated branch-target adder and are
// ignored without one. The specialized units run only when their dynamic
// enable is set, so a faulting instruction cannot trigger a side-effecting
// divide or masked operation.
func (e *ExBlock) Execute(sig decode.ControlSignals, opA, opB, btA, btB uint32, firstCycle bool) ExResult {
	aluRes := e.alu.Operate(sig.ALU.Op, opA, opB, firstCycle)

	res := ExResult{
		Result: aluRes.Result,
		Valid:  !aluRes.ImdWrite,
		Cmp:    aluRes.Cmp,
	}

	if e.cfg.BranchTargetALU {
		res.BranchTarget = btA + btB
	} else {
		res.BranchTarget = aluRes.Adder
	}

	// Exactly one unit is selected per cycle by construction of the
	// static selectors; the order below is a safety net, not behavior.
	if sig.MultDivEn {
		res.Result, res.Valid = e.multdiv.Operate(sig.MultDivOp, sig.MultDivSigned, opA, opB)
	}
	if sig.IPMEn && e.ipm != nil {
		res.Result, res.Valid = e.ipm.Operate(sig.IPMOp, opA, opB)
	}

	return res
}
