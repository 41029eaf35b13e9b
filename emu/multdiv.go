package emu

import (
	"github.com/GengLUO/coco-ibex-ipmfd/decode"
)

// MultDiv is the multiply/divide unit contract: present the same operands
// every cycle until valid is reported.
type MultDiv interface {
	Operate(op decode.MultDivOp, mode decode.SignedMode, opA, opB uint32) (result uint32, valid bool)
}

// FastMultDiv completes every operation in a single cycle.
type FastMultDiv struct{}

// NewFastMultDiv creates a single-cycle multiply/divide unit.
func NewFastMultDiv() *FastMultDiv {
	return &FastMultDiv{}
}

// Operate computes the result immediately.
func (m *FastMultDiv) Operate(op decode.MultDivOp, mode decode.SignedMode, opA, opB uint32) (uint32, bool) {
	return multDivResult(op, mode, opA, opB), true
}

// Slow unit latencies in cycles, matching an iterative shift-add
// multiplier and a restoring divider.
const (
	slowMulCycles = 32
	slowDivCycles = 37
)

// SlowMultDiv models an iterative unit. The result is carried in the
// intermediate-value register shared with the ALU until the latency has
// elapsed; the caller must re-present the identical operation each cycle.
type SlowMultDiv struct {
	imd *[2]uint32

	active    bool
	remaining int
	op        decode.MultDivOp
	mode      decode.SignedMode
	opA, opB  uint32
}

// NewSlowMultDiv creates an iterative multiply/divide unit sharing the
// given intermediate-value registers with the ALU.
func NewSlowMultDiv(imd *[2]uint32) *SlowMultDiv {
	return &SlowMultDiv{imd: imd}
}

// Operate advances the pending operation by one cycle. A change of
// operation or operands abandons the sequence and starts over.
func (m *SlowMultDiv) Operate(op decode.MultDivOp, mode decode.SignedMode, opA, opB uint32) (uint32, bool) {
	if !m.active || op != m.op || mode != m.mode || opA != m.opA || opB != m.opB {
		m.active = true
		m.op, m.mode, m.opA, m.opB = op, mode, opA, opB
		m.imd[0] = multDivResult(op, mode, opA, opB)
		m.remaining = slowMulCycles
		if op == decode.MDOpDiv || op == decode.MDOpRem {
			m.remaining = slowDivCycles
		}
	}

	m.remaining--
	if m.remaining > 0 {
		return 0, false
	}

	m.active = false
	return m.imd[0], true
}

// Cancel abandons any in-flight operation. The pipeline controller calls
// it when legality is revoked mid-sequence.
func (m *SlowMultDiv) Cancel() {
	m.active = false
}

// multDivResult computes the architectural multiply/divide result,
// including the division-by-zero and signed-overflow fixups.
func multDivResult(op decode.MultDivOp, mode decode.SignedMode, opA, opB uint32) uint32 {
	switch op {
	case decode.MDOpMulLow:
		return opA * opB

	case decode.MDOpMulHigh:
		switch mode {
		case decode.SignBoth:
			return uint32(uint64(int64(int32(opA))*int64(int32(opB))) >> 32)
		case decode.SignA:
			return uint32(uint64(int64(int32(opA))*int64(opB)) >> 32)
		default:
			return uint32(uint64(opA) * uint64(opB) >> 32)
		}

	case decode.MDOpDiv:
		if mode == decode.SignBoth {
			if opB == 0 {
				return 0xffffffff
			}
			if opA == 0x80000000 && opB == 0xffffffff {
				return 0x80000000
			}
			return uint32(int32(opA) / int32(opB))
		}
		if opB == 0 {
			return 0xffffffff
		}
		return opA / opB

	default: // MDOpRem
		if mode == decode.SignBoth {
			if opB == 0 {
				return opA
			}
			if opA == 0x80000000 && opB == 0xffffffff {
				return 0
			}
			return uint32(int32(opA) % int32(opB))
		}
		if opB == 0 {
			return opA
		}
		return opA % opB
	}
}
