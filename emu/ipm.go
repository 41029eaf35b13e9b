package emu

import (
	"github.com/GengLUO/coco-ibex-ipmfd/decode"
)

// IPMUnit is the masked-arithmetic unit contract. Decode dispatches six
// operations to it; the arithmetic and masking semantics are owned
// entirely by the implementation and are deliberately not defined here.
// Like the multiply/divide unit, the same operands must be presented each
// cycle until valid is reported.
type IPMUnit interface {
	Operate(op decode.IPMOp, opA, opB uint32) (result uint32, valid bool)
}
