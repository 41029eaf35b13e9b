package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/GengLUO/coco-ibex-ipmfd/decode"
	"github.com/GengLUO/coco-ibex-ipmfd/emu"
)

// xorIPMUnit is a stand-in masked-arithmetic unit for dispatcher tests.
type xorIPMUnit struct {
	lastOp decode.IPMOp
}

func (u *xorIPMUnit) Operate(op decode.IPMOp, opA, opB uint32) (uint32, bool) {
	u.lastOp = op
	return opA ^ opB, true
}

var _ = Describe("ExBlock", func() {
	var (
		cfg     decode.CoreConfig
		alu     *emu.ALU
		multdiv *emu.FastMultDiv
		ipm     *xorIPMUnit
		ex      *emu.ExBlock
	)

	BeforeEach(func() {
		cfg = *decode.DefaultCoreConfig()
		alu = emu.NewALU()
		multdiv = emu.NewFastMultDiv()
		ipm = &xorIPMUnit{}
		ex = emu.NewExBlock(cfg, alu, multdiv, ipm)
	})

	It("should pass the ALU result through by default", func() {
		sig := decode.ControlSignals{ALU: decode.ALUControl{Op: decode.ALUAdd}}
		res := ex.Execute(sig, 40, 2, 0, 0, true)
		Expect(res.Result).To(Equal(uint32(42)))
		Expect(res.Valid).To(BeTrue())
	})

	It("should report invalid while a two-cycle operation is in flight", func() {
		sig := decode.ControlSignals{ALU: decode.ALUControl{Op: decode.ALURor}}
		first := ex.Execute(sig, 0x80000001, 1, 0, 0, true)
		Expect(first.Valid).To(BeFalse())

		second := ex.Execute(sig, 0x80000001, 1, 0, 0, false)
		Expect(second.Valid).To(BeTrue())
		Expect(second.Result).To(Equal(uint32(0xc0000000)))
	})

	It("should take the shared adder path as the branch target", func() {
		sig := decode.ControlSignals{ALU: decode.ALUControl{Op: decode.ALUAdd}}
		res := ex.Execute(sig, 0x1000, 0x20, 0, 0, true)
		Expect(res.BranchTarget).To(Equal(uint32(0x1020)))
	})

	It("should take the dedicated adder when configured", func() {
		cfg.BranchTargetALU = true
		ex = emu.NewExBlock(cfg, alu, multdiv, ipm)

		sig := decode.ControlSignals{ALU: decode.ALUControl{Op: decode.ALUEq}}
		res := ex.Execute(sig, 5, 5, 0x2000, 0x40, true)
		Expect(res.BranchTarget).To(Equal(uint32(0x2040)))
		Expect(res.Cmp).To(BeTrue())
	})

	It("should override the result with the multiply/divide unit when enabled", func() {
		sig := decode.ControlSignals{
			MultDivEn: true,
			MultDivOp: decode.MDOpMulLow,
			ALU:       decode.ALUControl{Op: decode.ALUAdd},
		}
		res := ex.Execute(sig, 6, 7, 0, 0, true)
		Expect(res.Result).To(Equal(uint32(42)))
		Expect(res.Valid).To(BeTrue())
	})

	It("should not run the multiply/divide unit without the dynamic enable", func() {
		sig := decode.ControlSignals{
			MultDivOp: decode.MDOpMulLow,
			ALU:       decode.ALUControl{Op: decode.ALUAdd},
		}
		res := ex.Execute(sig, 6, 7, 0, 0, true)
		Expect(res.Result).To(Equal(uint32(13)))
	})

	It("should dispatch to the masked-arithmetic unit when enabled", func() {
		sig := decode.ControlSignals{
			IPMEn: true,
			IPMOp: decode.IPMOpSquare,
			ALU:   decode.ALUControl{Op: decode.ALUAdd},
		}
		res := ex.Execute(sig, 0xff00, 0x00ff, 0, 0, true)
		Expect(res.Result).To(Equal(uint32(0xffff)))
		Expect(ipm.lastOp).To(Equal(decode.IPMOpSquare))
	})

	It("should fall back to the ALU when no masked unit is fitted", func() {
		ex = emu.NewExBlock(cfg, alu, multdiv, nil)
		sig := decode.ControlSignals{
			IPMEn: true,
			ALU:   decode.ALUControl{Op: decode.ALUAdd},
		}
		res := ex.Execute(sig, 1, 2, 0, 0, true)
		Expect(res.Result).To(Equal(uint32(3)))
	})
})
