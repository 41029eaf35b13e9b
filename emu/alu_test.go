package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/GengLUO/coco-ibex-ipmfd/decode"
	"github.com/GengLUO/coco-ibex-ipmfd/emu"
)

var _ = Describe("ALU", func() {
	var alu *emu.ALU

	BeforeEach(func() {
		alu = emu.NewALU()
	})

	Describe("Single-cycle operations", func() {
		It("should add", func() {
			res := alu.Operate(decode.ALUAdd, 40, 2, true)
			Expect(res.Result).To(Equal(uint32(42)))
			Expect(res.ImdWrite).To(BeFalse())
		})

		It("should wrap on overflow", func() {
			res := alu.Operate(decode.ALUAdd, 0xffffffff, 1, true)
			Expect(res.Result).To(Equal(uint32(0)))
		})

		It("should subtract", func() {
			res := alu.Operate(decode.ALUSub, 2, 40, true)
			Expect(res.Result).To(Equal(uint32(0xffffffda)))
		})

		It("should expose the adder path alongside the result", func() {
			res := alu.Operate(decode.ALUSub, 8, 4, true)
			Expect(res.Result).To(Equal(uint32(4)))
			Expect(res.Adder).To(Equal(uint32(12)))
		})

		It("should perform an arithmetic right shift", func() {
			res := alu.Operate(decode.ALUSra, 0x80000000, 4, true)
			Expect(res.Result).To(Equal(uint32(0xf8000000)))
		})

		It("should shift in ones for the shift-ones operations", func() {
			Expect(alu.Operate(decode.ALUSlo, 0x1, 4, true).Result).
				To(Equal(uint32(0x1f)))
			Expect(alu.Operate(decode.ALUSro, 0x80000000, 4, true).Result).
				To(Equal(uint32(0xf8000000)))
		})

		It("should compare signed and unsigned", func() {
			Expect(alu.Operate(decode.ALUSlt, 0xffffffff, 0, true).Result).
				To(Equal(uint32(1))) // -1 < 0
			Expect(alu.Operate(decode.ALUSltu, 0xffffffff, 0, true).Result).
				To(Equal(uint32(0)))
		})

		It("should produce branch outcomes on the comparator", func() {
			Expect(alu.Operate(decode.ALUEq, 5, 5, true).Cmp).To(BeTrue())
			Expect(alu.Operate(decode.ALULt, 0xffffffff, 0, true).Cmp).To(BeTrue())
			Expect(alu.Operate(decode.ALULtu, 0xffffffff, 0, true).Cmp).To(BeFalse())
			Expect(alu.Operate(decode.ALUGeu, 0xffffffff, 0, true).Cmp).To(BeTrue())
		})

		It("should select minimum and maximum", func() {
			Expect(alu.Operate(decode.ALUMin, 0xffffffff, 1, true).Result).
				To(Equal(uint32(0xffffffff))) // -1 < 1 signed
			Expect(alu.Operate(decode.ALUMinu, 0xffffffff, 1, true).Result).
				To(Equal(uint32(1)))
			Expect(alu.Operate(decode.ALUMax, 0xffffffff, 1, true).Result).
				To(Equal(uint32(1)))
		})

		It("should pack halfwords and bytes", func() {
			Expect(alu.Operate(decode.ALUPack, 0x0000beef, 0x0000dead, true).Result).
				To(Equal(uint32(0xdeadbeef)))
			Expect(alu.Operate(decode.ALUPackh, 0xef, 0xbe, true).Result).
				To(Equal(uint32(0xbeef)))
		})

		It("should count bits", func() {
			Expect(alu.Operate(decode.ALUClz, 0x00010000, 0, true).Result).
				To(Equal(uint32(15)))
			Expect(alu.Operate(decode.ALUCtz, 0x00010000, 0, true).Result).
				To(Equal(uint32(16)))
			Expect(alu.Operate(decode.ALUCpop, 0xf0f0f0f0, 0, true).Result).
				To(Equal(uint32(16)))
		})

		It("should sign-extend bytes and halfwords", func() {
			Expect(alu.Operate(decode.ALUSextB, 0x80, 0, true).Result).
				To(Equal(uint32(0xffffff80)))
			Expect(alu.Operate(decode.ALUSextH, 0x8000, 0, true).Result).
				To(Equal(uint32(0xffff8000)))
		})

		It("should manipulate single bits", func() {
			Expect(alu.Operate(decode.ALUBSet, 0, 3, true).Result).To(Equal(uint32(8)))
			Expect(alu.Operate(decode.ALUBClr, 0xf, 3, true).Result).To(Equal(uint32(7)))
			Expect(alu.Operate(decode.ALUBInv, 0xf, 3, true).Result).To(Equal(uint32(7)))
			Expect(alu.Operate(decode.ALUBExt, 0x8, 3, true).Result).To(Equal(uint32(1)))
		})

		It("should reverse all bits with a full grev control", func() {
			res := alu.Operate(decode.ALUGrev, 0x00000001, 31, true)
			Expect(res.Result).To(Equal(uint32(0x80000000)))
		})

		It("should swap bytes with grev control 24", func() {
			res := alu.Operate(decode.ALUGrev, 0x12345678, 24, true)
			Expect(res.Result).To(Equal(uint32(0x78563412)))
		})

		It("should invert shuffle with unshuffle", func() {
			shuffled := alu.Operate(decode.ALUShfl, 0xdeadbeef, 15, true).Result
			res := alu.Operate(decode.ALUUnshfl, shuffled, 15, true)
			Expect(res.Result).To(Equal(uint32(0xdeadbeef)))
		})
	})

	Describe("Two-cycle operations", func() {
		It("should rotate right across two cycles", func() {
			first := alu.Operate(decode.ALURor, 0x80000001, 1, true)
			Expect(first.ImdWrite).To(BeTrue())

			second := alu.Operate(decode.ALURor, 0x80000001, 1, false)
			Expect(second.ImdWrite).To(BeFalse())
			Expect(second.Result).To(Equal(uint32(0xc0000000)))
		})

		It("should rotate left across two cycles", func() {
			alu.Operate(decode.ALURol, 0x80000001, 1, true)
			second := alu.Operate(decode.ALURol, 0x80000001, 1, false)
			Expect(second.Result).To(Equal(uint32(0x00000003)))
		})

		It("should select with cmov using the captured condition", func() {
			// rd = cond != 0 ? rs1 : rs3
			alu.Operate(decode.ALUCmov, 0x1111, 1, true)
			taken := alu.Operate(decode.ALUCmov, 0x1111, 0x2222, false)
			Expect(taken.Result).To(Equal(uint32(0x1111)))

			alu.Operate(decode.ALUCmov, 0x1111, 0, true)
			notTaken := alu.Operate(decode.ALUCmov, 0x1111, 0x2222, false)
			Expect(notTaken.Result).To(Equal(uint32(0x2222)))
		})

		It("should mix bits with cmix", func() {
			// rd = (rs1 & rs2) | (rs3 & ^rs2)
			alu.Operate(decode.ALUCmix, 0xffffffff, 0x0000ffff, true)
			res := alu.Operate(decode.ALUCmix, 0xffffffff, 0xaaaa0000, false)
			Expect(res.Result).To(Equal(uint32(0xaaaaffff)))
		})

		It("should funnel-shift left drawing bits from the third register", func() {
			// fsl rd, rs1, rs2, rs3 with shamt 4
			alu.Operate(decode.ALUFsl, 0x12345678, 4, true)
			res := alu.Operate(decode.ALUFsl, 0x12345678, 0xf0000000, false)
			Expect(res.Result).To(Equal(uint32(0x2345678f)))
		})

		It("should funnel-shift right drawing bits from the third register", func() {
			alu.Operate(decode.ALUFsr, 0x12345678, 4, true)
			res := alu.Operate(decode.ALUFsr, 0x12345678, 0x0000000f, false)
			Expect(res.Result).To(Equal(uint32(0xf1234567)))
		})

		It("should swap operand roles for funnel shifts of 32 or more", func() {
			alu.Operate(decode.ALUFsr, 0x12345678, 36, true)
			res := alu.Operate(decode.ALUFsr, 0x12345678, 0x0000000f, false)
			// lo and hi swap, then shift by 4
			Expect(res.Result).To(Equal(uint32(0x80000000)))
		})
	})
})
