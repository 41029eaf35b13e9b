package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/GengLUO/coco-ibex-ipmfd/decode"
	"github.com/GengLUO/coco-ibex-ipmfd/emu"
)

var _ = Describe("FastMultDiv", func() {
	var unit *emu.FastMultDiv

	BeforeEach(func() {
		unit = emu.NewFastMultDiv()
	})

	It("should multiply in a single cycle", func() {
		result, valid := unit.Operate(decode.MDOpMulLow, decode.SignNone, 6, 7)
		Expect(valid).To(BeTrue())
		Expect(result).To(Equal(uint32(42)))
	})

	It("should return the low word of a wide product", func() {
		result, _ := unit.Operate(decode.MDOpMulLow, decode.SignNone, 0x10000, 0x10000)
		Expect(result).To(Equal(uint32(0)))
	})

	It("should compute the signed high word", func() {
		// -2 * 3 = -6, high word is all ones
		result, _ := unit.Operate(decode.MDOpMulHigh, decode.SignBoth, 0xfffffffe, 3)
		Expect(result).To(Equal(uint32(0xffffffff)))
	})

	It("should compute the mixed-sign high word", func() {
		// -1 (signed) * 0xffffffff (unsigned) = -0xffffffff
		result, _ := unit.Operate(decode.MDOpMulHigh, decode.SignA, 0xffffffff, 0xffffffff)
		Expect(result).To(Equal(uint32(0xffffffff)))
	})

	It("should compute the unsigned high word", func() {
		result, _ := unit.Operate(decode.MDOpMulHigh, decode.SignNone, 0xffffffff, 0xffffffff)
		Expect(result).To(Equal(uint32(0xfffffffe)))
	})

	It("should divide signed values", func() {
		result, _ := unit.Operate(decode.MDOpDiv, decode.SignBoth, 0xfffffff9, 2) // -7 / 2
		Expect(result).To(Equal(uint32(0xfffffffd)))                              // -3
	})

	It("should return all ones for division by zero", func() {
		result, _ := unit.Operate(decode.MDOpDiv, decode.SignBoth, 42, 0)
		Expect(result).To(Equal(uint32(0xffffffff)))

		result, _ = unit.Operate(decode.MDOpDiv, decode.SignNone, 42, 0)
		Expect(result).To(Equal(uint32(0xffffffff)))
	})

	It("should saturate the signed overflow case", func() {
		result, _ := unit.Operate(decode.MDOpDiv, decode.SignBoth, 0x80000000, 0xffffffff)
		Expect(result).To(Equal(uint32(0x80000000)))
	})

	It("should compute remainders", func() {
		result, _ := unit.Operate(decode.MDOpRem, decode.SignBoth, 0xfffffff9, 2) // -7 % 2
		Expect(result).To(Equal(uint32(0xffffffff)))                              // -1

		result, _ = unit.Operate(decode.MDOpRem, decode.SignNone, 7, 2)
		Expect(result).To(Equal(uint32(1)))
	})

	It("should return the dividend for a remainder by zero", func() {
		result, _ := unit.Operate(decode.MDOpRem, decode.SignBoth, 42, 0)
		Expect(result).To(Equal(uint32(42)))
	})

	It("should return zero for the overflow remainder", func() {
		result, _ := unit.Operate(decode.MDOpRem, decode.SignBoth, 0x80000000, 0xffffffff)
		Expect(result).To(Equal(uint32(0)))
	})
})

var _ = Describe("SlowMultDiv", func() {
	var (
		imd  [2]uint32
		unit *emu.SlowMultDiv
	)

	BeforeEach(func() {
		imd = [2]uint32{}
		unit = emu.NewSlowMultDiv(&imd)
	})

	// present drives the unit with identical operands until it reports
	// valid, returning the result and the cycle count.
	present := func(op decode.MultDivOp, mode decode.SignedMode, opA, opB uint32) (uint32, int) {
		for cycle := 1; ; cycle++ {
			result, valid := unit.Operate(op, mode, opA, opB)
			if valid {
				return result, cycle
			}
			Expect(cycle).To(BeNumerically("<", 64))
		}
	}

	It("should take the multiplier latency", func() {
		result, cycles := present(decode.MDOpMulLow, decode.SignNone, 6, 7)
		Expect(result).To(Equal(uint32(42)))
		Expect(cycles).To(Equal(32))
	})

	It("should take the divider latency", func() {
		result, cycles := present(decode.MDOpDiv, decode.SignBoth, 0xfffffff9, 2)
		Expect(result).To(Equal(uint32(0xfffffffd)))
		Expect(cycles).To(Equal(37))
	})

	It("should carry the result in the shared intermediate register", func() {
		result, _ := present(decode.MDOpMulLow, decode.SignNone, 6, 7)
		Expect(imd[0]).To(Equal(result))
	})

	It("should restart when the operands change mid-sequence", func() {
		_, valid := unit.Operate(decode.MDOpMulLow, decode.SignNone, 6, 7)
		Expect(valid).To(BeFalse())

		result, cycles := present(decode.MDOpMulLow, decode.SignNone, 5, 5)
		Expect(result).To(Equal(uint32(25)))
		Expect(cycles).To(Equal(32))
	})

	It("should start over after a cancel", func() {
		_, _ = unit.Operate(decode.MDOpMulLow, decode.SignNone, 6, 7)
		unit.Cancel()

		_, cycles := present(decode.MDOpMulLow, decode.SignNone, 6, 7)
		Expect(cycles).To(Equal(32))
	})
})
