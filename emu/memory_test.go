package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/GengLUO/coco-ibex-ipmfd/decode"
	"github.com/GengLUO/coco-ibex-ipmfd/emu"
)

var _ = Describe("Memory", func() {
	var memory *emu.Memory

	BeforeEach(func() {
		memory = emu.NewMemory()
	})

	It("should read unmapped addresses as zero", func() {
		Expect(memory.Read32(0x80000000)).To(Equal(uint32(0)))
	})

	It("should round-trip words little-endian", func() {
		memory.Write32(0x1000, 0xdeadbeef)
		Expect(memory.Read32(0x1000)).To(Equal(uint32(0xdeadbeef)))
		Expect(memory.Read8(0x1000)).To(Equal(uint8(0xef)))
		Expect(memory.Read8(0x1003)).To(Equal(uint8(0xde)))
	})

	It("should handle accesses spanning page boundaries", func() {
		memory.Write32(0x0ffe, 0x11223344)
		Expect(memory.Read32(0x0ffe)).To(Equal(uint32(0x11223344)))
		Expect(memory.Read16(0x1000)).To(Equal(uint16(0x1122)))
	})

	It("should load byte slices", func() {
		memory.LoadBytes(0x2000, []byte{0x01, 0x02, 0x03, 0x04})
		Expect(memory.Read32(0x2000)).To(Equal(uint32(0x04030201)))
	})
})

var _ = Describe("LoadStoreUnit", func() {
	var (
		memory *emu.Memory
		lsu    *emu.LoadStoreUnit
	)

	BeforeEach(func() {
		memory = emu.NewMemory()
		lsu = emu.NewLoadStoreUnit(memory)
	})

	It("should sign-extend byte loads", func() {
		memory.Write8(0x100, 0x80)
		Expect(lsu.Load(0x100, decode.MemByte, true)).To(Equal(uint32(0xffffff80)))
		Expect(lsu.Load(0x100, decode.MemByte, false)).To(Equal(uint32(0x80)))
	})

	It("should sign-extend halfword loads", func() {
		memory.Write16(0x100, 0x8000)
		Expect(lsu.Load(0x100, decode.MemHalf, true)).To(Equal(uint32(0xffff8000)))
		Expect(lsu.Load(0x100, decode.MemHalf, false)).To(Equal(uint32(0x8000)))
	})

	It("should store only the low bytes for narrow widths", func() {
		memory.Write32(0x100, 0xffffffff)
		lsu.Store(0x100, decode.MemByte, 0x12345678)
		Expect(memory.Read32(0x100)).To(Equal(uint32(0xffffff78)))

		lsu.Store(0x104, decode.MemHalf, 0x12345678)
		Expect(memory.Read32(0x104)).To(Equal(uint32(0x00005678)))
	})

	It("should round-trip full words", func() {
		lsu.Store(0x200, decode.MemWord, 0xcafef00d)
		Expect(lsu.Load(0x200, decode.MemWord, false)).To(Equal(uint32(0xcafef00d)))
	})
})

var _ = Describe("CSRFile", func() {
	var csrs *emu.CSRFile

	BeforeEach(func() {
		csrs = emu.NewCSRFile()
	})

	It("should return the pre-modification value", func() {
		csrs.Write(emu.CSRMScratch, 0x11)
		old := csrs.Apply(decode.CSROpWrite, emu.CSRMScratch, 0x22)
		Expect(old).To(Equal(uint32(0x11)))
		Expect(csrs.Read(emu.CSRMScratch)).To(Equal(uint32(0x22)))
	})

	It("should set and clear bits", func() {
		csrs.Write(emu.CSRMScratch, 0b1100)
		csrs.Apply(decode.CSROpSet, emu.CSRMScratch, 0b0011)
		Expect(csrs.Read(emu.CSRMScratch)).To(Equal(uint32(0b1111)))

		csrs.Apply(decode.CSROpClear, emu.CSRMScratch, 0b0101)
		Expect(csrs.Read(emu.CSRMScratch)).To(Equal(uint32(0b1010)))
	})

	It("should leave the register untouched on a read", func() {
		csrs.Write(emu.CSRMScratch, 0x42)
		old := csrs.Apply(decode.CSROpRead, emu.CSRMScratch, 0xff)
		Expect(old).To(Equal(uint32(0x42)))
		Expect(csrs.Read(emu.CSRMScratch)).To(Equal(uint32(0x42)))
	})
})
