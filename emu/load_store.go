package emu

import (
	"github.com/GengLUO/coco-ibex-ipmfd/decode"
)

// LoadStoreUnit performs memory transactions with the request shape the
// decoder produces: width, write, and sign extension.
type LoadStoreUnit struct {
	memory *Memory
}

// NewLoadStoreUnit creates a LoadStoreUnit backed by the given memory.
func NewLoadStoreUnit(memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{memory: memory}
}

// Load reads a value of the given width and extends it to 32 bits.
func (l *LoadStoreUnit) Load(addr uint32, width decode.MemWidth, signExt bool) uint32 {
	switch width {
	case decode.MemByte:
		v := uint32(l.memory.Read8(addr))
		if signExt {
			return uint32(int32(v<<24) >> 24)
		}
		return v
	case decode.MemHalf:
		v := uint32(l.memory.Read16(addr))
		if signExt {
			return uint32(int32(v<<16) >> 16)
		}
		return v
	default:
		return l.memory.Read32(addr)
	}
}

// Store writes the low bytes of value according to the width.
func (l *LoadStoreUnit) Store(addr uint32, width decode.MemWidth, value uint32) {
	switch width {
	case decode.MemByte:
		l.memory.Write8(addr, uint8(value))
	case decode.MemHalf:
		l.memory.Write16(addr, uint16(value))
	default:
		l.memory.Write32(addr, value)
	}
}
