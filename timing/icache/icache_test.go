package icache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/GengLUO/coco-ibex-ipmfd/emu"
	"github.com/GengLUO/coco-ibex-ipmfd/timing/icache"
)

var _ = Describe("Instruction cache", func() {
	var (
		memory *emu.Memory
		cache  *icache.Cache
	)

	BeforeEach(func() {
		memory = emu.NewMemory()
		memory.Write32(0x1000, 0x00510093)
		memory.Write32(0x1004, 0x002081B3)
		cache = icache.New(icache.DefaultConfig(), icache.NewMemoryBacking(memory))
	})

	It("should miss on the first fetch and hit afterwards", func() {
		first := cache.ReadWord(0x1000)
		Expect(first.Hit).To(BeFalse())
		Expect(first.Word).To(Equal(uint32(0x00510093)))
		Expect(first.Latency).To(Equal(cache.Config().MissLatency))

		second := cache.ReadWord(0x1000)
		Expect(second.Hit).To(BeTrue())
		Expect(second.Latency).To(Equal(cache.Config().HitLatency))
	})

	It("should serve the whole line after one fill", func() {
		cache.ReadWord(0x1000)
		res := cache.ReadWord(0x1004)
		Expect(res.Hit).To(BeTrue())
		Expect(res.Word).To(Equal(uint32(0x002081B3)))
	})

	It("should track fetch statistics", func() {
		cache.ReadWord(0x1000)
		cache.ReadWord(0x1000)
		cache.ReadWord(0x1004)

		stats := cache.Stats()
		Expect(stats.Fetches).To(Equal(uint64(3)))
		Expect(stats.Misses).To(Equal(uint64(1)))
		Expect(stats.Hits).To(Equal(uint64(2)))
	})

	It("should refetch after a line invalidate", func() {
		cache.ReadWord(0x1000)
		memory.Write32(0x1000, 0x00100073)

		// Stale until the line is dropped.
		Expect(cache.ReadWord(0x1000).Word).To(Equal(uint32(0x00510093)))

		cache.Invalidate(0x1000)
		res := cache.ReadWord(0x1000)
		Expect(res.Hit).To(BeFalse())
		Expect(res.Word).To(Equal(uint32(0x00100073)))
	})

	It("should drop every line on a full invalidate", func() {
		cache.ReadWord(0x1000)
		cache.ReadWord(0x2000)
		cache.InvalidateAll()

		Expect(cache.Stats().Invalidates).To(Equal(uint64(2)))
		Expect(cache.ReadWord(0x1000).Hit).To(BeFalse())
		Expect(cache.ReadWord(0x2000).Hit).To(BeFalse())
	})

	It("should evict within a set once the ways are exhausted", func() {
		cfg := cache.Config()
		numSets := cfg.Size / (cfg.Associativity * cfg.BlockSize)
		setStride := uint32(numSets * cfg.BlockSize)

		// Fill every way of set 0, then one more.
		for i := 0; i <= cfg.Associativity; i++ {
			cache.ReadWord(uint32(i) * setStride)
		}
		Expect(cache.Stats().Evictions).To(Equal(uint64(1)))

		// The least recently used line is gone.
		Expect(cache.ReadWord(0).Hit).To(BeFalse())
	})

	It("should read zeros without a backing store", func() {
		bare := icache.New(icache.DefaultConfig(), nil)
		res := bare.ReadWord(0x1000)
		Expect(res.Word).To(Equal(uint32(0)))
	})

	It("should clear state and statistics on reset", func() {
		cache.ReadWord(0x1000)
		cache.Reset()
		Expect(cache.Stats().Fetches).To(Equal(uint64(0)))
		Expect(cache.ReadWord(0x1000).Hit).To(BeFalse())
	})
})
