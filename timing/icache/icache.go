// Package icache models the instruction cache in front of the fetch
// stage using Akita cache components. It is read-only: the fetch path
// never writes, so there is no dirty state and no writeback.
package icache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds instruction cache geometry and latency parameters.
type Config struct {
	// Size in bytes
	Size int
	// Associativity (number of ways)
	Associativity int
	// BlockSize in bytes (cache line size)
	BlockSize int
	// HitLatency in cycles
	HitLatency uint64
	// MissLatency in cycles (includes the memory fill)
	MissLatency uint64
}

// DefaultConfig returns the default instruction cache configuration:
// 4KB, 2-way, 8-byte lines, matching a small embedded-class fetch cache.
func DefaultConfig() Config {
	return Config{
		Size:          4 * 1024,
		Associativity: 2,
		BlockSize:     8,
		HitLatency:    1,
		MissLatency:   3,
	}
}

// FetchResult contains the result of one instruction fetch.
type FetchResult struct {
	// Word is the 32-bit instruction word.
	Word uint32
	// Hit indicates whether the fetch hit in the cache.
	Hit bool
	// Latency is the number of cycles this fetch takes.
	Latency uint64
}

// BackingStore is the next level the cache fills lines from.
type BackingStore interface {
	// Read fetches size bytes starting at addr.
	Read(addr uint32, size int) []byte
}

// Statistics holds fetch statistics.
type Statistics struct {
	Fetches     uint64
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Invalidates uint64
}

// Cache is a set-associative instruction cache backed by an Akita
// directory for tag and replacement state.
type Cache struct {
	config Config

	directory *akitacache.DirectoryImpl

	// Line storage, indexed by (setID * associativity + wayID).
	dataStore [][]byte

	stats   Statistics
	backing BackingStore
}

// New creates an instruction cache with the given configuration.
func New(config Config, backing BackingStore) *Cache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, config.BlockSize)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns fetch statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears fetch statistics.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *Cache) blockAddr(addr uint32) uint32 {
	return addr - addr%uint32(c.config.BlockSize)
}

// ReadWord fetches the 32-bit instruction word at addr.
func (c *Cache) ReadWord(addr uint32) FetchResult {
	c.stats.Fetches++

	blockAddr := c.blockAddr(addr)
	block := c.directory.Lookup(0, uint64(blockAddr))

	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)

		offset := addr - blockAddr
		line := c.dataStore[c.blockIndex(block)]
		return FetchResult{
			Word:    wordAt(line, int(offset)),
			Hit:     true,
			Latency: c.config.HitLatency,
		}
	}

	c.stats.Misses++
	return c.fill(addr, blockAddr)
}

// fill handles a fetch miss by filling the line from the backing store.
func (c *Cache) fill(addr, blockAddr uint32) FetchResult {
	result := FetchResult{Latency: c.config.MissLatency}

	victim := c.directory.FindVictim(uint64(blockAddr))
	if victim == nil {
		// The directory always yields a victim for a well-formed
		// geometry; fall back to an uncached fill.
		if c.backing != nil {
			result.Word = wordAt(c.backing.Read(addr, 4), 0)
		}
		return result
	}

	if victim.IsValid {
		c.stats.Evictions++
	}

	line := c.dataStore[c.blockIndex(victim)]
	if c.backing != nil {
		copy(line, c.backing.Read(blockAddr, c.config.BlockSize))
	} else {
		for i := range line {
			line[i] = 0
		}
	}

	victim.Tag = uint64(blockAddr)
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)

	result.Word = wordAt(line, int(addr-blockAddr))
	return result
}

// Invalidate drops the line holding addr, if present.
func (c *Cache) Invalidate(addr uint32) {
	block := c.directory.Lookup(0, uint64(c.blockAddr(addr)))
	if block != nil && block.IsValid {
		block.IsValid = false
		c.stats.Invalidates++
	}
}

// InvalidateAll drops every line. The instruction-stream fence uses this
// so that stores to the instruction region become visible to fetch.
func (c *Cache) InvalidateAll() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid {
				block.IsValid = false
				c.stats.Invalidates++
			}
		}
	}
}

// Reset invalidates all lines and clears statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}

// wordAt assembles a little-endian word from a line at the given offset.
func wordAt(line []byte, offset int) uint32 {
	if line == nil || offset+4 > len(line) {
		return 0
	}
	return uint32(line[offset]) |
		uint32(line[offset+1])<<8 |
		uint32(line[offset+2])<<16 |
		uint32(line[offset+3])<<24
}
