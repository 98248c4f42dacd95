package mempool

import (
	"container/heap"
	"encoding/binary"
)

// poisonWord is written over released memory when Options.Poison is set.
const poisonWord = 0xDEADBEEF

type block struct {
	data  []byte
	inUse bool
}

// Pool is a block allocator addressed by slot index. Slot 0 is reserved so
// index 0 can mean "no block".
type Pool struct {
	heap   Heap
	poison bool

	// blocks has len == capacity; only [0, blockCount) has ever been handed out.
	blocks     []block
	blockCount uint32

	// free holds released indices below blockCount, lowest first.
	free freeSlots
}

// PoolStats is a snapshot of a pool's bookkeeping.
type PoolStats struct {
	BlockCount  uint32 // slots handed out so far, including slot 0
	Capacity    uint32 // descriptor slots allocated
	LiveBlocks  int    // slots currently in use
	FreeSlots   int    // released slots waiting for reuse
	TotalMemory int    // bytes held by live blocks
}

// NewPool returns an empty pool. A nil opts selects DefaultOptions.
func NewPool(opts *Options) *Pool {
	o := opts.normalize()
	return &Pool{
		heap:       o.Heap,
		poison:     o.Poison,
		blocks:     make([]block, o.InitialCapacity),
		blockCount: 1,
	}
}

// Alloc allocates a block of size bytes and returns its index, or 0 when
// size is not positive, the pool is full, or the heap refuses the request.
func (p *Pool) Alloc(size int) uint32 {
	if size <= 0 {
		return 0
	}
	data := p.heap.Alloc(size)
	if data == nil {
		return 0
	}
	index := p.slot()
	if index == 0 {
		p.heap.Free(data)
		return 0
	}
	p.blocks[index] = block{data: data, inUse: true}
	return index
}

// Realloc resizes the block at index. An invalid or freed index behaves like
// Alloc(newSize); newSize <= 0 frees the block and returns 0. The index is
// preserved on success, and the block is untouched on failure.
func (p *Pool) Realloc(index uint32, newSize int) uint32 {
	if !p.valid(index) {
		return p.Alloc(newSize)
	}
	if newSize <= 0 {
		p.Free(index)
		return 0
	}
	data := p.heap.Realloc(p.blocks[index].data, newSize)
	if data == nil {
		return 0
	}
	p.blocks[index].data = data
	return index
}

// Free releases the block at index. Freeing 0, an out-of-range index, or an
// already-freed block does nothing.
func (p *Pool) Free(index uint32) {
	if !p.valid(index) {
		return
	}
	p.release(index)
	heap.Push(&p.free, index)
}

// Adopt takes ownership of data, which must come from the same Heap family,
// and returns its new index. Returns 0 for an empty buffer or a full pool.
func (p *Pool) Adopt(data []byte) uint32 {
	if len(data) == 0 {
		return 0
	}
	index := p.slot()
	if index == 0 {
		return 0
	}
	p.blocks[index] = block{data: data, inUse: true}
	return index
}

// Bytes returns the block's memory, or nil for an invalid or freed index.
func (p *Pool) Bytes(index uint32) []byte {
	if !p.valid(index) {
		return nil
	}
	return p.blocks[index].data
}

// Size returns the block's size in bytes, or 0 for an invalid or freed index.
func (p *Pool) Size(index uint32) int {
	if !p.valid(index) {
		return 0
	}
	return len(p.blocks[index].data)
}

// Clear frees every live block and resets the pool to its empty state. The
// descriptor slice keeps its capacity.
func (p *Pool) Clear() {
	if p.blockCount <= 1 {
		return
	}
	for i := uint32(1); i < p.blockCount; i++ {
		if p.blocks[i].inUse {
			p.release(i)
		}
	}
	p.blockCount = 1
	p.free = p.free[:0]
}

// Destroy clears the pool and drops its descriptor slice. The pool must not
// be used afterwards.
func (p *Pool) Destroy() {
	p.Clear()
	p.blocks = nil
	p.free = nil
}

// BlockCount returns the number of slots handed out so far, including the
// reserved slot 0.
func (p *Pool) BlockCount() uint32 { return p.blockCount }

// Capacity returns the number of descriptor slots currently allocated.
func (p *Pool) Capacity() uint32 { return uint32(len(p.blocks)) }

// TotalMemory returns the sum of sizes of all live blocks.
func (p *Pool) TotalMemory() int {
	total := 0
	for i := uint32(1); i < p.blockCount; i++ {
		if p.blocks[i].inUse {
			total += len(p.blocks[i].data)
		}
	}
	return total
}

// LiveBlocks returns the number of blocks currently in use.
func (p *Pool) LiveBlocks() int {
	return int(p.blockCount) - 1 - p.free.Len()
}

// Stats returns a snapshot of the pool's bookkeeping.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		BlockCount:  p.blockCount,
		Capacity:    p.Capacity(),
		LiveBlocks:  p.LiveBlocks(),
		FreeSlots:   p.free.Len(),
		TotalMemory: p.TotalMemory(),
	}
}

// Validate reports whether the live block at index is free of the poison
// pattern. It always returns true when poisoning is disabled or the index is
// not live.
func (p *Pool) Validate(index uint32) bool {
	if !p.poison || !p.valid(index) {
		return true
	}
	return !hasPoison(p.blocks[index].data)
}

func (p *Pool) valid(index uint32) bool {
	return index != 0 && index < p.blockCount && p.blocks[index].inUse
}

// slot returns a free slot index, growing the descriptor slice if needed.
// Returns 0 when the pool is at MaxBlocks.
func (p *Pool) slot() uint32 {
	if p.free.Len() > 0 {
		return heap.Pop(&p.free).(uint32)
	}
	capacity := uint32(len(p.blocks))
	if p.blockCount >= capacity {
		newCapacity := capacity * 2
		if newCapacity > MaxBlocks {
			newCapacity = MaxBlocks
		}
		if newCapacity <= capacity {
			return 0
		}
		grown := make([]block, newCapacity)
		copy(grown, p.blocks)
		p.blocks = grown
	}
	index := p.blockCount
	p.blockCount++
	return index
}

func (p *Pool) release(index uint32) {
	b := &p.blocks[index]
	if p.poison {
		fillPoison(b.data)
	}
	p.heap.Free(b.data)
	b.data = nil
	b.inUse = false
}

func fillPoison(data []byte) {
	i := 0
	for ; i+4 <= len(data); i += 4 {
		binary.LittleEndian.PutUint32(data[i:], poisonWord)
	}
	for ; i < len(data); i++ {
		data[i] = byte(poisonWord & 0xFF)
	}
}

func hasPoison(data []byte) bool {
	for i := 0; i+4 <= len(data); i += 4 {
		if binary.LittleEndian.Uint32(data[i:]) == poisonWord {
			return true
		}
	}
	return false
}

// freeSlots is a min-heap of released slot indices.
type freeSlots []uint32

func (f freeSlots) Len() int           { return len(f) }
func (f freeSlots) Less(i, j int) bool { return f[i] < f[j] }
func (f freeSlots) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }

func (f *freeSlots) Push(x any) { *f = append(*f, x.(uint32)) }

func (f *freeSlots) Pop() any {
	old := *f
	n := len(old)
	x := old[n-1]
	*f = old[:n-1]
	return x
}
