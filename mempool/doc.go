// Package mempool provides bulk-releasable block allocation for host code
// (compiler, assembler, disassembler, and anything else outside the VM).
//
// # Overview
//
// Allocations happen inside a numbered pool (0-255) and are addressed by a
// Handle rather than a pointer. Blocks can be freed individually, but the
// intended lifecycle is to allocate freely during a unit of work and then
// release the whole pool at once:
//
//	reg := mempool.NewRegistry(nil)
//	scratch := reg.FindUnused()
//
//	h := reg.Alloc(128, scratch)
//	buf := reg.Bytes(h) // valid until h is freed or its pool is cleared
//	copy(buf, "...")
//
//	reg.Clear(scratch) // every block in the pool is released
//
// # Handles
//
// A Handle is {Pool, Index}. Index 0 is reserved in every pool and means
// "no block", so the zero Handle is Null. Handles are plain values: they can
// be compared, used as map keys, and embedded in other pool blocks.
//
// # Block Allocator
//
// Each Pool keeps a slice of block descriptors. Slot 0 is never used. Freed
// slots are reused lowest-index first; the descriptor slice only grows when
// no freed slot is available, doubling up to MaxBlocks. A pool that hits
// MaxBlocks fails further allocations by returning index 0.
//
// # Failure Semantics
//
// Nothing in this package panics or returns an error for allocation
// exhaustion or handle misuse. Allocation failures return Null, and every
// accessor returns nil or 0 for stale, out-of-range, or freed handles.
// Slices returned by Bytes must not be kept past a Free, Realloc, or Clear
// touching the same block.
//
// # Heaps
//
// Block memory comes from a Heap. GoHeap uses ordinary Go slices. On Unix
// platforms MmapHeap maps large blocks directly from the OS so releasing a
// pool returns them immediately instead of waiting for the Go collector.
//
// # Thread Safety
//
// Pools and registries are not thread-safe. One pool is expected to be
// touched by one compilation or execution phase at a time; callers must
// synchronize externally if that ever changes.
package mempool
