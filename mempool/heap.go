package mempool

// Heap is the underlying allocator family that backs pool blocks.
//
// Alloc returns nil when the request cannot be satisfied. Realloc returns nil
// on failure and leaves b untouched; on success b must no longer be used.
// Free releases memory previously returned by Alloc or Realloc of the same
// Heap; buffers the Heap does not recognize are left to the Go collector.
type Heap interface {
	Alloc(size int) []byte
	Realloc(b []byte, size int) []byte
	Free(b []byte)
}

// GoHeap backs blocks with ordinary Go slices.
type GoHeap struct{}

func (GoHeap) Alloc(size int) []byte {
	if size <= 0 {
		return nil
	}
	return make([]byte, size)
}

func (h GoHeap) Realloc(b []byte, size int) []byte {
	if size <= 0 {
		return nil
	}
	if size <= cap(b) {
		return b[:size]
	}
	nb := h.Alloc(size)
	copy(nb, b)
	return nb
}

// Free is a no-op; the collector reclaims the slice once the pool drops it.
func (GoHeap) Free([]byte) {}

var _ Heap = GoHeap{}
