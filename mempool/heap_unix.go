//go:build linux || darwin || freebsd || netbsd || openbsd

package mempool

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// MmapHeap maps blocks of at least Threshold bytes straight from the OS with
// anonymous private mappings and serves smaller blocks from the Go heap.
// Mapped blocks are unmapped on Free, so clearing a pool of large blocks
// returns the memory at once.
type MmapHeap struct {
	// Threshold is the smallest request that gets its own mapping.
	Threshold int

	small  GoHeap
	mapped map[uintptr]int // base address -> mapping length
}

// NewMmapHeap returns an MmapHeap. A threshold <= 0 selects one page.
func NewMmapHeap(threshold int) *MmapHeap {
	if threshold <= 0 {
		threshold = unix.Getpagesize()
	}
	return &MmapHeap{
		Threshold: threshold,
		mapped:    make(map[uintptr]int),
	}
}

// MmapSupported reports whether MmapHeap maps memory on this platform.
func MmapSupported() bool { return true }

func (h *MmapHeap) Alloc(size int) []byte {
	if size <= 0 {
		return nil
	}
	if size < h.Threshold {
		return h.small.Alloc(size)
	}
	page := unix.Getpagesize()
	length := (size + page - 1) / page * page
	b, err := unix.Mmap(-1, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil
	}
	h.mapped[base(b)] = length
	return b[:size]
}

func (h *MmapHeap) Realloc(b []byte, size int) []byte {
	if size <= 0 {
		return nil
	}
	if h.isMapped(b) {
		if size <= cap(b) {
			return b[:size]
		}
	} else if size < h.Threshold {
		return h.small.Realloc(b, size)
	}
	nb := h.Alloc(size)
	if nb == nil {
		return nil
	}
	copy(nb, b)
	h.Free(b)
	return nb
}

func (h *MmapHeap) Free(b []byte) {
	if cap(b) == 0 {
		return
	}
	key := base(b)
	length, ok := h.mapped[key]
	if !ok {
		return
	}
	delete(h.mapped, key)
	_ = unix.Munmap(b[:length:length])
}

// Mapped returns the number of live mappings.
func (h *MmapHeap) Mapped() int {
	return len(h.mapped)
}

func (h *MmapHeap) isMapped(b []byte) bool {
	if cap(b) == 0 {
		return false
	}
	_, ok := h.mapped[base(b)]
	return ok
}

func base(b []byte) uintptr {
	if cap(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

var _ Heap = (*MmapHeap)(nil)
