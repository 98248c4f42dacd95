//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package mempool

// MmapHeap falls back to the Go heap on platforms without mmap support.
type MmapHeap struct {
	Threshold int

	GoHeap
}

// NewMmapHeap returns an MmapHeap that never maps memory on this platform.
func NewMmapHeap(threshold int) *MmapHeap {
	return &MmapHeap{Threshold: threshold}
}

// MmapSupported reports whether MmapHeap maps memory on this platform.
func MmapSupported() bool { return false }

// Mapped always returns 0 on this platform.
func (h *MmapHeap) Mapped() int { return 0 }

var _ Heap = (*MmapHeap)(nil)
