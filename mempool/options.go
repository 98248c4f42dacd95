package mempool

const (
	// MaxBlocks is the hard per-pool cap on block slots, including the
	// reserved slot 0.
	MaxBlocks = 65536

	// MaxPools is the number of addressable pools.
	MaxPools = 256

	// DefaultInitialCapacity is the number of block slots a new pool starts with.
	DefaultInitialCapacity = 256
)

// Options configures pools created by a Registry.
type Options struct {
	// Heap supplies block memory.
	// Default: GoHeap
	Heap Heap

	// InitialCapacity is the number of block slots a new pool starts with.
	// Values outside [1, MaxBlocks] fall back to the default.
	// Default: 256
	InitialCapacity uint32

	// Poison fills released block memory with the 0xDEADBEEF pattern so that
	// Pool.Validate can spot use-after-free through retained slices.
	// Default: false
	Poison bool
}

// DefaultOptions returns the options used when a Registry is built with nil.
func DefaultOptions() *Options {
	return &Options{
		Heap:            GoHeap{},
		InitialCapacity: DefaultInitialCapacity,
		Poison:          false,
	}
}

func (o *Options) normalize() Options {
	out := *DefaultOptions()
	if o == nil {
		return out
	}
	if o.Heap != nil {
		out.Heap = o.Heap
	}
	if o.InitialCapacity >= 1 && o.InitialCapacity <= MaxBlocks {
		out.InitialCapacity = o.InitialCapacity
	}
	out.Poison = o.Poison
	return out
}
