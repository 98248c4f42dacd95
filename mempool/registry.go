package mempool

// Registry owns up to MaxPools independent pools, created lazily on first use.
// Build one per runtime and pass it to whatever needs pool memory.
type Registry struct {
	opts  Options
	pools [MaxPools]*Pool

	// gens counts clears and destroys per pool number so layered tables can
	// detect that their handles were invalidated underneath them.
	gens [MaxPools]uint64
}

// NewRegistry returns an empty registry. A nil opts selects DefaultOptions.
func NewRegistry(opts *Options) *Registry {
	return &Registry{opts: opts.normalize()}
}

// Heap returns the heap shared by every pool in the registry.
func (r *Registry) Heap() Heap { return r.opts.Heap }

// Get returns pool n, creating it on first use.
func (r *Registry) Get(n uint8) *Pool {
	if r.pools[n] == nil {
		r.pools[n] = NewPool(&r.opts)
	}
	return r.pools[n]
}

// Exists reports whether pool n has been created.
func (r *Registry) Exists(n uint8) bool {
	return r.pools[n] != nil
}

// Alloc allocates size bytes in pool n. Returns Null on failure.
func (r *Registry) Alloc(size int, n uint8) Handle {
	return Handle{Pool: n, Index: r.Get(n).Alloc(size)}
}

// Realloc resizes the block behind h. See Pool.Realloc.
func (r *Registry) Realloc(h Handle, newSize int) Handle {
	return Handle{Pool: h.Pool, Index: r.Get(h.Pool).Realloc(h.Index, newSize)}
}

// Adopt hands data to pool n without copying. Returns Null on failure.
func (r *Registry) Adopt(data []byte, n uint8) Handle {
	return Handle{Pool: n, Index: r.Get(n).Adopt(data)}
}

// Free releases the block behind h. Null, stale, and already freed handles
// are ignored.
func (r *Registry) Free(h Handle) {
	if p := r.pools[h.Pool]; p != nil {
		p.Free(h.Index)
	}
}

// Bytes returns the memory behind h, or nil if h does not name a live block.
// The slice is only valid until h is freed or reallocated, or its pool is
// cleared.
func (r *Registry) Bytes(h Handle) []byte {
	if p := r.pools[h.Pool]; p != nil {
		return p.Bytes(h.Index)
	}
	return nil
}

// Size returns the size of the block behind h, or 0 if h does not name a
// live block.
func (r *Registry) Size(h Handle) int {
	if p := r.pools[h.Pool]; p != nil {
		return p.Size(h.Index)
	}
	return 0
}

// Clear bulk-frees pool n but keeps the pool itself.
func (r *Registry) Clear(n uint8) {
	if p := r.pools[n]; p != nil {
		p.Clear()
		r.gens[n]++
	}
}

// Destroy frees pool n and all of its blocks.
func (r *Registry) Destroy(n uint8) {
	if p := r.pools[n]; p != nil {
		p.Destroy()
		r.pools[n] = nil
		r.gens[n]++
	}
}

// DestroyAll destroys every pool. Used at shutdown.
func (r *Registry) DestroyAll() {
	for i := 0; i < MaxPools; i++ {
		r.Destroy(uint8(i))
	}
}

// Generation returns a counter that changes every time pool n is cleared or
// destroyed.
func (r *Registry) Generation(n uint8) uint64 {
	return r.gens[n]
}

// FindUnused returns the lowest pool number in 1..255 that has not been
// created yet.
//
// It returns 0 when every pool is in use. Note that 0 is also the valid
// number of the default pool: callers must treat a 0 result as "no scratch
// pool available", never as a scratch pool. FindUnusedOK avoids the overload.
func (r *Registry) FindUnused() uint8 {
	n, _ := r.FindUnusedOK()
	return n
}

// FindUnusedOK is FindUnused with an explicit availability flag.
func (r *Registry) FindUnusedOK() (uint8, bool) {
	for i := 1; i < MaxPools; i++ {
		if r.pools[i] == nil {
			return uint8(i), true
		}
	}
	return 0, false
}

// TotalMemory returns the bytes held by live blocks across all pools.
func (r *Registry) TotalMemory() int {
	total := 0
	for _, p := range r.pools {
		if p != nil {
			total += p.TotalMemory()
		}
	}
	return total
}

// Stats returns a snapshot for every created pool, keyed by pool number.
func (r *Registry) Stats() map[uint8]PoolStats {
	out := make(map[uint8]PoolStats)
	for i, p := range r.pools {
		if p != nil {
			out[uint8(i)] = p.Stats()
		}
	}
	return out
}

// Validate reports whether the block behind h is free of the poison pattern.
// See Pool.Validate.
func (r *Registry) Validate(h Handle) bool {
	if p := r.pools[h.Pool]; p != nil {
		return p.Validate(h.Index)
	}
	return true
}
