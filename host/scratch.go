package host

import (
	"fmt"
)

// Scratch is a temporary pool reserved for one unit of work, such as
// compiling a single file or rendering one debugger frame.
type Scratch struct {
	rt       *Runtime
	pool     uint8
	released bool
}

// AcquireScratch reserves the lowest pool number above 0 that has not been
// created yet.
func (rt *Runtime) AcquireScratch() (*Scratch, error) {
	if rt.closed {
		return nil, ErrClosed
	}
	n, ok := rt.Pools.FindUnusedOK()
	if !ok {
		return nil, ErrNoScratchPool
	}
	// Creating the pool marks the number as used for later acquisitions.
	rt.Pools.Get(n)
	return &Scratch{rt: rt, pool: n}, nil
}

// Pool returns the scratch pool number.
func (s *Scratch) Pool() uint8 { return s.pool }

// Run makes the scratch pool the default pool while fn runs, then restores
// the previous default and releases the scratch pool. Strings interned by fn
// are only valid inside fn.
func (s *Scratch) Run(fn func() error) error {
	if s.released {
		return ErrReleased
	}
	prev := s.rt.defaultPool
	s.rt.defaultPool = s.pool
	defer func() {
		s.rt.defaultPool = prev
		s.Release()
	}()

	if err := fn(); err != nil {
		return fmt.Errorf("scratch pool %d: %w", s.pool, err)
	}
	return nil
}

// Release drops the pool's interning table, frees all of its blocks and
// returns the pool number for reuse. Calling Release again does nothing.
func (s *Scratch) Release() {
	if s.released {
		return
	}
	s.released = true
	if s.rt.closed {
		return
	}
	s.rt.Strings.Clear(s.pool)
	s.rt.Pools.Destroy(s.pool)
}

// Released reports whether Release has run.
func (s *Scratch) Released() bool { return s.released }
