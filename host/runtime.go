// Package host ties a pool registry and a string interner into the runtime
// state that compiler, assembler and VM host code share: a default pool that
// new strings land in, and scratch pools for units of work that are released
// in one sweep.
package host

import (
	"github.com/joshuapare/poolkit/mempool"
	"github.com/joshuapare/poolkit/strpool"
)

// Options configures a Runtime.
type Options struct {
	// Pool configures every pool of the registry.
	// Default: mempool.DefaultOptions()
	Pool *mempool.Options

	// DefaultPool is the pool strings are interned into until changed.
	// Default: 0
	DefaultPool uint8
}

// DefaultOptions returns the options used when New is called with nil.
func DefaultOptions() *Options {
	return &Options{
		Pool:        mempool.DefaultOptions(),
		DefaultPool: 0,
	}
}

// Runtime is the host-side memory state. It is not safe for concurrent use.
type Runtime struct {
	Pools   *mempool.Registry
	Strings *strpool.Interner

	defaultPool uint8
	closed      bool
}

// New builds a Runtime. A nil opts selects DefaultOptions.
func New(opts *Options) *Runtime {
	if opts == nil {
		opts = DefaultOptions()
	}
	reg := mempool.NewRegistry(opts.Pool)
	return &Runtime{
		Pools:       reg,
		Strings:     strpool.New(reg),
		defaultPool: opts.DefaultPool,
	}
}

// DefaultPool returns the pool new strings are interned into.
func (rt *Runtime) DefaultPool() uint8 { return rt.defaultPool }

// SetDefaultPool changes the pool new strings are interned into.
func (rt *Runtime) SetDefaultPool(n uint8) { rt.defaultPool = n }

// Intern interns s into the default pool. The empty string yields
// mempool.Null and no error.
func (rt *Runtime) Intern(s string) (mempool.Handle, error) {
	return rt.InternBytes([]byte(s))
}

// InternBytes interns b into the default pool.
func (rt *Runtime) InternBytes(b []byte) (mempool.Handle, error) {
	if rt.closed {
		return mempool.Null, ErrClosed
	}
	if len(b) == 0 {
		return mempool.Null, nil
	}
	h := rt.Strings.Intern(rt.defaultPool, b)
	if h.IsNull() {
		return mempool.Null, ErrOutOfMemory
	}
	return h, nil
}

// Concat interns the concatenation of two interned strings into the default
// pool. The result is built outside the pool and adopted, so a result that is
// already interned costs no pool block.
func (rt *Runtime) Concat(a, b mempool.Handle) (mempool.Handle, error) {
	if rt.closed {
		return mempool.Null, ErrClosed
	}
	left, right := rt.Strings.Bytes(a), rt.Strings.Bytes(b)
	if len(left)+len(right) == 0 {
		return mempool.Null, nil
	}
	joined := make([]byte, 0, len(left)+len(right))
	joined = append(append(joined, left...), right...)

	ss := rt.Strings.NewStorage(joined)
	if ss == nil {
		return mempool.Null, ErrOutOfMemory
	}
	h := rt.Strings.InternOrAdopt(rt.defaultPool, ss)
	if h.IsNull() {
		return mempool.Null, ErrOutOfMemory
	}
	return h, nil
}

// String returns the content of an interned string.
func (rt *Runtime) String(h mempool.Handle) string {
	return rt.Strings.String(h)
}

// Close destroys every pool. Handles obtained from the runtime are invalid
// afterwards. Close is idempotent.
func (rt *Runtime) Close() error {
	if rt.closed {
		return nil
	}
	rt.closed = true
	rt.Pools.DestroyAll()
	return nil
}
