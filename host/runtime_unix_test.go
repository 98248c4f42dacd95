//go:build linux || darwin || freebsd || netbsd || openbsd

package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/poolkit/mempool"
)

func TestRuntime_ConcatPoolFull(t *testing.T) {
	mm := mempool.NewMmapHeap(16)
	rt := New(&Options{Pool: &mempool.Options{Heap: mm}})
	defer rt.Close()

	a, err := rt.Intern("0123456789")
	require.NoError(t, err)
	b, err := rt.Intern("abcdefghij")
	require.NoError(t, err)

	p := rt.Pools.Get(0)
	for p.Alloc(1) != 0 {
	}
	before := mm.Mapped()

	_, err = rt.Concat(a, b)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, before, mm.Mapped())
}
