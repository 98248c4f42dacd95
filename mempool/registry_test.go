package mempool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_Null(t *testing.T) {
	assert.True(t, Null.IsNull())
	assert.True(t, Handle{Pool: 7}.IsNull(), "pool number is ignored for null checks")
	assert.False(t, Handle{Pool: 0, Index: 1}.IsNull())
	assert.Equal(t, "null", Null.String())
	assert.Equal(t, "3:17", Handle{Pool: 3, Index: 17}.String())

	// Handles work as map keys.
	m := map[Handle]int{{Pool: 1, Index: 2}: 5}
	assert.Equal(t, 5, m[Handle{Pool: 1, Index: 2}])
}

func TestRegistry_LazyPools(t *testing.T) {
	reg := NewRegistry(nil)
	assert.False(t, reg.Exists(4))

	// Accessors on a missing pool do not create it.
	assert.Nil(t, reg.Bytes(Handle{Pool: 4, Index: 1}))
	assert.Zero(t, reg.Size(Handle{Pool: 4, Index: 1}))
	reg.Free(Handle{Pool: 4, Index: 1})
	reg.Clear(4)
	assert.False(t, reg.Exists(4))

	h := reg.Alloc(32, 4)
	require.False(t, h.IsNull())
	assert.Equal(t, uint8(4), h.Pool)
	assert.True(t, reg.Exists(4))
	assert.Same(t, reg.Get(4), reg.Get(4))
}

func TestRegistry_Routing(t *testing.T) {
	reg := NewRegistry(nil)
	a := reg.Alloc(10, 1)
	b := reg.Alloc(10, 2)

	assert.Equal(t, a.Index, b.Index, "indices are per pool")
	assert.NotEqual(t, a, b)

	copy(reg.Bytes(a), "pool-one")
	copy(reg.Bytes(b), "pool-two")
	assert.Equal(t, "pool-one", string(reg.Bytes(a)[:8]))
	assert.Equal(t, "pool-two", string(reg.Bytes(b)[:8]))

	grown := reg.Realloc(a, 100)
	assert.Equal(t, a, grown)
	assert.Equal(t, 100, reg.Size(a))

	fresh := reg.Realloc(Handle{Pool: 3}, 8)
	assert.Equal(t, uint8(3), fresh.Pool)
	assert.Equal(t, 8, reg.Size(fresh))

	adopted := reg.Adopt([]byte("zz"), 2)
	assert.Equal(t, uint8(2), adopted.Pool)
	assert.Equal(t, "zz", string(reg.Bytes(adopted)))

	reg.Free(a)
	reg.Free(a)
	assert.Nil(t, reg.Bytes(a))
	assert.NotNil(t, reg.Bytes(b))
}

func TestRegistry_ClearAndGeneration(t *testing.T) {
	reg := NewRegistry(nil)
	h := reg.Alloc(8, 5)
	gen := reg.Generation(5)

	reg.Clear(5)
	assert.True(t, reg.Exists(5), "clear keeps the pool")
	assert.Equal(t, uint32(1), reg.Get(5).BlockCount())
	assert.Nil(t, reg.Bytes(h))
	assert.Equal(t, gen+1, reg.Generation(5))

	reg.Destroy(5)
	assert.False(t, reg.Exists(5))
	assert.Equal(t, gen+2, reg.Generation(5))

	reg.Destroy(5)
	assert.Equal(t, gen+2, reg.Generation(5), "destroying a missing pool is a no-op")
}

func TestRegistry_FindUnused(t *testing.T) {
	reg := NewRegistry(nil)

	reg.Get(0)
	assert.Equal(t, uint8(1), reg.FindUnused(), "pool 0 is never handed out")

	reg.Get(1)
	reg.Get(2)
	reg.Get(4)
	assert.Equal(t, uint8(3), reg.FindUnused())

	for i := 1; i < MaxPools; i++ {
		reg.Get(uint8(i))
	}
	assert.Equal(t, uint8(0), reg.FindUnused())
	n, ok := reg.FindUnusedOK()
	assert.Zero(t, n)
	assert.False(t, ok)

	reg.Destroy(200)
	n, ok = reg.FindUnusedOK()
	assert.Equal(t, uint8(200), n)
	assert.True(t, ok)
}

func TestRegistry_DestroyAll(t *testing.T) {
	reg := NewRegistry(nil)
	for _, n := range []uint8{0, 9, 255} {
		reg.Alloc(16, n)
	}
	require.Equal(t, 48, reg.TotalMemory())
	require.Len(t, reg.Stats(), 3)

	reg.DestroyAll()
	for _, n := range []uint8{0, 9, 255} {
		assert.False(t, reg.Exists(n))
	}
	assert.Zero(t, reg.TotalMemory())
	assert.Empty(t, reg.Stats())
}

func TestRegistry_Stats(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Alloc(10, 7)
	h := reg.Alloc(20, 7)
	reg.Alloc(30, 7)
	reg.Free(h)

	stats := reg.Stats()[7]
	assert.Equal(t, uint32(4), stats.BlockCount)
	assert.Equal(t, uint32(DefaultInitialCapacity), stats.Capacity)
	assert.Equal(t, 2, stats.LiveBlocks)
	assert.Equal(t, 1, stats.FreeSlots)
	assert.Equal(t, 40, stats.TotalMemory)
}

func TestRegistry_SharedOptions(t *testing.T) {
	reg := NewRegistry(&Options{InitialCapacity: 8, Poison: true})
	assert.Equal(t, uint32(8), reg.Get(0).Capacity())
	assert.Equal(t, uint32(8), reg.Get(1).Capacity())
	assert.IsType(t, GoHeap{}, reg.Heap())

	h := reg.Alloc(8, 1)
	assert.True(t, reg.Validate(h))
	assert.True(t, reg.Validate(Handle{Pool: 99, Index: 1}))
}
