package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/poolkit/mempool"
)

func TestRuntime_Intern(t *testing.T) {
	rt := New(nil)
	defer rt.Close()

	a, err := rt.Intern("hello")
	require.NoError(t, err)
	b, err := rt.InternBytes([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, uint8(0), a.Pool)
	assert.Equal(t, "hello", rt.String(a))

	h, err := rt.Intern("")
	require.NoError(t, err)
	assert.True(t, h.IsNull())
}

func TestRuntime_DefaultPool(t *testing.T) {
	rt := New(&Options{DefaultPool: 6})
	defer rt.Close()

	assert.Equal(t, uint8(6), rt.DefaultPool())
	h, err := rt.Intern("x")
	require.NoError(t, err)
	assert.Equal(t, uint8(6), h.Pool)

	rt.SetDefaultPool(2)
	h, err = rt.Intern("x")
	require.NoError(t, err)
	assert.Equal(t, uint8(2), h.Pool)
}

func TestRuntime_Concat(t *testing.T) {
	rt := New(nil)
	defer rt.Close()

	hello, _ := rt.Intern("hello")
	world, _ := rt.Intern("world")
	existing, _ := rt.Intern("helloworld")
	before := rt.Pools.Get(0).BlockCount()

	got, err := rt.Concat(hello, world)
	require.NoError(t, err)
	assert.Equal(t, existing, got)
	assert.Equal(t, before, rt.Pools.Get(0).BlockCount())

	got, err = rt.Concat(world, hello)
	require.NoError(t, err)
	assert.Equal(t, "worldhello", rt.String(got))

	got, err = rt.Concat(hello, mempool.Null)
	require.NoError(t, err)
	assert.Equal(t, hello, got)

	got, err = rt.Concat(mempool.Null, mempool.Null)
	require.NoError(t, err)
	assert.True(t, got.IsNull())
}

func TestRuntime_OutOfMemory(t *testing.T) {
	rt := New(&Options{Pool: &mempool.Options{Heap: refusingHeap{}}})
	defer rt.Close()

	_, err := rt.Intern("nope")
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func TestRuntime_Close(t *testing.T) {
	rt := New(nil)
	_, err := rt.Intern("hello")
	require.NoError(t, err)

	require.NoError(t, rt.Close())
	require.NoError(t, rt.Close())
	assert.False(t, rt.Pools.Exists(0))

	_, err = rt.Intern("hello")
	require.ErrorIs(t, err, ErrClosed)
	_, err = rt.AcquireScratch()
	require.ErrorIs(t, err, ErrClosed)
}

func TestScratch_Run(t *testing.T) {
	rt := New(nil)
	defer rt.Close()

	keep, err := rt.Intern("permanent")
	require.NoError(t, err)

	s, err := rt.AcquireScratch()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), s.Pool())

	var inside mempool.Handle
	err = s.Run(func() error {
		assert.Equal(t, uint8(1), rt.DefaultPool())
		inside, err = rt.Intern("temporary")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, uint8(1), inside.Pool)

	assert.Equal(t, uint8(0), rt.DefaultPool(), "default restored")
	assert.True(t, s.Released())
	assert.False(t, rt.Pools.Exists(1))
	assert.Equal(t, "", rt.String(inside))
	assert.Equal(t, "permanent", rt.String(keep))

	require.ErrorIs(t, s.Run(func() error { return nil }), ErrReleased)
}

func TestScratch_RunError(t *testing.T) {
	rt := New(nil)
	defer rt.Close()

	s, err := rt.AcquireScratch()
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.Run(func() error { return boom })
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "scratch pool 1")
	assert.True(t, s.Released())
	assert.Equal(t, uint8(0), rt.DefaultPool())
}

func TestScratch_ReuseAndExhaustion(t *testing.T) {
	rt := New(nil)
	defer rt.Close()

	a, err := rt.AcquireScratch()
	require.NoError(t, err)
	b, err := rt.AcquireScratch()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), a.Pool())
	assert.Equal(t, uint8(2), b.Pool())

	a.Release()
	a.Release()
	c, err := rt.AcquireScratch()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), c.Pool(), "released number is reused")

	for {
		if _, err = rt.AcquireScratch(); err != nil {
			break
		}
	}
	require.ErrorIs(t, err, ErrNoScratchPool)
	assert.Equal(t, uint8(0), rt.Pools.FindUnused())
}

func TestScratch_ReleaseClearsStrings(t *testing.T) {
	rt := New(nil)
	defer rt.Close()

	s, err := rt.AcquireScratch()
	require.NoError(t, err)
	rt.SetDefaultPool(s.Pool())
	_, err = rt.Intern("scoped")
	require.NoError(t, err)
	require.True(t, rt.Strings.Initialized(s.Pool()))

	s.Release()
	assert.False(t, rt.Strings.Initialized(s.Pool()))
	assert.False(t, rt.Pools.Exists(s.Pool()))
}

type refusingHeap struct{ mempool.GoHeap }

func (refusingHeap) Alloc(int) []byte { return nil }
