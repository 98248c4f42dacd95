package strpool

import (
	"bytes"

	"github.com/joshuapare/poolkit/internal/layout"
	"github.com/joshuapare/poolkit/mempool"
)

// NumBuckets is the number of hash chains per pool.
const NumBuckets = 256

// table is the interning index of one pool. Bucket heads are handles to the
// first hash entry of each chain; entries live in the same pool they index.
type table struct {
	heads       [NumBuckets]mempool.Handle
	initialized bool
	gen         uint64
}

// Interner deduplicates string content per pool on top of a Registry.
type Interner struct {
	reg    *mempool.Registry
	tables [mempool.MaxPools]table
}

// New returns an Interner that allocates through reg.
func New(reg *mempool.Registry) *Interner {
	return &Interner{reg: reg}
}

// Registry returns the registry the interner allocates from.
func (in *Interner) Registry() *mempool.Registry { return in.reg }

// Intern returns the canonical handle for b in pool, storing a copy of b on
// first sight. The empty string always yields Null. Null is also returned
// when the pool cannot hold the new string.
func (in *Interner) Intern(pool uint8, b []byte) mempool.Handle {
	if len(b) == 0 || len(b) > layout.MaxStorageLen {
		return mempool.Null
	}
	in.init(pool)

	hash := Hash(b)
	if ref, ok := in.find(pool, hash, b); ok {
		return ref
	}
	ref := in.allocStorage(pool, b, hash)
	return in.StoreInPool(ref, hash)
}

// InternString is Intern for a Go string.
func (in *Interner) InternString(pool uint8, s string) mempool.Handle {
	return in.Intern(pool, []byte(s))
}

// InternOrAdopt interns a storage record built outside the pool, typically by
// NewStorage. The interner takes ownership of ss: when equal content is
// already interned, ss is released back to the heap and the existing handle
// is returned; otherwise ss itself is adopted into the pool without copying.
// When the pool cannot take ss it is released as well. An empty or malformed
// record yields Null.
func (in *Interner) InternOrAdopt(pool uint8, ss []byte) mempool.Handle {
	if ss == nil {
		return mempool.Null
	}
	rec, err := layout.DecodeStorage(ss)
	if err != nil {
		return mempool.Null
	}
	// Seeds the table even for an empty record, unlike Intern.
	in.init(pool)

	if rec.LenB == 0 {
		in.reg.Heap().Free(ss)
		return mempool.Null
	}
	if rec.Hash == 0 {
		rec.Hash = Hash(rec.Data)
		layout.PutStorageHash(ss, rec.Hash)
	}
	if ref, ok := in.find(pool, rec.Hash, rec.Data); ok {
		in.reg.Heap().Free(ss)
		return ref
	}
	ref := in.reg.Adopt(ss, pool)
	if ref.IsNull() {
		in.reg.Heap().Free(ss)
		return mempool.Null
	}
	return in.StoreInPool(ref, rec.Hash)
}

// Lookup returns the interned handle for b without inserting it.
func (in *Interner) Lookup(pool uint8, b []byte) (mempool.Handle, bool) {
	if len(b) == 0 {
		return mempool.Null, false
	}
	t := &in.tables[pool]
	if !t.initialized || t.gen != in.reg.Generation(pool) {
		return mempool.Null, false
	}
	return in.find(pool, Hash(b), b)
}

// StoreInPool indexes an already allocated storage block under hash and
// returns ref. When the hash entry cannot be allocated, the storage block is
// freed and Null is returned so the pool never holds unindexed strings.
func (in *Interner) StoreInPool(ref mempool.Handle, hash uint32) mempool.Handle {
	if ref.IsNull() {
		return mempool.Null
	}
	in.init(ref.Pool)
	t := &in.tables[ref.Pool]
	b := bucket(hash)

	entryRef := in.reg.Alloc(layout.EntrySize, ref.Pool)
	if entryRef.IsNull() {
		in.reg.Free(ref)
		return mempool.Null
	}
	entry := layout.Entry{Hash: hash, Storage: ref, Next: t.heads[b]}
	if err := layout.EncodeEntry(in.reg.Bytes(entryRef), entry); err != nil {
		in.reg.Free(entryRef)
		in.reg.Free(ref)
		return mempool.Null
	}
	t.heads[b] = entryRef
	return ref
}

// Clear drops the interning index of pool and then bulk-frees the pool.
func (in *Interner) Clear(pool uint8) {
	in.reset(pool)
	in.reg.Clear(pool)
}

// Initialized reports whether pool has an interning index.
func (in *Interner) Initialized(pool uint8) bool {
	t := &in.tables[pool]
	return t.initialized && t.gen == in.reg.Generation(pool)
}

// Bytes returns the content of an interned string, aliasing pool memory.
// Null and stale handles yield nil.
func (in *Interner) Bytes(h mempool.Handle) []byte {
	rec, err := layout.DecodeStorage(in.reg.Bytes(h))
	if err != nil {
		return nil
	}
	return rec.Data
}

// String returns a copy of an interned string. Null yields "".
func (in *Interner) String(h mempool.Handle) string {
	return string(in.Bytes(h))
}

// Len returns the byte length of an interned string.
func (in *Interner) Len(h mempool.Handle) int {
	return len(in.Bytes(h))
}

// CharCount returns the number of UTF-8 characters of an interned string,
// computing and caching it for adopted records that did not carry one.
func (in *Interner) CharCount(h mempool.Handle) int {
	raw := in.reg.Bytes(h)
	rec, err := layout.DecodeStorage(raw)
	if err != nil {
		return 0
	}
	if rec.LenC < 0 {
		rec.LenC = charCount(rec.Data)
		layout.PutStorageLenC(raw, rec.LenC)
	}
	return int(rec.LenC)
}

// HashOf returns the stored content hash of an interned string, or 0.
func (in *Interner) HashOf(h mempool.Handle) uint32 {
	rec, err := layout.DecodeStorage(in.reg.Bytes(h))
	if err != nil {
		return 0
	}
	return rec.Hash
}

// Storage decodes the storage record behind h.
func (in *Interner) Storage(h mempool.Handle) (layout.Storage, error) {
	return layout.DecodeStorage(in.reg.Bytes(h))
}

// AllocatorFor returns an allocation function bound to pool, for callers
// that only need raw buffers with the pool's lifetime.
func (in *Interner) AllocatorFor(pool uint8) func(size int) []byte {
	return func(size int) []byte {
		return in.reg.Bytes(in.reg.Alloc(size, pool))
	}
}

// init seeds the table of pool on first use, and again after the underlying
// pool was cleared or destroyed behind the interner's back.
func (in *Interner) init(pool uint8) {
	t := &in.tables[pool]
	gen := in.reg.Generation(pool)
	if t.initialized && t.gen == gen {
		return
	}
	in.reset(pool)
	t.initialized = true
	t.gen = gen

	// Canonical empty string. Intern never looks it up, since empty input
	// short-circuits to Null, but it keeps the pool's first entry stable.
	hash := Hash(nil)
	in.StoreInPool(in.allocStorage(pool, nil, hash), hash)
}

func (in *Interner) reset(pool uint8) {
	t := &in.tables[pool]
	t.heads = [NumBuckets]mempool.Handle{}
	t.initialized = false
}

func (in *Interner) allocStorage(pool uint8, b []byte, hash uint32) mempool.Handle {
	ref := in.reg.Alloc(layout.StorageSize(len(b)), pool)
	if ref.IsNull() {
		return mempool.Null
	}
	if err := layout.EncodeStorage(in.reg.Bytes(ref), charCount(b), hash, b); err != nil {
		in.reg.Free(ref)
		return mempool.Null
	}
	return ref
}

func (in *Interner) find(pool uint8, hash uint32, b []byte) (mempool.Handle, bool) {
	t := &in.tables[pool]
	for ref := t.heads[bucket(hash)]; !ref.IsNull(); {
		e, err := layout.DecodeEntry(in.reg.Bytes(ref))
		if err != nil {
			break
		}
		if e.Hash == hash {
			rec, err := layout.DecodeStorage(in.reg.Bytes(e.Storage))
			if err == nil && bytes.Equal(rec.Data, b) {
				return e.Storage, true
			}
		}
		ref = e.Next
	}
	return mempool.Null, false
}
