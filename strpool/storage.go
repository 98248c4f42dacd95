package strpool

import (
	"github.com/joshuapare/poolkit/internal/layout"
)

// NewStorage builds a storage record for b on the registry heap, outside any
// pool, ready to be handed to InternOrAdopt. The hash and character count
// are left uncomputed. Returns nil for an empty string or when the heap
// refuses the request.
func (in *Interner) NewStorage(b []byte) []byte {
	if len(b) == 0 || len(b) > layout.MaxStorageLen {
		return nil
	}
	ss := in.reg.Heap().Alloc(layout.StorageSize(len(b)))
	if ss == nil {
		return nil
	}
	if err := layout.EncodeStorage(ss, layout.LenCUnknown, 0, b); err != nil {
		in.reg.Heap().Free(ss)
		return nil
	}
	return ss
}

// charCount counts UTF-8 characters by skipping continuation bytes.
// Invalid sequences count one character per non-continuation byte.
func charCount(b []byte) int32 {
	n := int32(0)
	for _, c := range b {
		if c&0xC0 != 0x80 {
			n++
		}
	}
	return n
}
