package mempool

import "fmt"

// Handle identifies one block inside one pool.
type Handle struct {
	Pool  uint8
	Index uint32
}

// Null is the canonical "no block" handle.
var Null = Handle{}

// IsNull reports whether h refers to no block. The pool number is ignored.
func (h Handle) IsNull() bool {
	return h.Index == 0
}

// String returns "pool:index", or "null".
func (h Handle) String() string {
	if h.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%d:%d", h.Pool, h.Index)
}
