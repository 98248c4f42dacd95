package host

import "errors"

var (
	// ErrOutOfMemory indicates that a pool could not hold a new string.
	ErrOutOfMemory = errors.New("host: pool out of memory")

	// ErrNoScratchPool indicates that all pools above 0 are already in use.
	ErrNoScratchPool = errors.New("host: no unused pool available")

	// ErrReleased indicates use of a scratch session after Release.
	ErrReleased = errors.New("host: scratch pool already released")

	// ErrClosed indicates use of a Runtime after Close.
	ErrClosed = errors.New("host: runtime closed")
)
