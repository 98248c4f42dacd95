// Package strpool interns strings inside mempool pools.
//
// Each pool carries its own interning table: 256 bucket chains selected by
// the low byte of a 32-bit FNV-1a content hash. Both the string storage
// records and the hash entries that index them are ordinary blocks of the
// pool they describe, so clearing a pool releases the strings and their
// index together.
//
// Record layouts are defined in internal/layout:
//
//	String storage:  lenB int32 | lenC int32 | hash uint32 | data | NUL
//	Hash entry:      hash uint32 | storage Handle | next Handle
//
// Within one pool, equal content always yields an equal handle. The empty
// string is never interned: Intern and InternOrAdopt return mempool.Null for
// it. Like mempool, an Interner is not safe for concurrent use.
package strpool
