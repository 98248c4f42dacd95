// Package layout defines the byte layouts of the records the string pool
// keeps inside pool blocks. Every record is little-endian and lives in its
// own block, so it is addressed by a mempool.Handle and released with the
// pool that owns it.
package layout

const (
	// HandleSize is the encoded size of a mempool.Handle.
	// Layout:
	//   0x00  1  pool number
	//   0x01  4  index
	HandleSize = 5

	// String storage record.
	// Layout:
	//   0x00  4  byte length (int32)
	//   0x04  4  UTF-8 character count (int32, -1 = not computed)
	//   0x08  4  content hash (uint32, 0 = not computed)
	//   0x0C  n  bytes
	//   0x0C+n 1 NUL terminator
	StorageLenBOffset  = 0x00
	StorageLenCOffset  = 0x04
	StorageHashOffset  = 0x08
	StorageDataOffset  = 0x0C
	StorageHeaderSize  = StorageDataOffset
	StorageTrailerSize = 1

	// Hash entry record.
	// Layout:
	//   0x00  4  content hash
	//   0x04  5  handle of the string storage block
	//   0x09  5  handle of the next entry in the bucket
	EntryHashOffset    = 0x00
	EntryStorageOffset = 0x04
	EntryNextOffset    = 0x09
	EntrySize          = 0x0E

	// LenCUnknown marks a character count that has not been computed yet.
	LenCUnknown = -1

	// MaxStorageLen bounds the byte length a storage record may claim.
	MaxStorageLen = 1<<31 - StorageHeaderSize - StorageTrailerSize - 1
)

// StorageSize returns the block size needed for a string of lenB bytes.
func StorageSize(lenB int) int {
	return StorageHeaderSize + lenB + StorageTrailerSize
}
