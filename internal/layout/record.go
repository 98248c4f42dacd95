package layout

import (
	"encoding/binary"
	"fmt"

	"github.com/joshuapare/poolkit/mempool"
)

// Storage is a decoded string storage record. Data aliases the block.
type Storage struct {
	LenB int32
	LenC int32
	Hash uint32
	Data []byte
}

// Entry is a decoded hash entry record.
type Entry struct {
	Hash    uint32
	Storage mempool.Handle
	Next    mempool.Handle
}

// PutHandle encodes h into b[0:HandleSize].
func PutHandle(b []byte, h mempool.Handle) {
	_ = b[HandleSize-1]
	b[0] = h.Pool
	binary.LittleEndian.PutUint32(b[1:], h.Index)
}

// ReadHandle decodes a handle from b[0:HandleSize]. Returns Null when b is
// too short.
func ReadHandle(b []byte) mempool.Handle {
	if len(b) < HandleSize {
		return mempool.Null
	}
	return mempool.Handle{Pool: b[0], Index: binary.LittleEndian.Uint32(b[1:])}
}

// EncodeStorage writes a storage record for data into b, which must be at
// least StorageSize(len(data)) bytes.
func EncodeStorage(b []byte, lenC int32, hash uint32, data []byte) error {
	need := StorageSize(len(data))
	if len(b) < need {
		return fmt.Errorf("storage: %w (have %d, need %d)", ErrTruncated, len(b), need)
	}
	binary.LittleEndian.PutUint32(b[StorageLenBOffset:], uint32(len(data)))
	binary.LittleEndian.PutUint32(b[StorageLenCOffset:], uint32(lenC))
	binary.LittleEndian.PutUint32(b[StorageHashOffset:], hash)
	copy(b[StorageDataOffset:], data)
	b[StorageDataOffset+len(data)] = 0
	return nil
}

// DecodeStorage decodes the storage record at the start of b.
func DecodeStorage(b []byte) (Storage, error) {
	if len(b) < StorageHeaderSize+StorageTrailerSize {
		return Storage{}, fmt.Errorf("storage: %w (have %d)", ErrTruncated, len(b))
	}
	lenB := int32(binary.LittleEndian.Uint32(b[StorageLenBOffset:]))
	if lenB < 0 || lenB > MaxStorageLen {
		return Storage{}, fmt.Errorf("storage: length %d: %w", lenB, ErrCorrupt)
	}
	end := StorageDataOffset + int(lenB)
	if end+StorageTrailerSize > len(b) {
		return Storage{}, fmt.Errorf("storage: %w (length %d, block %d)", ErrTruncated, lenB, len(b))
	}
	if b[end] != 0 {
		return Storage{}, fmt.Errorf("storage: missing terminator: %w", ErrCorrupt)
	}
	return Storage{
		LenB: lenB,
		LenC: int32(binary.LittleEndian.Uint32(b[StorageLenCOffset:])),
		Hash: binary.LittleEndian.Uint32(b[StorageHashOffset:]),
		Data: b[StorageDataOffset:end:end],
	}, nil
}

// PutStorageHash overwrites the hash field of the storage record in b.
func PutStorageHash(b []byte, hash uint32) {
	if len(b) >= StorageHeaderSize {
		binary.LittleEndian.PutUint32(b[StorageHashOffset:], hash)
	}
}

// PutStorageLenC overwrites the character count field of the storage record in b.
func PutStorageLenC(b []byte, lenC int32) {
	if len(b) >= StorageHeaderSize {
		binary.LittleEndian.PutUint32(b[StorageLenCOffset:], uint32(lenC))
	}
}

// EncodeEntry writes e into b, which must be at least EntrySize bytes.
func EncodeEntry(b []byte, e Entry) error {
	if len(b) < EntrySize {
		return fmt.Errorf("entry: %w (have %d, need %d)", ErrTruncated, len(b), EntrySize)
	}
	binary.LittleEndian.PutUint32(b[EntryHashOffset:], e.Hash)
	PutHandle(b[EntryStorageOffset:], e.Storage)
	PutHandle(b[EntryNextOffset:], e.Next)
	return nil
}

// DecodeEntry decodes the hash entry record at the start of b.
func DecodeEntry(b []byte) (Entry, error) {
	if len(b) < EntrySize {
		return Entry{}, fmt.Errorf("entry: %w (have %d, need %d)", ErrTruncated, len(b), EntrySize)
	}
	return Entry{
		Hash:    binary.LittleEndian.Uint32(b[EntryHashOffset:]),
		Storage: ReadHandle(b[EntryStorageOffset:]),
		Next:    ReadHandle(b[EntryNextOffset:]),
	}, nil
}
