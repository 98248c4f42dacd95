package strpool

import "hash/fnv"

// Hash returns the 32-bit FNV-1a hash of b. A result of 0 is reported as 1,
// since 0 marks a storage record whose hash has not been computed.
func Hash(b []byte) uint32 {
	h := fnv.New32a()
	h.Write(b) //nolint:errcheck // fnv hash.Write never errors
	if sum := h.Sum32(); sum != 0 {
		return sum
	}
	return 1
}

// bucket selects one of the 256 chains from the low byte of the hash.
func bucket(hash uint32) uint8 {
	return uint8(hash & 0xFF)
}
