package partitioner

import (
	"encoding/binary"
	"math/bits"
)

const (
	murmurSeed = 42

	murmurC1 = 0xcc9e2d51
	murmurC2 = 0x1b873593
)

// murmur3Key считает MurmurHash3 x86_32 для ровно восьми байт ключа.
func murmur3Key(key [8]byte, seed uint32) uint32 {
	h := seed

	for i := 0; i < 8; i += 4 {
		k := binary.LittleEndian.Uint32(key[i:])
		k *= murmurC1
		k = bits.RotateLeft32(k, 15)
		k *= murmurC2

		h ^= k
		h = bits.RotateLeft32(h, 13)
		h = h*5 + 0xe6546b64
	}

	h ^= 8
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return h
}
