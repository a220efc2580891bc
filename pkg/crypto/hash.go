package crypto

import (
	"hash"

	"golang.org/x/crypto/blake2s"
)

// HashSize is the size in bytes of a BLAKE2s-256 digest.
const HashSize = blake2s.Size

// NewHasher returns a streaming BLAKE2s-256 hasher. Content hashes of
// transactions and blocks are built by writing their fields to it in order.
func NewHasher() hash.Hash {
	h, err := blake2s.New256(nil)
	if err != nil {
		// blake2s.New256 only fails for a bad key; we pass none.
		panic(err)
	}
	return h
}

// Sum computes the BLAKE2s-256 hash of a single input.
func Sum(data []byte) []byte {
	digest := blake2s.Sum256(data)
	return digest[:]
}

// SumMultiple computes the BLAKE2s-256 hash of the concatenation of inputs.
func SumMultiple(inputs ...[]byte) []byte {
	h := NewHasher()
	for _, input := range inputs {
		h.Write(input)
	}
	return h.Sum(nil)
}

// Uint64ToBytes encodes n as 8 little-endian bytes for hashing.
func Uint64ToBytes(n uint64) []byte {
	b := make([]byte, 8)
	for i := uint64(0); i < 8; i++ {
		b[i] = byte(n >> (i * 8))
	}
	return b
}
