// Package hashers has ready-made hash functions for hashmap.WithHasher.
//
// All of them are deterministic: the same key hashes to the same value in
// every process, which makes table layouts reproducible. The map's default
// hasher (hash/maphash) is seeded randomly instead.
package hashers

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// Integer is any integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// String hashes with xxHash64.
func String(s string) uint64 {
	return xxhash.Sum64String(s)
}

// StringXXH3 hashes with XXH3-64. Usually the fastest for short strings.
func StringXXH3(s string) uint64 {
	return xxh3.HashString(s)
}

// StringMurmur3 hashes with MurmurHash3, the lower 64 bits of the x64 128-bit
// variant.
func StringMurmur3(s string) uint64 {
	return murmur3.Sum64([]byte(s))
}

// SeededString returns an xxHash64 string hasher mixed with seed. Maps built
// with different seeds lay their keys out differently.
func SeededString(seed uint64) func(string) uint64 {
	return func(s string) uint64 {
		d := xxhash.NewWithSeed(seed)
		_, _ = d.WriteString(s) // never fails
		return d.Sum64()
	}
}

// SeededStringXXH3 returns an XXH3-64 string hasher mixed with seed.
func SeededStringXXH3(seed uint64) func(string) uint64 {
	return func(s string) uint64 {
		return xxh3.HashStringSeed(s, seed)
	}
}

// SeededStringMurmur3 returns a MurmurHash3 string hasher mixed with seed.
func SeededStringMurmur3(seed uint32) func(string) uint64 {
	return func(s string) uint64 {
		return murmur3.Sum64WithSeed([]byte(s), seed)
	}
}

// Int hashes the little-endian bytes of an integer with XXH3-64. Sequential
// integers come out well spread.
func Int[T Integer](k T) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(k))
	return xxh3.Hash(b[:])
}

// Bytes16 hashes a 16-byte key, e.g. a UUID, with xxHash64.
func Bytes16(k [16]byte) uint64 {
	return xxhash.Sum64(k[:])
}

// Bytes32 hashes a 32-byte key, e.g. a SHA-256 digest, with xxHash64.
func Bytes32(k [32]byte) uint64 {
	return xxhash.Sum64(k[:])
}

// Identity uses the integer itself as its hash. Keys that are already random
// can skip hashing this way; keys that are not will cluster.
func Identity[T Integer](k T) uint64 {
	return uint64(k)
}

// Modulo hashes an integer to k mod n, so at most n distinct hash values come
// out. Useful to force collisions.
func Modulo[T Integer](n uint64) func(T) uint64 {
	return func(k T) uint64 {
		return uint64(k) % n
	}
}
