// Package storagekey computes raw storage keys the way the target ledger
// derives them for storage addressing. The derived bytes must match the
// runtime's own scheme exactly, otherwise injected entries are invisible to
// the runtime's lookup and iteration paths.
package storagekey

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// Twox64 returns the 8-byte twox64 digest of data (xxhash64, seed 0,
// little-endian digest word).
func Twox64(data []byte) [8]byte {
	var out [8]byte
	binary.LittleEndian.PutUint64(out[:], xxhash.Sum64(data))

	return out
}

// Twox128 returns the 16-byte twox128 digest of data: two xxhash64 runs with
// seeds 0 and 1, each emitted as a little-endian word.
func Twox128(data []byte) [16]byte {
	var out [16]byte
	binary.LittleEndian.PutUint64(out[:8], xxhash.Sum64(data))
	binary.LittleEndian.PutUint64(out[8:], sum64Seeded(data, 1))

	return out
}

func sum64Seeded(data []byte, seed uint64) uint64 {
	d := xxhash.NewWithSeed(seed)
	// Write on xxhash.Digest never fails.
	_, _ = d.Write(data)

	return d.Sum64()
}

// Prefix returns the 32-byte storage prefix for a pallet and item:
// twox128(pallet) ++ twox128(item). Identical inputs always yield identical
// bytes.
func Prefix(pallet string, item string) []byte {
	key := make([]byte, 0, 32)
	p := Twox128([]byte(pallet))
	i := Twox128([]byte(item))
	key = append(key, p[:]...)
	key = append(key, i[:]...)

	return key
}

// Twox64Concat applies the transparent hasher: twox64(key) ++ key. The
// original key bytes remain recoverable from the derived address.
func Twox64Concat(key []byte) []byte {
	h := Twox64(key)
	out := make([]byte, 0, 8+len(key))
	out = append(out, h[:]...)
	out = append(out, key...)

	return out
}

// ValueKey returns the hex-encoded key of a plain storage value.
func ValueKey(pallet string, item string) string {
	return Hex(Prefix(pallet, item))
}

// MapKey returns the hex-encoded key of a Twox64Concat storage map entry.
func MapKey(pallet string, item string, key []byte) string {
	k := Prefix(pallet, item)
	k = append(k, Twox64Concat(key)...)

	return Hex(k)
}

// DoubleMapKey returns the hex-encoded key of a storage double map entry
// with Twox64Concat for both hashers. The hashed segments are concatenated
// in declaration order; swapping key1 and key2 yields an unrelated key.
func DoubleMapKey(pallet string, item string, key1 []byte, key2 []byte) string {
	k := Prefix(pallet, item)
	k = append(k, Twox64Concat(key1)...)
	k = append(k, Twox64Concat(key2)...)

	return Hex(k)
}

// Hex encodes bytes with a 0x prefix.
func Hex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
