package kvhash

import (
	"crypto/sha256"
	"encoding/binary"
)

// EmptyHash is the process-wide constant used as the Merkle hash of a
// tombstoned leaf and of a structurally empty subtree. It is deliberately
// the all-zero digest rather than SHA256 of anything; a real
// H_leaf/H_nonleaf output is a SHA-256 digest and is cryptographically
// unlikely to land on all-zero.
var EmptyHash = Hash{}

// HLeaf computes H_leaf(key, value) = SHA256(len(key) || key || len(value) || value)
// with 4-byte big-endian length prefixes, preventing the ("ab","c") vs
// ("a","bc") concatenation collision that a bare SHA256(key||value) would
// allow.
func HLeaf(key Key, value Value) Hash {
	h := sha256.New()
	writeLenPrefixed(h, key)
	writeLenPrefixed(h, value)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// HNonLeaf computes H_nonleaf(l, r) = SHA256(l || r) over two fixed
// 32-byte child hashes.
func HNonLeaf(left, right Hash) Hash {
	h := sha256.New()
	h.Write(left[:])
	h.Write(right[:])
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

func writeLenPrefixed(h interface{ Write([]byte) (int, error) }, b []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	h.Write(lenBuf[:])
	h.Write(b)
}
