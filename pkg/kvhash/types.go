// Package kvhash implements the length-prefixed SHA-256 hashing scheme
// used for leaf and internal-node hashes in the forest, and the shared
// Key/Value byte-string types the rest of the module builds on.
//
// Grounded on the teacher's pkg/merkle: hashPair's fixed-width
// concatenate-then-hash pattern becomes H_nonleaf here, and
// HashAcknowledgement's length-prefixed field packing becomes H_leaf.
package kvhash

import "github.com/ethereum/go-ethereum/common/hexutil"

// Key is an opaque, ordered byte string. Keys compare lexicographically
// on their raw bytes.
type Key []byte

// String renders a key for logging and error messages.
func (k Key) String() string { return hexutil.Encode(k) }

// Compare implements lexicographic ordering: negative if k < other, zero
// if equal, positive if k > other.
func (k Key) Compare(other Key) int {
	n := len(k)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		if k[i] != other[i] {
			if k[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return len(k) - len(other)
}

// Equal reports whether two keys have identical bytes.
func (k Key) Equal(other Key) bool { return k.Compare(other) == 0 }

// Value is an opaque byte string ("fid" in the source terminology). Its
// content only ever participates in the leaf's Merkle hash, never in the
// accumulator's committed set.
type Value []byte

// Hash is a 32-byte SHA-256 digest, used for both leaf and internal-node
// hashes.
type Hash [32]byte

// String renders a hash for logging and error messages.
func (h Hash) String() string { return hexutil.Encode(h[:]) }

// IsZero reports whether h is the all-zero hash (the tombstone/empty
// sentinel).
func (h Hash) IsZero() bool { return h == Hash{} }
