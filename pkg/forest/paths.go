package forest

import (
	"fmt"

	"github.com/dualauth/authkv/pkg/kvhash"
)

// PathStep is one edge of a Merkle path: the sibling's hash and whether
// that sibling sits to the left of the node being climbed from.
type PathStep struct {
	SiblingHash   kvhash.Hash
	SiblingIsLeft bool
}

// MerklePath is an ordered sequence of PathStep from a leaf up to its
// containing root, plus the root hash it should recompute to.
type MerklePath struct {
	Steps    []PathStep
	RootHash kvhash.Hash
}

// VerifyMerklePath recomputes the root hash from leafHash by folding in
// each sibling in order and compares it to path.RootHash.
func VerifyMerklePath(leafHash kvhash.Hash, path MerklePath) bool {
	cur := leafHash
	for _, step := range path.Steps {
		if step.SiblingIsLeft {
			cur = kvhash.HNonLeaf(step.SiblingHash, cur)
		} else {
			cur = kvhash.HNonLeaf(cur, step.SiblingHash)
		}
	}
	return cur == path.RootHash
}

// PathsConsistent reports whether a and b have the same length and
// position-wise identical (sibling_hash, sibling_is_left) steps,
// certifying that only the target leaf differed between the two states
// the paths were captured in.
func PathsConsistent(a, b MerklePath) bool {
	if len(a.Steps) != len(b.Steps) {
		return false
	}
	for i := range a.Steps {
		if a.Steps[i] != b.Steps[i] {
			return false
		}
	}
	return true
}

// PathTo returns the Merkle path from the root owning key down to key's
// leaf slot, plus the leaf itself. Descent uses SlotKeys so the path can
// be recovered for a tombstoned leaf as well as a live one — a delete's
// post-proof needs exactly that.
func (f *Forest) PathTo(key kvhash.Key) (MerklePath, *Leaf, error) {
	for _, r := range f.roots {
		if !containsSlot(r, key) {
			continue
		}
		steps, leaf, found := collectPath(r, key)
		if !found {
			continue
		}
		return MerklePath{Steps: steps, RootHash: r.nodeHash()}, leaf, nil
	}
	return MerklePath{}, nil, fmt.Errorf("forest: PathTo %s: %w", key, ErrKeyNotFound)
}

func collectPath(n Node, key kvhash.Key) ([]PathStep, *Leaf, bool) {
	switch t := n.(type) {
	case *Leaf:
		if t.Key.Equal(key) {
			return []PathStep{}, t, true
		}
		return nil, nil, false
	case *NonLeaf:
		if containsSlot(t.Left, key) {
			steps, leaf, found := collectPath(t.Left, key)
			if !found {
				return nil, nil, false
			}
			steps = append(steps, PathStep{SiblingHash: t.Right.nodeHash(), SiblingIsLeft: false})
			return steps, leaf, true
		}
		if containsSlot(t.Right, key) {
			steps, leaf, found := collectPath(t.Right, key)
			if !found {
				return nil, nil, false
			}
			steps = append(steps, PathStep{SiblingHash: t.Left.nodeHash(), SiblingIsLeft: true})
			return steps, leaf, true
		}
		return nil, nil, false
	default:
		return nil, nil, false
	}
}
