package forest

import (
	"fmt"

	"github.com/dualauth/authkv/pkg/accumulator"
	"github.com/dualauth/authkv/pkg/bls"
	"github.com/dualauth/authkv/pkg/kvhash"
)

// Forest is an ordered list of perfect-binary-tree roots with distinct
// levels (the MMR invariant), each committing its live keys through a
// Merkle hash and a bilinear-pairing accumulator value. It holds the
// Prover's trapdoor and is therefore never something a Verifier
// constructs; Verifiers only ever see RootInfo snapshots and proof
// envelopes.
type Forest struct {
	pp       *accumulator.PublicParams
	trapdoor *accumulator.Trapdoor
	roots    []Node
}

// New builds an empty forest bound to the given public parameters and
// trapdoor.
func New(pp *accumulator.PublicParams, trapdoor *accumulator.Trapdoor) *Forest {
	return &Forest{pp: pp, trapdoor: trapdoor}
}

// Insert adds key/value. If the key was previously deleted, its
// tombstoned slot is revived in place (no restructuring); otherwise a
// fresh leaf is appended and the forest is normalized.
func (f *Forest) Insert(key kvhash.Key, value kvhash.Value) error {
	for _, r := range f.roots {
		if containsLive(r, key) {
			return fmt.Errorf("forest: insert %s: %w", key, ErrKeyExists)
		}
	}
	for i, r := range f.roots {
		if !containsSlot(r, key) {
			continue
		}
		newRoot, found, err := reviveInSubtree(f.trapdoor, r, key, value)
		if err != nil {
			return fmt.Errorf("forest: insert %s: %w", key, err)
		}
		if found {
			f.roots[i] = newRoot
			return nil
		}
	}

	f.roots = append(f.roots, &Leaf{Key: key, Value: value})
	if err := f.normalize(); err != nil {
		return fmt.Errorf("forest: insert %s: normalize: %w", key, err)
	}
	return nil
}

// Get returns the live value for key, or ErrKeyNotFound if it is absent
// or tombstoned.
func (f *Forest) Get(key kvhash.Key) (kvhash.Value, error) {
	for _, r := range f.roots {
		if !containsLive(r, key) {
			continue
		}
		v, found := getInSubtree(r, key)
		if !found {
			break
		}
		return v, nil
	}
	return nil, fmt.Errorf("forest: get %s: %w", key, ErrKeyNotFound)
}

// Update replaces the value of a live key. The tree shape, hash siblings
// other than the ones on the leaf's path, and every ancestor's
// accumulator value are all left untouched — only hashes on the path to
// the root are rebuilt.
func (f *Forest) Update(key kvhash.Key, newValue kvhash.Value) error {
	for i, r := range f.roots {
		if !containsLive(r, key) {
			continue
		}
		newRoot, found := updateInSubtree(r, key, newValue)
		if !found {
			break
		}
		f.roots[i] = newRoot
		return nil
	}
	return fmt.Errorf("forest: update %s: %w", key, ErrKeyNotFound)
}

// Delete tombstones a live key: its leaf's Deleted flag is set, its
// contribution to every ancestor's accumulator is removed via an
// incremental Delete, and ancestor hashes are rebuilt. The tree shape is
// never changed.
func (f *Forest) Delete(key kvhash.Key) error {
	for i, r := range f.roots {
		if !containsLive(r, key) {
			continue
		}
		newRoot, found, err := deleteInSubtree(f.trapdoor, r, key)
		if err != nil {
			return fmt.Errorf("forest: delete %s: %w", key, err)
		}
		if !found {
			break
		}
		f.roots[i] = newRoot
		return nil
	}
	return fmt.Errorf("forest: delete %s: %w", key, ErrKeyNotFound)
}

// normalize repeatedly merges the two rightmost roots while they share a
// level, preserving insertion order left to right. After it returns, all
// root levels are distinct.
func (f *Forest) normalize() error {
	for len(f.roots) >= 2 {
		n := len(f.roots)
		left, right := f.roots[n-2], f.roots[n-1]
		if left.nodeLevel() != right.nodeLevel() {
			break
		}
		merged, err := f.merge(left, right)
		if err != nil {
			return err
		}
		f.roots = append(f.roots[:n-2], merged)
	}
	return nil
}

// merge combines two equal-level roots into their parent. The parent's
// accumulator is left.acc advanced incrementally by right's live keys
// (accumulator.IncrementalUnion), the trapdoor-requiring operation
// spec.md's merge rule describes; the parent's key sets are the plain
// union of the children's.
func (f *Forest) merge(left, right Node) (*NonLeaf, error) {
	leftAcc, err := accValueOfNode(f.pp, left)
	if err != nil {
		return nil, fmt.Errorf("merge: left accumulator: %w", err)
	}
	newAcc, err := accumulator.IncrementalUnion(f.trapdoor, leftAcc, liveKeys(right))
	if err != nil {
		return nil, fmt.Errorf("merge: incremental union: %w", err)
	}
	return &NonLeaf{
		Hash:     kvhash.HNonLeaf(left.nodeHash(), right.nodeHash()),
		LiveKeys: unionMultiset(multisetOf(left), multisetOf(right)),
		SlotKeys: unionSlotSet(slotSetOf(left), slotSetOf(right)),
		Acc:      newAcc,
		Level:    left.nodeLevel() + 1,
		Left:     left,
		Right:    right,
	}, nil
}

// accValueOfNode returns the accumulator value a node contributes as a
// forest root: a Leaf has no stored acc field (per the data model, only
// NonLeaf carries one), so its single-element accumulator is computed
// on demand; a NonLeaf returns its cached, incrementally-maintained Acc.
func accValueOfNode(pp *accumulator.PublicParams, n Node) (bls.G1Point, error) {
	switch t := n.(type) {
	case *Leaf:
		if t.Deleted {
			return accumulator.EmptyAccG1, nil
		}
		return accumulator.AccValueG1(pp, []kvhash.Key{t.Key})
	case *NonLeaf:
		return t.Acc, nil
	default:
		return bls.G1Point{}, fmt.Errorf("forest: accValueOfNode: unknown node type %T", n)
	}
}

// RootInfo is the public commitment of a single forest root.
type RootInfo struct {
	RootHash kvhash.Hash
	AccValue bls.G1Point
	Level    int
}

// Snapshot is the ordered list of RootInfo describing the current forest.
type Snapshot []RootInfo

// Roots returns the current public commitment of the forest.
func (f *Forest) Roots() (Snapshot, error) {
	out := make(Snapshot, len(f.roots))
	for i, r := range f.roots {
		acc, err := accValueOfNode(f.pp, r)
		if err != nil {
			return nil, fmt.Errorf("forest: Roots: %w", err)
		}
		out[i] = RootInfo{RootHash: r.nodeHash(), AccValue: acc, Level: r.nodeLevel()}
	}
	return out, nil
}

// RootCount reports how many trees currently make up the forest.
func (f *Forest) RootCount() int { return len(f.roots) }

// LiveKeysOf returns the explicit live key set of the root that owns
// key, needed by pkg/proof to build accumulator witnesses. Returns
// ErrKeyNotFound if key is not live anywhere in the forest.
func (f *Forest) LiveKeysOf(key kvhash.Key) ([]kvhash.Key, error) {
	for _, r := range f.roots {
		if containsLive(r, key) {
			return liveKeys(r), nil
		}
	}
	return nil, fmt.Errorf("forest: LiveKeysOf %s: %w", key, ErrKeyNotFound)
}

// Neighbors returns the predecessor and successor of target among live
// keys, or nil where none exists (target is the minimum/maximum live
// key). It makes a single pass over every live leaf, tracking the
// largest key below target and the smallest key above it, rather than
// sorting the live set on every call.
func (f *Forest) Neighbors(target kvhash.Key) (pred *Leaf, succ *Leaf) {
	for _, r := range f.roots {
		walkLiveLeaves(r, func(l *Leaf) {
			switch {
			case l.Key.Compare(target) < 0:
				if pred == nil || l.Key.Compare(pred.Key) > 0 {
					pred = l
				}
			case l.Key.Compare(target) > 0:
				if succ == nil || l.Key.Compare(succ.Key) < 0 {
					succ = l
				}
			}
		})
	}
	return pred, succ
}
