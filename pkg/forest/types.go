// Package forest implements the dual-authenticated forest: an ordered
// list of perfect binary trees (Leaf | NonLeaf nodes) each committing its
// live keys through both a Merkle hash and a bilinear-pairing
// accumulator value, with insert/revive/update/delete/normalize.
//
// Grounded on the teacher's pkg/dkg tree-shaped share-aggregation
// bookkeeping for the "rebuild ancestors on unwind" recursion style, and
// on original_source/'s MMR-merge accumulator core (see accvalue.go and
// SPEC_FULL.md §4 for the supplemented predecessor/successor walk).
package forest

import (
	"github.com/dualauth/authkv/pkg/bls"
	"github.com/dualauth/authkv/pkg/kvhash"
)

// Node is the sum type of the forest: every tree node is either a Leaf
// or a NonLeaf. There are no back-pointers; every mutation walks down
// from a root and rebuilds ancestors functionally on the way back up.
type Node interface {
	nodeHash() kvhash.Hash
	nodeLevel() int
	isNode()
}

// Leaf holds a single key/value pair. A deleted leaf keeps its slot
// (tombstone) rather than being physically removed, so the tree shape
// never changes on delete.
type Leaf struct {
	Key     kvhash.Key
	Value   kvhash.Value
	Deleted bool
}

func (l *Leaf) nodeHash() kvhash.Hash {
	if l.Deleted {
		return kvhash.EmptyHash
	}
	return kvhash.HLeaf(l.Key, l.Value)
}
func (l *Leaf) nodeLevel() int { return 0 }
func (*Leaf) isNode()          {}

// NonLeaf is an internal tree node. LiveKeys is the hash-indexed
// multiset of currently-live keys in the subtree (tombstones contribute
// nothing); it is what Acc commits to and what Get/Update/Delete descend
// by. SlotKeys additionally remembers every key that has ever occupied a
// slot in the subtree, live or tombstoned — descent for leaf revival
// uses SlotKeys, since a tombstoned key is deliberately absent from
// LiveKeys but its physical slot still exists.
type NonLeaf struct {
	Hash     kvhash.Hash
	LiveKeys map[string]int
	SlotKeys map[string]struct{}
	Acc      bls.G1Point
	Level    int
	Left     Node
	Right    Node
}

func (n *NonLeaf) nodeHash() kvhash.Hash { return n.Hash }
func (n *NonLeaf) nodeLevel() int        { return n.Level }
func (*NonLeaf) isNode()                 {}

func keyString(k kvhash.Key) string { return string(k) }

// containsLive reports whether the subtree rooted at n has key as a live
// key.
func containsLive(n Node, key kvhash.Key) bool {
	switch t := n.(type) {
	case *Leaf:
		return !t.Deleted && t.Key.Equal(key)
	case *NonLeaf:
		return t.LiveKeys[keyString(key)] > 0
	default:
		return false
	}
}

// containsSlot reports whether the subtree rooted at n has ever placed
// key in a leaf slot, live or tombstoned.
func containsSlot(n Node, key kvhash.Key) bool {
	switch t := n.(type) {
	case *Leaf:
		return t.Key.Equal(key)
	case *NonLeaf:
		_, ok := t.SlotKeys[keyString(key)]
		return ok
	default:
		return false
	}
}

// liveKeys collects every live key in the subtree rooted at n, in
// left-to-right leaf order. Used at merge time (Normalize) and whenever
// a witness needs the explicit key set of a containing root.
func liveKeys(n Node) []kvhash.Key {
	switch t := n.(type) {
	case *Leaf:
		if t.Deleted {
			return nil
		}
		return []kvhash.Key{t.Key}
	case *NonLeaf:
		out := make([]kvhash.Key, 0, len(t.LiveKeys))
		out = append(out, liveKeys(t.Left)...)
		out = append(out, liveKeys(t.Right)...)
		return out
	default:
		return nil
	}
}

// walkLiveLeaves visits every live leaf in the subtree, left to right.
func walkLiveLeaves(n Node, visit func(*Leaf)) {
	switch t := n.(type) {
	case *Leaf:
		if !t.Deleted {
			visit(t)
		}
	case *NonLeaf:
		walkLiveLeaves(t.Left, visit)
		walkLiveLeaves(t.Right, visit)
	}
}

func cloneMultiset(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func multisetOf(n Node) map[string]int {
	switch t := n.(type) {
	case *Leaf:
		if t.Deleted {
			return map[string]int{}
		}
		return map[string]int{keyString(t.Key): 1}
	case *NonLeaf:
		return t.LiveKeys
	default:
		return map[string]int{}
	}
}

func unionMultiset(a, b map[string]int) map[string]int {
	out := make(map[string]int, len(a)+len(b))
	for k, v := range a {
		out[k] += v
	}
	for k, v := range b {
		out[k] += v
	}
	return out
}

func slotSetOf(n Node) map[string]struct{} {
	switch t := n.(type) {
	case *Leaf:
		return map[string]struct{}{keyString(t.Key): {}}
	case *NonLeaf:
		return t.SlotKeys
	default:
		return map[string]struct{}{}
	}
}

func unionSlotSet(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}
