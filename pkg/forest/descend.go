package forest

import (
	"fmt"

	"github.com/dualauth/authkv/pkg/accumulator"
	"github.com/dualauth/authkv/pkg/kvhash"
)

// getInSubtree descends by the live-key multiset and returns the leaf's
// value.
func getInSubtree(n Node, key kvhash.Key) (kvhash.Value, bool) {
	switch t := n.(type) {
	case *Leaf:
		if !t.Deleted && t.Key.Equal(key) {
			return t.Value, true
		}
		return nil, false
	case *NonLeaf:
		if containsLive(t.Left, key) {
			return getInSubtree(t.Left, key)
		}
		if containsLive(t.Right, key) {
			return getInSubtree(t.Right, key)
		}
		return nil, false
	default:
		return nil, false
	}
}

// updateInSubtree replaces a live leaf's value and rebuilds ancestor
// hashes only; LiveKeys, SlotKeys and Acc are untouched at every level.
func updateInSubtree(n Node, key kvhash.Key, newValue kvhash.Value) (Node, bool) {
	switch t := n.(type) {
	case *Leaf:
		if !t.Deleted && t.Key.Equal(key) {
			return &Leaf{Key: t.Key, Value: newValue}, true
		}
		return t, false
	case *NonLeaf:
		if containsLive(t.Left, key) {
			newLeft, found := updateInSubtree(t.Left, key, newValue)
			if !found {
				return t, false
			}
			return &NonLeaf{
				Hash: kvhash.HNonLeaf(newLeft.nodeHash(), t.Right.nodeHash()),
				LiveKeys: t.LiveKeys, SlotKeys: t.SlotKeys, Acc: t.Acc, Level: t.Level,
				Left: newLeft, Right: t.Right,
			}, true
		}
		if containsLive(t.Right, key) {
			newRight, found := updateInSubtree(t.Right, key, newValue)
			if !found {
				return t, false
			}
			return &NonLeaf{
				Hash: kvhash.HNonLeaf(t.Left.nodeHash(), newRight.nodeHash()),
				LiveKeys: t.LiveKeys, SlotKeys: t.SlotKeys, Acc: t.Acc, Level: t.Level,
				Left: t.Left, Right: newRight,
			}, true
		}
		return t, false
	default:
		return n, false
	}
}

// deleteInSubtree tombstones a live leaf and, on unwind, removes the key
// from every ancestor's LiveKeys and advances Acc by
// accumulator.Delete. SlotKeys is untouched — the slot still exists.
func deleteInSubtree(trapdoor *accumulator.Trapdoor, n Node, key kvhash.Key) (Node, bool, error) {
	switch t := n.(type) {
	case *Leaf:
		if !t.Deleted && t.Key.Equal(key) {
			return &Leaf{Key: t.Key, Deleted: true}, true, nil
		}
		return t, false, nil
	case *NonLeaf:
		if containsLive(t.Left, key) {
			newLeft, found, err := deleteInSubtree(trapdoor, t.Left, key)
			if err != nil || !found {
				return t, found, err
			}
			newAcc, err := accumulator.Delete(trapdoor, t.Acc, key)
			if err != nil {
				return t, false, fmt.Errorf("deleteInSubtree: %w", err)
			}
			newLive := cloneMultiset(t.LiveKeys)
			delete(newLive, keyString(key))
			return &NonLeaf{
				Hash: kvhash.HNonLeaf(newLeft.nodeHash(), t.Right.nodeHash()),
				LiveKeys: newLive, SlotKeys: t.SlotKeys, Acc: newAcc, Level: t.Level,
				Left: newLeft, Right: t.Right,
			}, true, nil
		}
		if containsLive(t.Right, key) {
			newRight, found, err := deleteInSubtree(trapdoor, t.Right, key)
			if err != nil || !found {
				return t, found, err
			}
			newAcc, err := accumulator.Delete(trapdoor, t.Acc, key)
			if err != nil {
				return t, false, fmt.Errorf("deleteInSubtree: %w", err)
			}
			newLive := cloneMultiset(t.LiveKeys)
			delete(newLive, keyString(key))
			return &NonLeaf{
				Hash: kvhash.HNonLeaf(t.Left.nodeHash(), newRight.nodeHash()),
				LiveKeys: newLive, SlotKeys: t.SlotKeys, Acc: newAcc, Level: t.Level,
				Left: t.Left, Right: newRight,
			}, true, nil
		}
		return t, false, nil
	default:
		return n, false, nil
	}
}

// reviveInSubtree descends by SlotKeys (which still remembers a
// tombstone's position after LiveKeys has dropped it), clears the
// Deleted flag, and on unwind adds the key back into every ancestor's
// LiveKeys and Acc.
func reviveInSubtree(trapdoor *accumulator.Trapdoor, n Node, key kvhash.Key, value kvhash.Value) (Node, bool, error) {
	switch t := n.(type) {
	case *Leaf:
		if t.Deleted && t.Key.Equal(key) {
			return &Leaf{Key: t.Key, Value: value}, true, nil
		}
		return t, false, nil
	case *NonLeaf:
		if containsSlot(t.Left, key) {
			newLeft, found, err := reviveInSubtree(trapdoor, t.Left, key, value)
			if err != nil || !found {
				return t, found, err
			}
			newAcc, err := accumulator.Add(trapdoor, t.Acc, key)
			if err != nil {
				return t, false, fmt.Errorf("reviveInSubtree: %w", err)
			}
			newLive := cloneMultiset(t.LiveKeys)
			newLive[keyString(key)] = 1
			return &NonLeaf{
				Hash: kvhash.HNonLeaf(newLeft.nodeHash(), t.Right.nodeHash()),
				LiveKeys: newLive, SlotKeys: t.SlotKeys, Acc: newAcc, Level: t.Level,
				Left: newLeft, Right: t.Right,
			}, true, nil
		}
		if containsSlot(t.Right, key) {
			newRight, found, err := reviveInSubtree(trapdoor, t.Right, key, value)
			if err != nil || !found {
				return t, found, err
			}
			newAcc, err := accumulator.Add(trapdoor, t.Acc, key)
			if err != nil {
				return t, false, fmt.Errorf("reviveInSubtree: %w", err)
			}
			newLive := cloneMultiset(t.LiveKeys)
			newLive[keyString(key)] = 1
			return &NonLeaf{
				Hash: kvhash.HNonLeaf(t.Left.nodeHash(), newRight.nodeHash()),
				LiveKeys: newLive, SlotKeys: t.SlotKeys, Acc: newAcc, Level: t.Level,
				Left: t.Left, Right: newRight,
			}, true, nil
		}
		return t, false, nil
	default:
		return n, false, nil
	}
}
