package proof

import (
	"fmt"

	"github.com/dualauth/authkv/pkg/accumulator"
	"github.com/dualauth/authkv/pkg/forest"
	"github.com/dualauth/authkv/pkg/kvhash"
)

// VerifyFull checks a MembershipResponse end to end: the Merkle path
// must recompute RootHash from H_leaf(Key, Value), and the pairing
// equation must confirm Key belongs to the set committed by AccValue
// under MembershipWitness.
func VerifyFull(pp *accumulator.PublicParams, resp MembershipResponse) error {
	leafHash := kvhash.HLeaf(resp.Key, resp.Value)
	resp.Path.RootHash = resp.RootHash
	if !forest.VerifyMerklePath(leafHash, resp.Path) {
		return fmt.Errorf("proof: VerifyFull: %w", ErrMerkleCheckFailed)
	}
	if _, err := accumulator.VerifyMembership(pp, resp.AccValue, resp.MembershipWitness, resp.Key); err != nil {
		return fmt.Errorf("proof: VerifyFull: %w", err)
	}
	return nil
}

// VerifyNonMembership checks that a NonMembershipResponse's predecessor
// and successor genuinely bracket Target and that each supplied entry's
// Merkle path recomputes RootHash. Either side may be nil (Target is the
// minimum or maximum live key) but not both.
func VerifyNonMembership(resp NonMembershipResponse) error {
	if resp.Predecessor == nil && resp.Successor == nil {
		return fmt.Errorf("proof: VerifyNonMembership: %w", ErrNonMembershipInvalid)
	}
	if resp.Predecessor != nil {
		if resp.Predecessor.Key.Compare(resp.Target) >= 0 {
			return fmt.Errorf("proof: VerifyNonMembership: predecessor does not precede target: %w", ErrNonMembershipInvalid)
		}
		if !verifyEntryPath(resp.Predecessor) {
			return fmt.Errorf("proof: VerifyNonMembership: predecessor path: %w", ErrMerkleCheckFailed)
		}
	}
	if resp.Successor != nil {
		if resp.Successor.Key.Compare(resp.Target) <= 0 {
			return fmt.Errorf("proof: VerifyNonMembership: successor does not follow target: %w", ErrNonMembershipInvalid)
		}
		if !verifyEntryPath(resp.Successor) {
			return fmt.Errorf("proof: VerifyNonMembership: successor path: %w", ErrMerkleCheckFailed)
		}
	}
	return nil
}

func verifyEntryPath(e *NonMembershipEntry) bool {
	path := e.Path
	path.RootHash = e.RootHash
	return forest.VerifyMerklePath(kvhash.HLeaf(e.Key, e.Value), path)
}

// VerifyUpdate checks an UpdateResponse: both paths must independently
// verify against their claimed roots, the two paths must be
// position-wise consistent (only the target leaf's own hash differs
// between pre and post state), the accumulator value must be unchanged
// (an update never touches the key set), and the post state's pairing
// equation must confirm Key's membership in PostAcc.
func VerifyUpdate(pp *accumulator.PublicParams, resp UpdateResponse) error {
	prePath := resp.PreProof
	prePath.RootHash = resp.PreRootHash
	if !forest.VerifyMerklePath(kvhash.HLeaf(resp.Key, resp.OldValue), prePath) {
		return fmt.Errorf("proof: VerifyUpdate: pre path: %w", ErrMerkleCheckFailed)
	}
	postPath := resp.PostProof
	postPath.RootHash = resp.PostRootHash
	if !forest.VerifyMerklePath(kvhash.HLeaf(resp.Key, resp.NewValue), postPath) {
		return fmt.Errorf("proof: VerifyUpdate: post path: %w", ErrMerkleCheckFailed)
	}
	if !forest.PathsConsistent(prePath, postPath) {
		return fmt.Errorf("proof: VerifyUpdate: %w", ErrPathInconsistency)
	}
	if !resp.PreAcc.Equal(resp.PostAcc) {
		return fmt.Errorf("proof: VerifyUpdate: accumulator changed across an update: %w", ErrPathInconsistency)
	}
	if _, err := accumulator.VerifyMembership(pp, resp.PostAcc, resp.PostWitness, resp.Key); err != nil {
		return fmt.Errorf("proof: VerifyUpdate: %w", err)
	}
	return nil
}

// VerifyDelete checks a DeleteResponse: the pre path must verify Key's
// old live leaf, the post path must verify the tombstone hash
// (kvhash.EmptyHash) at the same slot, the two paths must be
// position-wise consistent, and the pre-state pairing equation must
// confirm Key was genuinely a member before deletion. It deliberately
// does not check post_acc algebraically: this scheme's accumulator
// proofs certify presence, not absence, so a Verifier can only confirm
// the tombstone positionally, the way it confirms non-membership
// elsewhere.
func VerifyDelete(pp *accumulator.PublicParams, resp DeleteResponse) error {
	prePath := resp.PreProof
	prePath.RootHash = resp.PreRootHash
	if !forest.VerifyMerklePath(kvhash.HLeaf(resp.Key, resp.OldValue), prePath) {
		return fmt.Errorf("proof: VerifyDelete: pre path: %w", ErrMerkleCheckFailed)
	}
	postPath := resp.PostProof
	postPath.RootHash = resp.PostRootHash
	if !forest.VerifyMerklePath(kvhash.EmptyHash, postPath) {
		return fmt.Errorf("proof: VerifyDelete: post path: %w", ErrMerkleCheckFailed)
	}
	if !forest.PathsConsistent(prePath, postPath) {
		return fmt.Errorf("proof: VerifyDelete: %w", ErrPathInconsistency)
	}
	if _, err := accumulator.VerifyMembership(pp, resp.PreAcc, resp.PreWitness, resp.Key); err != nil {
		return fmt.Errorf("proof: VerifyDelete: pre membership: %w", err)
	}
	return nil
}

// BuildMembershipResponse assembles a MembershipResponse for a live key
// by reading the forest's current path, root, live key set, and
// deriving an accumulator witness. It performs no mutation.
func BuildMembershipResponse(pp *accumulator.PublicParams, f *forest.Forest, key kvhash.Key) (MembershipResponse, error) {
	value, err := f.Get(key)
	if err != nil {
		return MembershipResponse{}, fmt.Errorf("proof: BuildMembershipResponse: %w", err)
	}
	path, _, err := f.PathTo(key)
	if err != nil {
		return MembershipResponse{}, fmt.Errorf("proof: BuildMembershipResponse: %w", err)
	}
	liveKeys, err := f.LiveKeysOf(key)
	if err != nil {
		return MembershipResponse{}, fmt.Errorf("proof: BuildMembershipResponse: %w", err)
	}
	acc, err := accumulator.AccValueG1(pp, liveKeys)
	if err != nil {
		return MembershipResponse{}, fmt.Errorf("proof: BuildMembershipResponse: %w", err)
	}
	witness, err := accumulator.CreateWitness(pp, liveKeys, key)
	if err != nil {
		return MembershipResponse{}, fmt.Errorf("proof: BuildMembershipResponse: %w", err)
	}
	return MembershipResponse{
		EnvelopeID:        NewEnvelopeID(),
		Key:               key,
		Value:             value,
		Path:              path,
		RootHash:          path.RootHash,
		AccValue:          acc,
		MembershipWitness: witness,
	}, nil
}

// BuildNonMembershipResponse assembles a NonMembershipResponse for a key
// currently absent from the forest, using the forest's live-key
// neighbor scan and Merkle paths for whichever of the predecessor and
// successor exist.
func BuildNonMembershipResponse(f *forest.Forest, target kvhash.Key) (NonMembershipResponse, error) {
	pred, succ := f.Neighbors(target)
	resp := NonMembershipResponse{EnvelopeID: NewEnvelopeID(), Target: target}
	if pred != nil {
		path, _, err := f.PathTo(pred.Key)
		if err != nil {
			return NonMembershipResponse{}, fmt.Errorf("proof: BuildNonMembershipResponse: predecessor: %w", err)
		}
		resp.Predecessor = &NonMembershipEntry{Key: pred.Key, Value: pred.Value, Path: path, RootHash: path.RootHash}
	}
	if succ != nil {
		path, _, err := f.PathTo(succ.Key)
		if err != nil {
			return NonMembershipResponse{}, fmt.Errorf("proof: BuildNonMembershipResponse: successor: %w", err)
		}
		resp.Successor = &NonMembershipEntry{Key: succ.Key, Value: succ.Value, Path: path, RootHash: path.RootHash}
	}
	return resp, nil
}
