// Package proof assembles and verifies the envelopes every forest CRUD
// operation emits: membership and positional non-membership responses,
// and insert/update/delete response envelopes that pair a pre- and
// post-mutation Merkle path with a path-consistency check certifying
// that only the target leaf changed.
//
// Grounded on the teacher's request/response envelope shapes in
// pkg/dkg (round messages carrying both a payload and a correlation id)
// — EnvelopeID here plays the same tracing role via google/uuid, not a
// cryptographic role.
package proof

import (
	"github.com/google/uuid"

	"github.com/dualauth/authkv/pkg/bls"
	"github.com/dualauth/authkv/pkg/forest"
	"github.com/dualauth/authkv/pkg/kvhash"
)

// MembershipResponse is the envelope returned by a present Get.
type MembershipResponse struct {
	EnvelopeID        uuid.UUID
	Key               kvhash.Key
	Value             kvhash.Value
	Path              forest.MerklePath
	RootHash          kvhash.Hash
	AccValue          bls.G1Point
	MembershipWitness bls.G1Point
}

// NonMembershipEntry is one side (predecessor or successor) of a
// positional non-membership response.
type NonMembershipEntry struct {
	Key      kvhash.Key
	Value    kvhash.Value
	Path     forest.MerklePath
	RootHash kvhash.Hash
}

// NonMembershipResponse is the envelope returned when the target key is
// absent: it names its live predecessor and/or successor and lets the
// Verifier confirm they bracket the target, per spec.md's positional
// (not algebraic) non-membership scheme.
//
// spec.md §4.5 describes both entries verifying "against the same root
// hash", a single-tree assumption. This forest is an MMR of several
// trees with independent root hashes, so predecessor and successor may
// legitimately sit under different roots; each entry therefore carries
// its own RootHash rather than the response sharing one.
type NonMembershipResponse struct {
	EnvelopeID  uuid.UUID
	Target      kvhash.Key
	Predecessor *NonMembershipEntry
	Successor   *NonMembershipEntry
}

// InsertResponse is the envelope emitted by Insert.
type InsertResponse struct {
	EnvelopeID       uuid.UUID
	Key              kvhash.Key
	Value            kvhash.Value
	PreRoots         forest.Snapshot
	PreNonMembership *NonMembershipResponse
	PostProof        forest.MerklePath
	PostRootHash     kvhash.Hash
	PostAcc          bls.G1Point
	PostWitness      bls.G1Point
}

// UpdateResponse is the envelope emitted by Update.
type UpdateResponse struct {
	EnvelopeID   uuid.UUID
	Key          kvhash.Key
	OldValue     kvhash.Value
	NewValue     kvhash.Value
	PreProof     forest.MerklePath
	PostProof    forest.MerklePath
	PreRootHash  kvhash.Hash
	PostRootHash kvhash.Hash
	PreAcc       bls.G1Point
	PreWitness   bls.G1Point
	PostAcc      bls.G1Point
	PostWitness  bls.G1Point
}

// DeleteResponse is the envelope emitted by Delete.
//
// post_acc is not accompanied by an algebraic "correct deletion" proof:
// a Verifier can only confirm that post_acc verifies membership for keys
// it already knows about, not that the Prover removed exactly Key. Full
// delete soundness would need an update-proof primitive from the
// accumulator's intersection family, which this core does not build.
type DeleteResponse struct {
	EnvelopeID   uuid.UUID
	Key          kvhash.Key
	OldValue     kvhash.Value
	PreProof     forest.MerklePath
	PostProof    forest.MerklePath
	PreRootHash  kvhash.Hash
	PostRootHash kvhash.Hash
	PreAcc       bls.G1Point
	PreWitness   bls.G1Point
	PostAcc      bls.G1Point
}

// NewEnvelopeID stamps a fresh correlation id for logging/tracing, the
// way the teacher's protocol round messages carry a request id. It has
// no cryptographic role.
func NewEnvelopeID() uuid.UUID { return uuid.New() }
