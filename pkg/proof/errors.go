package proof

import "errors"

// ErrMerkleCheckFailed is returned when a Merkle path fails to recompute
// its claimed root hash.
var ErrMerkleCheckFailed = errors.New("proof: merkle check failed")

// ErrPathInconsistency is returned when an update/delete envelope's pre
// and post paths differ in their sibling sequence, and when an update
// envelope's pre and post accumulator values differ.
var ErrPathInconsistency = errors.New("proof: pre/post path inconsistency")

// ErrNonMembershipInvalid is returned when a non-membership response's
// predecessor/successor keys do not bracket the target.
var ErrNonMembershipInvalid = errors.New("proof: predecessor/successor do not bracket target")
