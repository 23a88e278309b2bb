package accumulator

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/dualauth/authkv/pkg/bls"
	"github.com/dualauth/authkv/pkg/keyenc"
	"github.com/dualauth/authkv/pkg/kvhash"
)

// EmptyAccG1 is Acc(∅) = g1, the generator. It is the accumulator value
// of the empty set and, per spec.md, the value a tombstoned leaf
// contributes to its parent's accumulator.
var EmptyAccG1 = bls.G1Generator

// EmptyAccG2 is the G2 analogue of EmptyAccG1, used wherever a set-level
// proof needs an accumulator value on the G2 side of a pairing (see
// setproof.go).
var EmptyAccG2 = bls.G2Generator

// keysToScalars maps a slice of keys to their key_to_scalar images,
// rejecting any that encode to zero (keyenc.ToScalar already retries
// internally so this only guards against a caller passing scalars
// obtained some other way).
func keysToScalars(keys []kvhash.Key) ([]fr.Element, error) {
	scalars := make([]fr.Element, len(keys))
	for i, k := range keys {
		s := keyenc.ToScalar(k)
		if s.IsZero() {
			return nil, fmt.Errorf("accumulator: key %s encodes to zero scalar: %w", k, ErrInvalidInput)
		}
		scalars[i] = s
	}
	return scalars, nil
}

// charPoly builds the characteristic polynomial P_X(t) = prod (t + key_to_scalar(x))
// of a key set, the value whose evaluation at the trapdoor s exponentiates
// the accumulator.
func charPoly(keys []kvhash.Key) (polyLen int, coeffs []fr.Element, err error) {
	scalars, err := keysToScalars(keys)
	if err != nil {
		return 0, nil, err
	}
	poly := bls.PolyFromRoots(scalars)
	return len(poly), poly, nil
}

// AccValueG1 computes Acc(X) = g1 ^ P_X(s) for the given key set, using
// only the public powers table (no trapdoor): the characteristic
// polynomial's coefficients are evaluated at s via a multi-scalar
// exponentiation against pp.G1Powers, the Horner-like evaluation
// spec.md §4.3 describes and original_source/acc performs one
// multiplication at a time. Fails with ErrParamBudgetExceeded if the set
// is larger than the power budget Q.
func AccValueG1(pp *PublicParams, keys []kvhash.Key) (bls.G1Point, error) {
	if len(keys) == 0 {
		return EmptyAccG1, nil
	}
	n, coeffs, err := charPoly(keys)
	if err != nil {
		return bls.G1Point{}, err
	}
	if n-1 > pp.Q {
		return bls.G1Point{}, fmt.Errorf("accumulator: AccValueG1: set of size %d needs degree %d > budget %d: %w", len(keys), n-1, pp.Q, ErrParamBudgetExceeded)
	}
	return bls.MultiExpG1(pp.G1Powers[:n], coeffs)
}

// AccValueG2 is the G2 analogue of AccValueG1, used by set-level proofs
// which need a dual G1/G2 accumulator value to close their pairing
// equations (spec.md §4.3's disjointness/intersection/union checks need
// one operand of each pairing term in G2).
func AccValueG2(pp *PublicParams, keys []kvhash.Key) (bls.G2Point, error) {
	if len(keys) == 0 {
		return EmptyAccG2, nil
	}
	n, coeffs, err := charPoly(keys)
	if err != nil {
		return bls.G2Point{}, err
	}
	if n-1 > pp.Q {
		return bls.G2Point{}, fmt.Errorf("accumulator: AccValueG2: set of size %d needs degree %d > budget %d: %w", len(keys), n-1, pp.Q, ErrParamBudgetExceeded)
	}
	return bls.MultiExpG2(pp.G2Powers[:n], coeffs)
}
