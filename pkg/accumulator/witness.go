package accumulator

import (
	"fmt"

	"github.com/dualauth/authkv/pkg/bls"
	"github.com/dualauth/authkv/pkg/keyenc"
	"github.com/dualauth/authkv/pkg/kvhash"
)

// CreateWitness computes W(X, x) = Acc(X \ {x}), the single-element
// membership witness for key x in set X. It recomputes the accumulator
// over the set with x removed rather than performing a polynomial
// division, which is the simpler of the two approaches spec.md §9 notes
// as an acceptable trade at this scale ("recompute the accumulator from
// children... trades memory for locality"). Fails with ErrInvalidInput
// if x is not present in keys.
func CreateWitness(pp *PublicParams, keys []kvhash.Key, target kvhash.Key) (bls.G1Point, error) {
	rest := make([]kvhash.Key, 0, len(keys))
	found := false
	for _, k := range keys {
		if !found && k.Equal(target) {
			found = true
			continue
		}
		rest = append(rest, k)
	}
	if !found {
		return bls.G1Point{}, fmt.Errorf("accumulator: CreateWitness: key %s not present in set: %w", target, ErrInvalidInput)
	}
	return AccValueG1(pp, rest)
}

// VerifyMembership checks e(acc, g2) == e(witness, g2^(s+key_to_scalar(x)))
// using only public parameters — the Verifier's side of spec.md §4.3,
// never touching the trapdoor.
func VerifyMembership(pp *PublicParams, acc bls.G1Point, witness bls.G1Point, key kvhash.Key) (bool, error) {
	scalar := keyenc.ToScalar(key)
	if scalar.IsZero() {
		return false, fmt.Errorf("accumulator: VerifyMembership: %w", ErrInvalidInput)
	}
	if len(pp.G2Powers) < 2 {
		return false, fmt.Errorf("accumulator: VerifyMembership: public parameters need at least G2Powers[0..1]: %w", ErrInvalidInput)
	}
	keyPointG2 := bls.ScalarMulG2(bls.G2Generator, &scalar)
	shifted := bls.AddG2(pp.G2Powers[1], keyPointG2)

	ok, err := bls.PairingEqual(acc, bls.G2Generator, witness, shifted)
	if err != nil {
		return false, fmt.Errorf("accumulator: VerifyMembership: %w", err)
	}
	if !ok {
		return false, fmt.Errorf("accumulator: VerifyMembership: %w", ErrPairingCheckFailed)
	}
	return true, nil
}
