package accumulator

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/dualauth/authkv/pkg/bls"
	"github.com/dualauth/authkv/pkg/keyenc"
	"github.com/dualauth/authkv/pkg/kvhash"
)

// keyFactor returns (s + key_to_scalar(key)), the per-key linear factor
// every incremental operation multiplies or divides the accumulator by.
func keyFactor(trapdoor *Trapdoor, key kvhash.Key) (fr.Element, error) {
	scalar := keyenc.ToScalar(key)
	if scalar.IsZero() {
		return fr.Element{}, fmt.Errorf("accumulator: key %s encodes to zero scalar: %w", key, ErrInvalidInput)
	}
	var factor fr.Element
	factor.Add(trapdoor.S, &scalar)
	if factor.IsZero() {
		return fr.Element{}, fmt.Errorf("accumulator: key %s cancels the trapdoor: %w", key, ErrInvalidInput)
	}
	return factor, nil
}

// Add computes Acc' = Acc ^ (s + key_to_scalar(x)), the O(1) Prover-side
// update spec.md §4.3 requires when a key joins the accumulated set.
func Add(trapdoor *Trapdoor, acc bls.G1Point, key kvhash.Key) (bls.G1Point, error) {
	factor, err := keyFactor(trapdoor, key)
	if err != nil {
		return bls.G1Point{}, fmt.Errorf("accumulator: Add: %w", err)
	}
	return bls.ScalarMulG1(acc, &factor), nil
}

// Delete computes Acc' = Acc ^ (s + key_to_scalar(x))^-1.
func Delete(trapdoor *Trapdoor, acc bls.G1Point, key kvhash.Key) (bls.G1Point, error) {
	factor, err := keyFactor(trapdoor, key)
	if err != nil {
		return bls.G1Point{}, fmt.Errorf("accumulator: Delete: %w", err)
	}
	var inv fr.Element
	inv.Inverse(&factor)
	return bls.ScalarMulG1(acc, &inv), nil
}

// Update computes Acc' = Acc ^ ((s+scalar(newKey)) * (s+scalar(oldKey))^-1),
// replacing oldKey by newKey in the committed set in a single O(1) group
// operation.
func Update(trapdoor *Trapdoor, acc bls.G1Point, oldKey, newKey kvhash.Key) (bls.G1Point, error) {
	oldFactor, err := keyFactor(trapdoor, oldKey)
	if err != nil {
		return bls.G1Point{}, fmt.Errorf("accumulator: Update: %w", err)
	}
	newFactor, err := keyFactor(trapdoor, newKey)
	if err != nil {
		return bls.G1Point{}, fmt.Errorf("accumulator: Update: %w", err)
	}
	var oldInv, exponent fr.Element
	oldInv.Inverse(&oldFactor)
	exponent.Mul(&newFactor, &oldInv)
	return bls.ScalarMulG1(acc, &exponent), nil
}

// IncrementalUnion folds a batch of keys into an existing accumulator
// value in one scalar multiplication: leftAcc * g1^(prod (s+scalar(k)))
// for k in rightKeys. This is the merge-time update Normalize performs
// when combining two forest roots (spec.md §4.4): the parent's
// accumulator is the left child's accumulator advanced by the right
// child's key set, without expanding the right side's characteristic
// polynomial.
func IncrementalUnion(trapdoor *Trapdoor, leftAcc bls.G1Point, rightKeys []kvhash.Key) (bls.G1Point, error) {
	exponent := fr.NewElement(1)
	for _, k := range rightKeys {
		factor, err := keyFactor(trapdoor, k)
		if err != nil {
			return bls.G1Point{}, fmt.Errorf("accumulator: IncrementalUnion: %w", err)
		}
		exponent.Mul(&exponent, &factor)
	}
	return bls.ScalarMulG1(leftAcc, &exponent), nil
}
