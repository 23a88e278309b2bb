package bls

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

var (
	// G1Generator is the generator point for G1.
	G1Generator G1Point
	// G2Generator is the generator point for G2.
	G2Generator G2Point
)

func init() {
	_, _, g1Gen, g2Gen := bls12381.Generators()
	G1Generator = NewG1Point(g1Gen)
	G2Generator = NewG2Point(g2Gen)
}

// ScalarMulG1 multiplies a G1 point by a scalar.
func ScalarMulG1(point G1Point, scalar *fr.Element) G1Point {
	scalarBig := new(big.Int)
	scalar.BigInt(scalarBig)
	result := new(bls12381.G1Affine).ScalarMultiplication(&point.point, scalarBig)
	return NewG1Point(*result)
}

// ScalarMulG2 multiplies a G2 point by a scalar.
func ScalarMulG2(point G2Point, scalar *fr.Element) G2Point {
	scalarBig := new(big.Int)
	scalar.BigInt(scalarBig)
	result := new(bls12381.G2Affine).ScalarMultiplication(&point.point, scalarBig)
	return NewG2Point(*result)
}

// AddG1 adds two G1 points.
func AddG1(a, b G1Point) G1Point {
	result := new(bls12381.G1Affine).Add(&a.point, &b.point)
	return NewG1Point(*result)
}

// AddG2 adds two G2 points.
func AddG2(a, b G2Point) G2Point {
	result := new(bls12381.G2Affine).Add(&a.point, &b.point)
	return NewG2Point(*result)
}

// MultiExpG1 computes sum_i coeffs[i]*points[i] on G1 in one multi-scalar
// exponentiation. Used to evaluate an accumulator polynomial against a
// precomputed table of powers of the trapdoor without ever materializing
// the trapdoor.
func MultiExpG1(points []G1Point, coeffs []fr.Element) (G1Point, error) {
	if len(points) != len(coeffs) {
		return G1Point{}, fmt.Errorf("bls: MultiExpG1 length mismatch: %d points, %d coeffs", len(points), len(coeffs))
	}
	affine := make([]bls12381.G1Affine, len(points))
	for i, p := range points {
		affine[i] = p.point
	}
	var result bls12381.G1Affine
	if _, err := result.MultiExp(affine, coeffs, ecc.MultiExpConfig{}); err != nil {
		return G1Point{}, fmt.Errorf("bls: MultiExpG1: %w", err)
	}
	return NewG1Point(result), nil
}

// MultiExpG2 computes sum_i coeffs[i]*points[i] on G2 in one multi-scalar
// exponentiation.
func MultiExpG2(points []G2Point, coeffs []fr.Element) (G2Point, error) {
	if len(points) != len(coeffs) {
		return G2Point{}, fmt.Errorf("bls: MultiExpG2 length mismatch: %d points, %d coeffs", len(points), len(coeffs))
	}
	affine := make([]bls12381.G2Affine, len(points))
	for i, p := range points {
		affine[i] = p.point
	}
	var result bls12381.G2Affine
	if _, err := result.MultiExp(affine, coeffs, ecc.MultiExpConfig{}); err != nil {
		return G2Point{}, fmt.Errorf("bls: MultiExpG2: %w", err)
	}
	return NewG2Point(result), nil
}

// PairingEqual checks e(a1,b1) == e(a2,b2), the core equality used by
// every accumulator verification in this module.
func PairingEqual(a1 G1Point, b1 G2Point, a2 G1Point, b2 G2Point) (bool, error) {
	left, err := bls12381.Pair([]bls12381.G1Affine{a1.point}, []bls12381.G2Affine{b1.point})
	if err != nil {
		return false, fmt.Errorf("bls: pairing e(a1,b1): %w", err)
	}
	right, err := bls12381.Pair([]bls12381.G1Affine{a2.point}, []bls12381.G2Affine{b2.point})
	if err != nil {
		return false, fmt.Errorf("bls: pairing e(a2,b2): %w", err)
	}
	return left.Equal(&right), nil
}

// PairingProductEqualsIdentity checks e(a1,b1)*e(a2,b2) == 1_GT, the
// two-term pairing-product identity used by disjointness/intersection/
// union verification.
func PairingProductEqualsIdentity(a1 G1Point, b1 G2Point, a2 G1Point, b2 G2Point) (bool, error) {
	product, err := bls12381.Pair([]bls12381.G1Affine{a1.point, a2.point}, []bls12381.G2Affine{b1.point, b2.point})
	if err != nil {
		return false, fmt.Errorf("bls: pairing product: %w", err)
	}
	return product.IsOne(), nil
}

// PairingProductIsIdentity checks prod_i e(g1s[i], g2s[i]) == 1_GT for an
// arbitrary number of terms. Bezout-style set proofs fold a generator
// pairing into the product by negating one of the G1 points (see NegG1),
// so this generalizes PairingProductEqualsIdentity beyond two terms.
func PairingProductIsIdentity(g1s []G1Point, g2s []G2Point) (bool, error) {
	if len(g1s) != len(g2s) {
		return false, fmt.Errorf("bls: PairingProductIsIdentity length mismatch: %d g1, %d g2", len(g1s), len(g2s))
	}
	a := make([]bls12381.G1Affine, len(g1s))
	b := make([]bls12381.G2Affine, len(g2s))
	for i := range g1s {
		a[i] = g1s[i].point
		b[i] = g2s[i].point
	}
	product, err := bls12381.Pair(a, b)
	if err != nil {
		return false, fmt.Errorf("bls: pairing product: %w", err)
	}
	return product.IsOne(), nil
}

// NegG1 returns the additive inverse of p.
func NegG1(p G1Point) G1Point {
	result := new(bls12381.G1Affine).Neg(&p.point)
	return NewG1Point(*result)
}

// NegG2 returns the additive inverse of p.
func NegG2(p G2Point) G2Point {
	result := new(bls12381.G2Affine).Neg(&p.point)
	return NewG2Point(*result)
}

// RandomScalar draws a uniformly random non-zero scalar. Used only by
// test/dev trapdoor generation (pkg/accumulator.NewTestSetup) — a real
// deployment's trapdoor comes out of a trusted-setup ceremony that is
// explicitly outside this module's scope.
func RandomScalar() (*fr.Element, error) {
	s := new(fr.Element)
	if _, err := s.SetRandom(); err != nil {
		return nil, fmt.Errorf("bls: draw random scalar: %w", err)
	}
	if s.IsZero() {
		return RandomScalar()
	}
	return s, nil
}
