// Package bls wraps the BLS12-381 curve arithmetic (via gnark-crypto) used
// by the accumulator layer: G1/G2 point types, scalar multiplication,
// multi-scalar exponentiation against precomputed powers of a secret, and
// pairing checks. It does not implement a BLS signature scheme; the curve
// is used purely as the group underlying a bilinear-pairing accumulator.
package bls

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// G1Point wraps a point on BLS12-381's G1 group.
type G1Point struct {
	point bls12381.G1Affine
}

// G2Point wraps a point on BLS12-381's G2 group.
type G2Point struct {
	point bls12381.G2Affine
}

// NewG1Point wraps a gnark G1Affine point.
func NewG1Point(p bls12381.G1Affine) G1Point {
	return G1Point{point: p}
}

// NewG2Point wraps a gnark G2Affine point.
func NewG2Point(p bls12381.G2Affine) G2Point {
	return G2Point{point: p}
}

// Affine returns the underlying gnark-crypto point.
func (p G1Point) Affine() bls12381.G1Affine { return p.point }

// Affine returns the underlying gnark-crypto point.
func (p G2Point) Affine() bls12381.G2Affine { return p.point }

// Marshal serializes the point in BLS12-381's canonical compressed
// encoding (48 bytes for G1, 96 for G2).
func (p G1Point) Marshal() []byte {
	b := p.point.Bytes()
	return b[:]
}

// Marshal serializes the point in BLS12-381's canonical compressed
// encoding.
func (p G2Point) Marshal() []byte {
	b := p.point.Bytes()
	return b[:]
}

// G1PointFromCompressedBytes decompresses a G1 point.
func G1PointFromCompressedBytes(data []byte) (G1Point, error) {
	var p bls12381.G1Affine
	if _, err := p.SetBytes(data); err != nil {
		return G1Point{}, fmt.Errorf("decode G1 point: %w", err)
	}
	return G1Point{point: p}, nil
}

// G2PointFromCompressedBytes decompresses a G2 point.
func G2PointFromCompressedBytes(data []byte) (G2Point, error) {
	var p bls12381.G2Affine
	if _, err := p.SetBytes(data); err != nil {
		return G2Point{}, fmt.Errorf("decode G2 point: %w", err)
	}
	return G2Point{point: p}, nil
}

// IsIdentity reports whether p is the identity element of G1.
func (p G1Point) IsIdentity() bool { return p.point.IsInfinity() }

// IsIdentity reports whether p is the identity element of G2.
func (p G2Point) IsIdentity() bool { return p.point.IsInfinity() }

// Equal reports whether the two points are the same curve point.
func (p G1Point) Equal(other G1Point) bool { return p.point.Equal(&other.point) }

// Equal reports whether the two points are the same curve point.
func (p G2Point) Equal(other G2Point) bool { return p.point.Equal(&other.point) }
