// Package accumulator implements the bilinear-pairing accumulator: public
// parameters (powers of a trapdoor scalar in G1 and G2), accumulator
// values, single-element membership witnesses, and set-level disjointness/
// intersection/union proofs.
//
// Grounded on the teacher's pkg/bls generator-caching pattern
// (process-wide G1Generator/G2Generator initialized once) generalized
// here to a power table computed once at setup time, and on
// original_source/acc's Horner-style accumulator construction (see
// accvalue.go).
package accumulator

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/dualauth/authkv/pkg/bls"
)

// PublicParams holds the powers of the trapdoor s needed to evaluate
// accumulator polynomials without ever materializing s: G1Powers[i] =
// g1^(s^i), G2Powers[i] = g2^(s^i), for i in [0, Q]. These are the only
// values a Verifier ever needs.
type PublicParams struct {
	Q        int
	G1Powers []bls.G1Point
	G2Powers []bls.G2Point
}

// Trapdoor is the Prover-only secret scalar s. It is required by the
// incremental add/delete/update/union operations in incremental.go, but
// never by accumulator-value computation, witness verification, or any
// set-level proof — those work entirely off PublicParams.
type Trapdoor struct {
	S *fr.Element
}

// NewTestSetup draws a random trapdoor and builds public parameters for a
// power budget of q. This is NOT a trusted-setup ceremony: the trapdoor
// is generated and briefly held in this process, which is exactly the
// toxic-waste leak a real ceremony exists to avoid. It exists solely so
// this module's tests (and callers experimenting with it) have a usable
// PublicParams/Trapdoor pair. Production deployments must obtain
// PublicParams from an external ceremony and never construct a Trapdoor
// at all.
func NewTestSetup(q int) (*PublicParams, *Trapdoor, error) {
	if q < 0 {
		return nil, nil, fmt.Errorf("accumulator: NewTestSetup: negative power budget %d: %w", q, ErrInvalidInput)
	}
	s, err := bls.RandomScalar()
	if err != nil {
		return nil, nil, fmt.Errorf("accumulator: NewTestSetup: draw trapdoor: %w", err)
	}

	g1Powers := make([]bls.G1Point, q+1)
	g2Powers := make([]bls.G2Point, q+1)
	g1Powers[0] = bls.G1Generator
	g2Powers[0] = bls.G2Generator

	current := fr.NewElement(1)
	for i := 1; i <= q; i++ {
		current.Mul(&current, s)
		g1Powers[i] = bls.ScalarMulG1(bls.G1Generator, &current)
		g2Powers[i] = bls.ScalarMulG2(bls.G2Generator, &current)
	}

	return &PublicParams{Q: q, G1Powers: g1Powers, G2Powers: g2Powers}, &Trapdoor{S: s}, nil
}
