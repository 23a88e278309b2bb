package accumulator

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/polynomial"
	pkgerrors "github.com/pkg/errors"

	"github.com/dualauth/authkv/pkg/bls"
	"github.com/dualauth/authkv/pkg/kvhash"
)

// DisjointnessWitness carries the Bezout coefficients (g1^alpha, g1^beta)
// proving two sets' characteristic polynomials are coprime: alpha*P_A(s) +
// beta*P_B(s) = 1.
type DisjointnessWitness struct {
	AlphaG1 bls.G1Point
	BetaG1  bls.G1Point
}

// IntersectionWitness proves I = A ∩ B: exact-division quotients of A and
// B by I, plus a disjointness proof that the quotients share no further
// common factor (otherwise I would not be the full intersection).
type IntersectionWitness struct {
	QuotientAG1  bls.G1Point
	QuotientBG1  bls.G1Point
	QuotientAG2  bls.G2Point
	QuotientBG2  bls.G2Point
	Disjointness DisjointnessWitness
}

// UnionWitness proves U = A ∪ B for disjoint A, B: exact-division
// quotients of U by A and by B, plus a disjointness proof of A and B
// themselves (a union proof over overlapping sets is not this core's
// claim to make).
type UnionWitness struct {
	QuotientAG1  bls.G1Point
	QuotientBG1  bls.G1Point
	Disjointness DisjointnessWitness
}

// polyEvalG1 evaluates a polynomial at the trapdoor s in the exponent of
// g1, i.e. computes g1^p(s), via MSM against the public powers table.
func polyEvalG1(pp *PublicParams, p polynomial.Polynomial) (bls.G1Point, error) {
	n := bls.PolyDegree(p) + 1
	if n-1 > pp.Q {
		return bls.G1Point{}, fmt.Errorf("accumulator: polynomial degree %d exceeds budget %d: %w", n-1, pp.Q, ErrParamBudgetExceeded)
	}
	return bls.MultiExpG1(pp.G1Powers[:n], p[:n])
}

// polyEvalG2 is the G2 analogue of polyEvalG1.
func polyEvalG2(pp *PublicParams, p polynomial.Polynomial) (bls.G2Point, error) {
	n := bls.PolyDegree(p) + 1
	if n-1 > pp.Q {
		return bls.G2Point{}, fmt.Errorf("accumulator: polynomial degree %d exceeds budget %d: %w", n-1, pp.Q, ErrParamBudgetExceeded)
	}
	return bls.MultiExpG2(pp.G2Powers[:n], p[:n])
}

// polyBezoutProof runs the extended Euclidean algorithm on two
// polynomials and evaluates the resulting Bezout coefficients at s in
// G1, failing with ErrNotDisjoint if the polynomials share a root (their
// gcd is not a non-zero constant).
func polyBezoutProof(pp *PublicParams, polyA, polyB polynomial.Polynomial) (*DisjointnessWitness, error) {
	g, x, y, err := bls.PolyExtendedGCD(polyA, polyB)
	if err != nil {
		return nil, fmt.Errorf("accumulator: extended gcd: %w", err)
	}
	if bls.PolyDegree(g) != 0 || g[0].IsZero() {
		return nil, fmt.Errorf("accumulator: %w", ErrNotDisjoint)
	}

	alphaG1, err := polyEvalG1(pp, x)
	if err != nil {
		return nil, fmt.Errorf("accumulator: evaluate alpha: %w", err)
	}
	betaG1, err := polyEvalG1(pp, y)
	if err != nil {
		return nil, fmt.Errorf("accumulator: evaluate beta: %w", err)
	}
	return &DisjointnessWitness{AlphaG1: alphaG1, BetaG1: betaG1}, nil
}

// verifyBezout checks alpha*P_A(s) + beta*P_B(s) == 1 by folding the
// generator pairing e(g1,g2) into a three-term pairing product:
// e(alphaG1, accAG2) * e(betaG1, accBG2) * e(-g1, g2) == 1.
func verifyBezout(w *DisjointnessWitness, accAG2, accBG2 bls.G2Point) (bool, error) {
	ok, err := bls.PairingProductIsIdentity(
		[]bls.G1Point{w.AlphaG1, w.BetaG1, bls.NegG1(bls.G1Generator)},
		[]bls.G2Point{accAG2, accBG2, bls.G2Generator},
	)
	if err != nil {
		return false, fmt.Errorf("accumulator: verifyBezout: %w", err)
	}
	return ok, nil
}

// DisjointnessProof proves that keysA and keysB share no key, returning
// Bezout coefficients over their characteristic polynomials.
func DisjointnessProof(pp *PublicParams, keysA, keysB []kvhash.Key) (*DisjointnessWitness, error) {
	_, polyA, err := charPoly(keysA)
	if err != nil {
		return nil, fmt.Errorf("accumulator: DisjointnessProof: %w", err)
	}
	_, polyB, err := charPoly(keysB)
	if err != nil {
		return nil, fmt.Errorf("accumulator: DisjointnessProof: %w", err)
	}
	w, err := polyBezoutProof(pp, polyA, polyB)
	if err != nil {
		return nil, fmt.Errorf("accumulator: DisjointnessProof: %w", err)
	}
	return w, nil
}

// VerifyDisjointness checks a DisjointnessWitness for keysA, keysB
// against public parameters only.
func VerifyDisjointness(pp *PublicParams, keysA, keysB []kvhash.Key, w *DisjointnessWitness) (bool, error) {
	accAG2, err := AccValueG2(pp, keysA)
	if err != nil {
		return false, fmt.Errorf("accumulator: VerifyDisjointness: %w", err)
	}
	accBG2, err := AccValueG2(pp, keysB)
	if err != nil {
		return false, fmt.Errorf("accumulator: VerifyDisjointness: %w", err)
	}
	ok, err := verifyBezout(w, accAG2, accBG2)
	if err != nil {
		return false, fmt.Errorf("accumulator: VerifyDisjointness: %w", err)
	}
	if !ok {
		return false, fmt.Errorf("accumulator: VerifyDisjointness: %w", ErrPairingCheckFailed)
	}
	return true, nil
}

// IntersectionProof proves keysI = keysA ∩ keysB. It divides each side's
// characteristic polynomial by keysI's and requires an exact quotient
// (remainder zero); the quotient-division path uses github.com/pkg/errors
// so a malformed claimed intersection carries a stack trace back to the
// exact PolyDivMod call that rejected it.
func IntersectionProof(pp *PublicParams, keysA, keysB, keysI []kvhash.Key) (*IntersectionWitness, error) {
	_, polyA, err := charPoly(keysA)
	if err != nil {
		return nil, fmt.Errorf("accumulator: IntersectionProof: %w", err)
	}
	_, polyB, err := charPoly(keysB)
	if err != nil {
		return nil, fmt.Errorf("accumulator: IntersectionProof: %w", err)
	}
	_, polyI, err := charPoly(keysI)
	if err != nil {
		return nil, fmt.Errorf("accumulator: IntersectionProof: %w", err)
	}

	quotA, remA, err := bls.PolyDivMod(polyA, polyI)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "accumulator: IntersectionProof: divide A by I")
	}
	if bls.PolyDegree(remA) != 0 || !remA[0].IsZero() {
		return nil, pkgerrors.Wrap(ErrNotExactDivisor, "accumulator: IntersectionProof: I does not divide A exactly")
	}

	quotB, remB, err := bls.PolyDivMod(polyB, polyI)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "accumulator: IntersectionProof: divide B by I")
	}
	if bls.PolyDegree(remB) != 0 || !remB[0].IsZero() {
		return nil, pkgerrors.Wrap(ErrNotExactDivisor, "accumulator: IntersectionProof: I does not divide B exactly")
	}

	disjoint, err := polyBezoutProof(pp, quotA, quotB)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "accumulator: IntersectionProof: quotients not coprime")
	}

	qAG1, err := polyEvalG1(pp, quotA)
	if err != nil {
		return nil, fmt.Errorf("accumulator: IntersectionProof: %w", err)
	}
	qBG1, err := polyEvalG1(pp, quotB)
	if err != nil {
		return nil, fmt.Errorf("accumulator: IntersectionProof: %w", err)
	}
	qAG2, err := polyEvalG2(pp, quotA)
	if err != nil {
		return nil, fmt.Errorf("accumulator: IntersectionProof: %w", err)
	}
	qBG2, err := polyEvalG2(pp, quotB)
	if err != nil {
		return nil, fmt.Errorf("accumulator: IntersectionProof: %w", err)
	}

	return &IntersectionWitness{
		QuotientAG1:  qAG1,
		QuotientBG1:  qBG1,
		QuotientAG2:  qAG2,
		QuotientBG2:  qBG2,
		Disjointness: *disjoint,
	}, nil
}

// VerifyIntersection checks an IntersectionWitness against the public
// accumulator values accA, accB (as already trusted by the Verifier, e.g.
// from a forest root) and the claimed intersection set keysI.
func VerifyIntersection(pp *PublicParams, accA, accB bls.G1Point, keysI []kvhash.Key, w *IntersectionWitness) (bool, error) {
	accIG2, err := AccValueG2(pp, keysI)
	if err != nil {
		return false, fmt.Errorf("accumulator: VerifyIntersection: %w", err)
	}

	okA, err := bls.PairingEqual(w.QuotientAG1, accIG2, accA, bls.G2Generator)
	if err != nil {
		return false, fmt.Errorf("accumulator: VerifyIntersection: %w", err)
	}
	okB, err := bls.PairingEqual(w.QuotientBG1, accIG2, accB, bls.G2Generator)
	if err != nil {
		return false, fmt.Errorf("accumulator: VerifyIntersection: %w", err)
	}
	okDisjoint, err := verifyBezout(&w.Disjointness, w.QuotientAG2, w.QuotientBG2)
	if err != nil {
		return false, fmt.Errorf("accumulator: VerifyIntersection: %w", err)
	}

	if !okA || !okB || !okDisjoint {
		return false, fmt.Errorf("accumulator: VerifyIntersection: %w", ErrPairingCheckFailed)
	}
	return true, nil
}

// UnionProof proves keysU = keysA ∪ keysB for disjoint keysA, keysB.
func UnionProof(pp *PublicParams, keysA, keysB, keysU []kvhash.Key) (*UnionWitness, error) {
	_, polyA, err := charPoly(keysA)
	if err != nil {
		return nil, fmt.Errorf("accumulator: UnionProof: %w", err)
	}
	_, polyB, err := charPoly(keysB)
	if err != nil {
		return nil, fmt.Errorf("accumulator: UnionProof: %w", err)
	}
	_, polyU, err := charPoly(keysU)
	if err != nil {
		return nil, fmt.Errorf("accumulator: UnionProof: %w", err)
	}

	quotA, remA, err := bls.PolyDivMod(polyU, polyA)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "accumulator: UnionProof: divide U by A")
	}
	if bls.PolyDegree(remA) != 0 || !remA[0].IsZero() {
		return nil, pkgerrors.Wrap(ErrNotExactDivisor, "accumulator: UnionProof: A does not divide U exactly")
	}

	quotB, remB, err := bls.PolyDivMod(polyU, polyB)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "accumulator: UnionProof: divide U by B")
	}
	if bls.PolyDegree(remB) != 0 || !remB[0].IsZero() {
		return nil, pkgerrors.Wrap(ErrNotExactDivisor, "accumulator: UnionProof: B does not divide U exactly")
	}

	disjoint, err := polyBezoutProof(pp, polyA, polyB)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "accumulator: UnionProof: A and B not disjoint")
	}

	qAG1, err := polyEvalG1(pp, quotA)
	if err != nil {
		return nil, fmt.Errorf("accumulator: UnionProof: %w", err)
	}
	qBG1, err := polyEvalG1(pp, quotB)
	if err != nil {
		return nil, fmt.Errorf("accumulator: UnionProof: %w", err)
	}

	return &UnionWitness{QuotientAG1: qAG1, QuotientBG1: qBG1, Disjointness: *disjoint}, nil
}

// VerifyUnion checks a UnionWitness: keysA and keysB (known to the
// Verifier, as this is a claim about explicit sets) are disjoint, and
// each divides accU exactly.
func VerifyUnion(pp *PublicParams, keysA, keysB []kvhash.Key, accU bls.G1Point, w *UnionWitness) (bool, error) {
	accAG2, err := AccValueG2(pp, keysA)
	if err != nil {
		return false, fmt.Errorf("accumulator: VerifyUnion: %w", err)
	}
	accBG2, err := AccValueG2(pp, keysB)
	if err != nil {
		return false, fmt.Errorf("accumulator: VerifyUnion: %w", err)
	}

	okA, err := bls.PairingEqual(w.QuotientAG1, accAG2, accU, bls.G2Generator)
	if err != nil {
		return false, fmt.Errorf("accumulator: VerifyUnion: %w", err)
	}
	okB, err := bls.PairingEqual(w.QuotientBG1, accBG2, accU, bls.G2Generator)
	if err != nil {
		return false, fmt.Errorf("accumulator: VerifyUnion: %w", err)
	}
	okDisjoint, err := verifyBezout(&w.Disjointness, accAG2, accBG2)
	if err != nil {
		return false, fmt.Errorf("accumulator: VerifyUnion: %w", err)
	}

	if !okA || !okB || !okDisjoint {
		return false, fmt.Errorf("accumulator: VerifyUnion: %w", ErrPairingCheckFailed)
	}
	return true, nil
}
