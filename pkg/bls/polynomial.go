package bls

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/polynomial"
)

// PolyFromRoots builds the monic polynomial prod_i (t + roots[i]) in
// ascending-coefficient form (coeffs[k] is the coefficient of t^k). This is
// the characteristic polynomial of an accumulated set: evaluating it at the
// trapdoor s gives the exponent of Acc(X).
func PolyFromRoots(roots []fr.Element) polynomial.Polynomial {
	p := polynomial.Polynomial{fr.NewElement(1)}
	for _, r := range roots {
		p = polyMulLinear(p, r)
	}
	return p
}

// polyMulLinear multiplies p by the linear factor (t + root).
func polyMulLinear(p polynomial.Polynomial, root fr.Element) polynomial.Polynomial {
	out := make(polynomial.Polynomial, len(p)+1)
	for i, c := range p {
		var term fr.Element
		term.Mul(&c, &root)
		out[i].Add(&out[i], &term)
		out[i+1].Add(&out[i+1], &c)
	}
	return out
}

// PolyDegree returns the degree of p, ignoring trailing zero coefficients.
func PolyDegree(p polynomial.Polynomial) int {
	d := len(p) - 1
	for d > 0 && p[d].IsZero() {
		d--
	}
	return d
}

// PolyEvalAt evaluates p(x) via Horner's method.
func PolyEvalAt(p polynomial.Polynomial, x *fr.Element) fr.Element {
	var result fr.Element
	for i := len(p) - 1; i >= 0; i-- {
		result.Mul(&result, x)
		result.Add(&result, &p[i])
	}
	return result
}

// PolyMul multiplies two polynomials via schoolbook convolution.
func PolyMul(a, b polynomial.Polynomial) polynomial.Polynomial {
	if len(a) == 0 || len(b) == 0 {
		return polynomial.Polynomial{}
	}
	out := make(polynomial.Polynomial, len(a)+len(b)-1)
	for i, ac := range a {
		if ac.IsZero() {
			continue
		}
		for j, bc := range b {
			var term fr.Element
			term.Mul(&ac, &bc)
			out[i+j].Add(&out[i+j], &term)
		}
	}
	return out
}

// PolyAdd adds two polynomials, zero-extending the shorter one.
func PolyAdd(a, b polynomial.Polynomial) polynomial.Polynomial {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(polynomial.Polynomial, n)
	for i := range out {
		if i < len(a) {
			out[i].Add(&out[i], &a[i])
		}
		if i < len(b) {
			out[i].Add(&out[i], &b[i])
		}
	}
	return out
}

// PolySub subtracts polynomial b from a.
func PolySub(a, b polynomial.Polynomial) polynomial.Polynomial {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(polynomial.Polynomial, n)
	for i := range out {
		if i < len(a) {
			out[i].Add(&out[i], &a[i])
		}
		if i < len(b) {
			out[i].Sub(&out[i], &b[i])
		}
	}
	return out
}

// PolyDivMod performs polynomial long division a = q*b + r over F_r,
// returning quotient and remainder in ascending-coefficient form. b must
// be non-zero.
func PolyDivMod(a, b polynomial.Polynomial) (q, r polynomial.Polynomial, err error) {
	db := PolyDegree(b)
	if db == 0 && b[0].IsZero() {
		return nil, nil, fmt.Errorf("bls: PolyDivMod: division by zero polynomial")
	}

	r = clonePoly(a)
	da := PolyDegree(r)

	if da < db || isZeroPoly(r) {
		return polynomial.Polynomial{fr.NewElement(0)}, r, nil
	}

	q = make(polynomial.Polynomial, da-db+1)
	var leadInv fr.Element
	leadInv.Inverse(&b[db])

	for da >= db && !isZeroPoly(r) {
		var coeff fr.Element
		coeff.Mul(&r[da], &leadInv)
		shift := da - db
		q[shift] = coeff

		for i, bc := range b[:db+1] {
			var term fr.Element
			term.Mul(&coeff, &bc)
			r[shift+i].Sub(&r[shift+i], &term)
		}
		da = PolyDegree(r)
		if isZeroPoly(r) {
			break
		}
	}
	return q, r, nil
}

func isZeroPoly(p polynomial.Polynomial) bool {
	for _, c := range p {
		if !c.IsZero() {
			return false
		}
	}
	return true
}

// PolyExtendedGCD runs the extended Euclidean algorithm over F_r[t],
// returning (g, x, y) such that a*x + b*y = g. For two coprime
// characteristic polynomials (i.e. sets with no common key) g is a
// non-zero constant; in that case x, y and g are scaled by g's inverse
// before returning, so g = 1 and a*x+b*y = 1 exactly, which is the Bezout
// identity the disjointness proof is built from.
func PolyExtendedGCD(a, b polynomial.Polynomial) (g, x, y polynomial.Polynomial, err error) {
	oldR, r := clonePoly(a), clonePoly(b)
	oldS, s := polynomial.Polynomial{fr.NewElement(1)}, polynomial.Polynomial{fr.NewElement(0)}
	oldT, t := polynomial.Polynomial{fr.NewElement(0)}, polynomial.Polynomial{fr.NewElement(1)}

	for !isZeroPoly(r) {
		quot, rem, divErr := PolyDivMod(oldR, r)
		if divErr != nil {
			return nil, nil, nil, fmt.Errorf("bls: PolyExtendedGCD: %w", divErr)
		}
		oldR, r = r, rem
		oldS, s = s, PolySub(oldS, PolyMul(quot, s))
		oldT, t = t, PolySub(oldT, PolyMul(quot, t))
	}

	if PolyDegree(oldR) == 0 && !oldR[0].IsZero() {
		var inv fr.Element
		inv.Inverse(&oldR[0])
		oldS = polyScale(oldS, inv)
		oldT = polyScale(oldT, inv)
		oldR = polynomial.Polynomial{fr.NewElement(1)}
	}

	return oldR, oldS, oldT, nil
}

func polyScale(p polynomial.Polynomial, s fr.Element) polynomial.Polynomial {
	out := make(polynomial.Polynomial, len(p))
	for i, c := range p {
		out[i].Mul(&c, &s)
	}
	return out
}

func clonePoly(p polynomial.Polynomial) polynomial.Polynomial {
	out := make(polynomial.Polynomial, len(p))
	copy(out, p)
	return out
}
