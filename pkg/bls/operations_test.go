package bls

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/require"
)

func TestScalarMulAndAddAreConsistent(t *testing.T) {
	a := fr.NewElement(7)
	b := fr.NewElement(11)

	pa := ScalarMulG1(G1Generator, &a)
	pb := ScalarMulG1(G1Generator, &b)

	var sum fr.Element
	sum.Add(&a, &b)
	psum := ScalarMulG1(G1Generator, &sum)

	require.True(t, AddG1(pa, pb).Equal(psum), "(a+b)*G should equal a*G + b*G")
}

func TestMultiExpG1MatchesRepeatedScalarMul(t *testing.T) {
	coeffs := []fr.Element{fr.NewElement(2), fr.NewElement(3), fr.NewElement(5)}
	points := []G1Point{G1Generator, ScalarMulG1(G1Generator, &coeffs[0]), ScalarMulG1(G1Generator, &coeffs[1])}

	got, err := MultiExpG1(points, coeffs)
	require.NoError(t, err)

	want := G1Point{}
	first := true
	for i, c := range coeffs {
		term := ScalarMulG1(points[i], &c)
		if first {
			want = term
			first = false
		} else {
			want = AddG1(want, term)
		}
	}
	require.True(t, got.Equal(want))
}

func TestMultiExpG1LengthMismatch(t *testing.T) {
	_, err := MultiExpG1([]G1Point{G1Generator}, []fr.Element{fr.NewElement(1), fr.NewElement(2)})
	require.Error(t, err)
}

func TestPairingEqualBasicIdentity(t *testing.T) {
	// e(a*G1, G2) == e(G1, a*G2) for any scalar a.
	a, err := RandomScalar()
	require.NoError(t, err)

	left := ScalarMulG1(G1Generator, a)
	right := ScalarMulG2(G2Generator, a)

	ok, err := PairingEqual(left, G2Generator, G1Generator, right)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPairingEqualDetectsMismatch(t *testing.T) {
	a, err := RandomScalar()
	require.NoError(t, err)
	b, err := RandomScalar()
	require.NoError(t, err)
	require.False(t, a.Equal(b))

	left := ScalarMulG1(G1Generator, a)
	right := ScalarMulG2(G2Generator, b)

	ok, err := PairingEqual(left, G2Generator, G1Generator, right)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPairingProductEqualsIdentity(t *testing.T) {
	// Bezout-style identity: if alpha+beta == 0 in the exponent then
	// e(alpha*G1, G2) * e(beta*G1, G2) == 1_GT.
	alpha, err := RandomScalar()
	require.NoError(t, err)
	var beta fr.Element
	beta.Neg(alpha)

	a1 := ScalarMulG1(G1Generator, alpha)
	a2 := ScalarMulG1(G1Generator, &beta)

	ok, err := PairingProductEqualsIdentity(a1, G2Generator, a2, G2Generator)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPairingProductEqualsIdentityDetectsMismatch(t *testing.T) {
	alpha, err := RandomScalar()
	require.NoError(t, err)
	a1 := ScalarMulG1(G1Generator, alpha)

	ok, err := PairingProductEqualsIdentity(a1, G2Generator, a1, G2Generator)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPairingProductIsIdentityMatchesTwoTermCase(t *testing.T) {
	alpha, err := RandomScalar()
	require.NoError(t, err)
	var beta fr.Element
	beta.Neg(alpha)

	a1 := ScalarMulG1(G1Generator, alpha)
	a2 := ScalarMulG1(G1Generator, &beta)

	ok, err := PairingProductIsIdentity([]G1Point{a1, a2}, []G2Point{G2Generator, G2Generator})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestNegG1RoundTrips(t *testing.T) {
	require.True(t, AddG1(G1Generator, NegG1(G1Generator)).IsIdentity())
}

func TestNegG2RoundTrips(t *testing.T) {
	require.True(t, AddG2(G2Generator, NegG2(G2Generator)).IsIdentity())
}

func TestRandomScalarNeverZero(t *testing.T) {
	for i := 0; i < 16; i++ {
		s, err := RandomScalar()
		require.NoError(t, err)
		require.False(t, s.IsZero())
	}
}
