package kzg

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// gnark-crypto's fft package only transforms scalar vectors, so the group
// FFTs FK20 needs are implemented here: a radix-2 Cooley-Tukey transform
// over G1 with fr twiddle factors, natural order in and out. Sizes are
// small powers of two (twice the polynomial degree), so the recursive form
// is adequate.

// fftG1 computes the forward DFT of values with omega as the len(values)-th
// root of unity. len(values) must be a power of two.
func fftG1(values []bls12381.G1Jac, omega fr.Element) []bls12381.G1Jac {
	n := len(values)
	if n == 1 {
		return []bls12381.G1Jac{values[0]}
	}
	half := n / 2
	evens := make([]bls12381.G1Jac, half)
	odds := make([]bls12381.G1Jac, half)
	for i := 0; i < half; i++ {
		evens[i] = values[2*i]
		odds[i] = values[2*i+1]
	}
	var omegaSq fr.Element
	omegaSq.Mul(&omega, &omega)
	evens = fftG1(evens, omegaSq)
	odds = fftG1(odds, omegaSq)

	out := make([]bls12381.G1Jac, n)
	var w fr.Element
	w.SetOne()
	for i := 0; i < half; i++ {
		var t bls12381.G1Jac
		t.ScalarMultiplication(&odds[i], w.BigInt(newBigInt()))
		out[i].Set(&evens[i])
		out[i].AddAssign(&t)
		out[i+half].Set(&evens[i])
		out[i+half].SubAssign(&t)
		w.Mul(&w, &omega)
	}
	return out
}

// ifftG1 computes the inverse DFT: a forward transform with the inverse
// root followed by scaling with 1/n.
func ifftG1(values []bls12381.G1Jac, omegaInv, nInv fr.Element) []bls12381.G1Jac {
	out := fftG1(values, omegaInv)
	scale := nInv.BigInt(newBigInt())
	for i := range out {
		out[i].ScalarMultiplication(&out[i], scale)
	}
	return out
}

// g1Infinity returns the group identity in Jacobian form.
func g1Infinity() bls12381.G1Jac {
	var inf bls12381.G1Affine
	var jac bls12381.G1Jac
	jac.FromAffine(&inf)
	return jac
}
