package kzg

import (
	"fmt"
	"math/bits"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
)

// FK20 batch proof generation. Computing the opening proof for every point
// of a degree-d domain one call at a time costs O(d^2) group operations;
// the Toeplitz/FFT method below does all d in O(d log d). The three stages:
//
//  1. toeplitz1: reverse the first d SRS powers, extend with d identity
//     points, forward G1 FFT of size 2d. Depends only on the SRS and d, so
//     it can be precomputed once per degree (Toeplitz1Cache).
//  2. toeplitz2: size-2d scalar FFT of (d zeros, then the coefficients),
//     multiplied pointwise against the stage-1 vector.
//  3. toeplitz3: size-2d inverse G1 FFT of the products; the first d
//     entries are the h vector.
//
// A final size-d forward G1 FFT of the h vector yields the witness for
// every domain index in order. Each witness is blinded with a fresh random
// scalar times the generator so that no emitted point is the group
// identity, whose compressed encoding is degenerate; the blinding scalar
// travels with the proof and is removed again during verification.

func isPowerOfTwo(n int) bool { return n > 0 && bits.OnesCount(uint(n)) == 1 }

// Toeplitz1Cache holds the polynomial-independent first stage of FK20 for
// one degree. Construct it once, then share it read-only across any number
// of concurrent BatchOpen calls for polynomials of that degree.
type Toeplitz1Cache struct {
	degree   int
	extended []bls12381.G1Jac
}

// NewToeplitz1Cache precomputes stage one for the given polynomial degree.
// The degree must be a power of two within the SRS length (programmer
// error otherwise).
func NewToeplitz1Cache(params *GlobalParameters, degree int) *Toeplitz1Cache {
	return &Toeplitz1Cache{degree: degree, extended: toeplitz1(params, degree)}
}

// Degree returns the polynomial degree the cache was built for.
func (c *Toeplitz1Cache) Degree() int { return c.degree }

func checkBatchPreconditions(degree int, params *GlobalParameters) {
	if !isPowerOfTwo(degree) {
		panic(fmt.Sprintf("kzg: fk20 degree %d is not a power of two", degree))
	}
	if degree > params.Length() {
		panic(fmt.Sprintf("kzg: fk20 degree %d exceeds SRS length %d", degree, params.Length()))
	}
}

// toeplitz1 builds the extended SRS vector: the first degree powers in
// reverse order, padded with degree identity points, pushed through a
// forward G1 FFT of size 2*degree.
func toeplitz1(params *GlobalParameters, degree int) []bls12381.G1Jac {
	checkBatchPreconditions(degree, params)
	domain2 := fft.NewDomain(uint64(2 * degree))
	extended := make([]bls12381.G1Jac, 2*degree)
	for i := 0; i < degree; i++ {
		extended[i].FromAffine(&params.PowersG1[degree-1-i])
	}
	inf := g1Infinity()
	for i := degree; i < 2*degree; i++ {
		extended[i].Set(&inf)
	}
	return fftG1(extended, domain2.Generator)
}

// toeplitz2 transforms the zero-padded coefficient vector with a scalar
// FFT of matching size and multiplies it pointwise into the extended
// vector (scalar times point, over the group).
func toeplitz2(coefficients []fr.Element, extended []bls12381.G1Jac, domain2 *fft.Domain) []bls12381.G1Jac {
	transformed := make([]fr.Element, len(coefficients))
	copy(transformed, coefficients)
	domain2.FFT(transformed, fft.DIF)
	fft.BitReverse(transformed)

	out := make([]bls12381.G1Jac, len(extended))
	for i := range extended {
		out[i].ScalarMultiplication(&extended[i], transformed[i].BigInt(newBigInt()))
	}
	return out
}

// toeplitz3 applies the size-2d inverse G1 FFT to the pointwise products.
func toeplitz3(products []bls12381.G1Jac, domain2 *fft.Domain) []bls12381.G1Jac {
	return ifftG1(products, domain2.GeneratorInv, domain2.CardinalityInv)
}

// BatchOpen produces the opening proof for every point of the polynomial's
// evaluation domain in one batched computation. The i-th proof, minus its
// blinding term, is bit-identical to Open at index i. A nil cache computes
// stage one inline; a non-nil cache must match the polynomial's degree.
//
// The polynomial length must be a power of two within the SRS length;
// violating either is a programming error and panics.
func BatchOpen(p Polynomial, params *GlobalParameters, cache *Toeplitz1Cache) []Proof {
	degree := len(p)
	checkBatchPreconditions(degree, params)

	var extended []bls12381.G1Jac
	if cache != nil {
		if cache.degree != degree {
			panic(fmt.Sprintf("kzg: fk20 cache degree %d does not match polynomial degree %d", cache.degree, degree))
		}
		extended = cache.extended
	} else {
		extended = toeplitz1(params, degree)
	}

	// Zero-pad the coefficients from the front so the circulant embedding
	// lines up with the reversed SRS vector.
	domain2 := fft.NewDomain(uint64(2 * degree))
	padded := make([]fr.Element, 2*degree)
	copy(padded[degree:], p)

	products := toeplitz2(padded, extended, domain2)
	hExtended := toeplitz3(products, domain2)

	domain := fft.NewDomain(uint64(degree))
	witnesses := fftG1(hExtended[:degree], domain.Generator)

	proofs := make([]Proof, degree)
	for i := range witnesses {
		randomV := new(fr.Element)
		if _, err := randomV.SetRandom(); err != nil {
			panic(fmt.Sprintf("kzg: blinding randomness unavailable: %v", err))
		}
		var blind bls12381.G1Jac
		blind.ScalarMultiplication(&g1GenJac, randomV.BigInt(newBigInt()))
		witnesses[i].AddAssign(&blind)
		proofs[i].W.FromJacobian(&witnesses[i])
		proofs[i].RandomV = randomV
	}
	return proofs
}
