package kzg

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
)

// Commit computes the KZG commitment of a coefficient-form polynomial: the
// multi-scalar multiplication of the coefficients against the G1 powers of
// the SRS. Deterministic and binding under the pairing assumption.
func Commit(p Polynomial, params *GlobalParameters) (Commitment, error) {
	var c Commitment
	if len(p) > params.Length() {
		return c, fmt.Errorf("%w: %d > %d", ErrPolynomialTooLarge, len(p), params.Length())
	}
	if len(p) == 0 {
		return c, nil // commitment to the zero polynomial is the identity
	}
	if _, err := c.MultiExp(params.PowersG1[:len(p)], p, ecc.MultiExpConfig{}); err != nil {
		return Commitment{}, fmt.Errorf("kzg: msm failed: %w", err)
	}
	return c, nil
}

// domainElement returns the index-th domain point, the generator raised to
// the index.
func domainElement(domain *fft.Domain, index int) fr.Element {
	var u fr.Element
	u.Exp(domain.Generator, big.NewInt(int64(index)))
	return u
}

// quotient divides p(x) - p(u) by (x - u) with synthetic (Ruffini)
// division. The constant term of p never enters the quotient, only the
// remainder, so the claimed value needs no explicit subtraction.
func quotient(p Polynomial, u fr.Element) Polynomial {
	q := make(Polynomial, len(p)-1)
	q[len(p)-2] = p[len(p)-1]
	for k := len(p) - 2; k >= 1; k-- {
		q[k-1].Mul(&q[k], &u)
		q[k-1].Add(&q[k-1], &p[k])
	}
	return q
}

// Open produces the opening proof that the polynomial evaluates to
// evals[index] at the index-th domain point: a commitment to the quotient
// (p(x) - v) / (x - u). The proof carries no blinding term and is fully
// deterministic.
func Open(p Polynomial, evals Evaluations, index int, domain *fft.Domain, params *GlobalParameters) (Proof, error) {
	if index < 0 || index >= len(evals) || uint64(index) >= domain.Cardinality {
		return Proof{}, fmt.Errorf("%w: index %d", ErrIndexOutOfBounds, index)
	}
	if len(p) > params.Length() {
		return Proof{}, fmt.Errorf("%w: %d > %d", ErrPolynomialTooLarge, len(p), params.Length())
	}
	if len(p) < 2 {
		// constant polynomial: the quotient is zero, the witness the identity
		return Proof{}, nil
	}
	q := quotient(p, domainElement(domain, index))
	w, err := Commit(q, params)
	if err != nil {
		return Proof{}, err
	}
	return Proof{W: w}, nil
}

// Verify checks an opening proof: that the committed polynomial evaluates
// to value at the index-th domain point. The pairing equation is
//
//	e(C - [v]G1, G2) == e(W', [tau]G2 - [u]G2)
//
// where W' is the proof witness with any blinding term subtracted out.
// Returns false on any mismatch; never errors.
func Verify(index int, value *fr.Element, commitment *Commitment, proof *Proof, domain *fft.Domain, params *GlobalParameters) bool {
	if index < 0 || uint64(index) >= domain.Cardinality {
		return false
	}
	u := domainElement(domain, index)

	w := proof.Unblinded()
	var negW bls12381.G1Affine
	negW.Neg(&w)

	var vG1, cMinusV bls12381.G1Affine
	vG1.ScalarMultiplication(&g1GenAff, value.BigInt(newBigInt()))
	cMinusV.Sub(commitment, &vG1)

	var uG2, tauMinusU bls12381.G2Affine
	uG2.ScalarMultiplication(&g2GenAff, u.BigInt(newBigInt()))
	tauMinusU.Sub(&params.TauG2, &uG2)

	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{cMinusV, negW},
		[]bls12381.G2Affine{g2GenAff, tauMinusU},
	)
	return err == nil && ok
}
