// Package kzg implements the polynomial commitment layer of the
// data-availability stack: KZG commitments over BLS12-381, single-point
// opening proofs, and the FK20 batch proof generator that produces the
// opening proof for every point of an evaluation domain in O(n log n).
//
// All field and curve algebra comes from gnark-crypto. Evaluation domains
// are gnark-crypto fft.Domain values (multiplicative subgroups of the
// scalar field with power-of-two cardinality).
//
// The structured reference string (GlobalParameters) is immutable after
// construction and safe to share across concurrent callers, as is a
// Toeplitz1Cache.
package kzg

import (
	"errors"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Size constants for chunked byte encodings of field elements.
const (
	// BytesPerFieldElement is the nominal byte width of a BLS12-381 scalar.
	BytesPerFieldElement = 32

	// MaxEncodingChunkSize is the largest chunk width guaranteed to encode
	// below the scalar field modulus without reduction.
	MaxEncodingChunkSize = BytesPerFieldElement - 1
)

// Errors returned by the commitment layer.
var (
	ErrChunkSizeTooBig    = errors.New("kzg: chunk size exceeds bytes per field element")
	ErrUnalignedData      = errors.New("kzg: data size is not a multiple of the chunk size")
	ErrTooManyChunks      = errors.New("kzg: more chunks than evaluation domain points")
	ErrPolynomialTooLarge = errors.New("kzg: polynomial length exceeds SRS length")
	ErrIndexOutOfBounds   = errors.New("kzg: evaluation index out of domain bounds")
)

// Commitment is a succinct binding digest of a polynomial: a single G1
// point computed against the SRS.
type Commitment = bls12381.G1Affine

// Polynomial holds field-element coefficients in ascending degree order.
type Polynomial []fr.Element

// Evaluations holds a polynomial's values over an evaluation domain, in
// domain order.
type Evaluations []fr.Element

// Proof is an opening proof for one evaluation point of a committed
// polynomial. RandomV, when present, is a blinding term added to W during
// batched generation so the accumulated point cannot degenerate to the
// group identity; verification subtracts it back out, so it never affects
// validity.
type Proof struct {
	W       bls12381.G1Affine
	RandomV *fr.Element
}

// Equal reports whether two proofs carry the same witness point and the
// same (possibly absent) blinding term.
func (p *Proof) Equal(other *Proof) bool {
	if !p.W.Equal(&other.W) {
		return false
	}
	if (p.RandomV == nil) != (other.RandomV == nil) {
		return false
	}
	return p.RandomV == nil || p.RandomV.Equal(other.RandomV)
}

// Unblinded returns the witness point with the blinding term removed. For
// proofs without a blinding term this is W itself.
func (p *Proof) Unblinded() bls12381.G1Affine {
	if p.RandomV == nil {
		return p.W
	}
	var blind bls12381.G1Affine
	blind.ScalarMultiplication(&g1GenAff, p.RandomV.BigInt(newBigInt()))
	var w bls12381.G1Affine
	w.Sub(&p.W, &blind)
	return w
}
