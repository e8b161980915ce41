package kzg

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
)

// FieldElementFromBytesLE lifts a little-endian byte sequence to a scalar
// field element, reducing modulo the field order.
func FieldElementFromBytesLE(b []byte) fr.Element {
	be := make([]byte, len(b))
	for i, x := range b {
		be[len(b)-1-i] = x
	}
	var e fr.Element
	e.SetBytes(be)
	return e
}

// BytesToEvaluations splits data into chunkSize-byte chunks, lifts each
// chunk (little-endian) to a field element, and zero-pads the result to the
// domain cardinality. The chunks are treated as the polynomial's values at
// the successive domain points.
func BytesToEvaluations(data []byte, chunkSize int, domain *fft.Domain) (Evaluations, error) {
	if chunkSize > BytesPerFieldElement {
		return nil, fmt.Errorf("%w: %d > %d", ErrChunkSizeTooBig, chunkSize, BytesPerFieldElement)
	}
	if len(data)%chunkSize != 0 {
		return nil, fmt.Errorf("%w: %d %% %d != 0", ErrUnalignedData, len(data), chunkSize)
	}
	numChunks := len(data) / chunkSize
	if uint64(numChunks) > domain.Cardinality {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyChunks, numChunks, domain.Cardinality)
	}
	evals := make(Evaluations, domain.Cardinality)
	for i := 0; i < numChunks; i++ {
		evals[i] = FieldElementFromBytesLE(data[i*chunkSize : (i+1)*chunkSize])
	}
	return evals, nil
}

// BytesToPolynomial lifts chunked bytes to evaluations over the domain and
// interpolates them into coefficient form. The returned polynomial has
// exactly domain-cardinality coefficients.
func BytesToPolynomial(data []byte, chunkSize int, domain *fft.Domain) (Evaluations, Polynomial, error) {
	evals, err := BytesToEvaluations(data, chunkSize, domain)
	if err != nil {
		return nil, nil, err
	}
	return evals, PolynomialFromEvaluations(evals, domain), nil
}

// PolynomialFromEvaluations interpolates domain-ordered evaluations into
// coefficient form via an inverse FFT. The input is not modified. Panics if
// the evaluation count exceeds the domain cardinality (programmer error).
func PolynomialFromEvaluations(evals Evaluations, domain *fft.Domain) Polynomial {
	if uint64(len(evals)) > domain.Cardinality {
		panic("kzg: more evaluations than domain points")
	}
	coeffs := make(Polynomial, domain.Cardinality)
	copy(coeffs, evals)
	domain.FFTInverse(coeffs, fft.DIF)
	fft.BitReverse(coeffs)
	return coeffs
}

// EvaluatePolynomial returns the polynomial's values over the whole domain
// (forward FFT of the coefficients, in domain order).
func EvaluatePolynomial(p Polynomial, domain *fft.Domain) Evaluations {
	evals := make(Evaluations, domain.Cardinality)
	copy(evals, p)
	domain.FFT(evals, fft.DIF)
	fft.BitReverse(evals)
	return evals
}
