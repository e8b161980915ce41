// Package da implements the data-availability blob layer: the column
// share a verifier node receives, its cryptographic identities, the
// producer-side encoder that turns a byte blob into committed columns, and
// the two-gate verification protocol that ends in a signed attestation.
//
// A blob of bytes becomes a rows-by-columns matrix of chunks. Every row is
// committed as a polynomial over the evaluation domain; every column is
// committed as its own polynomial, and the per-column (column, commitment)
// hashes are bound together under one aggregated commitment. A verifier at
// roster index i receives column i plus the commitments and proofs needed
// to check it without seeing the rest of the matrix.
package da

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/holiman/uint256"

	"github.com/eth2030/dastack/kzg"
)

// ChunkSize is the byte width of one matrix cell. It stays one byte under
// the field element width so a chunk always encodes below the scalar
// modulus without reduction.
const ChunkSize = kzg.MaxEncodingChunkSize

// Column share validation errors.
var (
	ErrChunkTooBig       = errors.New("da: chunk exceeds field element width")
	ErrChunkNotCanonical = errors.New("da: chunk value not below the scalar field modulus")
	ErrEmptyColumn       = errors.New("da: column has no chunks")
)

// frModulus is the BLS12-381 scalar field order as a uint256, for exact
// canonical-encoding checks on chunk bytes.
var frModulus = uint256.MustFromBig(fr.Modulus())

// Chunk is one fixed-width byte cell of the erasure-coded matrix, encoding
// a single field element little-endian.
type Chunk []byte

// Bytes returns the raw chunk bytes.
func (c Chunk) Bytes() []byte { return c }

// Column is an ordered sequence of chunks: one vertical slice of the
// matrix, the share a single verifier is responsible for.
type Column []Chunk

// Bytes concatenates the column's chunks.
func (c Column) Bytes() []byte {
	out := make([]byte, 0, len(c)*ChunkSize)
	for _, chunk := range c {
		out = append(out, chunk...)
	}
	return out
}

// Validate rejects columns whose chunks could not have been produced by
// the encoder: oversized chunks, or chunk values at or above the scalar
// field modulus (checked exactly, not by high-byte heuristics).
func (c Column) Validate() error {
	if len(c) == 0 {
		return ErrEmptyColumn
	}
	var v uint256.Int
	for i, chunk := range c {
		if len(chunk) > kzg.BytesPerFieldElement {
			return fmt.Errorf("%w: chunk %d has %d bytes", ErrChunkTooBig, i, len(chunk))
		}
		be := make([]byte, len(chunk))
		for j, b := range chunk {
			be[len(chunk)-1-j] = b
		}
		v.SetBytes(be)
		if v.Cmp(frModulus) >= 0 {
			return fmt.Errorf("%w: chunk %d", ErrChunkNotCanonical, i)
		}
	}
	return nil
}
