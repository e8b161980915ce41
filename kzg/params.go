package kzg

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Errors returned when decoding an SRS artifact.
var (
	ErrSRSTruncated = errors.New("kzg: truncated SRS encoding")
	ErrSRSBadMagic  = errors.New("kzg: bad SRS magic")
	ErrSRSBadPoint  = errors.New("kzg: invalid curve point in SRS")
	ErrSRSEmpty     = errors.New("kzg: SRS must contain at least two G1 powers")
)

// Cached curve generators. Initialized at declaration so that
// package-level values built on the commitment layer (test fixtures
// included) never observe zero-value points.
var g1GenJac, _, g1GenAff, g2GenAff = bls12381.Generators()

func newBigInt() *big.Int { return new(big.Int) }

// srsMagic prefixes the binary SRS artifact encoding.
var srsMagic = [4]byte{'d', 's', 'r', 's'}

// GlobalParameters is the structured reference string shared by every
// commitment and proof operation: the powers of a secret scalar tau in G1,
// plus [tau]G2 for the verification pairing. It is constructed once at
// process start (or loaded from a ceremony artifact) and never mutated, so
// it may be shared by reference across arbitrarily many concurrent calls.
type GlobalParameters struct {
	// PowersG1 holds [tau^0]G1, [tau^1]G1, ..., [tau^{n-1}]G1.
	PowersG1 []bls12381.G1Affine

	// TauG2 is [tau]G2, used on the right side of the pairing check.
	TauG2 bls12381.G2Affine
}

// Length returns the number of G1 powers, the upper bound on committable
// polynomial length.
func (gp *GlobalParameters) Length() int { return len(gp.PowersG1) }

// G1Generator returns [tau^0]G1, the commitment-group generator.
func (gp *GlobalParameters) G1Generator() bls12381.G1Affine { return gp.PowersG1[0] }

// NewInsecureParameters derives a complete SRS of n G1 powers from a seed.
// Tau is hashed from the seed and then discarded, but anyone holding the
// seed can recover it, so the result is only suitable for devnets and
// tests. Production deployments load a ceremony artifact instead.
func NewInsecureParameters(n int, seed []byte) *GlobalParameters {
	if n < 2 {
		panic("kzg: SRS needs at least two G1 powers")
	}
	digest := sha256.Sum256(seed)
	var tau fr.Element
	tau.SetBytes(digest[:])

	powers := make([]bls12381.G1Affine, n)
	var acc fr.Element
	acc.SetOne()
	for i := range powers {
		powers[i].ScalarMultiplication(&g1GenAff, acc.BigInt(newBigInt()))
		acc.Mul(&acc, &tau)
	}
	var tauG2 bls12381.G2Affine
	tauG2.ScalarMultiplication(&g2GenAff, tau.BigInt(newBigInt()))
	return &GlobalParameters{PowersG1: powers, TauG2: tauG2}
}

// MarshalBinary encodes the SRS as a flat artifact: a 4-byte magic, a
// big-endian uint32 point count, the compressed G1 powers, then the
// compressed [tau]G2 point.
func (gp *GlobalParameters) MarshalBinary() ([]byte, error) {
	if len(gp.PowersG1) < 2 {
		return nil, ErrSRSEmpty
	}
	out := make([]byte, 0, 8+len(gp.PowersG1)*bls12381.SizeOfG1AffineCompressed+bls12381.SizeOfG2AffineCompressed)
	out = append(out, srsMagic[:]...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(gp.PowersG1)))
	for i := range gp.PowersG1 {
		b := gp.PowersG1[i].Bytes()
		out = append(out, b[:]...)
	}
	b := gp.TauG2.Bytes()
	out = append(out, b[:]...)
	return out, nil
}

// UnmarshalBinary decodes an SRS artifact produced by MarshalBinary,
// rejecting malformed or off-curve points.
func (gp *GlobalParameters) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return ErrSRSTruncated
	}
	if [4]byte(data[:4]) != srsMagic {
		return ErrSRSBadMagic
	}
	n := int(binary.BigEndian.Uint32(data[4:8]))
	if n < 2 {
		return ErrSRSEmpty
	}
	want := 8 + n*bls12381.SizeOfG1AffineCompressed + bls12381.SizeOfG2AffineCompressed
	if len(data) != want {
		return ErrSRSTruncated
	}
	powers := make([]bls12381.G1Affine, n)
	off := 8
	for i := range powers {
		if _, err := powers[i].SetBytes(data[off : off+bls12381.SizeOfG1AffineCompressed]); err != nil {
			return ErrSRSBadPoint
		}
		off += bls12381.SizeOfG1AffineCompressed
	}
	var tauG2 bls12381.G2Affine
	if _, err := tauG2.SetBytes(data[off:]); err != nil {
		return ErrSRSBadPoint
	}
	gp.PowersG1 = powers
	gp.TauG2 = tauG2
	return nil
}
