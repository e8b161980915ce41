// Package crypto provides the BLS12-381 signing primitives backing DA
// attestations, built on the supranational/blst library.
//
// The scheme is the "min-sig" variant: signatures are compressed G1 points
// (48 bytes), public keys compressed G2 points (96 bytes). Attestations are
// domain-separated with a fixed empty context tag, so signatures from other
// protocol contexts (which carry their own tags) cannot be confused with
// them.
package crypto

import (
	"bytes"
	"errors"
	"sort"

	blst "github.com/supranational/blst/bindings/go"
)

// Key and signature sizes for the min-sig scheme.
const (
	// SecretKeySize is the byte length of a serialized secret scalar.
	SecretKeySize = 32

	// PublicKeySize is the byte length of a compressed G2 public key.
	PublicKeySize = 96

	// SignatureSize is the byte length of a compressed G1 signature.
	SignatureSize = 48

	// minIKMSize is the smallest input keying material blst accepts.
	minIKMSize = 32
)

// attestationDST is the fixed (empty) domain separation tag attestation
// signatures are bound to.
var attestationDST = []byte{}

// Errors returned by key and signature constructors.
var (
	ErrInvalidIKM       = errors.New("crypto: keying material must be at least 32 bytes")
	ErrKeyGenFailed     = errors.New("crypto: key generation failed")
	ErrInvalidSecretKey = errors.New("crypto: invalid secret key bytes")
	ErrInvalidPublicKey = errors.New("crypto: invalid public key bytes")
	ErrInvalidSignature = errors.New("crypto: invalid signature bytes")
)

// SecretKey is a BLS signing key.
type SecretKey struct {
	inner *blst.SecretKey
}

// GenerateSecretKey derives a secret key from input keying material of at
// least 32 bytes.
func GenerateSecretKey(ikm []byte) (*SecretKey, error) {
	if len(ikm) < minIKMSize {
		return nil, ErrInvalidIKM
	}
	sk := blst.KeyGen(ikm)
	if sk == nil {
		return nil, ErrKeyGenFailed
	}
	return &SecretKey{inner: sk}, nil
}

// SecretKeyFromBytes deserializes a 32-byte secret scalar.
func SecretKeyFromBytes(b []byte) (*SecretKey, error) {
	if len(b) != SecretKeySize {
		return nil, ErrInvalidSecretKey
	}
	sk := new(blst.SecretKey).Deserialize(b)
	if sk == nil {
		return nil, ErrInvalidSecretKey
	}
	return &SecretKey{inner: sk}, nil
}

// Bytes returns the serialized secret scalar.
func (sk *SecretKey) Bytes() []byte {
	return sk.inner.Serialize()
}

// PublicKey returns the corresponding G2 public key.
func (sk *SecretKey) PublicKey() *PublicKey {
	return &PublicKey{inner: new(blst.P2Affine).From(sk.inner)}
}

// Sign signs the message under the attestation domain separation tag.
func (sk *SecretKey) Sign(msg []byte) *Signature {
	return &Signature{inner: new(blst.P1Affine).Sign(sk.inner, msg, attestationDST)}
}

// PublicKey is a BLS verification key (G2 point).
type PublicKey struct {
	inner *blst.P2Affine
}

// PublicKeyFromBytes decompresses a 96-byte public key, rejecting points
// not in the G2 subgroup.
func PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	if len(b) != PublicKeySize {
		return nil, ErrInvalidPublicKey
	}
	pk := new(blst.P2Affine).Uncompress(b)
	if pk == nil || !pk.KeyValidate() {
		return nil, ErrInvalidPublicKey
	}
	return &PublicKey{inner: pk}, nil
}

// Bytes returns the compressed public key encoding.
func (pk *PublicKey) Bytes() []byte {
	return pk.inner.Compress()
}

// Equal reports whether two public keys are the same G2 point.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	return pk.inner.Equals(other.inner)
}

// Signature is a BLS signature (G1 point).
type Signature struct {
	inner *blst.P1Affine
}

// SignatureFromBytes decompresses a 48-byte signature.
func SignatureFromBytes(b []byte) (*Signature, error) {
	if len(b) != SignatureSize {
		return nil, ErrInvalidSignature
	}
	sig := new(blst.P1Affine).Uncompress(b)
	if sig == nil {
		return nil, ErrInvalidSignature
	}
	return &Signature{inner: sig}, nil
}

// Bytes returns the compressed signature encoding.
func (s *Signature) Bytes() []byte {
	return s.inner.Compress()
}

// Verify checks the signature over msg against the public key, under the
// attestation domain separation tag.
func (s *Signature) Verify(pk *PublicKey, msg []byte) bool {
	return s.inner.Verify(true, pk.inner, true, msg, attestationDST)
}

// SortPublicKeys orders a verifier roster by its compressed key encodings,
// ascending. Roster order is load-bearing: it fixes every verifier's index
// and hence which column and proof positions it must check.
func SortPublicKeys(keys []*PublicKey) {
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) < 0
	})
}
