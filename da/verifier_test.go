package da

import (
	"bytes"
	"errors"
	"testing"

	"github.com/eth2030/dastack/crypto"
	"github.com/eth2030/dastack/kzg"
)

// makeRoster generates n deterministic signing keys and returns the
// ascending roster of their public keys plus the key at each roster index.
func makeRoster(t *testing.T, n int) ([]*crypto.PublicKey, []*crypto.SecretKey) {
	t.Helper()
	keys := make([]*crypto.SecretKey, n)
	roster := make([]*crypto.PublicKey, n)
	for i := range keys {
		ikm := make([]byte, 32)
		ikm[0] = byte(i + 1)
		copy(ikm[1:], []byte("da-verifier-test-ikm-filler-pad"))
		sk, err := crypto.GenerateSecretKey(ikm)
		if err != nil {
			t.Fatalf("GenerateSecretKey(%d): %v", i, err)
		}
		keys[i] = sk
		roster[i] = sk.PublicKey()
	}
	crypto.SortPublicKeys(roster)

	byIndex := make([]*crypto.SecretKey, n)
	for _, sk := range keys {
		pk := sk.PublicKey()
		for i, rosterPK := range roster {
			if rosterPK.Equal(pk) {
				byIndex[i] = sk
			}
		}
	}
	return roster, byIndex
}

func newTestVerifier(t *testing.T, sk *crypto.SecretKey, roster []*crypto.PublicKey) *DaVerifier {
	t.Helper()
	verifier, err := NewDaVerifier(sk, roster, testParams, testDomain)
	if err != nil {
		t.Fatalf("NewDaVerifier: %v", err)
	}
	return verifier
}

// encodeBlob encodes data and carves out the share for one column.
func encodeBlob(t *testing.T, data []byte, column int) *DaBlob {
	t.Helper()
	encoder := newTestEncoder(t)
	encoded, err := encoder.Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	blob, err := encoded.Blob(column)
	if err != nil {
		t.Fatalf("Blob(%d): %v", column, err)
	}
	return blob
}

func TestNewDaVerifierKeyNotInRoster(t *testing.T) {
	roster, _ := makeRoster(t, 4)
	outsider, err := crypto.GenerateSecretKey(bytes.Repeat([]byte{0xaa}, 32))
	if err != nil {
		t.Fatalf("GenerateSecretKey: %v", err)
	}
	if _, err := NewDaVerifier(outsider, roster, testParams, testDomain); !errors.Is(err, ErrKeyNotInRoster) {
		t.Fatalf("err = %v, want ErrKeyNotInRoster", err)
	}
}

func TestVerifyEndToEnd(t *testing.T) {
	roster, byIndex := makeRoster(t, 5)
	verifier := newTestVerifier(t, byIndex[3], roster)
	if verifier.Index() != 3 {
		t.Fatalf("index = %d, want 3", verifier.Index())
	}

	// One full row of deterministic filler, column 3 for verifier 3.
	blob := encodeBlob(t, testFiller(496), 3)
	if len(blob.Column) != 1 {
		t.Fatalf("expected a single-row blob, got %d rows", len(blob.Column))
	}

	attestation, err := verifier.Verify(blob)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if attestation == nil || attestation.Signature == nil {
		t.Fatal("verification succeeded without an attestation")
	}

	// The signature must independently verify against the verifier's
	// public key and the blob's canonical identity.
	if !attestation.Signature.Verify(roster[3], blob.ID().Bytes()) {
		t.Fatal("attestation signature does not verify")
	}
	if attestation.Signature.Verify(roster[2], blob.ID().Bytes()) {
		t.Fatal("attestation signature verified under the wrong key")
	}
}

func TestVerifyAllColumns(t *testing.T) {
	roster, byIndex := makeRoster(t, int(testDomain.Cardinality))
	encoder := newTestEncoder(t)
	encoded, err := encoder.Encode(testFiller(992))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	for i := range roster {
		blob, err := encoded.Blob(i)
		if err != nil {
			t.Fatalf("Blob(%d): %v", i, err)
		}
		verifier := newTestVerifier(t, byIndex[i], roster)
		if _, err := verifier.Verify(blob); err != nil {
			t.Fatalf("verifier %d rejected its column: %v", i, err)
		}
	}
}

func TestVerifyIndexBinding(t *testing.T) {
	roster, byIndex := makeRoster(t, 5)
	blob := encodeBlob(t, testFiller(992), 2)

	// Column 2 belongs to verifier 2; verifier 3 must reject it.
	if _, err := newTestVerifier(t, byIndex[2], roster).Verify(blob); err != nil {
		t.Fatalf("rightful verifier rejected its column: %v", err)
	}
	if _, err := newTestVerifier(t, byIndex[3], roster).Verify(blob); err == nil {
		t.Fatal("verifier 3 accepted verifier 2's column")
	}
}

func TestVerifyTamperedColumn(t *testing.T) {
	roster, byIndex := makeRoster(t, 5)
	verifier := newTestVerifier(t, byIndex[1], roster)

	blob := encodeBlob(t, testFiller(992), 1)
	blob.Column[0] = bytes.Clone(blob.Column[0])
	blob.Column[0][4] ^= 0x01

	if _, err := verifier.Verify(blob); !errors.Is(err, ErrCommitmentMismatch) {
		t.Fatalf("err = %v, want ErrCommitmentMismatch", err)
	}
}

func TestVerifyTamperedColumnCommitment(t *testing.T) {
	roster, byIndex := makeRoster(t, 5)
	verifier := newTestVerifier(t, byIndex[1], roster)

	blob := encodeBlob(t, testFiller(992), 1)
	blob.ColumnCommitment = blob.RowsCommitments[0]

	if _, err := verifier.Verify(blob); !errors.Is(err, ErrCommitmentMismatch) {
		t.Fatalf("err = %v, want ErrCommitmentMismatch", err)
	}
}

func TestVerifyTamperedAggregatedProof(t *testing.T) {
	roster, byIndex := makeRoster(t, 5)
	verifier := newTestVerifier(t, byIndex[1], roster)

	blob := encodeBlob(t, testFiller(992), 1)
	blob.AggregatedColumnProof.W = testParams.G1Generator()

	if _, err := verifier.Verify(blob); !errors.Is(err, ErrInvalidColumnProof) {
		t.Fatalf("err = %v, want ErrInvalidColumnProof", err)
	}
}

func TestVerifyTamperedRowCommitment(t *testing.T) {
	roster, byIndex := makeRoster(t, 5)
	verifier := newTestVerifier(t, byIndex[1], roster)

	blob := encodeBlob(t, testFiller(992), 1)
	blob.RowsCommitments = append([]kzg.Commitment(nil), blob.RowsCommitments...)
	blob.RowsCommitments[1] = blob.ColumnCommitment

	if _, err := verifier.Verify(blob); !errors.Is(err, ErrInvalidRowProof) {
		t.Fatalf("err = %v, want ErrInvalidRowProof", err)
	}
}

func TestVerifyTamperedRowProof(t *testing.T) {
	roster, byIndex := makeRoster(t, 5)
	verifier := newTestVerifier(t, byIndex[1], roster)

	blob := encodeBlob(t, testFiller(992), 1)
	blob.RowsProofs = append([]kzg.Proof(nil), blob.RowsProofs...)
	blob.RowsProofs[0].W = testParams.G1Generator()

	if _, err := verifier.Verify(blob); !errors.Is(err, ErrInvalidRowProof) {
		t.Fatalf("err = %v, want ErrInvalidRowProof", err)
	}
}

func TestVerifyLengthMismatch(t *testing.T) {
	roster, byIndex := makeRoster(t, 5)
	verifier := newTestVerifier(t, byIndex[1], roster)

	blob := encodeBlob(t, testFiller(992), 1)
	blob.RowsProofs = blob.RowsProofs[:1]

	if _, err := verifier.Verify(blob); !errors.Is(err, ErrRowsLengthMismatch) {
		t.Fatalf("dropped proof: err = %v, want ErrRowsLengthMismatch", err)
	}

	blob = encodeBlob(t, testFiller(992), 1)
	blob.RowsCommitments = blob.RowsCommitments[:1]
	if _, err := verifier.Verify(blob); !errors.Is(err, ErrRowsLengthMismatch) {
		t.Fatalf("dropped commitment: err = %v, want ErrRowsLengthMismatch", err)
	}
}

func TestVerifyMalformedColumn(t *testing.T) {
	roster, byIndex := makeRoster(t, 5)
	verifier := newTestVerifier(t, byIndex[1], roster)

	blob := encodeBlob(t, testFiller(992), 1)
	blob.Column[0] = make(Chunk, kzg.BytesPerFieldElement+1)

	if _, err := verifier.Verify(blob); !errors.Is(err, ErrMalformedColumn) {
		t.Fatalf("err = %v, want ErrMalformedColumn", err)
	}
}
