package da

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"

	"github.com/eth2030/dastack/crypto"
	"github.com/eth2030/dastack/kzg"
	"github.com/eth2030/dastack/log"
)

// Verification failures. All are recoverable: a failed Verify call yields
// no attestation and no side effects, and retry policy belongs to the
// caller.
var (
	ErrKeyNotInRoster     = errors.New("da: verifier public key not in roster")
	ErrMalformedColumn    = errors.New("da: column cannot be lifted to a polynomial")
	ErrCommitmentMismatch = errors.New("da: recomputed column commitment does not match")
	ErrInvalidColumnProof = errors.New("da: aggregated column opening failed")
	ErrRowsLengthMismatch = errors.New("da: column, row commitments and row proofs differ in length")
	ErrInvalidRowProof    = errors.New("da: row opening failed")
)

// Attestation is a verifier's signature over a blob's canonical message,
// asserting the blob passed both verification gates.
type Attestation struct {
	Signature *crypto.Signature
}

// DaVerifier runs the column verification protocol for one node. Its index
// is the node's fixed position in the ascending roster of verifier public
// keys: it names both the column the node is sent and the opening position
// its proofs must check. Immutable after construction.
type DaVerifier struct {
	sk     *crypto.SecretKey
	index  int
	params *kzg.GlobalParameters
	domain *fft.Domain
	logger *log.Logger
}

// NewDaVerifier locates the signing key's public key in the sorted roster
// and fixes the verifier's index to that position. A key absent from the
// roster is a construction error.
func NewDaVerifier(sk *crypto.SecretKey, roster []*crypto.PublicKey, params *kzg.GlobalParameters, domain *fft.Domain) (*DaVerifier, error) {
	self := sk.PublicKey()
	index := -1
	for i, pk := range roster {
		if pk.Equal(self) {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, ErrKeyNotInRoster
	}
	return &DaVerifier{
		sk:     sk,
		index:  index,
		params: params,
		domain: domain,
		logger: log.Default().Module("da").With("index", index),
	}, nil
}

// Index returns the verifier's roster position.
func (v *DaVerifier) Index() int { return v.index }

// verifyColumn is the first gate: the received column must recommit to
// exactly the claimed column commitment, and the position-bound hash of
// (column, commitment) must open the aggregated column commitment at the
// verifier's index.
func (v *DaVerifier) verifyColumn(blob *DaBlob) error {
	if err := blob.Column.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedColumn, err)
	}
	_, polynomial, err := kzg.BytesToPolynomial(blob.Column.Bytes(), ChunkSize, v.domain)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedColumn, err)
	}
	computed, err := kzg.Commit(polynomial, v.params)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedColumn, err)
	}
	if !computed.Equal(&blob.ColumnCommitment) {
		return ErrCommitmentMismatch
	}
	hash := hashColumnAndCommitment(blob.Column, &blob.ColumnCommitment)
	element := kzg.FieldElementFromBytesLE(hash)
	if !kzg.Verify(v.index, &element, &blob.AggregatedColumnCommitment, &blob.AggregatedColumnProof, v.domain, v.params) {
		return ErrInvalidColumnProof
	}
	return nil
}

// verifyRows is the second gate: every chunk of the column must open its
// row's commitment at the verifier's index. The three sequences must have
// equal length, and the first failing row rejects the blob.
func (v *DaVerifier) verifyRows(blob *DaBlob) error {
	if len(blob.Column) != len(blob.RowsCommitments) || len(blob.Column) != len(blob.RowsProofs) {
		return fmt.Errorf("%w: column %d, commitments %d, proofs %d",
			ErrRowsLengthMismatch, len(blob.Column), len(blob.RowsCommitments), len(blob.RowsProofs))
	}
	for row := range blob.Column {
		element := kzg.FieldElementFromBytesLE(blob.Column[row])
		if !kzg.Verify(v.index, &element, &blob.RowsCommitments[row], &blob.RowsProofs[row], v.domain, v.params) {
			return fmt.Errorf("%w: row %d", ErrInvalidRowProof, row)
		}
	}
	return nil
}

// Verify runs both gates over a received blob and, on success, signs the
// canonical attestation message. Failures return a nil attestation with
// the gate's error; the call never panics and mutates nothing.
func (v *DaVerifier) Verify(blob *DaBlob) (*Attestation, error) {
	if err := v.verifyColumn(blob); err != nil {
		v.logger.Warn("column gate rejected blob", "blob", blob.ID(), "err", err)
		return nil, err
	}
	if err := v.verifyRows(blob); err != nil {
		v.logger.Warn("rows gate rejected blob", "blob", blob.ID(), "err", err)
		return nil, err
	}
	message := buildAttestationMessage(&blob.AggregatedColumnCommitment, blob.RowsCommitments)
	return &Attestation{Signature: v.sk.Sign(message)}, nil
}
