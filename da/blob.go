package da

import (
	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/eth2030/dastack/kzg"
)

// DaBlob is the share a single verifier receives: one column of the
// erasure-coded matrix plus everything needed to verify it in isolation.
// It is built once by the encoder and never mutated.
type DaBlob struct {
	// Column is the verifier's vertical slice of the matrix.
	Column Column

	// ColumnCommitment commits to the column as its own polynomial.
	ColumnCommitment kzg.Commitment

	// AggregatedColumnCommitment binds all columns' commitments together.
	AggregatedColumnCommitment kzg.Commitment

	// AggregatedColumnProof opens the aggregated commitment at the
	// verifier's index to this column's binding hash.
	AggregatedColumnProof kzg.Proof

	// RowsCommitments holds one commitment per matrix row.
	RowsCommitments []kzg.Commitment

	// RowsProofs opens each row commitment at the verifier's index to the
	// corresponding column chunk.
	RowsProofs []kzg.Proof
}

// ID is the blob's canonical identity: the hash of the aggregated column
// commitment and the row commitments. Two blobs carrying the same
// commitments are the same logical blob regardless of which column they
// hold, and the identity doubles as the attestation message.
func (b *DaBlob) ID() common.Hash {
	return common.BytesToHash(buildAttestationMessage(&b.AggregatedColumnCommitment, b.RowsCommitments))
}

// ColumnID is a cheaper content address over the raw column bytes alone,
// used to deduplicate column payloads independently of the commitments
// carried alongside them.
func (b *DaBlob) ColumnID() common.Hash {
	return gethcrypto.Keccak256Hash(b.Column.Bytes())
}
