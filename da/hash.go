package da

import (
	"golang.org/x/crypto/sha3"

	"github.com/eth2030/dastack/kzg"
)

// columnHashSize bounds the column-binding hash to the maximum encodable
// chunk width so it lifts to a field element without reduction.
const columnHashSize = kzg.MaxEncodingChunkSize

// hashColumnAndCommitment derives the position-bound digest the aggregated
// column commitment opens to: sha3-256 over the raw column bytes followed
// by the compressed column commitment, truncated to the maximum encodable
// chunk width.
func hashColumnAndCommitment(column Column, commitment *kzg.Commitment) []byte {
	h := sha3.New256()
	h.Write(column.Bytes())
	b := commitment.Bytes()
	h.Write(b[:])
	return h.Sum(nil)[:columnHashSize]
}

// buildAttestationMessage derives the canonical message a verifier signs:
// sha3-256 over the compressed aggregated column commitment followed by
// every compressed row commitment, in row order. The same digest is the
// blob's identity.
func buildAttestationMessage(aggregated *kzg.Commitment, rows []kzg.Commitment) []byte {
	h := sha3.New256()
	b := aggregated.Bytes()
	h.Write(b[:])
	for i := range rows {
		rb := rows[i].Bytes()
		h.Write(rb[:])
	}
	return h.Sum(nil)
}
