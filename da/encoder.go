package da

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"

	"github.com/eth2030/dastack/kzg"
	"github.com/eth2030/dastack/log"
)

// Encoder errors.
var (
	ErrNoData         = errors.New("da: nothing to encode")
	ErrNoSuchColumn   = errors.New("da: column index out of range")
	ErrDomainTooLarge = errors.New("da: evaluation domain exceeds SRS length")
)

// EncodedData is the full output of encoding one byte blob: the matrix
// plus every commitment and proof a verifier could ask for. Blobs for
// individual columns are carved out of it.
type EncodedData struct {
	Data                       []byte
	Rows                       []Column
	Columns                    []Column
	RowsCommitments            []kzg.Commitment
	RowsProofs                 [][]kzg.Proof
	ColumnCommitments          []kzg.Commitment
	AggregatedColumnCommitment kzg.Commitment
	AggregatedColumnProofs     []kzg.Proof
}

// Blob assembles the DaBlob for one column: the column itself, its
// commitment, the aggregated commitment with the column's opening proof,
// and the per-row commitments and proofs at the column's index.
func (d *EncodedData) Blob(column int) (*DaBlob, error) {
	if column < 0 || column >= len(d.Columns) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchColumn, column)
	}
	rowsProofs := make([]kzg.Proof, len(d.Rows))
	for i := range d.RowsProofs {
		rowsProofs[i] = d.RowsProofs[i][column]
	}
	return &DaBlob{
		Column:                     d.Columns[column],
		ColumnCommitment:           d.ColumnCommitments[column],
		AggregatedColumnCommitment: d.AggregatedColumnCommitment,
		AggregatedColumnProof:      d.AggregatedColumnProofs[column],
		RowsCommitments:            d.RowsCommitments,
		RowsProofs:                 rowsProofs,
	}, nil
}

// DaEncoder turns byte blobs into committed column shares. The number of
// columns equals the domain cardinality; the FK20 stage-one cache for that
// degree is built once at construction and shared by every Encode call.
type DaEncoder struct {
	params *kzg.GlobalParameters
	domain *fft.Domain
	cache  *kzg.Toeplitz1Cache
	logger *log.Logger
}

// NewDaEncoder builds an encoder for the given parameters and domain.
func NewDaEncoder(params *kzg.GlobalParameters, domain *fft.Domain) (*DaEncoder, error) {
	if domain.Cardinality > uint64(params.Length()) {
		return nil, fmt.Errorf("%w: %d > %d", ErrDomainTooLarge, domain.Cardinality, params.Length())
	}
	return &DaEncoder{
		params: params,
		domain: domain,
		cache:  kzg.NewToeplitz1Cache(params, int(domain.Cardinality)),
		logger: log.Default().Module("da").With("role", "encoder"),
	}, nil
}

// chunkify zero-pads data to a whole number of rows and splits it into the
// chunk matrix, row-major.
func (e *DaEncoder) chunkify(data []byte) []Column {
	columns := int(e.domain.Cardinality)
	rowSize := columns * ChunkSize
	padded := make([]byte, ((len(data)+rowSize-1)/rowSize)*rowSize)
	copy(padded, data)

	rows := make([]Column, 0, len(padded)/rowSize)
	for off := 0; off < len(padded); off += rowSize {
		row := make(Column, columns)
		for c := 0; c < columns; c++ {
			row[c] = Chunk(padded[off+c*ChunkSize : off+(c+1)*ChunkSize])
		}
		rows = append(rows, row)
	}
	return rows
}

// transpose flips the row-major matrix into its column shares.
func transpose(rows []Column) []Column {
	if len(rows) == 0 {
		return nil
	}
	columns := make([]Column, len(rows[0]))
	for c := range columns {
		column := make(Column, len(rows))
		for r := range rows {
			column[r] = rows[r][c]
		}
		columns[c] = column
	}
	return columns
}

// Encode commits the blob: per-row polynomials with FK20 proofs at every
// column position, per-column commitments, and the aggregated commitment
// over the column binding hashes with FK20 proofs at every column index.
func (e *DaEncoder) Encode(data []byte) (*EncodedData, error) {
	if len(data) == 0 {
		return nil, ErrNoData
	}
	rows := e.chunkify(data)
	columns := transpose(rows)

	rowsCommitments := make([]kzg.Commitment, len(rows))
	rowsProofs := make([][]kzg.Proof, len(rows))
	for i, row := range rows {
		_, polynomial, err := kzg.BytesToPolynomial(row.Bytes(), ChunkSize, e.domain)
		if err != nil {
			return nil, fmt.Errorf("da: row %d: %w", i, err)
		}
		if rowsCommitments[i], err = kzg.Commit(polynomial, e.params); err != nil {
			return nil, fmt.Errorf("da: row %d: %w", i, err)
		}
		rowsProofs[i] = kzg.BatchOpen(polynomial, e.params, e.cache)
	}

	columnCommitments := make([]kzg.Commitment, len(columns))
	hashes := make(kzg.Evaluations, e.domain.Cardinality)
	for i, column := range columns {
		_, polynomial, err := kzg.BytesToPolynomial(column.Bytes(), ChunkSize, e.domain)
		if err != nil {
			return nil, fmt.Errorf("da: column %d: %w", i, err)
		}
		if columnCommitments[i], err = kzg.Commit(polynomial, e.params); err != nil {
			return nil, fmt.Errorf("da: column %d: %w", i, err)
		}
		hashes[i] = kzg.FieldElementFromBytesLE(hashColumnAndCommitment(column, &columnCommitments[i]))
	}

	aggregatedPolynomial := kzg.PolynomialFromEvaluations(hashes, e.domain)
	aggregatedCommitment, err := kzg.Commit(aggregatedPolynomial, e.params)
	if err != nil {
		return nil, fmt.Errorf("da: aggregated column commitment: %w", err)
	}
	aggregatedProofs := kzg.BatchOpen(aggregatedPolynomial, e.params, e.cache)

	e.logger.Debug("encoded blob",
		"bytes", len(data), "rows", len(rows), "columns", len(columns))

	return &EncodedData{
		Data:                       data,
		Rows:                       rows,
		Columns:                    columns,
		RowsCommitments:            rowsCommitments,
		RowsProofs:                 rowsProofs,
		ColumnCommitments:          columnCommitments,
		AggregatedColumnCommitment: aggregatedCommitment,
		AggregatedColumnProofs:     aggregatedProofs,
	}, nil
}
