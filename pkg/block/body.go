package block

import (
	"github.com/pkg/errors"
	"github.com/tcfw/powledger/pkg/merkle"
	"github.com/tcfw/powledger/pkg/tx"
)

// Body is a committed transaction batch. MerkleRoot is always derived from
// Transactions.
type Body struct {
	Transactions []tx.Record
	MerkleRoot   string
	Levels       [][]string
}

func NewBody(txs []tx.Record) (*Body, error) {
	root, err := merkle.Root(txs)
	if err != nil {
		return nil, errors.Wrap(err, "computing merkle root")
	}

	return &Body{Transactions: txs, MerkleRoot: root}, nil
}

// NewBodyWithLevels also keeps every level of the merkle tree.
func NewBodyWithLevels(txs []tx.Record) (*Body, error) {
	root, levels, err := merkle.RootWithLevels(txs)
	if err != nil {
		return nil, errors.Wrap(err, "computing merkle tree")
	}

	return &Body{Transactions: txs, MerkleRoot: root, Levels: levels}, nil
}
