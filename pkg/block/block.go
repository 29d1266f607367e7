package block

import (
	"github.com/pkg/errors"
	"github.com/tcfw/powledger/pkg/digest"
	"github.com/tcfw/powledger/pkg/merkle"
	"github.com/tcfw/powledger/pkg/tx"
)

type Block struct {
	Header Header
	Body   Body
	Hash   string
}

// New seals a header and body. The hash is taken from the header as it
// stands, so mine first.
func New(h *Header, b *Body) *Block {
	return &Block{Header: *h, Body: *b, Hash: h.Hash()}
}

// Genesis builds a sealed genesis block over txs, which may be empty.
func Genesis(txs []tx.Record, version, difficulty int, timestamp int64) (*Block, error) {
	body := &Body{Transactions: txs}
	if len(txs) > 0 {
		b, err := NewBody(txs)
		if err != nil {
			return nil, err
		}
		body = b
	}

	h := NewGenesis(body.MerkleRoot, version, difficulty, timestamp)

	return New(h, body), nil
}

// Validate checks the block is internally consistent and its proof of work
// holds.
func (b *Block) Validate() error {
	if len(b.Body.Transactions) > 0 {
		root, err := merkle.Root(b.Body.Transactions)
		if err != nil {
			return err
		}
		if root != b.Body.MerkleRoot {
			return errors.Errorf("body merkle root %s does not match transactions %s", b.Body.MerkleRoot, root)
		}
	}

	if b.Body.MerkleRoot != b.Header.MerkleRoot {
		return errors.Errorf("header merkle root %s does not match body %s", b.Header.MerkleRoot, b.Body.MerkleRoot)
	}

	if h := b.Header.Hash(); h != b.Hash {
		return errors.Wrapf(ErrProofOfWorkMismatch, "claimed %s, computed %s", b.Hash, h)
	}

	if !b.Header.ValidateProofOfWork() {
		return errors.Wrapf(ErrProofOfWorkMismatch, "%s at difficulty %d", b.Hash, b.Header.Difficulty)
	}

	return nil
}

// Link checks that blocks form a chain from the sentinel.
func Link(blocks []*Block) error {
	prev := digest.Sentinel
	for i, b := range blocks {
		if b.Header.PrevHash != prev {
			return errors.Errorf("block %d prev hash %s, expected %s", i, b.Header.PrevHash, prev)
		}
		prev = b.Hash
	}

	return nil
}
