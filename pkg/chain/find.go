package chain

import (
	"context"

	"github.com/pkg/errors"
	"github.com/tcfw/powledger/pkg/block"
	"github.com/tcfw/powledger/pkg/storage"
)

// Find scans the chain for the block holding txID, newest first. Blocks
// whose bloom filter rules the id out are skipped when s keeps filters.
func Find(ctx context.Context, s storage.ChainStore, txID string) (*block.Block, error) {
	blocks, err := s.LoadChain(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading chain")
	}

	filter, _ := s.(storage.TxFilter)

	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]

		if filter != nil {
			maybe, err := filter.MayContainTx(ctx, b.Hash, txID)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return nil, errors.Wrap(err, "checking tx bloom")
			}
			if err == nil && !maybe {
				continue
			}
		}

		for _, t := range b.Body.Transactions {
			if t.ID == txID {
				return b, nil
			}
		}
	}

	return nil, storage.ErrNotFound
}
