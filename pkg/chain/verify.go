package chain

import (
	"github.com/pkg/errors"
	"github.com/tcfw/powledger/pkg/block"
)

var (
	ErrDuplicateTx = errors.New("transaction committed twice")
)

// Verify checks linkage from the sentinel, each block's own consistency and
// proof of work, and that no transaction id appears in two blocks.
func Verify(blocks []*block.Block) error {
	if err := block.Link(blocks); err != nil {
		return err
	}

	seen := map[string]int{}
	for i, b := range blocks {
		if err := b.Validate(); err != nil {
			return errors.Wrapf(err, "block %d", i)
		}

		for _, t := range b.Body.Transactions {
			if t.ID == "" {
				continue
			}
			if j, ok := seen[t.ID]; ok {
				return errors.Wrapf(ErrDuplicateTx, "%s in blocks %d and %d", t.ID, j, i)
			}
			seen[t.ID] = i
		}
	}

	return nil
}
