package storage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/tcfw/powledger/pkg/block"
	"github.com/tcfw/powledger/pkg/digest"
)

type Validator interface {
	IsBlockValid(context.Context, *block.Block, bool) error
}

// ChainValidator checks a block against itself and against the chain
// already held by s.
type ChainValidator struct {
	s ChainStore
}

func NewChainValidator(s ChainStore) *ChainValidator {
	return &ChainValidator{s}
}

func (v *ChainValidator) IsBlockValid(ctx context.Context, b *block.Block, isNewBlock bool) error {
	if len(b.Body.Transactions) > MaxBlockTxCount {
		return ErrTooManyTx
	}

	if err := b.Validate(); err != nil {
		return errors.Wrap(err, "validating block")
	}

	if !isNewBlock {
		return nil
	}

	last, err := v.s.LastBlock(ctx)
	if err != nil {
		return errors.Wrap(err, "getting chain tip")
	}

	tip := digest.Sentinel
	if last != nil {
		tip = last.Hash
	}
	if b.Header.PrevHash != tip {
		return errors.Wrapf(ErrBlockNotLinked, "prev %s, tip %s", b.Header.PrevHash, tip)
	}

	for _, t := range b.Body.Transactions {
		if t.ID == "" {
			continue
		}

		prior, err := v.s.TxBlock(ctx, t.ID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return errors.Wrap(err, "checking for preexisting tx")
		}
		if prior != nil {
			return errors.Wrapf(ErrTxAlreadyInChain, "tx %s in block %s", t.ID, prior.Hash)
		}
	}

	return nil
}
