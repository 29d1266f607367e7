package storage

import (
	"context"

	"github.com/tcfw/powledger/pkg/block"
	"github.com/tcfw/powledger/pkg/ledger"
	"github.com/tcfw/powledger/pkg/tx"
)

const (
	MaxBlockTxCount = 1000
)

//go:generate go run github.com/vektra/mockery/v2 --name TxSource

// TxSource is the pool of transactions waiting to be mined.
type TxSource interface {
	// DrawBatch returns up to n records in random order. A nil seed draws
	// from the current time.
	DrawBatch(ctx context.Context, n int, seed *int64) ([]tx.Record, error)
	RemoveByID(ctx context.Context, ids map[string]struct{}) error
	CountRemaining(ctx context.Context) (int, error)
}

// BalanceStore persists the account registry.
type BalanceStore interface {
	Load(ctx context.Context) ([]ledger.User, error)
	Save(ctx context.Context, users []ledger.User) error
}

// ChainStore is an append only block log.
type ChainStore interface {
	AppendBlock(ctx context.Context, b *block.Block) error
	LoadChain(ctx context.Context) ([]*block.Block, error)

	// LastBlock returns nil, nil on an empty chain.
	LastBlock(ctx context.Context) (*block.Block, error)

	// TxBlock returns the block a transaction was committed in.
	TxBlock(ctx context.Context, txID string) (*block.Block, error)
}

// TxFilter is implemented by chain stores that keep a per block bloom
// filter of transaction ids.
type TxFilter interface {
	MayContainTx(ctx context.Context, blockHash, txID string) (bool, error)
}

// Store combines every collaborator, as MemStore does.
type Store interface {
	TxSource
	BalanceStore
	ChainStore
}
