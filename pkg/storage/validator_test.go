package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/powledger/pkg/block"
	"github.com/tcfw/powledger/pkg/digest"
)

func TestValidBlock(t *testing.T) {
	s := NewMemStore()
	v := NewChainValidator(s)

	b := minedBlock(t, digest.Sentinel, testRecords())

	assert.NoError(t, v.IsBlockValid(context.Background(), b, true))
}

func TestBlockNotLinked(t *testing.T) {
	s := NewMemStore()
	v := NewChainValidator(s)

	b := minedBlock(t, "12345678", testRecords())

	err := v.IsBlockValid(context.Background(), b, true)
	assert.ErrorIs(t, err, ErrBlockNotLinked)

	assert.NoError(t, v.IsBlockValid(context.Background(), b, false))
}

func TestTxAlreadyInChain(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	v := NewChainValidator(s)

	txs := testRecords()
	b1 := minedBlock(t, digest.Sentinel, txs[:2])
	require.NoError(t, s.AppendBlock(ctx, b1))

	b2 := minedBlock(t, b1.Hash, txs[1:])

	err := v.IsBlockValid(ctx, b2, true)
	assert.ErrorIs(t, err, ErrTxAlreadyInChain)
}

func TestEmptyIDsNotIndexed(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	v := NewChainValidator(s)

	txs := testRecords()
	for i := range txs {
		txs[i].ID = ""
	}

	b1 := minedBlock(t, digest.Sentinel, txs[:2])
	require.NoError(t, v.IsBlockValid(ctx, b1, true))
	require.NoError(t, s.AppendBlock(ctx, b1))

	b2 := minedBlock(t, b1.Hash, txs[2:])
	assert.NoError(t, v.IsBlockValid(ctx, b2, true))
}

func TestTamperedBlock(t *testing.T) {
	s := NewMemStore()
	v := NewChainValidator(s)

	b := minedBlock(t, digest.Sentinel, testRecords())
	b.Body.Transactions[0].Amount++

	assert.Error(t, v.IsBlockValid(context.Background(), b, true))
}

func TestApplyGenesis(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	g, err := ApplyGenesis(ctx, s, GenesisInfo{Version: block.Version1, Difficulty: 3, Timestamp: time.Now().Unix()})
	require.NoError(t, err)
	assert.Equal(t, digest.Sentinel, g.Hash)

	again, err := ApplyGenesis(ctx, s, GenesisInfo{Version: block.Version1})
	require.NoError(t, err)
	assert.Equal(t, g.Header.Timestamp, again.Header.Timestamp)

	chain, err := s.LoadChain(ctx)
	require.NoError(t, err)
	assert.Len(t, chain, 1)

	next := minedBlock(t, g.Hash, testRecords())
	assert.NoError(t, NewChainValidator(s).IsBlockValid(ctx, next, true))
}
