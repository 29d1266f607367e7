package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/powledger/pkg/block"
	"github.com/tcfw/powledger/pkg/digest"
	"github.com/tcfw/powledger/pkg/storage"
)

func TestPebbleChain(t *testing.T) {
	ctx := context.Background()

	s, err := NewPebbleChain(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	last, err := s.LastBlock(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	txs := testRecords()
	b1 := minedBlock(t, digest.Sentinel, txs[:1])
	b2 := minedBlock(t, b1.Hash, txs[1:])

	require.NoError(t, s.AppendBlock(ctx, b1))
	require.NoError(t, s.AppendBlock(ctx, b2))

	chain, err := s.LoadChain(ctx)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, b1.Hash, chain[0].Hash)
	assert.Equal(t, b2.Hash, chain[1].Hash)
	assert.NoError(t, block.Link(chain))
	assert.Equal(t, b2.Body.Levels, chain[1].Body.Levels)

	last, err = s.LastBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, b2.Hash, last.Hash)

	in, err := s.TxBlock(ctx, "c3")
	require.NoError(t, err)
	assert.Equal(t, b2.Hash, in.Hash)

	_, err = s.TxBlock(ctx, "zz")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	yes, err := s.MayContainTx(ctx, b1.Hash, "a1")
	require.NoError(t, err)
	assert.True(t, yes)
}

func TestPebbleChainReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewPebbleChain(dir)
	if err != nil {
		t.Fatal(err)
	}

	b := minedBlock(t, digest.Sentinel, testRecords())
	require.NoError(t, s.AppendBlock(ctx, b))
	require.NoError(t, s.Stop())

	s, err = NewPebbleChain(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	last, err := s.LastBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.Hash, last.Hash)
	assert.NoError(t, storage.NewChainValidator(s).IsBlockValid(ctx, minedBlock(t, b.Hash, testRecords()[:1]), false))
}

func TestTypedKey(t *testing.T) {
	assert.Equal(t, []byte{byte(latestBlockTPrefix)}, typedKey(latestBlockTPrefix))
	assert.Equal(t, append([]byte{byte(txBlockTPrefix)}, []byte("ab:cd")...), typedKey(txBlockTPrefix, "ab", "cd"))
}
