package chain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/powledger/pkg/storage"
)

func TestFind(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 6)

	sum, err := New(s, s, WithBatchSize(2), WithDifficulty(1)).Run(ctx)
	require.NoError(t, err)
	require.Len(t, sum.Blocks, 3)

	want := sum.Blocks[1]
	id := want.Body.Transactions[0].ID

	got, err := Find(ctx, s, id)
	require.NoError(t, err)
	assert.Equal(t, want.Hash, got.Hash)

	_, err = Find(ctx, s, "ffffffff")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
