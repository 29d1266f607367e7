package chain

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/powledger/pkg/block"
	"github.com/tcfw/powledger/pkg/digest"
	"github.com/tcfw/powledger/pkg/ledger"
	"github.com/tcfw/powledger/pkg/mining"
	"github.com/tcfw/powledger/pkg/storage"
	"github.com/tcfw/powledger/pkg/storage/mocks"
	"github.com/tcfw/powledger/pkg/tx"
)

func testUsers() []ledger.User {
	return []ledger.User{
		ledger.NewUser("#1 Jonas Vilkas", 1000),
		ledger.NewUser("#2 Linas Baronas", 1000),
	}
}

func testPool(n int, users []ledger.User) []tx.Record {
	rows := make([]tx.Record, 0, n)
	for i := 0; i < n; i++ {
		from, to := users[i%2], users[(i+1)%2]
		rows = append(rows, tx.Record{
			ID:       digest.Sum(fmt.Sprintf("tx-%d", i)),
			Sender:   from.PublicKey,
			Receiver: to.PublicKey,
			Amount:   int64(10 + i),
			Inputs:   []string{fmt.Sprintf("g%d:0", i)},
		})
	}

	return rows
}

func newStore(t *testing.T, n int) *storage.MemStore {
	s := storage.NewMemStore()
	s.SeedPool(testPool(n, testUsers()))
	require.NoError(t, s.Save(context.Background(), testUsers()))

	return s
}

func TestRunDrainsPool(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 7)

	a := New(s, s, WithBatchSize(3), WithDifficulty(2), WithSeed(42), WithBalances(s), WithTree(true))

	sum, err := a.Run(ctx)
	require.NoError(t, err)
	assert.Len(t, sum.Blocks, 3)
	assert.Empty(t, sum.Skipped)

	n, err := s.CountRemaining(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	chain, err := s.LoadChain(ctx)
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, digest.Sentinel, chain[0].Header.PrevHash)
	assert.NoError(t, Verify(chain))
	assert.NotEmpty(t, chain[0].Body.Levels)

	for _, b := range chain {
		assert.True(t, block.ValidateHash(b.Hash, 2))
	}

	users, err := s.Load(ctx)
	require.NoError(t, err)

	var total int64
	for _, u := range users {
		total += u.Balance
	}
	assert.Equal(t, int64(2000), total)
}

func TestRunDrainsPoolWithoutIDs(t *testing.T) {
	ctx := context.Background()

	rows := testPool(3, testUsers())
	for i := range rows {
		rows[i].ID = ""
	}

	s := storage.NewMemStore()
	s.SeedPool(rows)

	sum, err := New(s, s, WithBatchSize(2), WithDifficulty(1), WithMaxBlocks(5)).Run(ctx)
	require.NoError(t, err)
	assert.Len(t, sum.Blocks, 2)

	n, err := s.CountRemaining(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	chain, err := s.LoadChain(ctx)
	require.NoError(t, err)
	assert.NoError(t, Verify(chain))

	for _, b := range chain {
		for _, r := range b.Body.Transactions {
			assert.Equal(t, digest.Sum(r.Canonical()), r.ID)
		}
	}
}

func TestRunMaxBlocksAndResume(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 6)

	sum, err := New(s, s, WithBatchSize(2), WithDifficulty(1), WithMaxBlocks(1)).Run(ctx)
	require.NoError(t, err)
	require.Len(t, sum.Blocks, 1)

	n, err := s.CountRemaining(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	sum2, err := New(s, s, WithBatchSize(2), WithDifficulty(1)).Run(ctx)
	require.NoError(t, err)
	require.Len(t, sum2.Blocks, 2)
	assert.Equal(t, sum.Blocks[0].Hash, sum2.Blocks[0].Header.PrevHash)

	chain, err := s.LoadChain(ctx)
	require.NoError(t, err)
	assert.Len(t, chain, 3)
	assert.NoError(t, Verify(chain))
}

func TestRunRace(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 5)

	c := mining.NewCoordinator(mining.WithTimeLimit(2 * time.Second))
	a := New(s, s, WithBatchSize(2), WithDifficulty(2), WithSeed(7), WithRace(3, c))

	sum, err := a.Run(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sum.Blocks)

	for i, b := range sum.Blocks {
		require.NotEmpty(t, sum.Rounds[i])
		won := sum.Rounds[i][len(sum.Rounds[i])-1]
		assert.True(t, won.HasWinner())
		assert.Equal(t, b.Hash, won.Hash)
	}

	chain, err := s.LoadChain(ctx)
	require.NoError(t, err)
	assert.NoError(t, Verify(chain))

	n, err := s.CountRemaining(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCandidatesSeeded(t *testing.T) {
	s := newStore(t, 20)
	a := New(s, s, WithBatchSize(5), WithSeed(1), WithRace(3, mining.NewCoordinator()))

	a1, err := a.Candidates(context.Background(), digest.Sentinel)
	require.NoError(t, err)
	a2, err := a.Candidates(context.Background(), digest.Sentinel)
	require.NoError(t, err)

	require.Len(t, a1, 3)
	for i := range a1 {
		assert.Equal(t, a1[i].Body.MerkleRoot, a2[i].Body.MerkleRoot)
		assert.Equal(t, digest.Sentinel, a1[i].Header.PrevHash)
	}
	assert.NotEqual(t, a1[0].Body.MerkleRoot, a1[1].Body.MerkleRoot)
}

func TestRunGenesis(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 2)

	a := New(s, s, WithDifficulty(1), WithGenesis(storage.GenesisInfo{Version: block.Version1, Difficulty: 1, Timestamp: 1}))

	sum, err := a.Run(ctx)
	require.NoError(t, err)
	require.Len(t, sum.Blocks, 1)

	chain, err := s.LoadChain(ctx)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.True(t, chain[0].Header.IsGenesis)
	assert.Equal(t, digest.Sentinel, chain[0].Hash)
	assert.NoError(t, Verify(chain))
}

func TestRunSkipsInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	users := testUsers()
	users[0].Balance = 5

	s := storage.NewMemStore()
	s.SeedPool(testPool(1, users))
	require.NoError(t, s.Save(ctx, users))

	sum, err := New(s, s, WithDifficulty(1), WithBalances(s)).Run(ctx)
	require.NoError(t, err)
	require.Len(t, sum.Skipped, 1)
	assert.ErrorIs(t, sum.Skipped[0].Err, ledger.ErrInsufficientFunds)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got[0].Balance)

	sum, err = New(s, s, WithDifficulty(1), WithBalances(s), WithAllowNegative(true)).Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, sum.Blocks)
}

func TestRunMiningFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 3)

	_, err := New(s, s, WithDifficulty(8), WithMaxNonce(10)).Run(ctx)
	assert.ErrorIs(t, err, block.ErrNonceExhausted)

	chain, err := s.LoadChain(ctx)
	require.NoError(t, err)
	assert.Empty(t, chain)

	n, err := s.CountRemaining(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRunDrawError(t *testing.T) {
	ctx := context.Background()
	pool := mocks.NewTxSource(t)
	pool.On("CountRemaining", mock.Anything).Return(4, nil)
	pool.On("DrawBatch", mock.Anything, 100, (*int64)(nil)).Return(nil, storage.ErrResourceUnavailable)

	_, err := New(pool, storage.NewMemStore()).Run(ctx)
	assert.ErrorIs(t, err, storage.ErrResourceUnavailable)
	pool.AssertNotCalled(t, "RemoveByID", mock.Anything, mock.Anything)
}

func TestRunRemovesMinedIDs(t *testing.T) {
	ctx := context.Background()
	rows := testPool(2, testUsers())

	pool := mocks.NewTxSource(t)
	pool.On("CountRemaining", mock.Anything).Return(2, nil).Once()
	pool.On("CountRemaining", mock.Anything).Return(0, nil).Once()
	pool.On("DrawBatch", mock.Anything, 100, (*int64)(nil)).Return(rows, nil).Once()
	pool.On("RemoveByID", mock.Anything, tx.IDs(rows)).Return(nil).Once()

	sum, err := New(pool, storage.NewMemStore(), WithDifficulty(1)).Run(ctx)
	require.NoError(t, err)
	assert.Len(t, sum.Blocks, 1)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newStore(t, 3)
	_, err := New(s, s).Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}
