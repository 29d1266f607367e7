package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/powledger/pkg/block"
	"github.com/tcfw/powledger/pkg/digest"
	"github.com/tcfw/powledger/pkg/ledger"
	"github.com/tcfw/powledger/pkg/tx"
)

func testRecords() []tx.Record {
	return []tx.Record{
		{ID: "a1", Sender: "s1", Receiver: "r1", Amount: 10, Inputs: []string{"g:0"}},
		{ID: "b2", Sender: "s2", Receiver: "r2", Amount: 20, Inputs: []string{"g:1"}},
		{ID: "c3", Sender: "s3", Receiver: "r3", Amount: 30, Inputs: []string{"g:2"}},
		{ID: "d4", Sender: "s4", Receiver: "r4", Amount: 40, Inputs: []string{"g:3"}},
	}
}

func minedBlock(t *testing.T, prev string, txs []tx.Record) *block.Block {
	body, err := block.NewBody(txs)
	if err != nil {
		t.Fatal(err)
	}

	h, err := block.NewHeaderFromBody(prev, body, block.Version1, 1)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := h.Mine(block.DefaultMaxNonce, 0); err != nil {
		t.Fatal(err)
	}

	return block.New(h, body)
}

func TestDraw(t *testing.T) {
	rows := testRecords()
	seed := int64(7)

	all, err := func() ([]tx.Record, error) {
		m := NewMemStore()
		m.SeedPool(rows)
		return m.DrawBatch(context.Background(), 10, &seed)
	}()
	require.NoError(t, err)
	assert.ElementsMatch(t, rows, all)

	m := NewMemStore()
	m.SeedPool(rows)

	some, err := m.DrawBatch(context.Background(), 2, &seed)
	require.NoError(t, err)
	assert.Len(t, some, 2)
	assert.NotEqual(t, some[0].ID, some[1].ID)

	again, err := m.DrawBatch(context.Background(), 2, &seed)
	require.NoError(t, err)
	assert.Equal(t, some, again)

	empty, err := NewMemStore().DrawBatch(context.Background(), 5, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemStorePool(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	m.SeedPool(testRecords())

	err := m.RemoveByID(ctx, map[string]struct{}{"a1": {}, "c3": {}, "zz": {}})
	require.NoError(t, err)

	n, err := m.CountRemaining(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMemStoreSeedPoolFillsIDs(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()

	rows := []tx.Record{{Sender: "a", Receiver: "b", Amount: 10}}
	m.SeedPool(rows)
	assert.Empty(t, rows[0].ID)

	all, err := m.DrawBatch(ctx, 5, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "f8363706", all[0].ID)

	require.NoError(t, m.RemoveByID(ctx, map[string]struct{}{"f8363706": {}}))

	n, err := m.CountRemaining(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMemStoreBalances(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()

	users := []ledger.User{ledger.NewUser("#0 Jonas Kazlauskas", 100)}
	require.NoError(t, m.Save(ctx, users))

	users[0].Balance = 0

	got, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got[0].Balance)
}

func TestMemStoreChain(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()

	last, err := m.LastBlock(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	txs := testRecords()
	b1 := minedBlock(t, digest.Sentinel, txs[:2])
	b2 := minedBlock(t, b1.Hash, txs[2:])

	require.NoError(t, m.AppendBlock(ctx, b1))
	require.NoError(t, m.AppendBlock(ctx, b2))

	chain, err := m.LoadChain(ctx)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, b1.Hash, chain[0].Hash)
	assert.Equal(t, b2.Hash, chain[1].Hash)
	assert.NoError(t, block.Link(chain))
	assert.NoError(t, chain[1].Validate())

	last, err = m.LastBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, b2.Hash, last.Hash)

	in, err := m.TxBlock(ctx, "c3")
	require.NoError(t, err)
	assert.Equal(t, b2.Hash, in.Hash)

	_, err = m.TxBlock(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	yes, err := m.MayContainTx(ctx, b1.Hash, "a1")
	require.NoError(t, err)
	assert.True(t, yes)
}

func TestRecordCID(t *testing.T) {
	a, err := RecordCID([]byte("abc"))
	require.NoError(t, err)
	b, err := RecordCID([]byte("abc"))
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.Equal(t, uint64(CIDEncoding), a.Type())
}
