package ledger

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/tcfw/powledger/pkg/tx"
)

func TestBookApply(t *testing.T) {
	alice, bob := NewUser("alice", 100), NewUser("bob", 5)
	b := NewBook([]User{alice, bob})

	res := b.Apply([]tx.Record{
		{ID: "1", Sender: alice.PublicKey, Receiver: bob.PublicKey, Amount: 60},
		{ID: "2", Sender: bob.PublicKey, Receiver: alice.PublicKey, Amount: 100},
		{ID: "3", Sender: alice.PublicKey, Receiver: bob.PublicKey, Amount: 50},
		{ID: "4", Sender: bob.PublicKey, Receiver: "cafebabe", Amount: 15},
	}, false)

	assert.Equal(t, 2, res.Applied)
	assert.Len(t, res.Skipped, 2)
	assert.Equal(t, "2", res.Skipped[0].Record.ID)
	assert.True(t, errors.Is(res.Skipped[0].Err, ErrInsufficientFunds))
	assert.Equal(t, "3", res.Skipped[1].Record.ID)

	ab, _ := b.Balance(alice.PublicKey)
	bb, _ := b.Balance(bob.PublicKey)
	cb, ok := b.Balance("cafebabe")

	assert.Equal(t, int64(40), ab)
	assert.Equal(t, int64(50), bb)
	assert.True(t, ok)
	assert.Equal(t, int64(15), cb)
	assert.Len(t, b.Users(), 3)
}

func TestBookApplyAllowNegative(t *testing.T) {
	alice, bob := NewUser("alice", 10), NewUser("bob", 0)
	b := NewBook([]User{alice, bob})

	res := b.Apply([]tx.Record{{Sender: alice.PublicKey, Receiver: bob.PublicKey, Amount: 25}}, true)

	assert.Equal(t, 1, res.Applied)
	assert.Empty(t, res.Skipped)

	ab, _ := b.Balance(alice.PublicKey)
	assert.Equal(t, int64(-15), ab)
}

func TestBookApplyInvalidRecord(t *testing.T) {
	b := NewBook(nil)

	res := b.Apply([]tx.Record{{Sender: "a", Amount: 1}}, true)

	assert.Zero(t, res.Applied)
	assert.True(t, errors.Is(res.Skipped[0].Err, tx.ErrInvalidRecord))
}

func TestAdjustBalance(t *testing.T) {
	u := NewUser("x", 5)

	assert.NoError(t, u.AdjustBalance(-5))
	assert.True(t, errors.Is(u.AdjustBalance(-1), ErrInsufficientFunds))
	assert.Zero(t, u.Balance)
}
