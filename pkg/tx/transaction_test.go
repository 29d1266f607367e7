package tx

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestMarshal(t *testing.T) {
	r := &Record{
		ID:       "0a1b2c3d",
		Sender:   "a",
		Receiver: "b",
		Amount:   10,
		Inputs:   []string{"deadbeef:0", "deadbeef:1"},
	}

	b, err := r.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	rb := &Record{}

	if err := rb.Unmarshal(b); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, r, rb)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, (&Record{Sender: "a", Receiver: "b"}).Validate())

	err := (&Record{Receiver: "b"}).Validate()
	assert.True(t, errors.Is(err, ErrInvalidRecord))

	err = (&Record{Sender: "a", Receiver: "b", Amount: -1}).Validate()
	assert.True(t, errors.Is(err, ErrInvalidRecord))
}

func TestCanonical(t *testing.T) {
	r := Record{Sender: "a", Receiver: "b", Amount: 10}
	assert.Equal(t, "a|b|10", r.Canonical())

	r.Inputs = ParseInputs("x:0;;y:1")
	assert.Equal(t, "a|b|10|x:0|y:1", r.Canonical())
}

func TestEnsureID(t *testing.T) {
	r := Record{Sender: "a", Receiver: "b", Amount: 10}
	r.EnsureID()
	assert.Equal(t, "f8363706", r.ID)

	r.ID = "x9"
	r.EnsureID()
	assert.Equal(t, "x9", r.ID)
}

func TestTransactionRecord(t *testing.T) {
	tr := Transaction{
		ID: "cafebabe",
		Inputs: []UTXO{
			{TxID: "g1", Index: 0, Owner: "alice", Amount: 30},
			{TxID: "g2", Index: 2, Owner: "alice", Amount: 20},
		},
		Outputs: []UTXO{
			{TxID: "cafebabe", Index: 0, Owner: "bob", Amount: 45},
			{TxID: "cafebabe", Index: 1, Owner: "alice", Amount: 5},
		},
	}

	assert.Equal(t, tr.InputSum(), tr.OutputSum())

	r := tr.Record()
	assert.Equal(t, "alice", r.Sender)
	assert.Equal(t, "bob", r.Receiver)
	assert.Equal(t, int64(45), r.Amount)
	assert.Equal(t, []string{"g1:0", "g2:2"}, r.Inputs)
}

func TestChunk(t *testing.T) {
	recs := make([]Record, 7)
	for i := range recs {
		recs[i] = Record{Sender: "a", Receiver: "b", Amount: int64(i)}
	}

	chunks := Chunk(recs, 3, rand.New(rand.NewSource(12345)))
	assert.Len(t, chunks, 3)
	assert.Len(t, chunks[2], 1)

	seen := map[int64]bool{}
	for _, c := range chunks {
		for _, r := range c {
			seen[r.Amount] = true
		}
	}
	assert.Len(t, seen, 7)

	again := Chunk(recs, 3, rand.New(rand.NewSource(12345)))
	assert.Equal(t, chunks, again)

	assert.Nil(t, Chunk(recs, 0, nil))
}
