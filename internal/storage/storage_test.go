package storage

import (
	"testing"

	"github.com/tcfw/powledger/pkg/block"
	"github.com/tcfw/powledger/pkg/tx"
)

func testRecords() []tx.Record {
	return []tx.Record{
		{ID: "a1", Sender: "11111111", Receiver: "22222222", Amount: 10, Inputs: []string{"g1:0"}},
		{ID: "b2", Sender: "22222222", Receiver: "33333333", Amount: 20, Inputs: []string{"g2:0", "g2:1"}},
		{ID: "c3", Sender: "33333333", Receiver: "11111111", Amount: 30, Inputs: []string{"g3:0"}},
	}
}

func minedBlock(t *testing.T, prev string, txs []tx.Record) *block.Block {
	body, err := block.NewBodyWithLevels(txs)
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
