package tx

import (
	"fmt"
)

// UTXO is an unspent output. Transactions hold copies, never references
// into a live set.
type UTXO struct {
	TxID   string `msgpack:"t" json:"transaction_id"`
	Index  int    `msgpack:"i" json:"output_index"`
	Owner  string `msgpack:"o" json:"owner"`
	Amount int64  `msgpack:"a" json:"amount"`
}

// Ref is the "txid:index" reference used as a transaction input.
func (u UTXO) Ref() string {
	return fmt.Sprintf("%s:%d", u.TxID, u.Index)
}

// Transaction spends Inputs and creates Outputs. Output 0 pays the
// receiver; an optional output 1 returns change to the sender.
type Transaction struct {
	ID      string `msgpack:"i" json:"transaction_id"`
	Inputs  []UTXO `msgpack:"in" json:"inputs"`
	Outputs []UTXO `msgpack:"out" json:"outputs"`
}

func sum(us []UTXO) int64 {
	var s int64
	for _, u := range us {
		s += u.Amount
	}
	return s
}

func (t *Transaction) InputSum() int64 {
	return sum(t.Inputs)
}

func (t *Transaction) OutputSum() int64 {
	return sum(t.Outputs)
}

func (t *Transaction) Sender() string {
	if len(t.Inputs) == 0 {
		return ""
	}

	return t.Inputs[0].Owner
}

// Record flattens the transaction. The payment is the first output not
// owned by the sender, falling back to output 0.
func (t *Transaction) Record() Record {
	r := Record{ID: t.ID, Sender: t.Sender()}

	if len(t.Outputs) > 0 {
		pay := t.Outputs[0]
		for _, o := range t.Outputs {
			if o.Owner != r.Sender {
				pay = o
				break
			}
		}
		r.Receiver = pay.Owner
		r.Amount = pay.Amount
	}

	for _, in := range t.Inputs {
		r.Inputs = append(r.Inputs, in.Ref())
	}

	return r
}
