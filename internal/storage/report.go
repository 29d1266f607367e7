package storage

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/tcfw/powledger/pkg/ledger"
	"github.com/tcfw/powledger/pkg/tx"
)

const (
	csvHeader  = "transaction_id,sender,receiver,amount,inputs\n"
	reportRule = "---------------------------------------------------"
)

// WriteReport writes the human readable transaction listing. Inputs name the
// transaction that created them, or Genesis.
func WriteReport(w io.Writer, txs []tx.Transaction, users []ledger.User) error {
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.PublicKey] = u.Name
	}

	name := func(pk string) string {
		if n, ok := names[pk]; ok {
			return n
		}
		return "Unknown"
	}

	num := make(map[string]int, len(txs))
	for i, t := range txs {
		num[t.ID] = i + 1
	}

	var b strings.Builder
	for i, t := range txs {
		fmt.Fprintf(&b, "[Transaction #%05d]\n", i+1)
		fmt.Fprintf(&b, "Transaction ID: %s\n\n", t.ID)

		b.WriteString("Inputs:\n")
		for j, in := range t.Inputs {
			ref := "Genesis"
			if n, ok := num[in.TxID]; ok {
				ref = fmt.Sprintf("TX #%05d", n)
			}
			fmt.Fprintf(&b, "   (%d) %s → %s : %d\n", j, ref, name(in.Owner), in.Amount)
		}

		b.WriteString("\nOutputs:\n")
		for j, out := range t.Outputs {
			change := ""
			if j > 0 {
				change = " (change)"
			}
			fmt.Fprintf(&b, "   (%d) %s : %d%s\n", j, name(out.Owner), out.Amount, change)
		}

		b.WriteString("\n" + reportRule + "\n\n")

		if _, err := io.WriteString(w, b.String()); err != nil {
			return errors.Wrap(err, "writing report")
		}
		b.Reset()
	}

	return nil
}

// WriteChunks writes pool chunks as CSV sections under a short preamble.
func WriteChunks(w io.Writer, chunks [][]tx.Record, size int) error {
	if _, err := fmt.Fprintf(w, "Blocks: %d\nEach: %d txs\n\n", len(chunks), size); err != nil {
		return err
	}

	if len(chunks) == 0 {
		return nil
	}

	if _, err := io.WriteString(w, csvHeader); err != nil {
		return err
	}

	for i, chunk := range chunks {
		if _, err := fmt.Fprintf(w, "=== block %d ===\n", i+1); err != nil {
			return err
		}

		rows := toRows(chunk)
		if err := gocsv.MarshalWithoutHeaders(&rows, w); err != nil {
			return errors.Wrapf(err, "writing chunk %d", i+1)
		}

		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	return nil
}
