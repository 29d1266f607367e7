package storage

import (
	"math/rand"

	"github.com/tcfw/powledger/pkg/tx"
)

// Draw picks a batch of n records. When the pool holds no more than n the
// whole pool is returned shuffled, otherwise n records are sampled without
// replacement. rows is not modified.
func Draw(rows []tx.Record, n int, r *rand.Rand) []tx.Record {
	if len(rows) == 0 || n <= 0 {
		return []tx.Record{}
	}

	if len(rows) <= n {
		out := make([]tx.Record, len(rows))
		copy(out, rows)
		r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}

	perm := r.Perm(len(rows))
	out := make([]tx.Record, n)
	for i := range out {
		out[i] = rows[perm[i]]
	}

	return out
}

// Without filters out records whose id is in ids.
func Without(rows []tx.Record, ids map[string]struct{}) []tx.Record {
	out := make([]tx.Record, 0, len(rows))
	for _, r := range rows {
		if _, ok := ids[r.ID]; ok {
			continue
		}
		out = append(out, r)
	}

	return out
}
