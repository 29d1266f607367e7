package tx

import "math/rand"

// Chunk shuffles a copy of records with r, when r is non nil, and splits
// it into consecutive groups of size. The last group may be short.
func Chunk(records []Record, size int, r *rand.Rand) [][]Record {
	if size <= 0 || len(records) == 0 {
		return nil
	}

	rows := make([]Record, len(records))
	copy(rows, records)

	if r != nil {
		r.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	}

	chunks := make([][]Record, 0, (len(rows)+size-1)/size)
	for i := 0; i < len(rows); i += size {
		end := i + size
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, rows[i:end])
	}

	return chunks
}
