package mining

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/tcfw/powledger/pkg/block"
)

// winnerCell is written at most once. claimed is read on every nonce so
// losing searches stop early.
type winnerCell struct {
	claimed *atomic.Bool

	mu     sync.Mutex
	idx    int
	header block.Header
	hash   string
}

func newWinnerCell() *winnerCell {
	return &winnerCell{claimed: atomic.NewBool(false), idx: -1}
}

func (w *winnerCell) claim(idx int, h block.Header, hash string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.claimed.CAS(false, true) {
		return false
	}

	w.idx = idx
	w.header = h
	w.hash = hash

	return true
}

type statsTable struct {
	tries []*atomic.Uint64

	mu    sync.Mutex
	stats []Stats
}

func newStatsTable(n int) *statsTable {
	t := &statsTable{
		tries: make([]*atomic.Uint64, n),
		stats: make([]Stats, n),
	}
	for i := range t.tries {
		t.tries[i] = atomic.NewUint64(0)
	}

	return t
}

func (t *statsTable) found(i int, elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats[i].Found = true
	t.stats[i].Elapsed = elapsed
}

func (t *statsTable) snapshot() []Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Stats, len(t.stats))
	for i, s := range t.stats {
		s.Tries = t.tries[i].Load()
		out[i] = s
	}

	return out
}

// Round is the outcome of one race. Winner is -1 when the deadline passed
// without a solution.
type Round struct {
	Winner int
	Hash   string
	Header block.Header
	Stats  []Stats
	Limit  time.Duration
	Took   time.Duration
}

func (r *Round) HasWinner() bool {
	return r.Winner >= 0
}

// Race searches every candidate concurrently from nonce 0 until one finds a
// valid hash or limit elapses. It returns once every search has stopped.
func (c *Coordinator) Race(ctx context.Context, candidates []*Candidate, limit time.Duration) (*Round, error) {
	start := time.Now()

	rctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	w := newWinnerCell()
	table := newStatsTable(len(candidates))

	g, gctx := errgroup.WithContext(rctx)

	for i, cand := range candidates {
		i, h := i, *cand.Header
		g.Go(func() error {
			search(gctx, i, h, w, table, cancel)
			return nil
		})
	}

	_ = g.Wait()

	r := &Round{
		Winner: w.idx,
		Hash:   w.hash,
		Header: w.header,
		Stats:  table.snapshot(),
		Limit:  limit,
		Took:   time.Since(start),
	}

	observeRound(r)

	if !r.HasWinner() && ctx.Err() != nil {
		return r, ctx.Err()
	}

	return r, nil
}

// search owns h. It never writes another candidate's state.
func search(ctx context.Context, i int, h block.Header, w *winnerCell, table *statsTable, stop context.CancelFunc) {
	start := time.Now()
	tries := table.tries[i]

	for nonce := uint64(0); ; nonce++ {
		if w.claimed.Load() {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		h.Nonce = nonce
		hash := h.Hash()
		tries.Inc()

		if block.ValidateHash(hash, h.Difficulty) {
			if w.claim(i, h, hash) {
				table.found(i, time.Since(start))
				stop()
			}
			return
		}
	}
}
