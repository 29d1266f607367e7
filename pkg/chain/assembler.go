package chain

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tcfw/powledger/internal/utils/logging"
	"github.com/tcfw/powledger/pkg/block"
	"github.com/tcfw/powledger/pkg/digest"
	"github.com/tcfw/powledger/pkg/ledger"
	"github.com/tcfw/powledger/pkg/mining"
	"github.com/tcfw/powledger/pkg/storage"
	"github.com/tcfw/powledger/pkg/tx"
)

const (
	DefaultBatchSize = 100
)

var (
	ErrEmptyBatch = errors.New("transaction source returned no records")
)

// Assembler mines blocks out of a transaction pool until it is empty.
type Assembler struct {
	pool      storage.TxSource
	chain     storage.ChainStore
	balances  storage.BalanceStore
	validator storage.Validator

	coordinator *mining.Coordinator
	candidates  int

	batchSize     int
	version       int
	difficulty    int
	maxNonce      uint64
	maxBlocks     int
	seed          *int64
	includeTree   bool
	allowNegative bool
	genesis       *storage.GenesisInfo

	logger *logrus.Entry
}

func New(pool storage.TxSource, chain storage.ChainStore, opts ...Option) *Assembler {
	a := &Assembler{
		pool:       pool,
		chain:      chain,
		batchSize:  DefaultBatchSize,
		version:    block.Version1,
		difficulty: block.DefaultDifficulty,
		maxNonce:   block.DefaultMaxNonce,
		logger:     logging.Entry().WithField("component", "chain"),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.validator == nil {
		a.validator = storage.NewChainValidator(chain)
	}

	return a
}

// Summary of a Run.
type Summary struct {
	Blocks  []*block.Block
	Skipped []ledger.Skipped
	Rounds  [][]*mining.Round
}

// Run mines, validates and appends blocks until the pool is empty, the
// block limit is hit or ctx is done. A block that fails to mine or validate
// stops the loop; blocks already appended are kept.
func (a *Assembler) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{}

	prev, err := a.tip(ctx)
	if err != nil {
		return sum, err
	}

	var book *ledger.Book
	if a.balances != nil {
		users, err := a.balances.Load(ctx)
		if err != nil {
			return sum, errors.Wrap(err, "loading balances")
		}
		book = ledger.NewBook(users)
	}

	for a.maxBlocks <= 0 || len(sum.Blocks) < a.maxBlocks {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		n, err := a.pool.CountRemaining(ctx)
		if err != nil {
			return sum, errors.Wrap(err, "counting pool")
		}
		if n == 0 {
			break
		}

		height := len(sum.Blocks)
		log := a.logger.WithField("height", height).WithField("remaining", n)

		b, rounds, err := a.Next(ctx, prev, height)
		if err != nil {
			return sum, errors.Wrapf(err, "mining block %d", height)
		}

		if err := a.validator.IsBlockValid(ctx, b, true); err != nil {
			return sum, errors.Wrapf(err, "validating block %d", height)
		}

		skipped, err := a.commit(ctx, b, book)
		if err != nil {
			return sum, errors.Wrapf(err, "committing block %d", height)
		}

		log.WithFields(logrus.Fields{
			"hash":    b.Hash,
			"nonce":   b.Header.Nonce,
			"txs":     len(b.Body.Transactions),
			"skipped": len(skipped),
		}).Info("appended block")

		sum.Blocks = append(sum.Blocks, b)
		sum.Skipped = append(sum.Skipped, skipped...)
		sum.Rounds = append(sum.Rounds, rounds)
		prev = b.Hash
	}

	return sum, nil
}

// tip returns the hash new blocks build on, appending a genesis block first
// when configured.
func (a *Assembler) tip(ctx context.Context) (string, error) {
	if a.genesis != nil {
		g, err := storage.ApplyGenesis(ctx, a.chain, *a.genesis)
		if err != nil {
			return "", err
		}
		return g.Hash, nil
	}

	last, err := a.chain.LastBlock(ctx)
	if err != nil {
		return "", errors.Wrap(err, "recovering chain tip")
	}
	if last == nil {
		return digest.Sentinel, nil
	}

	return last.Hash, nil
}

func (a *Assembler) commit(ctx context.Context, b *block.Block, book *ledger.Book) ([]ledger.Skipped, error) {
	if err := a.pool.RemoveByID(ctx, tx.IDs(b.Body.Transactions)); err != nil {
		return nil, errors.Wrap(err, "removing mined txs from pool")
	}

	var skipped []ledger.Skipped
	if book != nil {
		res := book.Apply(b.Body.Transactions, a.allowNegative)
		for _, s := range res.Skipped {
			a.logger.WithError(s.Err).WithField("tx", s.Record.ID).Warn("skipped balance update")
		}
		skipped = res.Skipped

		if err := a.balances.Save(ctx, book.Users()); err != nil {
			return skipped, errors.Wrap(err, "saving balances")
		}
	}

	if err := a.chain.AppendBlock(ctx, b); err != nil {
		return skipped, errors.Wrap(err, "appending block")
	}

	return skipped, nil
}

// Next builds and mines one block on prev, racing candidates when a
// coordinator is configured.
func (a *Assembler) Next(ctx context.Context, prev string, height int) (*block.Block, []*mining.Round, error) {
	if a.coordinator == nil || a.candidates <= 1 {
		c, err := a.candidate(ctx, prev, a.seed)
		if err != nil {
			return nil, nil, err
		}

		if _, err := c.Header.Mine(a.maxNonce, 0); err != nil {
			return nil, nil, err
		}

		return c.Block(c.Header), nil, nil
	}

	cands, err := a.Candidates(ctx, prev)
	if err != nil {
		return nil, nil, err
	}

	res, err := a.coordinator.Mine(ctx, cands)
	if err != nil {
		return nil, nil, err
	}

	a.logger.WithField("height", height).WithField("candidate", res.Index).Debug("race won")

	return res.Block(), res.Rounds, nil
}

// Candidates draws one batch per candidate. With a seed, candidate i draws
// with seed+i.
func (a *Assembler) Candidates(ctx context.Context, prev string) ([]*mining.Candidate, error) {
	n := a.candidates
	if n < 1 {
		n = 1
	}

	cands := make([]*mining.Candidate, 0, n)
	for i := 0; i < n; i++ {
		var seed *int64
		if a.seed != nil {
			s := *a.seed + int64(i)
			seed = &s
		}

		c, err := a.candidate(ctx, prev, seed)
		if err != nil {
			return nil, errors.Wrapf(err, "building candidate %d", i)
		}
		cands = append(cands, c)
	}

	return cands, nil
}

func (a *Assembler) candidate(ctx context.Context, prev string, seed *int64) (*mining.Candidate, error) {
	txs, err := a.pool.DrawBatch(ctx, a.batchSize, seed)
	if err != nil {
		return nil, errors.Wrap(err, "drawing batch")
	}
	if len(txs) == 0 {
		return nil, ErrEmptyBatch
	}

	var body *block.Body
	if a.includeTree {
		body, err = block.NewBodyWithLevels(txs)
	} else {
		body, err = block.NewBody(txs)
	}
	if err != nil {
		return nil, err
	}

	h, err := block.NewHeaderFromBody(prev, body, a.version, a.difficulty)
	if err != nil {
		return nil, err
	}

	return &mining.Candidate{Header: h, Body: body}, nil
}
