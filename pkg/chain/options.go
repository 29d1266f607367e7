package chain

import (
	"github.com/sirupsen/logrus"
	"github.com/tcfw/powledger/pkg/mining"
	"github.com/tcfw/powledger/pkg/storage"
)

type Option func(*Assembler)

func WithBatchSize(n int) Option {
	return func(a *Assembler) {
		a.batchSize = n
	}
}

func WithDifficulty(d int) Option {
	return func(a *Assembler) {
		a.difficulty = d
	}
}

func WithVersion(v int) Option {
	return func(a *Assembler) {
		a.version = v
	}
}

func WithMaxNonce(n uint64) Option {
	return func(a *Assembler) {
		a.maxNonce = n
	}
}

// WithMaxBlocks stops the loop after n blocks. Zero means no limit.
func WithMaxBlocks(n int) Option {
	return func(a *Assembler) {
		a.maxBlocks = n
	}
}

// WithSeed makes batch draws reproducible. Candidate i of a race draws with
// seed+i.
func WithSeed(seed int64) Option {
	return func(a *Assembler) {
		a.seed = &seed
	}
}

// WithTree keeps the merkle tree levels in each block body.
func WithTree(include bool) Option {
	return func(a *Assembler) {
		a.includeTree = include
	}
}

func WithAllowNegative(allow bool) Option {
	return func(a *Assembler) {
		a.allowNegative = allow
	}
}

// WithBalances applies every committed block to the account registry in s.
func WithBalances(s storage.BalanceStore) Option {
	return func(a *Assembler) {
		a.balances = s
	}
}

// WithRace mines each block by racing n candidates on c.
func WithRace(n int, c *mining.Coordinator) Option {
	return func(a *Assembler) {
		a.candidates = n
		a.coordinator = c
	}
}

// WithGenesis seeds an empty chain with a genesis block before mining.
func WithGenesis(info storage.GenesisInfo) Option {
	return func(a *Assembler) {
		a.genesis = &info
	}
}

func WithValidator(v storage.Validator) Option {
	return func(a *Assembler) {
		a.validator = v
	}
}

func WithLogger(l *logrus.Entry) Option {
	return func(a *Assembler) {
		a.logger = l
	}
}
