package mining

import (
	"context"
	"time"

	"github.com/jpillora/backoff"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/powledger/internal/utils/logging"
	"github.com/tcfw/powledger/pkg/block"
)

const (
	DefaultTimeLimit = 5 * time.Second
	DefaultMaxRounds = 6
)

var (
	ErrNoWinner     = errors.New("no candidate mined a block in any round")
	ErrNoCandidates = errors.New("no candidates to mine")
)

type Coordinator struct {
	timeLimit time.Duration
	maxRounds int
	logger    *logrus.Entry
}

type Option func(*Coordinator)

func WithTimeLimit(d time.Duration) Option {
	return func(c *Coordinator) {
		c.timeLimit = d
	}
}

func WithMaxRounds(n int) Option {
	return func(c *Coordinator) {
		c.maxRounds = n
	}
}

func WithLogger(l *logrus.Entry) Option {
	return func(c *Coordinator) {
		c.logger = l
	}
}

func NewCoordinator(opts ...Option) *Coordinator {
	initPrometheusMetrics()

	c := &Coordinator{
		timeLimit: DefaultTimeLimit,
		maxRounds: DefaultMaxRounds,
		logger:    logging.Entry().WithField("component", "mining"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Result is the winning candidate of a Mine call.
type Result struct {
	Index     int
	Hash      string
	Header    block.Header
	Candidate *Candidate
	Rounds    []*Round
}

// Block seals the winner.
func (r *Result) Block() *block.Block {
	return r.Candidate.Block(&r.Header)
}

// Stats of the winning round.
func (r *Result) Stats() []Stats {
	return r.Rounds[len(r.Rounds)-1].Stats
}

// Mine races the candidates, doubling the deadline after each round without
// a winner, for at most maxRounds rounds.
func (c *Coordinator) Mine(ctx context.Context, candidates []*Candidate) (*Result, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	bo := &backoff.Backoff{
		Min:    c.timeLimit,
		Max:    c.timeLimit << uint(c.maxRounds),
		Factor: 2,
	}

	rounds := make([]*Round, 0, c.maxRounds)

	for n := 1; n <= c.maxRounds; n++ {
		limit := bo.Duration()
		log := c.logger.WithField("round", n).WithField("limit", limit)
		log.Debug("starting mining round")

		r, err := c.Race(ctx, candidates, limit)
		if err != nil {
			return nil, errors.Wrap(err, "racing candidates")
		}
		rounds = append(rounds, r)

		for i, s := range r.Stats {
			log.WithField("candidate", i).WithField("tries", s.Tries).Debug("candidate stats")
		}

		if r.HasWinner() {
			log.WithFields(logrus.Fields{
				"candidate": r.Winner,
				"hash":      r.Hash,
				"nonce":     r.Header.Nonce,
				"took":      r.Stats[r.Winner].Elapsed,
			}).Info("candidate mined block")

			return &Result{
				Index:     r.Winner,
				Hash:      r.Hash,
				Header:    r.Header,
				Candidate: candidates[r.Winner],
				Rounds:    rounds,
			}, nil
		}

		log.WithField("took", r.Took).Info("no winner, extending deadline")
	}

	return nil, errors.Wrapf(ErrNoWinner, "%d rounds", c.maxRounds)
}
