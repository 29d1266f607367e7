package mining

import (
	"time"

	"github.com/tcfw/powledger/pkg/block"
	"github.com/tcfw/powledger/pkg/tx"
)

// Candidate is a header racing for the next block together with the
// transactions it has reserved.
type Candidate struct {
	Header *block.Header
	Body   *block.Body
}

func NewCandidate(prevHash string, txs []tx.Record, version, difficulty int) (*Candidate, error) {
	body, err := block.NewBody(txs)
	if err != nil {
		return nil, err
	}

	h, err := block.NewHeaderFromBody(prevHash, body, version, difficulty)
	if err != nil {
		return nil, err
	}

	return &Candidate{Header: h, Body: body}, nil
}

// Block seals the candidate with the given solved header.
func (c *Candidate) Block(h *block.Header) *block.Block {
	return block.New(h, c.Body)
}

// Stats describes one candidate's search in a round.
type Stats struct {
	Tries   uint64
	Found   bool
	Elapsed time.Duration
}
