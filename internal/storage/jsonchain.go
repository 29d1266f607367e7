package storage

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/tcfw/powledger/pkg/block"
	"github.com/tcfw/powledger/pkg/storage"
)

var (
	_ storage.ChainStore = (*JSONChain)(nil)
)

// JSONChain keeps the whole chain as an indented JSON array of block
// records, rewritten on every append.
type JSONChain struct {
	mu   sync.Mutex
	path string
}

func NewJSONChain(path string) *JSONChain {
	return &JSONChain{path: path}
}

func (c *JSONChain) read() ([]*block.Record, error) {
	d, err := ioutil.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*block.Record{}, nil
		}
		return nil, errors.Wrap(err, "reading chain file")
	}

	records := []*block.Record{}
	if len(d) == 0 {
		return records, nil
	}

	if err := json.Unmarshal(d, &records); err != nil {
		return nil, errors.Wrap(err, "unmarshalling chain")
	}

	return records, nil
}

func (c *JSONChain) AppendBlock(_ context.Context, b *block.Block) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.read()
	if err != nil {
		return err
	}

	records = append(records, b.Record())

	d, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling chain")
	}

	tmp := c.path + ".tmp"
	if err := ioutil.WriteFile(tmp, d, 0644); err != nil {
		return errors.Wrap(err, "writing chain file")
	}

	return errors.Wrap(os.Rename(tmp, c.path), "replacing chain file")
}

func (c *JSONChain) LoadChain(_ context.Context) ([]*block.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.read()
	if err != nil {
		return nil, err
	}

	blocks := make([]*block.Block, 0, len(records))
	for _, r := range records {
		blocks = append(blocks, r.Block())
	}

	return blocks, nil
}

func (c *JSONChain) LastBlock(ctx context.Context) (*block.Block, error) {
	blocks, err := c.LoadChain(ctx)
	if err != nil {
		return nil, err
	}

	if len(blocks) == 0 {
		return nil, nil
	}

	return blocks[len(blocks)-1], nil
}

func (c *JSONChain) TxBlock(ctx context.Context, txID string) (*block.Block, error) {
	blocks, err := c.LoadChain(ctx)
	if err != nil {
		return nil, err
	}

	for _, b := range blocks {
		for _, t := range b.Body.Transactions {
			if t.ID == txID {
				return b, nil
			}
		}
	}

	return nil, storage.ErrNotFound
}
