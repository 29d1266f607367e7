package storage

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/ipfs/go-cid"
	"github.com/pkg/errors"

	"github.com/tcfw/powledger/internal/utils/logging"
	"github.com/tcfw/powledger/pkg/block"
	"github.com/tcfw/powledger/pkg/storage"
)

var (
	_ storage.ChainStore = (*PebbleChain)(nil)
	_ storage.TxFilter   = (*PebbleChain)(nil)
)

const (
	cacheSize = 1 << 20 * 100

	tableSep byte = ':'
)

type metadataKeyType byte

const (
	objectTPrefix metadataKeyType = iota + 1
	heightTPrefix
	txBlockTPrefix
	bloomTPrefix
	latestBlockTPrefix
	chainLengthTPrefix
)

// PebbleChain keeps block records content addressed in a pebble database
// with a height index, a tx to block index and a bloom filter per block.
type PebbleChain struct {
	mu sync.Mutex
	db *pebble.DB
}

func NewPebbleChain(repo string) (*PebbleChain, error) {
	db, err := metadataStore(repo)
	if err != nil {
		return nil, errors.Wrap(err, "opening chain store")
	}

	return &PebbleChain{db: db}, nil
}

func metadataStore(repo string) (*pebble.DB, error) {
	c := pebble.NewCache(cacheSize)
	tc := pebble.NewTableCache(c, 16, 100)
	defer tc.Unref()
	defer c.Unref()

	return pebble.Open(repo, &pebble.Options{Cache: c, TableCache: tc})
}

func (s *PebbleChain) get(key []byte) ([]byte, error) {
	d, done, err := s.db.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	defer done.Close()

	out := make([]byte, len(d))
	copy(out, d)

	return out, nil
}

func (s *PebbleChain) length() (uint64, error) {
	d, err := s.get(typedKey(chainLengthTPrefix))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "getting chain length")
	}

	return binary.LittleEndian.Uint64(d), nil
}

func (s *PebbleChain) AppendBlock(ctx context.Context, b *block.Block) error {
	d, err := b.Record().Marshal()
	if err != nil {
		return err
	}

	id, err := storage.RecordCID(d)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(b.Body.Transactions))
	for _, t := range b.Body.Transactions {
		if t.ID != "" {
			ids = append(ids, t.ID)
		}
	}

	bf, err := storage.MakeBloom(ids)
	if err != nil {
		return errors.Wrap(err, "making tx bloom")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	height, err := s.length()
	if err != nil {
		return err
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	if err := batch.Set(typedKey(objectTPrefix, id.String()), d, nil); err != nil {
		return errors.Wrap(err, "storing block")
	}

	if err := batch.Set(typedKey(heightTPrefix, heightKey(height)), id.Bytes(), nil); err != nil {
		return errors.Wrap(err, "indexing block height")
	}

	if err := batch.Set(typedKey(bloomTPrefix, b.Hash), bf, nil); err != nil {
		return errors.Wrap(err, "storing tx bloom")
	}

	for _, t := range ids {
		if err := batch.Set(typedKey(txBlockTPrefix, t), id.Bytes(), nil); err != nil {
			return errors.Wrap(err, "indexing block tx")
		}
	}

	if err := batch.Set(typedKey(latestBlockTPrefix), id.Bytes(), nil); err != nil {
		return errors.Wrap(err, "storing last block ref")
	}

	n := make([]byte, 8)
	binary.LittleEndian.PutUint64(n, height+1)
	if err := batch.Set(typedKey(chainLengthTPrefix), n, nil); err != nil {
		return errors.Wrap(err, "storing chain length")
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return errors.Wrap(err, "committing block batch")
	}

	logging.Entry().WithField("block", b.Hash).WithField("height", height).WithField("cid", id.String()).Debug("stored block")

	return nil
}

func (s *PebbleChain) getBlock(ref []byte) (*block.Block, error) {
	id, err := cid.Cast(ref)
	if err != nil {
		return nil, errors.Wrap(err, "casting block ref")
	}

	d, err := s.get(typedKey(objectTPrefix, id.String()))
	if err != nil {
		return nil, errors.Wrapf(err, "getting block %s", id)
	}

	r := &block.Record{}
	if err := r.Unmarshal(d); err != nil {
		return nil, errors.Wrap(err, "unmarshalling block")
	}

	return r.Block(), nil
}

func (s *PebbleChain) LoadChain(ctx context.Context) ([]*block.Block, error) {
	iter := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{byte(heightTPrefix)},
		UpperBound: []byte{byte(heightTPrefix) + 1},
	})
	defer iter.Close()

	blocks := []*block.Block{}

	for iter.First(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		b, err := s.getBlock(iter.Value())
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}

	return blocks, nil
}

func (s *PebbleChain) LastBlock(ctx context.Context) (*block.Block, error) {
	ref, err := s.get(typedKey(latestBlockTPrefix))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "getting last block ref")
	}

	return s.getBlock(ref)
}

func (s *PebbleChain) TxBlock(ctx context.Context, txID string) (*block.Block, error) {
	ref, err := s.get(typedKey(txBlockTPrefix, txID))
	if err != nil {
		return nil, errors.Wrap(err, "looking up tx block")
	}

	return s.getBlock(ref)
}

func (s *PebbleChain) MayContainTx(ctx context.Context, blockHash, txID string) (bool, error) {
	bf, err := s.get(typedKey(bloomTPrefix, blockHash))
	if err != nil {
		return false, errors.Wrap(err, "getting tx bloom")
	}

	return storage.BloomContains(bf, txID)
}

func (s *PebbleChain) Stop() error {
	return s.db.Close()
}

func heightKey(h uint64) string {
	return fmt.Sprintf("%020d", h)
}

func typedKey(kType metadataKeyType, parts ...string) []byte {
	n := 1
	for _, p := range parts {
		n += len(p) + 1 //add sep as well
	}

	k := make([]byte, 0, n)
	k = append(k, byte(kType))
	for _, p := range parts {
		k = append(k, []byte(p)...)
		k = append(k, tableSep)
	}

	if len(parts) == 0 {
		return k
	}

	return k[:len(k)-1]
}
