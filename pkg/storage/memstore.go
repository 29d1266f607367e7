package storage

import (
	"context"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
	"github.com/tcfw/powledger/internal/coinflip"
	"github.com/tcfw/powledger/pkg/block"
	"github.com/tcfw/powledger/pkg/ledger"
	"github.com/tcfw/powledger/pkg/tx"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	CIDEncoding = cid.Raw
)

var (
	_ Store    = (*MemStore)(nil)
	_ TxFilter = (*MemStore)(nil)
)

// RecordCID is the content address of an encoded object.
func RecordCID(d []byte) (cid.Cid, error) {
	h, err := multihash.Sum(d, multihash.SHA3_256, multihash.DefaultLengths[multihash.SHA3_256])
	if err != nil {
		return cid.Undef, errors.Wrap(err, "hashing object")
	}

	return cid.NewCidV1(CIDEncoding, h), nil
}

type MemStore struct {
	mu     sync.RWMutex
	metaMu sync.RWMutex

	objects map[cid.Cid][]byte
	chain   []cid.Cid
	blooms  map[string][]byte
	txIndex map[string]cid.Cid

	pool  []tx.Record
	users []ledger.User
}

func NewMemStore() *MemStore {
	return &MemStore{
		objects: make(map[cid.Cid][]byte),
		blooms:  make(map[string][]byte),
		txIndex: make(map[string]cid.Cid),
	}
}

// SeedPool replaces the pending transaction pool.
func (m *MemStore) SeedPool(rows []tx.Record) {
	m.metaMu.Lock()
	defer m.metaMu.Unlock()

	m.pool = make([]tx.Record, 0, len(rows))
	for _, r := range rows {
		r.EnsureID()
		m.pool = append(m.pool, r)
	}
}

func (m *MemStore) DrawBatch(_ context.Context, n int, seed *int64) ([]tx.Record, error) {
	m.metaMu.RLock()
	defer m.metaMu.RUnlock()

	return Draw(m.pool, n, coinflip.New(seed)), nil
}

func (m *MemStore) RemoveByID(_ context.Context, ids map[string]struct{}) error {
	m.metaMu.Lock()
	defer m.metaMu.Unlock()

	m.pool = Without(m.pool, ids)

	return nil
}

func (m *MemStore) CountRemaining(_ context.Context) (int, error) {
	m.metaMu.RLock()
	defer m.metaMu.RUnlock()

	return len(m.pool), nil
}

func (m *MemStore) Load(_ context.Context) ([]ledger.User, error) {
	m.metaMu.RLock()
	defer m.metaMu.RUnlock()

	return append([]ledger.User(nil), m.users...), nil
}

func (m *MemStore) Save(_ context.Context, users []ledger.User) error {
	m.metaMu.Lock()
	defer m.metaMu.Unlock()

	m.users = append([]ledger.User(nil), users...)

	return nil
}

func (m *MemStore) putObj(obj interface{}) (cid.Cid, error) {
	d, err := msgpack.Marshal(obj)
	if err != nil {
		return cid.Undef, errors.Wrap(err, "marshalling object")
	}

	id, err := RecordCID(d)
	if err != nil {
		return cid.Undef, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[id] = d

	return id, nil
}

func (m *MemStore) getObj(id cid.Cid) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.objects[id]
}

func (m *MemStore) getBlock(id cid.Cid) (*block.Block, error) {
	d := m.getObj(id)
	if d == nil {
		return nil, ErrNotFound
	}

	r := &block.Record{}
	if err := r.Unmarshal(d); err != nil {
		return nil, errors.Wrap(err, "unmarshalling block")
	}

	return r.Block(), nil
}

func (m *MemStore) AppendBlock(_ context.Context, b *block.Block) error {
	id, err := m.putObj(b.Record())
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(b.Body.Transactions))
	for _, t := range b.Body.Transactions {
		if t.ID != "" {
			ids = append(ids, t.ID)
		}
	}

	bf, err := MakeBloom(ids)
	if err != nil {
		return errors.Wrap(err, "making tx bloom")
	}

	m.metaMu.Lock()
	defer m.metaMu.Unlock()

	m.chain = append(m.chain, id)
	m.blooms[b.Hash] = bf
	for _, t := range ids {
		m.txIndex[t] = id
	}

	return nil
}

func (m *MemStore) LoadChain(_ context.Context) ([]*block.Block, error) {
	m.metaMu.RLock()
	ids := append([]cid.Cid(nil), m.chain...)
	m.metaMu.RUnlock()

	blocks := make([]*block.Block, 0, len(ids))
	for _, id := range ids {
		b, err := m.getBlock(id)
		if err != nil {
			return nil, errors.Wrapf(err, "getting block %s", id)
		}
		blocks = append(blocks, b)
	}

	return blocks, nil
}

func (m *MemStore) LastBlock(_ context.Context) (*block.Block, error) {
	m.metaMu.RLock()
	if len(m.chain) == 0 {
		m.metaMu.RUnlock()
		return nil, nil
	}
	id := m.chain[len(m.chain)-1]
	m.metaMu.RUnlock()

	return m.getBlock(id)
}

func (m *MemStore) TxBlock(_ context.Context, txID string) (*block.Block, error) {
	m.metaMu.RLock()
	id, ok := m.txIndex[txID]
	m.metaMu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	return m.getBlock(id)
}

// MayContainTx consults the block's bloom filter. False positives are
// possible, false negatives are not.
func (m *MemStore) MayContainTx(_ context.Context, blockHash, txID string) (bool, error) {
	m.metaMu.RLock()
	bf, ok := m.blooms[blockHash]
	m.metaMu.RUnlock()

	if !ok {
		return false, ErrNotFound
	}

	return BloomContains(bf, txID)
}

func (m *MemStore) Stop() error {
	return nil
}
