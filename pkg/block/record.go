package block

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tcfw/powledger/pkg/merkle"
	"github.com/tcfw/powledger/pkg/tx"
	"github.com/vmihailenco/msgpack/v5"
)

// Record is the persisted shape of a block.
type Record struct {
	BlockHash string       `json:"blockHash" msgpack:"bh"`
	Header    HeaderRecord `json:"header" msgpack:"h"`
	Body      BodyRecord   `json:"body" msgpack:"b"`
}

type HeaderRecord struct {
	PrevHash   string `json:"prevHash" msgpack:"p"`
	Timestamp  int64  `json:"timestamp" msgpack:"t"`
	Version    int    `json:"version" msgpack:"v"`
	MerkleRoot string `json:"merkleRoot" msgpack:"m"`
	Nonce      uint64 `json:"nonce" msgpack:"n"`
	Difficulty int    `json:"difficulty" msgpack:"d"`
	Genesis    bool   `json:"genesis,omitempty" msgpack:"g,omitempty"`
	Serialize  string `json:"serialize,omitempty" msgpack:"-"`
}

type BodyRecord struct {
	MerkleRoot        string         `json:"merkleRoot" msgpack:"m"`
	TransactionsCount int            `json:"transactionsCount" msgpack:"c"`
	Transactions      []tx.Record    `json:"transactions,omitempty" msgpack:"x,omitempty"`
	MerkleTreeLevels  []merkle.Level `json:"merkleTreeLevels,omitempty" msgpack:"l,omitempty"`
}

func (b *Block) Record() *Record {
	r := &Record{
		BlockHash: b.Hash,
		Header: HeaderRecord{
			PrevHash:   b.Header.PrevHash,
			Timestamp:  b.Header.Timestamp,
			Version:    b.Header.Version,
			MerkleRoot: b.Header.MerkleRoot,
			Nonce:      b.Header.Nonce,
			Difficulty: b.Header.Difficulty,
			Genesis:    b.Header.IsGenesis,
			Serialize:  b.Header.Serialize() + " ---> " + b.Hash,
		},
		Body: BodyRecord{
			MerkleRoot:        b.Body.MerkleRoot,
			TransactionsCount: len(b.Body.Transactions),
			Transactions:      b.Body.Transactions,
		},
	}

	if len(b.Body.Levels) > 0 {
		r.Body.MerkleTreeLevels = merkle.Describe(b.Body.Levels)
	}

	return r
}

// Block rebuilds the in memory block from its record.
func (r *Record) Block() *Block {
	b := &Block{
		Hash: r.BlockHash,
		Header: Header{
			PrevHash:   r.Header.PrevHash,
			Timestamp:  r.Header.Timestamp,
			Version:    r.Header.Version,
			MerkleRoot: r.Header.MerkleRoot,
			Nonce:      r.Header.Nonce,
			Difficulty: r.Header.Difficulty,
			IsGenesis:  r.Header.Genesis,
		},
		Body: Body{
			Transactions: r.Body.Transactions,
			MerkleRoot:   r.Body.MerkleRoot,
		},
	}

	for _, l := range r.Body.MerkleTreeLevels {
		b.Body.Levels = append(b.Body.Levels, l.Hashes)
	}

	return b
}

func (r *Record) Marshal() ([]byte, error) {
	b, err := msgpack.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "mashaling block record")
	}

	return b, nil
}

func (r *Record) Unmarshal(b []byte) error {
	return msgpack.Unmarshal(b, r)
}

func (r *Record) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
