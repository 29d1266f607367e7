package block

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/tcfw/powledger/pkg/digest"
)

const (
	Version1 = 1

	DefaultDifficulty = 3
	DefaultMaxNonce   = 10_000_000
)

var (
	ErrNonceExhausted      = errors.New("nonce not found within allowed attempts")
	ErrProofOfWorkMismatch = errors.New("hash does not satisfy difficulty")
)

// Header is the mined part of a block. Only Nonce changes after
// construction.
type Header struct {
	PrevHash   string `msgpack:"p"`
	Timestamp  int64  `msgpack:"t"`
	Version    int    `msgpack:"v"`
	MerkleRoot string `msgpack:"m"`
	Nonce      uint64 `msgpack:"n"`
	Difficulty int    `msgpack:"d"`
	IsGenesis  bool   `msgpack:"g,omitempty"`
}

// NewHeader builds a header stamped with the current time.
func NewHeader(prevHash, merkleRoot string, version, difficulty int) *Header {
	return &Header{
		PrevHash:   prevHash,
		Timestamp:  time.Now().Unix(),
		Version:    version,
		MerkleRoot: merkleRoot,
		Difficulty: difficulty,
	}
}

// NewGenesis builds a genesis header. Its hash is always digest.Sentinel.
func NewGenesis(merkleRoot string, version, difficulty int, timestamp int64) *Header {
	return &Header{
		PrevHash:   digest.Sentinel,
		Timestamp:  timestamp,
		Version:    version,
		MerkleRoot: merkleRoot,
		Difficulty: difficulty,
		IsGenesis:  true,
	}
}

// NewHeaderFromBody binds a new header to the merkle root of body.
func NewHeaderFromBody(prevHash string, body *Body, version, difficulty int) (*Header, error) {
	if body == nil {
		return nil, errors.New("body is nil")
	}

	return NewHeader(prevHash, body.MerkleRoot, version, difficulty), nil
}

func (h *Header) Serialize() string {
	return fmt.Sprintf("%s|%d|%d|%s|%d|%d", h.PrevHash, h.Timestamp, h.Version, h.MerkleRoot, h.Nonce, h.Difficulty)
}

func (h *Header) Hash() string {
	if h.IsGenesis {
		return digest.Sentinel
	}

	return digest.Sum(h.Serialize())
}

// Mine searches nonces from startNonce up to, not including, maxNonce and
// leaves the header holding the first nonce whose hash meets the
// difficulty. Genesis headers are never mined.
func (h *Header) Mine(maxNonce, startNonce uint64) (string, error) {
	if h.IsGenesis {
		return h.Hash(), nil
	}

	for nonce := startNonce; nonce < maxNonce; nonce++ {
		h.Nonce = nonce
		hash := h.Hash()
		if ValidateHash(hash, h.Difficulty) {
			return hash, nil
		}
	}

	return "", errors.Wrapf(ErrNonceExhausted, "searched [%d, %d)", startNonce, maxNonce)
}

func (h *Header) ValidateProofOfWork() bool {
	if h.IsGenesis {
		return h.Hash() == digest.Sentinel
	}

	return ValidateHash(h.Hash(), h.Difficulty)
}

// ValidateHash reports whether hash starts with difficulty '0' characters.
func ValidateHash(hash string, difficulty int) bool {
	return digest.HasLeadingZeros(hash, difficulty)
}
