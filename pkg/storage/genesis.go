package storage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/tcfw/powledger/pkg/block"
)

type GenesisInfo struct {
	Version    int   `msgpack:"v"`
	Difficulty int   `msgpack:"d"`
	Timestamp  int64 `msgpack:"t"`
}

// ApplyGenesis appends a genesis block when the chain is empty and returns
// the chain tip either way.
func ApplyGenesis(ctx context.Context, s ChainStore, info GenesisInfo) (*block.Block, error) {
	last, err := s.LastBlock(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting chain tip")
	}
	if last != nil {
		return last, nil
	}

	g, err := block.Genesis(nil, info.Version, info.Difficulty, info.Timestamp)
	if err != nil {
		return nil, errors.Wrap(err, "building genesis")
	}

	if err := s.AppendBlock(ctx, g); err != nil {
		return nil, errors.Wrap(err, "appending genesis")
	}

	return g, nil
}
