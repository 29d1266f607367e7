package config

import (
	"encoding/base64"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/tcfw/powledger/pkg/block"
	"github.com/tcfw/powledger/pkg/storage"
	"github.com/vmihailenco/msgpack/v5"
)

type Chain struct {
	Difficulty    int
	Version       int
	BatchSize     int
	MaxBlocks     int
	Seed          *int64
	IncludeTree   bool
	AllowNegative bool
	Genesis       *storage.GenesisInfo
}

const (
	Cfg_chain_difficulty    = "chain.difficulty"
	Cfg_chain_version       = "chain.version"
	Cfg_chain_batchSize     = "chain.batchSize"
	Cfg_chain_maxBlocks     = "chain.maxBlocks"
	Cfg_chain_seed          = "chain.seed"
	Cfg_chain_includeTree   = "chain.includeTree"
	Cfg_chain_allowNegative = "chain.allowNegative"
	Cfg_chain_genesisInfo   = "chain.genesis"
)

var (
	chainDefaults = map[string]interface{}{
		Cfg_chain_difficulty:    block.DefaultDifficulty,
		Cfg_chain_version:       block.Version1,
		Cfg_chain_batchSize:     100,
		Cfg_chain_maxBlocks:     0,
		Cfg_chain_includeTree:   false,
		Cfg_chain_allowNegative: false,
		Cfg_chain_genesisInfo:   "",
	}
)

func init() {
	for k, v := range chainDefaults {
		viper.SetDefault(k, v)
	}
}

func buildChainConfig() (*Chain, error) {
	c := &Chain{
		Difficulty:    viper.GetInt(Cfg_chain_difficulty),
		Version:       viper.GetInt(Cfg_chain_version),
		BatchSize:     viper.GetInt(Cfg_chain_batchSize),
		MaxBlocks:     viper.GetInt(Cfg_chain_maxBlocks),
		IncludeTree:   viper.GetBool(Cfg_chain_includeTree),
		AllowNegative: viper.GetBool(Cfg_chain_allowNegative),
	}

	if c.Difficulty < 0 {
		return nil, errors.Errorf("difficulty must not be negative, got %d", c.Difficulty)
	}

	if c.BatchSize <= 0 {
		return nil, errors.Errorf("batch size must be positive, got %d", c.BatchSize)
	}

	if c.BatchSize > storage.MaxBlockTxCount {
		return nil, errors.Errorf("batch size %d exceeds the block limit of %d", c.BatchSize, storage.MaxBlockTxCount)
	}

	if viper.IsSet(Cfg_chain_seed) {
		seed := viper.GetInt64(Cfg_chain_seed)
		c.Seed = &seed
	}

	gcfg := viper.GetString(Cfg_chain_genesisInfo)
	if gcfg == "" {
		return c, nil
	}

	g, err := DecodeGenesis(gcfg)
	if err != nil {
		return nil, err
	}
	c.Genesis = g

	return c, nil
}

// EncodeGenesis packs genesis info into the base64 form accepted by
// chain.genesis.
func EncodeGenesis(g *storage.GenesisInfo) (string, error) {
	b, err := msgpack.Marshal(g)
	if err != nil {
		return "", errors.Wrap(err, "marshaling genesis info")
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

func DecodeGenesis(gcfg string) (*storage.GenesisInfo, error) {
	gcfg_raw, err := base64.StdEncoding.DecodeString(gcfg)
	if err != nil {
		return nil, errors.Wrap(err, "b64 decoding genesis config")
	}

	g := &storage.GenesisInfo{}
	if err := msgpack.Unmarshal(gcfg_raw, g); err != nil {
		return nil, errors.Wrap(err, "unmarshaling genesis info")
	}

	return g, nil
}
