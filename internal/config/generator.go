package config

import (
	"github.com/spf13/viper"
)

type Generator struct {
	Users      int
	MinBalance int64
	MaxBalance int64
	NPerUser   int
	NTxs       int
	MaxInputs  int
	ChunkSize  int
}

const (
	Cfg_generator_users      = "generator.users"
	Cfg_generator_minBalance = "generator.minBalance"
	Cfg_generator_maxBalance = "generator.maxBalance"
	Cfg_generator_nPerUser   = "generator.nPerUser"
	Cfg_generator_nTxs       = "generator.nTxs"
	Cfg_generator_maxInputs  = "generator.maxInputs"
	Cfg_generator_chunkSize  = "generator.chunkSize"
)

var (
	generatorDefaults = map[string]interface{}{
		Cfg_generator_users:      10,
		Cfg_generator_minBalance: 100,
		Cfg_generator_maxBalance: 1000000,
		Cfg_generator_nPerUser:   3,
		Cfg_generator_nTxs:       1000,
		Cfg_generator_maxInputs:  3,
		Cfg_generator_chunkSize:  5,
	}
)

func init() {
	for k, v := range generatorDefaults {
		viper.SetDefault(k, v)
	}
}

func buildGeneratorConfig() *Generator {
	return &Generator{
		Users:      viper.GetInt(Cfg_generator_users),
		MinBalance: viper.GetInt64(Cfg_generator_minBalance),
		MaxBalance: viper.GetInt64(Cfg_generator_maxBalance),
		NPerUser:   viper.GetInt(Cfg_generator_nPerUser),
		NTxs:       viper.GetInt(Cfg_generator_nTxs),
		MaxInputs:  viper.GetInt(Cfg_generator_maxInputs),
		ChunkSize:  viper.GetInt(Cfg_generator_chunkSize),
	}
}
