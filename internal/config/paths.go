package config

import (
	"github.com/spf13/viper"
)

const (
	StoreJSON   = "json"
	StorePebble = "pebble"
)

type Paths struct {
	Pool       string
	Users      string
	UsersFinal string
	Report     string
	Chunks     string
	Chain      string
	Store      string
	PebbleDir  string
}

const (
	Cfg_paths_pool       = "paths.pool"
	Cfg_paths_users      = "paths.users"
	Cfg_paths_usersFinal = "paths.usersFinal"
	Cfg_paths_report     = "paths.report"
	Cfg_paths_chunks     = "paths.chunks"
	Cfg_paths_chain      = "paths.chain"
	Cfg_paths_store      = "paths.store"
	Cfg_paths_pebbleDir  = "paths.pebbleDir"
)

var (
	pathsDefaults = map[string]interface{}{
		Cfg_paths_pool:       "transactions_min.csv",
		Cfg_paths_users:      "users.txt",
		Cfg_paths_usersFinal: "users_final.txt",
		Cfg_paths_report:     "transactions.txt",
		Cfg_paths_chunks:     "chunks.txt",
		Cfg_paths_chain:      "chain.json",
		Cfg_paths_store:      StoreJSON,
		Cfg_paths_pebbleDir:  "chaindb",
	}
)

func init() {
	for k, v := range pathsDefaults {
		viper.SetDefault(k, v)
	}
}

func buildPathsConfig() *Paths {
	return &Paths{
		Pool:       viper.GetString(Cfg_paths_pool),
		Users:      viper.GetString(Cfg_paths_users),
		UsersFinal: viper.GetString(Cfg_paths_usersFinal),
		Report:     viper.GetString(Cfg_paths_report),
		Chunks:     viper.GetString(Cfg_paths_chunks),
		Chain:      viper.GetString(Cfg_paths_chain),
		Store:      viper.GetString(Cfg_paths_store),
		PebbleDir:  viper.GetString(Cfg_paths_pebbleDir),
	}
}
