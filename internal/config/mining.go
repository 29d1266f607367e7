package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/tcfw/powledger/pkg/block"
	"github.com/tcfw/powledger/pkg/mining"
)

const (
	MiningModeSingle = "single"
	MiningModeRace   = "race"
)

type Mining struct {
	Mode        string
	Candidates  int
	TimeLimit   time.Duration
	MaxRounds   int
	MaxNonce    uint64
	MetricsAddr string
}

const (
	Cfg_mining_mode        = "mining.mode"
	Cfg_mining_candidates  = "mining.candidates"
	Cfg_mining_timeLimit   = "mining.timeLimit"
	Cfg_mining_maxRounds   = "mining.maxRounds"
	Cfg_mining_maxNonce    = "mining.maxNonce"
	Cfg_mining_metricsAddr = "mining.metricsAddr"
)

var (
	miningDefaults = map[string]interface{}{
		Cfg_mining_mode:        MiningModeRace,
		Cfg_mining_candidates:  5,
		Cfg_mining_timeLimit:   mining.DefaultTimeLimit,
		Cfg_mining_maxRounds:   mining.DefaultMaxRounds,
		Cfg_mining_maxNonce:    block.DefaultMaxNonce,
		Cfg_mining_metricsAddr: "",
	}
)

func init() {
	for k, v := range miningDefaults {
		viper.SetDefault(k, v)
	}
}

func buildMiningConfig() (*Mining, error) {
	c := &Mining{
		Mode:        viper.GetString(Cfg_mining_mode),
		Candidates:  viper.GetInt(Cfg_mining_candidates),
		TimeLimit:   viper.GetDuration(Cfg_mining_timeLimit),
		MaxRounds:   viper.GetInt(Cfg_mining_maxRounds),
		MaxNonce:    viper.GetUint64(Cfg_mining_maxNonce),
		MetricsAddr: viper.GetString(Cfg_mining_metricsAddr),
	}

	switch c.Mode {
	case MiningModeSingle, MiningModeRace:
	default:
		return nil, errors.Errorf("unknown mining mode %q", c.Mode)
	}

	if c.Candidates < 1 {
		return nil, errors.Errorf("need at least one candidate, got %d", c.Candidates)
	}

	if c.TimeLimit <= 0 {
		return nil, errors.Errorf("time limit must be positive, got %s", c.TimeLimit)
	}

	if c.MaxRounds < 1 {
		return nil, errors.Errorf("need at least one round, got %d", c.MaxRounds)
	}

	return c, nil
}
