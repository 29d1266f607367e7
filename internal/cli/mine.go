package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tcfw/powledger/internal/config"
	istorage "github.com/tcfw/powledger/internal/storage"
	"github.com/tcfw/powledger/internal/utils/logging"
	"github.com/tcfw/powledger/pkg/chain"
	"github.com/tcfw/powledger/pkg/mining"
)

const (
	prometheusEndpoint = "/metrics"
)

var (
	mineCmd = &cobra.Command{
		Use:   "mine",
		Short: "mine blocks until the transaction pool is empty",
		RunE:  runMine,
	}
)

func init() {
	addMiningFlags(mineCmd)

	mineCmd.Flags().Int("max-blocks", 0, "stop after this many blocks, 0 for no limit")
	viper.BindPFlag(config.Cfg_chain_maxBlocks, mineCmd.Flags().Lookup("max-blocks"))

	mineCmd.Flags().String("mode", "", "single or race")
	viper.BindPFlag(config.Cfg_mining_mode, mineCmd.Flags().Lookup("mode"))

	mineCmd.Flags().String("metrics", "", "serve prometheus metrics on this address")
	viper.BindPFlag(config.Cfg_mining_metricsAddr, mineCmd.Flags().Lookup("metrics"))
}

var miningFlags = map[string]string{
	"difficulty":     config.Cfg_chain_difficulty,
	"batch":          config.Cfg_chain_batchSize,
	"candidates":     config.Cfg_mining_candidates,
	"time-limit":     config.Cfg_mining_timeLimit,
	"tree":           config.Cfg_chain_includeTree,
	"allow-negative": config.Cfg_chain_allowNegative,
}

// addMiningFlags defines the flags shared by mine and race. They are bound
// into viper when the command runs since both commands share the keys.
func addMiningFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("difficulty", "d", 3, "leading zero hex digits required")
	cmd.Flags().IntP("batch", "n", 100, "transactions per block")
	cmd.Flags().IntP("candidates", "k", 5, "candidates per race")
	cmd.Flags().Duration("time-limit", mining.DefaultTimeLimit, "first round deadline")
	cmd.Flags().Bool("tree", false, "keep merkle tree levels in block bodies")
	cmd.Flags().Bool("allow-negative", false, "apply transactions even when the sender goes negative")
}

func bindFlags(cmd *cobra.Command, flags map[string]string) {
	for name, key := range flags {
		viper.BindPFlag(key, cmd.Flags().Lookup(name))
	}
}

// newAssembler wires the configured stores and miner. The returned func
// releases the chain store.
func newAssembler(cfg *config.Config, forceRace bool, extra ...chain.Option) (*chain.Assembler, func() error, error) {
	ccfg, mcfg, paths := cfg.Chain(), cfg.Mining(), cfg.Paths()

	cs, closer, err := chainStore(paths)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening chain store")
	}

	opts := []chain.Option{
		chain.WithBatchSize(ccfg.BatchSize),
		chain.WithDifficulty(ccfg.Difficulty),
		chain.WithVersion(ccfg.Version),
		chain.WithMaxNonce(mcfg.MaxNonce),
		chain.WithMaxBlocks(ccfg.MaxBlocks),
		chain.WithTree(ccfg.IncludeTree),
		chain.WithAllowNegative(ccfg.AllowNegative),
		chain.WithBalances(istorage.NewUsersFile(paths.Users)),
	}

	if ccfg.Seed != nil {
		opts = append(opts, chain.WithSeed(*ccfg.Seed))
	}

	if ccfg.Genesis != nil {
		opts = append(opts, chain.WithGenesis(*ccfg.Genesis))
	}

	if forceRace || mcfg.Mode == config.MiningModeRace {
		coord := mining.NewCoordinator(
			mining.WithTimeLimit(mcfg.TimeLimit),
			mining.WithMaxRounds(mcfg.MaxRounds),
		)
		opts = append(opts, chain.WithRace(mcfg.Candidates, coord))
	}

	opts = append(opts, extra...)

	return chain.New(istorage.NewCSVPool(paths.Pool), cs, opts...), closer, nil
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(prometheusEndpoint, promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.WithError(err).Error("serving metrics")
		}
	}()

	return srv
}

func runMine(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	waitExit(ctx, cancel)
	bindFlags(cmd, miningFlags)

	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	if addr := cfg.Mining().MetricsAddr; addr != "" {
		srv := serveMetrics(addr)
		defer srv.Shutdown(context.Background())
	}

	a, closer, err := newAssembler(cfg, false)
	if err != nil {
		return err
	}
	defer closer()

	sum, err := a.Run(ctx)
	if sum != nil {
		for _, b := range sum.Blocks {
			fmt.Printf("block %s prev=%s nonce=%d txs=%d\n", b.Hash, b.Header.PrevHash, b.Header.Nonce, len(b.Body.Transactions))
		}
		if len(sum.Skipped) > 0 {
			fmt.Printf("%d transactions skipped in balance updates\n", len(sum.Skipped))
		}
	}
	if err != nil {
		return errors.Wrap(err, "mining chain")
	}

	fmt.Printf("Mined %d blocks\n", len(sum.Blocks))

	return nil
}
