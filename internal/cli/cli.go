package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tcfw/powledger/internal/config"
	istorage "github.com/tcfw/powledger/internal/storage"
	"github.com/tcfw/powledger/pkg/storage"
)

var (
	rootCmd = &cobra.Command{
		Use:           "powledger",
		Short:         "toy UTXO ledger with proof of work mining",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func Execute() error {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase verbosity")
	viper.BindPFlag(config.Cfg_verbose, rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.PersistentFlags().Bool("json", false, "log as json")
	viper.BindPFlag(config.Cfg_json, rootCmd.PersistentFlags().Lookup("json"))

	rootCmd.PersistentFlags().Int64("seed", 0, "random seed; unset draws from the clock")
	viper.BindPFlag(config.Cfg_chain_seed, rootCmd.PersistentFlags().Lookup("seed"))

	rootCmd.PersistentFlags().String("pool", "", "transaction pool csv")
	viper.BindPFlag(config.Cfg_paths_pool, rootCmd.PersistentFlags().Lookup("pool"))

	rootCmd.PersistentFlags().String("users", "", "users registry (.txt or .yaml)")
	viper.BindPFlag(config.Cfg_paths_users, rootCmd.PersistentFlags().Lookup("users"))

	rootCmd.PersistentFlags().String("chain", "", "chain json file")
	viper.BindPFlag(config.Cfg_paths_chain, rootCmd.PersistentFlags().Lookup("chain"))

	rootCmd.PersistentFlags().String("store", "", "chain store backend, json or pebble")
	viper.BindPFlag(config.Cfg_paths_store, rootCmd.PersistentFlags().Lookup("store"))

	regCommands()

	return rootCmd.Execute()
}

// chainStore opens the configured chain backend.
func chainStore(p *config.Paths) (storage.ChainStore, func() error, error) {
	switch p.Store {
	case config.StorePebble:
		s, err := istorage.NewPebbleChain(p.PebbleDir)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Stop, nil
	case config.StoreJSON, "":
		return istorage.NewJSONChain(p.Chain), func() error { return nil }, nil
	default:
		return nil, nil, errors.Errorf("unknown chain store %q", p.Store)
	}
}

func waitExit(ctx context.Context, cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigs)

		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
		}
	}()
}
