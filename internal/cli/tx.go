package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tcfw/powledger/internal/coinflip"
	"github.com/tcfw/powledger/internal/config"
	istorage "github.com/tcfw/powledger/internal/storage"
	"github.com/tcfw/powledger/pkg/ledger"
)

var (
	txCmd = &cobra.Command{
		Use:   "tx",
		Short: "Transaction commands",
	}

	tx_genCmd = &cobra.Command{
		Use:   "gen",
		Short: "generate UTXO transactions from the users registry",
		RunE:  runTxGen,
	}
)

func init() {
	tx_genCmd.Flags().IntP("count", "n", 1000, "number of transactions")
	viper.BindPFlag(config.Cfg_generator_nTxs, tx_genCmd.Flags().Lookup("count"))

	tx_genCmd.Flags().Int("per-user", 3, "genesis UTXOs per user")
	viper.BindPFlag(config.Cfg_generator_nPerUser, tx_genCmd.Flags().Lookup("per-user"))

	tx_genCmd.Flags().Int("max-inputs", 3, "maximum inputs per transaction")
	viper.BindPFlag(config.Cfg_generator_maxInputs, tx_genCmd.Flags().Lookup("max-inputs"))

	tx_genCmd.Flags().String("report", "", "detailed transaction report")
	viper.BindPFlag(config.Cfg_paths_report, tx_genCmd.Flags().Lookup("report"))

	tx_genCmd.Flags().String("users-final", "", "registry written with final balances")
	viper.BindPFlag(config.Cfg_paths_usersFinal, tx_genCmd.Flags().Lookup("users-final"))
}

func runTxGen(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	paths := cfg.Paths()
	gcfg := cfg.Generator()

	users, err := istorage.NewUsersFile(paths.Users).Load(ctx)
	if err != nil {
		return errors.Wrap(err, "loading users")
	}

	gen := ledger.NewGenerator(users, coinflip.New(cfg.Chain().Seed))
	gen.CreateGenesisUTXOs(gcfg.NPerUser)

	if err := gen.GenerateTransactions(gcfg.NTxs, gcfg.MaxInputs); err != nil {
		return errors.Wrap(err, "generating transactions")
	}

	f, err := os.Create(paths.Report)
	if err != nil {
		return errors.Wrap(err, "creating report")
	}
	defer f.Close()

	if err := istorage.WriteReport(f, gen.Transactions(), users); err != nil {
		return err
	}

	if err := istorage.WriteRecords(paths.Pool, gen.Records()); err != nil {
		return err
	}

	if err := istorage.NewUsersFile(paths.UsersFinal).Save(ctx, gen.FinalUsers()); err != nil {
		return errors.Wrap(err, "saving final balances")
	}

	fmt.Printf("Created %s and %s from %s (%d transactions)\n", paths.Report, paths.Pool, paths.Users, len(gen.Transactions()))

	return nil
}
