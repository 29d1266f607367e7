package cli

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tcfw/powledger/internal/coinflip"
	"github.com/tcfw/powledger/internal/config"
	istorage "github.com/tcfw/powledger/internal/storage"
	"github.com/tcfw/powledger/pkg/ledger"
)

var (
	usersCmd = &cobra.Command{
		Use:   "users",
		Short: "User registry commands",
	}

	users_genCmd = &cobra.Command{
		Use:   "gen",
		Short: "generate a users registry",
		RunE:  runUsersGen,
	}
)

func init() {
	users_genCmd.Flags().IntP("count", "n", 10, "number of users")
	viper.BindPFlag(config.Cfg_generator_users, users_genCmd.Flags().Lookup("count"))

	users_genCmd.Flags().Int64("min", 100, "minimum starting balance")
	viper.BindPFlag(config.Cfg_generator_minBalance, users_genCmd.Flags().Lookup("min"))

	users_genCmd.Flags().Int64("max", 1000000, "maximum starting balance")
	viper.BindPFlag(config.Cfg_generator_maxBalance, users_genCmd.Flags().Lookup("max"))
}

func runUsersGen(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	gen := &ledger.UserGenerator{
		N:          cfg.Generator().Users,
		MinBalance: cfg.Generator().MinBalance,
		MaxBalance: cfg.Generator().MaxBalance,
	}

	users := gen.Generate(coinflip.New(cfg.Chain().Seed))

	if err := istorage.NewUsersFile(cfg.Paths().Users).Save(context.Background(), users); err != nil {
		return errors.Wrap(err, "saving users")
	}

	fmt.Printf("Saved %d users to %s\n", len(users), cfg.Paths().Users)

	return nil
}
