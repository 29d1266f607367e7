package cli

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tcfw/powledger/internal/config"
	"github.com/tcfw/powledger/pkg/chain"
)

var (
	raceCmd = &cobra.Command{
		Use:   "race",
		Short: "race candidates for a single block and append the winner",
		RunE:  runRace,
	}
)

func init() {
	addMiningFlags(raceCmd)
}

func runRace(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	waitExit(ctx, cancel)
	bindFlags(cmd, miningFlags)

	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	a, closer, err := newAssembler(cfg, true, chain.WithMaxBlocks(1))
	if err != nil {
		return err
	}
	defer closer()

	sum, err := a.Run(ctx)
	if err != nil {
		return errors.Wrap(err, "racing block")
	}

	if len(sum.Blocks) == 0 {
		fmt.Println("Pool is empty, nothing to mine")
		return nil
	}

	for n, r := range sum.Rounds[0] {
		fmt.Printf("Round #%d: limit %s\n", n+1, r.Limit)
		for i, s := range r.Stats {
			fmt.Printf("   candidate #%d: tries=%d found=%t\n", i, s.Tries, s.Found)
		}
	}

	b := sum.Blocks[0]
	fmt.Printf("Winner hash %s nonce %d, %d transactions\n", b.Hash, b.Header.Nonce, len(b.Body.Transactions))

	return nil
}
