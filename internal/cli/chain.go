package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tcfw/powledger/internal/config"
	"github.com/tcfw/powledger/pkg/chain"
	"github.com/tcfw/powledger/pkg/storage"
)

var (
	chainCmd = &cobra.Command{
		Use:   "chain",
		Short: "Chain commands",
	}

	chain_verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "check linkage and proof of work of the stored chain",
		RunE:  runChainVerify,
	}

	chain_findCmd = &cobra.Command{
		Use:   "find <txid>",
		Short: "find the block a transaction was committed in",
		Args:  cobra.ExactArgs(1),
		RunE:  runChainFind,
	}

	chain_genesisCmd = &cobra.Command{
		Use:   "genesis",
		Short: "print a chain.genesis config value",
		RunE:  runChainGenesis,
	}
)

func init() {
	chain_genesisCmd.Flags().IntP("difficulty", "d", 3, "difficulty recorded in the genesis header")
}

func runChainVerify(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	cs, closer, err := chainStore(cfg.Paths())
	if err != nil {
		return err
	}
	defer closer()

	blocks, err := cs.LoadChain(context.Background())
	if err != nil {
		return errors.Wrap(err, "loading chain")
	}

	if err := chain.Verify(blocks); err != nil {
		return errors.Wrap(err, "verifying chain")
	}

	fmt.Printf("Chain OK: %d blocks\n", len(blocks))

	return nil
}

func runChainFind(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	cs, closer, err := chainStore(cfg.Paths())
	if err != nil {
		return err
	}
	defer closer()

	b, err := chain.Find(context.Background(), cs, args[0])
	if err != nil {
		return errors.Wrapf(err, "finding %s", args[0])
	}

	d, err := b.Record().MarshalIndent()
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", d)

	return nil
}

func runChainGenesis(cmd *cobra.Command, args []string) error {
	d, _ := cmd.Flags().GetInt("difficulty")

	g := &storage.GenesisInfo{
		Version:    1,
		Difficulty: d,
		Timestamp:  time.Now().Unix(),
	}

	b64, err := config.EncodeGenesis(g)
	if err != nil {
		return err
	}

	fmt.Printf("Genesis Config:\n%s\n", b64)

	return nil
}
