package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tcfw/powledger/internal/config"
	istorage "github.com/tcfw/powledger/internal/storage"
	"github.com/tcfw/powledger/pkg/block"
	"github.com/tcfw/powledger/pkg/merkle"
)

var (
	bodyCmd = &cobra.Command{
		Use:   "body",
		Short: "draw a batch from the pool and print its merkle tree",
		RunE:  runBody,
	}
)

func init() {
	bodyCmd.Flags().IntP("batch", "n", 100, "transactions to draw")
}

func runBody(cmd *cobra.Command, args []string) error {
	bindFlags(cmd, map[string]string{"batch": config.Cfg_chain_batchSize})

	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	txs, err := istorage.NewCSVPool(cfg.Paths().Pool).DrawBatch(context.Background(), cfg.Chain().BatchSize, cfg.Chain().Seed)
	if err != nil {
		return errors.Wrap(err, "drawing batch")
	}

	body, err := block.NewBodyWithLevels(txs)
	if err != nil {
		return err
	}

	rec := &block.BodyRecord{
		MerkleRoot:        body.MerkleRoot,
		TransactionsCount: len(body.Transactions),
		Transactions:      body.Transactions,
		MerkleTreeLevels:  merkle.Describe(body.Levels),
	}

	d, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(os.Stdout, "%s\n", d)
	return err
}
