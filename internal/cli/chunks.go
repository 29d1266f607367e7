package cli

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tcfw/powledger/internal/coinflip"
	"github.com/tcfw/powledger/internal/config"
	istorage "github.com/tcfw/powledger/internal/storage"
	"github.com/tcfw/powledger/pkg/tx"
)

var (
	chunksCmd = &cobra.Command{
		Use:   "chunks",
		Short: "shuffle the pool and split it into fixed size chunks",
		RunE:  runChunks,
	}
)

func init() {
	chunksCmd.Flags().IntP("size", "n", 5, "transactions per chunk")
	viper.BindPFlag(config.Cfg_generator_chunkSize, chunksCmd.Flags().Lookup("size"))

	chunksCmd.Flags().StringP("out", "o", "", "output file")
	viper.BindPFlag(config.Cfg_paths_chunks, chunksCmd.Flags().Lookup("out"))
}

func runChunks(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	rows, err := istorage.NewCSVPool(cfg.Paths().Pool).All()
	if err != nil {
		return errors.Wrap(err, "reading pool")
	}

	size := cfg.Generator().ChunkSize
	if size <= 0 {
		return errors.Errorf("chunk size must be positive, got %d", size)
	}

	// unseeded runs keep file order
	var r *rand.Rand
	if cfg.Chain().Seed != nil {
		r = coinflip.New(cfg.Chain().Seed)
	}

	chunks := tx.Chunk(rows, size, r)

	f, err := os.Create(cfg.Paths().Chunks)
	if err != nil {
		return errors.Wrap(err, "creating chunks file")
	}
	defer f.Close()

	if err := istorage.WriteChunks(f, chunks, size); err != nil {
		return err
	}

	fmt.Printf("Wrote %d chunks to %s\n", len(chunks), cfg.Paths().Chunks)

	return nil
}
