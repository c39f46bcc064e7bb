package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/supportbot/internal/faq"
	"github.com/ziadkadry99/supportbot/internal/index"
	"github.com/ziadkadry99/supportbot/internal/progress"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the semantic index over the FAQ corpus",
	Long:  `Embeds every corpus entry and writes the vector index to the data directory. Existing index artifacts are replaced.`,
	RunE:  runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	embedder, err := createEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	corpus, err := faq.Load(cfg.CorpusPath)
	if err != nil {
		return fmt.Errorf("loading corpus %s: %w", cfg.CorpusPath, err)
	}

	reporter := progress.NewReporter()
	reporter.Start(len(corpus))
	ix, err := index.Build(ctx, embedder, corpus, func(done, total int) {
		reporter.Update(done, fmt.Sprintf("Embedding %d/%d", done, total))
	})
	reporter.Finish()
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	dir := indexDir(cfg)
	if err := ix.Save(dir); err != nil {
		return fmt.Errorf("saving index to %s: %w", dir, err)
	}

	fmt.Printf("Indexed %d entries (%d dimensions) to %s\n", ix.Size(), ix.Dimension(), dir)
	return nil
}
