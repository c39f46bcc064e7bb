package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/supportbot/internal/conversation"
	"github.com/ziadkadry99/supportbot/internal/pipeline"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Resolve a single support question",
	Long:  `Runs one question through the resolution pipeline and prints the response. No conversation context is kept.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().Bool("json", false, "output the full resolution as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	embedder, err := createEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	classifier, err := createClassifier(cfg)
	if err != nil {
		return fmt.Errorf("creating classifier: %w", err)
	}

	ix, err := loadOrBuildIndex(ctx, cfg, embedder)
	if err != nil {
		return err
	}

	engine := pipeline.New(ix, classifier, nil, log)
	tracker := conversation.NewTracker(cfg.MaxHistory)

	res := engine.Respond(ctx, "cli", tracker, args[0])

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Println(res.Text)
	if verbose {
		fmt.Printf("\n[%s] intents=%v confidence=%.2f similarity=%.2f\n",
			res.Category, res.Intents, res.OverallConfidence, res.Similarity)
	}
	return nil
}
