package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/supportbot/internal/analytics"
	"github.com/ziadkadry99/supportbot/internal/db"
	"github.com/ziadkadry99/supportbot/internal/pipeline"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive support conversation",
	Long: `Opens a terminal conversation with the resolution pipeline. Context
carries across turns, so follow-up questions are answered against the
topic of the previous turn. Type "reset" to clear the conversation and
"exit" to quit.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

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

	database, err := db.Open(cfg.DataDir + "/supportbot.db")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store := analytics.NewStore(database)
	engine := pipeline.New(ix, classifier, store, log)
	sessions := pipeline.NewSessions(cfg.MaxHistory)
	sess := sessions.Create()

	fmt.Printf("supportbot ready (%d FAQ entries). Type your question, or \"exit\" to quit.\n\n", ix.Size())

	for {
		prompt := promptui.Prompt{
			Label:     "You",
			AllowEdit: true,
		}
		input, err := prompt.Run()
		if err != nil {
			// Ctrl-C or Ctrl-D ends the conversation.
			fmt.Println("\nGoodbye!")
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return nil
		case "reset":
			sessions.End(sess.ID)
			sess = sessions.Create()
			fmt.Println("Conversation reset.")
			continue
		}

		res := engine.RespondIn(ctx, sess, input)

		fmt.Printf("\nBot: %s\n", res.Text)
		if verbose {
			fmt.Printf("     [%s] intents=%v confidence=%.2f similarity=%.2f follow_up=%v\n",
				res.Category, res.Intents, res.OverallConfidence, res.Similarity, res.FollowUp)
			if res.EntitySummary != "No entities found" {
				fmt.Printf("     %s\n", res.EntitySummary)
			}
		}
		fmt.Println()
	}
}
