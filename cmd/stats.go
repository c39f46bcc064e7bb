package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/supportbot/internal/analytics"
	"github.com/ziadkadry99/supportbot/internal/db"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print query analytics from the local database",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Bool("json", false, "output statistics as JSON")
	statsCmd.Flags().Int("failed", 0, "also list the N most recent failed queries")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	jsonOutput, _ := cmd.Flags().GetBool("json")
	failedLimit, _ := cmd.Flags().GetInt("failed")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.DataDir + "/supportbot.db")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store := analytics.NewStore(database)
	stats, err := store.GetStatistics(ctx)
	if err != nil {
		return fmt.Errorf("reading statistics: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("Total queries:      %d\n", stats.TotalQueries)
	fmt.Printf("Avg confidence:     %.2f\n", stats.AvgConfidence)
	fmt.Printf("Avg similarity:     %.2f\n", stats.AvgSimilarity)
	fmt.Printf("Avg response time:  %dms\n", stats.AvgResponseTime.Milliseconds())
	fmt.Printf("Satisfaction rate:  %.1f%%\n", stats.SatisfactionRate)
	fmt.Printf("Failed queries:     %d\n", stats.FailedQueries)

	if len(stats.IntentDistribution) > 0 {
		fmt.Println("\nIntent distribution:")
		for intent, count := range stats.IntentDistribution {
			fmt.Printf("  %-12s %d\n", intent, count)
		}
	}

	if failedLimit > 0 {
		failed, err := store.RecentFailed(ctx, failedLimit)
		if err != nil {
			return fmt.Errorf("reading failed queries: %w", err)
		}
		if len(failed) > 0 {
			fmt.Println("\nRecent failed queries:")
			for _, f := range failed {
				fmt.Printf("  %q (%s)\n", f.Query, f.Reason)
			}
		}
	}

	return nil
}
