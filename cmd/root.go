package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "supportbot",
	Short: "Semantic FAQ retrieval and query resolution for customer support",
	Long: `Supportbot answers customer support questions against an FAQ corpus.
It builds a semantic vector index over the corpus, resolves query intents,
tracks conversation context across turns, and decides when to answer,
clarify, or fall back to a human agent.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".supportbot.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
