package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/supportbot/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize supportbot configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure supportbot and generates a .supportbot.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
