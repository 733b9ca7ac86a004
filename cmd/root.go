package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flashmaster",
	Short: "Flashcard trainer with AI-generated quizzes",
	Long:  "Flashmaster is a terminal flashcard app with flip tests, AI multiple-choice quizzes, coins and a study calendar.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, homeScreen)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides FLASHMASTER_CONFIG env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides FLASHMASTER_DB env var)")

	rootCmd.AddCommand(deckCmd)
	rootCmd.AddCommand(cardCmd)
	rootCmd.AddCommand(coinsCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(studyCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
