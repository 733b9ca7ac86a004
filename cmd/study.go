package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashmaster/internal/app"
	"github.com/abhisek/flashmaster/internal/screen"
	"github.com/abhisek/flashmaster/internal/screens/study"
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Start a test on a deck",
}

var studyFlipCmd = &cobra.Command{
	Use:   "flip <deck>",
	Short: "Flip through cards and grade yourself",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, func(rt *app.Runtime) (screen.Screen, error) {
			d, err := resolveDeck(rt.State.State(), args[0])
			if err != nil {
				return nil, err
			}
			return study.NewFlip(rt.Services(), d), nil
		})
	},
}

var studyQuizCmd = &cobra.Command{
	Use:   "quiz <deck>",
	Short: "Take an AI-generated multiple-choice quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, func(rt *app.Runtime) (screen.Screen, error) {
			d, err := resolveDeck(rt.State.State(), args[0])
			if err != nil {
				return nil, err
			}
			if len(d.Cards) == 0 {
				return nil, fmt.Errorf("deck %q has no cards", d.Name)
			}
			return study.NewQuiz(rt.Services(), d), nil
		})
	},
}

func init() {
	studyCmd.AddCommand(studyFlipCmd)
	studyCmd.AddCommand(studyQuizCmd)
}
