package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashmaster/internal/app"
)

var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Manage the cards of a deck",
}

var cardAddCmd = &cobra.Command{
	Use:   "add <deck> <question> <answer>",
	Short: "Add a card to a deck",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(rt *app.Runtime) error {
			d, err := resolveDeck(rt.State.State(), args[0])
			if err != nil {
				return err
			}

			before := len(d.Cards)
			st := rt.State.AddCard(d.ID, args[1], args[2])
			updated, _ := st.FindDeck(d.ID)
			if len(updated.Cards) == before {
				return fmt.Errorf("question and answer must not be blank")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added card %s to %q (%d cards)\n",
				updated.Cards[0].ID, updated.Name, len(updated.Cards))
			return nil
		})
	},
}

var cardRmCmd = &cobra.Command{
	Use:   "rm <deck> <card-id>",
	Short: "Remove a card from a deck",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(rt *app.Runtime) error {
			d, err := resolveDeck(rt.State.State(), args[0])
			if err != nil {
				return err
			}
			if _, ok := d.FindCard(args[1]); !ok {
				return fmt.Errorf("card %s not found in %q", args[1], d.Name)
			}
			rt.State.DeleteCard(d.ID, args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "Removed card %s from %q\n", args[1], d.Name)
			return nil
		})
	},
}

func init() {
	cardCmd.AddCommand(cardAddCmd)
	cardCmd.AddCommand(cardRmCmd)
}
