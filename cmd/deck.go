package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashmaster/internal/app"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Manage flashcard decks",
}

var deckListCmd = &cobra.Command{
	Use:   "list",
	Short: "List decks, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(rt *app.Runtime) error {
			out := cmd.OutOrStdout()
			st := rt.State.State()
			if len(st.Decks) == 0 {
				fmt.Fprintln(out, "No decks yet.")
				return nil
			}

			fmt.Fprintf(out, "%-36s  %-24s  %5s  %5s  %s\n", "ID", "Name", "Cards", "Tests", "Created")
			fmt.Fprintln(out, strings.Repeat("─", 90))
			for _, d := range st.Decks {
				fmt.Fprintf(out, "%-36s  %-24s  %5d  %5d  %s\n",
					d.ID,
					truncate(d.Name, 24),
					len(d.Cards),
					len(st.HistoryForDeck(d.ID)),
					d.CreatedAt.Time().Local().Format("2006-01-02"),
				)
			}
			return nil
		})
	},
}

var deckAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an empty deck",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(strings.Join(args, " "))
		if name == "" {
			return fmt.Errorf("deck name must not be blank")
		}
		return withRuntime(cmd, func(rt *app.Runtime) error {
			st := rt.State.AddDeck(name)
			d := st.Decks[0]
			fmt.Fprintf(cmd.OutOrStdout(), "Created deck %q (%s)\n", d.Name, d.ID)
			return nil
		})
	},
}

var deckRmCmd = &cobra.Command{
	Use:   "rm <deck>",
	Short: "Delete a deck and its cards (test history is kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(rt *app.Runtime) error {
			d, err := resolveDeck(rt.State.State(), args[0])
			if err != nil {
				return err
			}
			rt.State.DeleteDeck(d.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted deck %q\n", d.Name)
			return nil
		})
	},
}

var deckShowCmd = &cobra.Command{
	Use:   "show <deck>",
	Short: "Show a deck's cards and recent results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(rt *app.Runtime) error {
			st := rt.State.State()
			d, err := resolveDeck(st, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", d.Name, d.ID)
			fmt.Fprintf(out, "Created:  %s\n", d.CreatedAt.Time().Local().Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "Cards:    %d\n\n", len(d.Cards))

			if len(d.Cards) == 0 {
				fmt.Fprintln(out, "No cards yet.")
			}
			for i, c := range d.Cards {
				fmt.Fprintf(out, "%3d. %s\n     %s\n     [%s]\n", i+1, c.Question, c.Answer, c.ID)
			}

			history := st.HistoryForDeck(d.ID)
			if len(history) == 0 {
				return nil
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Recent results")
			fmt.Fprintln(out, strings.Repeat("─", 50))
			for _, r := range history[:min(len(history), 5)] {
				fmt.Fprintf(out, "%s  Score %3d%%  %d/%d correct  Streak %d\n",
					r.EndedAt.Time().Local().Format(time.DateTime), r.Score, r.Correct, r.Total, r.BestStreak)
			}
			return nil
		})
	},
}

func init() {
	deckCmd.AddCommand(deckListCmd)
	deckCmd.AddCommand(deckAddCmd)
	deckCmd.AddCommand(deckRmCmd)
	deckCmd.AddCommand(deckShowCmd)
}
