package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashmaster/internal/app"
)

var coinsCmd = &cobra.Command{
	Use:   "coins",
	Short: "Show the coin balance and test totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(rt *app.Runtime) error {
			st := rt.State.State()
			out := cmd.OutOrStdout()

			best := 0
			for _, r := range st.TestHistory {
				best = max(best, r.BestStreak)
			}
			fmt.Fprintf(out, "Coins:        %d\n", st.Coins)
			fmt.Fprintf(out, "Tests taken:  %d\n", len(st.TestHistory))
			fmt.Fprintf(out, "Best streak:  %d\n", best)
			return nil
		})
	},
}
