package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashmaster/internal/app"
	"github.com/abhisek/flashmaster/internal/progress"
	"github.com/abhisek/flashmaster/internal/screen"
	historyscreen "github.com/abhisek/flashmaster/internal/screens/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the study calendar and test results",
	Long: "Without flags, opens the calendar screen. --month prints a month grid " +
		"and --day prints the results of one day.",
	RunE: func(cmd *cobra.Command, args []string) error {
		month, _ := cmd.Flags().GetString("month")
		day, _ := cmd.Flags().GetString("day")

		if month == "" && day == "" {
			return runApp(cmd, func(rt *app.Runtime) (screen.Screen, error) {
				return historyscreen.New(rt.State, time.Now()), nil
			})
		}

		return withRuntime(cmd, func(rt *app.Runtime) error {
			if month != "" {
				year, m, err := progress.ParseMonth(month)
				if err != nil {
					return err
				}
				printMonth(cmd, rt, year, m)
			}
			if day != "" {
				d, err := progress.ParseDay(day)
				if err != nil {
					return err
				}
				printDay(cmd, rt, d)
			}
			return nil
		})
	},
}

func printMonth(cmd *cobra.Command, rt *app.Runtime, year int, month time.Month) {
	out := cmd.OutOrStdout()
	cal := progress.BuildMonth(year, month, rt.State.State().TestHistory, time.Local)

	fmt.Fprintln(out, cal.Title())
	fmt.Fprintln(out, " Su  Mo  Tu  We  Th  Fr  Sa")
	for _, week := range cal.Weeks {
		var b strings.Builder
		for _, c := range week {
			switch {
			case c.Empty():
				b.WriteString("    ")
			case c.Tests > 0:
				fmt.Fprintf(&b, "%3d*", c.Day)
			default:
				fmt.Fprintf(&b, "%3d ", c.Day)
			}
		}
		if line := strings.TrimRight(b.String(), " "); line != "" {
			fmt.Fprintln(out, line)
		}
	}
	fmt.Fprintf(out, "\nDays with tests: %d\n", len(cal.ActiveDays()))
}

func printDay(cmd *cobra.Command, rt *app.Runtime, day string) {
	out := cmd.OutOrStdout()
	st := rt.State.State()
	results := progress.ResultsOn(st.TestHistory, day, time.Local)

	fmt.Fprintf(out, "Results (%s)\n", day)
	if len(results) == 0 {
		fmt.Fprintln(out, "No tests on this date.")
		return
	}
	for _, r := range results {
		fmt.Fprintln(out, historyscreen.ResultLine(st, r, time.Local))
	}
}

func init() {
	historyCmd.Flags().String("month", "", "Print the calendar for a month (YYYY-MM)")
	historyCmd.Flags().String("day", "", "Print the results of a day (YYYY-MM-DD)")
}
