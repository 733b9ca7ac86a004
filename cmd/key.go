package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashmaster/internal/app"
	"github.com/abhisek/flashmaster/internal/screens/apikey"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the API key used for quiz generation",
}

var keySetCmd = &cobra.Command{
	Use:   "set <key>",
	Short: "Save an API key in the app state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(args[0]) == "" {
			return fmt.Errorf("key must not be blank")
		}
		return withRuntime(cmd, func(rt *app.Runtime) error {
			rt.State.SetAPIKey(args[0])
			fmt.Fprintln(cmd.OutOrStdout(), "API key saved.")
			return nil
		})
	},
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the saved API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(rt *app.Runtime) error {
			rt.State.SetAPIKey("")
			fmt.Fprintln(cmd.OutOrStdout(), "API key cleared.")
			return nil
		})
	},
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which API key quiz generation will use",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(rt *app.Runtime) error {
			out := cmd.OutOrStdout()
			switch {
			case rt.State.HasAPIKey():
				fmt.Fprintf(out, "Using saved key %s\n", apikey.Mask(rt.APIKey()))
			case rt.Config.LLM.APIKey != "":
				fmt.Fprintf(out, "Using configured key %s\n", apikey.Mask(rt.APIKey()))
			default:
				fmt.Fprintln(out, "No API key set. Quizzes will use fallback questions.")
			}
			return nil
		})
	},
}

func init() {
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyClearCmd)
	keyCmd.AddCommand(keyStatusCmd)
}
