package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/agronomy-cli/internal/resilience"
)

var chatCmd = &cobra.Command{
	Use:   "chat <question>",
	Short: "Ask the farm assistant a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newAssistant(resilience.NewGuards(cfg.Resilience.Settings()), nil)
		ans, err := a.Ask(cmd.Context(), strings.Join(args, " "), nil)
		if err != nil {
			return eris.Wrap(err, "chat")
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), ans.Text)
		return err
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
