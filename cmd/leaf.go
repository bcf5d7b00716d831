package main

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/agronomy-cli/internal/leaf"
)

var leafCmd = &cobra.Command{
	Use:   "leaf <image>",
	Short: "Diagnose a leaf photo from its colour",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return eris.Wrap(err, "open image")
		}
		defer f.Close() //nolint:errcheck

		diag := leaf.Classify(io.LimitReader(f, leaf.MaxImageBytes))
		return printResult(cmd.OutOrStdout(), outputFormat, diag)
	},
}

func init() {
	rootCmd.AddCommand(leafCmd)
}
