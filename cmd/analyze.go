package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/agronomy-cli/internal/agronomy"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Grade soil pH, nutrients and organic matter",
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := readingsFromFlags(cmd.Flags())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), outputFormat, agronomy.Analyze(r))
	},
}

func init() {
	addReadingFlags(analyzeCmd.Flags())
	rootCmd.AddCommand(analyzeCmd)
}
