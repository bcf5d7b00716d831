package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/agronomy-cli/internal/soil"
)

var soilsCmd = &cobra.Command{
	Use:   "soils",
	Short: "Query the soil survey dataset",
	Long:  "Commands for searching soil readings and listing the states and districts they cover.",
}

func openSoils(cmd *cobra.Command) (*soil.Dataset, error) {
	ds, err := loadSoilDataset(cmd.Context(), cfg.Resilience.Settings())
	if err != nil {
		return nil, eris.Wrap(err, "load soil dataset")
	}
	return ds, nil
}

// -- soils search --

var soilsSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search readings by location, district, state or soil type",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := openSoils(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		results := ds.Search(strings.Join(args, " "), limit)
		return printResult(cmd.OutOrStdout(), outputFormat, map[string]any{
			"count":   len(results),
			"results": results,
		})
	},
}

// -- soils states --

var soilsStatesCmd = &cobra.Command{
	Use:   "states",
	Short: "List states present in the dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := openSoils(cmd)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), outputFormat, ds.States())
	},
}

// -- soils districts --

var soilsDistrictsCmd = &cobra.Command{
	Use:   "districts",
	Short: "List districts, optionally within one state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := openSoils(cmd)
		if err != nil {
			return err
		}
		state, _ := cmd.Flags().GetString("state")
		return printResult(cmd.OutOrStdout(), outputFormat, ds.Districts(state))
	},
}

func init() {
	soilsSearchCmd.Flags().Int("limit", soil.DefaultSearchLimit, "maximum results")
	soilsDistrictsCmd.Flags().String("state", "", "restrict to this state")

	soilsCmd.AddCommand(soilsSearchCmd, soilsStatesCmd, soilsDistrictsCmd)
	rootCmd.AddCommand(soilsCmd)
}
