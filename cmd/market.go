package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/agronomy-cli/internal/market"
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Indicative mandi prices",
}

var marketPricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Show the current price band for a crop in a state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		crop, _ := cmd.Flags().GetString("crop")
		state, _ := cmd.Flags().GetString("state")
		return printResult(cmd.OutOrStdout(), outputFormat, market.Current(crop, state))
	},
}

var marketHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the daily price series before today",
	RunE: func(cmd *cobra.Command, _ []string) error {
		q := market.HistoryQuery{}
		q.Crop, _ = cmd.Flags().GetString("crop")
		q.State, _ = cmd.Flags().GetString("state")
		q.District, _ = cmd.Flags().GetString("district")
		q.Days, _ = cmd.Flags().GetInt("days")
		return printResult(cmd.OutOrStdout(), outputFormat, market.PriceHistory(q, time.Now()))
	},
}

func init() {
	for _, c := range []*cobra.Command{marketPricesCmd, marketHistoryCmd} {
		c.Flags().String("crop", market.DefaultCrop, "crop name")
		c.Flags().String("state", market.DefaultState, "state name")
	}
	marketHistoryCmd.Flags().String("district", "", "district name")
	marketHistoryCmd.Flags().Int("days", market.DefaultHistoryDays, "series length (7-120)")

	marketCmd.AddCommand(marketPricesCmd, marketHistoryCmd)
	rootCmd.AddCommand(marketCmd)
}
