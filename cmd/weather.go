package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/agronomy-cli/internal/advisory"
)

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Show forecast alerts and insights for a location",
	Example: "  agronomy-cli weather --q Nagpur --state Maharashtra\n" +
		"  agronomy-cli weather --lat 18.52 --lon 73.85",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, envOptions{mode: "cli", store: true})
		if err != nil {
			return err
		}
		defer env.Close()

		req := advisory.WeatherRequest{}
		req.Query, _ = cmd.Flags().GetString("q")
		req.District, _ = cmd.Flags().GetString("district")
		req.State, _ = cmd.Flags().GetString("state")
		req.Lat, req.Lon = coordFlags(cmd)

		rep, err := env.Composer.WeatherAlerts(ctx, req)
		if err != nil {
			return eris.Wrap(err, "weather")
		}
		return printResult(cmd.OutOrStdout(), outputFormat, rep)
	},
}

func init() {
	addLocationFlags(weatherCmd, "q")
	rootCmd.AddCommand(weatherCmd)
}
