package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/agronomy-cli/internal/advisory"
)

var advisoryCmd = &cobra.Command{
	Use:   "advisory",
	Short: "Compose a location-specific crop advisory",
	Long: "Combines the soil profile for a location, weather alerts for its forecast and fertilizer " +
		"guidance into one advisory, optionally translated.",
	Example: "  agronomy-cli advisory --crop wheat --location Pune --state Maharashtra --language hi",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, envOptions{mode: "cli", store: true})
		if err != nil {
			return err
		}
		defer env.Close()

		req := advisory.Request{}
		req.Crop, _ = cmd.Flags().GetString("crop")
		req.LocationQuery, _ = cmd.Flags().GetString("location")
		req.District, _ = cmd.Flags().GetString("district")
		req.State, _ = cmd.Flags().GetString("state")
		req.Language, _ = cmd.Flags().GetString("language")
		req.Lat, req.Lon = coordFlags(cmd)

		rep := env.Composer.Build(ctx, req)
		text, _ := cmd.Flags().GetBool("text")
		if text {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), rep.Advisory)
			return err
		}
		return printResult(cmd.OutOrStdout(), outputFormat, rep)
	},
}

// coordFlags returns --lat and --lon when both were given.
func coordFlags(cmd *cobra.Command) (*float64, *float64) {
	if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
		return nil, nil
	}
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")
	return &lat, &lon
}

func addLocationFlags(cmd *cobra.Command, queryFlag string) {
	cmd.Flags().String(queryFlag, "", "place name to resolve")
	cmd.Flags().String("district", "", "district name")
	cmd.Flags().String("state", "", "state name")
	cmd.Flags().Float64("lat", 0, "latitude (skips geocoding with --lon)")
	cmd.Flags().Float64("lon", 0, "longitude (skips geocoding with --lat)")
}

func init() {
	advisoryCmd.Flags().String("crop", advisory.DefaultCrop, "crop name")
	advisoryCmd.Flags().String("language", advisory.DefaultLanguage, "advisory language (e.g. hi, mr, ta)")
	advisoryCmd.Flags().Bool("text", false, "print only the advisory text")
	addLocationFlags(advisoryCmd, "location")
	rootCmd.AddCommand(advisoryCmd)
}
