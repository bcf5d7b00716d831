package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sells-group/agronomy-cli/internal/agronomy"
	"github.com/sells-group/agronomy-cli/internal/model"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend fertilizers for a crop from soil readings",
	Example: "  agronomy-cli recommend --crop rice --ph 5.0 --nitrogen 20 --phosphorus 10 --potassium 20\n" +
		"  agronomy-cli recommend --crop wheat --soil-type sandy --format yaml",
	RunE: func(cmd *cobra.Command, _ []string) error {
		crop, _ := cmd.Flags().GetString("crop")
		r, err := readingsFromFlags(cmd.Flags())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), outputFormat, agronomy.Recommend(crop, r))
	},
}

// addReadingFlags registers the soil reading flags with their request
// defaults.
func addReadingFlags(fs *pflag.FlagSet) {
	d := model.DefaultReadings()
	fs.Float64("ph", d.PH, "soil pH")
	fs.Float64("nitrogen", d.Nitrogen, "available nitrogen (kg/ha)")
	fs.Float64("phosphorus", d.Phosphorus, "available phosphorus (kg/ha)")
	fs.Float64("potassium", d.Potassium, "available potassium (kg/ha)")
	fs.Float64("organic-matter", d.OrganicMatter, "organic matter (%)")
	fs.Float64("moisture", d.Moisture, "soil moisture (%)")
	fs.Float64("temperature", d.Temperature, "soil temperature (°C)")
	fs.String("soil-type", "", "soil type: sandy, clay, loam, red, black, alluvial or laterite")
}

func readingsFromFlags(fs *pflag.FlagSet) (model.Readings, error) {
	var r model.Readings
	var err error
	get := func(name string) float64 {
		if err != nil {
			return 0
		}
		var v float64
		v, err = fs.GetFloat64(name)
		return v
	}
	r.PH = get("ph")
	r.Nitrogen = get("nitrogen")
	r.Phosphorus = get("phosphorus")
	r.Potassium = get("potassium")
	r.OrganicMatter = get("organic-matter")
	r.Moisture = get("moisture")
	r.Temperature = get("temperature")
	if err != nil {
		return model.Readings{}, err
	}
	soilType, _ := fs.GetString("soil-type")
	r.SoilType = model.ParseSoilType(soilType)
	return r, nil
}

func init() {
	recommendCmd.Flags().String("crop", "", "crop name (rice, wheat, corn, soybean, cotton, tomato, potato, sugarcane)")
	addReadingFlags(recommendCmd.Flags())
	rootCmd.AddCommand(recommendCmd)
}
