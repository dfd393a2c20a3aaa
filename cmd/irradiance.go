package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/solarmap/solarmap/internal/model"
)

var (
	irrPlace string
	irrLat   float64
	irrLon   float64
)

var irradianceCmd = &cobra.Command{
	Use:   "irradiance",
	Short: "Fetch the monthly irradiance profile for a point",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		req := defaultRequest()
		coordsSet := cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon")
		if err := resolveLocation(ctx, &req, irrPlace, "", irrLat, irrLon, coordsSet); err != nil {
			return err
		}

		irr, err := initProvider().Monthly(ctx, req.Location.Latitude, req.Location.Longitude)
		if err != nil {
			return err
		}

		name := req.PlaceName
		if name == "" {
			name = "point"
		}
		fmt.Printf("Monthly GHI at %s (%.4f, %.4f), kWh/m²/day:\n\n",
			name, req.Location.Latitude, req.Location.Longitude)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for i, month := range model.Months {
			_, _ = fmt.Fprintf(w, "%s\t%.3f\n", month, irr[i])
		}
		_, _ = fmt.Fprintf(w, "Mean\t%.3f\n", irr.Mean())
		return w.Flush()
	},
}

func init() {
	irradianceCmd.Flags().StringVar(&irrPlace, "place", "", "place name from the gazetteer")
	irradianceCmd.Flags().Float64Var(&irrLat, "lat", 0, "latitude in decimal degrees")
	irradianceCmd.Flags().Float64Var(&irrLon, "lon", 0, "longitude in decimal degrees")
	rootCmd.AddCommand(irradianceCmd)
}
