package main

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solarmap/solarmap/internal/model"
	"github.com/solarmap/solarmap/internal/pipeline"
	"github.com/solarmap/solarmap/internal/report"
)

var assessFlags struct {
	place   string
	address string
	lat     float64
	lon     float64

	roofWidth  float64
	roofHeight float64
	clearance  float64

	panelWidth  float64
	panelHeight float64
	panelWatt   float64
	orientation string

	performanceRatio float64
	shading          float64
	tilt             float64

	costPerKW float64
	tariff    float64

	year    int
	offline bool
	save    bool
	out     string
}

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Assess a rooftop for solar installation",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		req, err := buildAssessRequest(cmd)
		if err != nil {
			return err
		}

		var provider = initProvider()
		if req.Offline {
			provider = nil
		}

		assessment, err := pipeline.NewAssessor(provider).Run(ctx, req)
		if err != nil {
			return err
		}

		if assessFlags.save {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			run, err := st.CreateRun(ctx, req)
			if err != nil {
				return err
			}
			if err := st.SaveAssessment(ctx, run.ID, assessment); err != nil {
				return err
			}
			zap.L().Info("run saved", zap.String("run_id", run.ID))
		}

		return writeReport(assessFlags.out, assessment)
	},
}

// buildAssessRequest merges configured defaults, location flags, and
// per-flag overrides into one request.
func buildAssessRequest(cmd *cobra.Command) (model.AssessmentRequest, error) {
	req := defaultRequest()

	f := assessFlags
	coordsSet := cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon")
	if err := resolveLocation(cmd.Context(), &req, f.place, f.address, f.lat, f.lon, coordsSet); err != nil {
		return req, err
	}

	if cmd.Flags().Changed("roof-width") {
		req.Roof.WidthM = f.roofWidth
	}
	if cmd.Flags().Changed("roof-height") {
		req.Roof.HeightM = f.roofHeight
	}
	if cmd.Flags().Changed("clearance") {
		req.Roof.ClearanceM = f.clearance
	}
	if cmd.Flags().Changed("panel-width") {
		req.Panel.WidthM = f.panelWidth
	}
	if cmd.Flags().Changed("panel-height") {
		req.Panel.HeightM = f.panelHeight
	}
	if cmd.Flags().Changed("panel-watt") {
		req.Panel.RatedW = f.panelWatt
	}
	if cmd.Flags().Changed("orientation") {
		req.Panel.Orientation = model.Orientation(f.orientation)
	}
	if cmd.Flags().Changed("performance-ratio") {
		req.Perf.PerformanceRatio = f.performanceRatio
	}
	if cmd.Flags().Changed("shading") {
		req.Perf.ShadingFactor = f.shading
	}
	if cmd.Flags().Changed("cost-per-kw") {
		req.Financial.CostPerKW = f.costPerKW
	}
	if cmd.Flags().Changed("tariff") {
		req.Financial.TariffPerKWh = f.tariff
	}
	req.Perf.TiltDeg = f.tilt
	if !cmd.Flags().Changed("tilt") {
		// Rule of thumb: tilt at latitude, capped to the validated range.
		tilt := req.Location.Latitude
		if tilt < 0 {
			tilt = -tilt
		}
		if tilt > 60 {
			tilt = 60
		}
		req.Perf.TiltDeg = tilt
	}
	req.Year = f.year
	req.Offline = f.offline

	return req, nil
}

// writeReport renders to stdout, or to a text/xlsx file by extension.
func writeReport(out string, a *model.Assessment) error {
	switch {
	case out == "":
		return report.WriteText(os.Stdout, a)
	case strings.HasSuffix(out, ".xlsx"):
		return report.WriteXLSX(out, a)
	case strings.HasSuffix(out, ".txt"):
		f, err := os.Create(out)
		if err != nil {
			return eris.Wrapf(err, "create %s", out)
		}
		defer f.Close() //nolint:errcheck
		return report.WriteText(f, a)
	default:
		return eris.Errorf("unsupported report format %q (use .txt or .xlsx)", out)
	}
}

func init() {
	fl := assessCmd.Flags()
	fl.StringVar(&assessFlags.place, "place", "", "place name from the gazetteer")
	fl.StringVar(&assessFlags.address, "address", "", "free-text address to geocode")
	fl.Float64Var(&assessFlags.lat, "lat", 0, "latitude in decimal degrees")
	fl.Float64Var(&assessFlags.lon, "lon", 0, "longitude in decimal degrees")

	fl.Float64Var(&assessFlags.roofWidth, "roof-width", 0, "roof width in meters")
	fl.Float64Var(&assessFlags.roofHeight, "roof-height", 0, "roof height in meters")
	fl.Float64Var(&assessFlags.clearance, "clearance", 0, "edge/walkway clearance in meters")

	fl.Float64Var(&assessFlags.panelWidth, "panel-width", 0, "panel width in meters")
	fl.Float64Var(&assessFlags.panelHeight, "panel-height", 0, "panel height in meters")
	fl.Float64Var(&assessFlags.panelWatt, "panel-watt", 0, "panel rating in watts")
	fl.StringVar(&assessFlags.orientation, "orientation", "", "panel orientation (portrait|landscape)")

	fl.Float64Var(&assessFlags.performanceRatio, "performance-ratio", 0, "system performance ratio (0-1]")
	fl.Float64Var(&assessFlags.shading, "shading", 0, "shading fraction [0-0.8]")
	fl.Float64Var(&assessFlags.tilt, "tilt", 0, "panel tilt in degrees (default: |latitude|)")

	fl.Float64Var(&assessFlags.costPerKW, "cost-per-kw", 0, "installed cost per kW")
	fl.Float64Var(&assessFlags.tariff, "tariff", 0, "electricity tariff per kWh")

	fl.IntVar(&assessFlags.year, "year", 0, "calendar year for days-per-month (default: current)")
	fl.BoolVar(&assessFlags.offline, "offline", false, "skip the irradiance API and use the fallback profile")
	fl.BoolVar(&assessFlags.save, "save", false, "persist the run to the configured store")
	fl.StringVar(&assessFlags.out, "out", "", "write the report to a .txt or .xlsx file instead of stdout")

	rootCmd.AddCommand(assessCmd)
}
