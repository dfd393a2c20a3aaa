// Package report renders finished assessments as labeled summary lines,
// plain-text reports, and XLSX workbooks. Field order is fixed so
// downstream report tooling can rely on it.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/solarmap/solarmap/internal/model"
	"github.com/solarmap/solarmap/internal/solar"
)

// Line is one labeled key/value entry of the flat summary.
type Line struct {
	Label string
	Value string
}

// currency formats amounts with Indian digit grouping.
var currency = message.NewPrinter(language.MustParse("en-IN"))

// SummaryLines flattens an assessment into the fixed export order:
// location, rooftop, panels, system size, annual output, cost, savings,
// payback, suitability, mean irradiance.
func SummaryLines(a *model.Assessment) []Line {
	req := a.Request

	name := req.PlaceName
	if name == "" {
		name = "Custom"
	}

	return []Line{
		{"Location", fmt.Sprintf("%s (%.6f, %.6f)", name, req.Location.Latitude, req.Location.Longitude)},
		{"Rooftop", fmt.Sprintf("%.1f x %.1f m, area %.1f m²", req.Roof.WidthM, req.Roof.HeightM, req.Roof.AreaM2())},
		{"Panels fit", fmt.Sprintf("%d (%.2f x %.2f m, %.0f W, %s)", a.Layout.Panels, req.Panel.WidthM, req.Panel.HeightM, req.Panel.RatedW, req.Panel.Orientation)},
		{"System size", fmt.Sprintf("%.2f kW", a.SystemKW)},
		{"Annual output", fmt.Sprintf("%.0f kWh", a.Forecast.AnnualKWh)},
		{"Installation cost", currency.Sprintf("₹%.0f", a.Financial.InstallCost)},
		{"Annual savings", currency.Sprintf("₹%.0f (@₹%.2f/kWh)", a.Financial.AnnualSavings, req.Financial.TariffPerKWh)},
		{"Payback period", fmt.Sprintf("%.1f years", a.Financial.PaybackYears)},
		{"Suitability score", fmt.Sprintf("%.1f/100 (%s)", a.Suitability.Score, a.Band)},
		{"Mean irradiance", fmt.Sprintf("%.3f kWh/m²/day (%s)", a.MeanIrradiance, a.IrradianceSource)},
	}
}

// WriteText writes the summary, the monthly table, and the suggestions as
// a plain-text report.
func WriteText(w io.Writer, a *model.Assessment) error {
	var b strings.Builder

	b.WriteString("Solar Rooftop Assessment\n")
	b.WriteString("========================\n\n")

	for _, line := range SummaryLines(a) {
		fmt.Fprintf(&b, "%-18s %s\n", line.Label+":", line.Value)
	}

	b.WriteString("\nMonthly forecast\n")
	fmt.Fprintf(&b, "%-5s %10s %6s %12s\n", "Month", "GHI", "Days", "Energy kWh")
	days := solar.DaysInMonths(a.Year)
	for i, name := range model.Months {
		fmt.Fprintf(&b, "%-5s %10.3f %6d %12.1f\n",
			name, a.Irradiance[i], days[i], a.Forecast.MonthlyKWh[i])
	}

	b.WriteString("\nSuggestions\n")
	for _, s := range a.Suggestions {
		fmt.Fprintf(&b, "- %s\n", s)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return eris.Wrap(err, "report: write text")
	}
	return nil
}

// WriteXLSX writes the assessment as a workbook with a summary sheet and
// the monthly forecast table.
func WriteXLSX(path string, a *model.Assessment) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}
	for _, line := range SummaryLines(a) {
		row := summary.AddRow()
		row.AddCell().SetString(line.Label)
		row.AddCell().SetString(line.Value)
	}

	monthly, err := f.AddSheet("Monthly")
	if err != nil {
		return eris.Wrap(err, "report: add monthly sheet")
	}
	header := monthly.AddRow()
	for _, h := range []string{"Month", "GHI (kWh/m²/day)", "Days", "Energy (kWh)"} {
		header.AddCell().SetString(h)
	}
	days := solar.DaysInMonths(a.Year)
	for i, name := range model.Months {
		row := monthly.AddRow()
		row.AddCell().SetString(name)
		row.AddCell().SetFloat(a.Irradiance[i])
		row.AddCell().SetInt(days[i])
		row.AddCell().SetFloat(a.Forecast.MonthlyKWh[i])
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}
