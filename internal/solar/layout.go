package solar

import (
	"math"

	"github.com/solarmap/solarmap/internal/model"
)

// PackPanels computes how many panels fit on a rectangular roof in a
// regular grid. Landscape orientation swaps the panel footprint before
// packing. Degenerate inputs (zero or negative dimensions, a panel larger
// than the roof) yield a zero count rather than an error.
//
// Per axis the count is floor((avail + clearance/2) / (panel + clearance)).
// The half-clearance bonus models the first panel not needing a leading
// gap; it is an approximation, not exact bin packing, and its rounding
// behavior is relied upon downstream.
func PackPanels(roof model.RoofGeometry, panel model.PanelSpec) model.LayoutResult {
	pw, ph := panel.WidthM, panel.HeightM
	if panel.Orientation == model.Landscape {
		pw, ph = ph, pw
	}

	availW := math.Max(roof.WidthM-2*roof.ClearanceM, 0)
	availH := math.Max(roof.HeightM-2*roof.ClearanceM, 0)

	cols := countAxis(availW, pw, roof.ClearanceM)
	rows := countAxis(availH, ph, roof.ClearanceM)

	return model.LayoutResult{
		Panels: rows * cols,
		Rows:   rows,
		Cols:   cols,
	}
}

// countAxis returns how many panel spans fit along one axis.
func countAxis(avail, panelDim, clearance float64) int {
	if panelDim <= 0 {
		return 0
	}
	n := int(math.Floor((avail + clearance*0.5) / (panelDim + clearance)))
	if n < 0 {
		return 0
	}
	return n
}

// SystemKW derives the system capacity from a packed panel count and the
// per-panel rating. All consumers must size the system this way.
func SystemKW(panels int, ratedW float64) float64 {
	return float64(panels) * ratedW / 1000
}
