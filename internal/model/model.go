// Package model defines the value records passed through the assessment
// pipeline. All types are plain data; results are never mutated after
// creation.
package model

// MonthCount is the number of entries in a monthly series.
const MonthCount = 12

// Months holds calendar-ordered month names, Jan..Dec.
var Months = [MonthCount]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the point is inside the WGS84 domain.
func (p GeoPoint) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// MonthlyIrradiance is an average daily irradiance series (kWh/m²/day),
// calendar-ordered Jan..Dec. The zero value means "no data".
type MonthlyIrradiance [MonthCount]float64

// Mean returns the average of the 12 monthly values.
func (m MonthlyIrradiance) Mean() float64 {
	var sum float64
	for _, v := range m {
		sum += v
	}
	return sum / MonthCount
}

// IsZero reports whether the series carries no data at all.
func (m MonthlyIrradiance) IsZero() bool {
	return m == MonthlyIrradiance{}
}

// Orientation selects how a panel footprint is placed on the roof.
type Orientation string

// Panel orientations. Landscape swaps the panel width and height before
// packing.
const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// PanelSpec describes a single PV panel.
type PanelSpec struct {
	WidthM      float64     `json:"width_m"`
	HeightM     float64     `json:"height_m"`
	RatedW      float64     `json:"rated_w"`
	Orientation Orientation `json:"orientation"`
}

// RoofGeometry is a rectangular rooftop approximation. Clearance is the
// spacing kept around and between panels.
type RoofGeometry struct {
	WidthM     float64 `json:"width_m"`
	HeightM    float64 `json:"height_m"`
	ClearanceM float64 `json:"clearance_m"`
}

// AreaM2 returns the gross rooftop area.
func (r RoofGeometry) AreaM2() float64 {
	return r.WidthM * r.HeightM
}

// PerformanceConfig holds system-level derating assumptions.
type PerformanceConfig struct {
	// PerformanceRatio is the fraction of theoretical energy retained
	// after real-world losses, typically 0.6-0.9.
	PerformanceRatio float64 `json:"performance_ratio"`
	// ShadingFactor is the fraction of irradiance lost to shading, 0-0.8.
	ShadingFactor float64 `json:"shading_factor"`
	// TiltDeg is the panel tilt from horizontal, 0-60.
	TiltDeg float64 `json:"tilt_deg"`
}

// FinancialConfig holds pricing inputs.
type FinancialConfig struct {
	CostPerKW    float64 `json:"cost_per_kw"`
	TariffPerKWh float64 `json:"tariff_per_kwh"`
}

// LayoutResult is the output of the geometry packer. Panels = Rows × Cols.
type LayoutResult struct {
	Panels int `json:"panels"`
	Rows   int `json:"rows"`
	Cols   int `json:"cols"`
}

// ForecastResult holds the monthly energy series (kWh) aligned to
// MonthlyIrradiance order and its annual sum.
type ForecastResult struct {
	MonthlyKWh [MonthCount]float64 `json:"monthly_kwh"`
	AnnualKWh  float64             `json:"annual_kwh"`
}

// FinancialResult holds installation cost, savings, and payback.
// PaybackYears is always computed against savings floored to 1 currency
// unit, so it is large but finite when savings are zero.
type FinancialResult struct {
	InstallCost   float64 `json:"install_cost"`
	AnnualSavings float64 `json:"annual_savings"`
	PaybackYears  float64 `json:"payback_years"`
}

// SuitabilityResult is the composite 0-100 site score, rounded to one
// decimal.
type SuitabilityResult struct {
	Score float64 `json:"score"`
}
