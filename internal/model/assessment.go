package model

import "time"

// IrradianceSource identifies where a monthly profile came from.
type IrradianceSource string

// Irradiance sources. Fallback profiles are selected by latitude band when
// the resource provider is unavailable.
const (
	SourcePower             IrradianceSource = "nasa_power"
	SourceFallbackTropical  IrradianceSource = "fallback_tropical"
	SourceFallbackTemperate IrradianceSource = "fallback_temperate"
)

// AssessmentRequest carries every input needed for one assessment.
type AssessmentRequest struct {
	Location  GeoPoint          `json:"location"`
	PlaceName string            `json:"place_name,omitempty"`
	Roof      RoofGeometry      `json:"roof"`
	Panel     PanelSpec         `json:"panel"`
	Perf      PerformanceConfig `json:"performance"`
	Financial FinancialConfig   `json:"financial"`
	// Year selects the calendar used for days-per-month. Zero means the
	// current year.
	Year int `json:"year,omitempty"`
	// Offline skips the resource provider and uses the latitude-band
	// fallback profile directly.
	Offline bool `json:"offline,omitempty"`
}

// Assessment is the full output of the pipeline for one request.
type Assessment struct {
	Request          AssessmentRequest `json:"request"`
	Irradiance       MonthlyIrradiance `json:"irradiance"`
	IrradianceSource IrradianceSource  `json:"irradiance_source"`
	MeanIrradiance   float64           `json:"mean_irradiance"`
	Year             int               `json:"year"`
	Layout           LayoutResult      `json:"layout"`
	SystemKW         float64           `json:"system_kw"`
	Forecast         ForecastResult    `json:"forecast"`
	Financial        FinancialResult   `json:"financial"`
	Suitability      SuitabilityResult `json:"suitability"`
	Band             string            `json:"band"`
	Suggestions      []string          `json:"suggestions"`
}

// RunStatus tracks a persisted assessment run.
type RunStatus string

// Run statuses.
const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run wraps a persisted assessment with identity and timestamps. Request
// is stored at creation time; Assessment is filled in once the pipeline
// completes.
type Run struct {
	ID         string            `json:"id"`
	Request    AssessmentRequest `json:"request"`
	Status     RunStatus         `json:"status"`
	Assessment *Assessment       `json:"assessment,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
