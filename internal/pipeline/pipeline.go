// Package pipeline orchestrates one assessment: resolve the irradiance
// profile, pack the roof, forecast energy, evaluate the financials, and
// score the site. The Assessor holds no mutable state and is safe for
// concurrent use.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/solarmap/solarmap/internal/model"
	"github.com/solarmap/solarmap/internal/solar"
	"github.com/solarmap/solarmap/pkg/power"
)

// Assessor runs assessments against a solar resource provider.
type Assessor struct {
	provider power.Provider
	score    solar.ScoreConfig
}

// Option configures the Assessor.
type Option func(*Assessor)

// WithScoreConfig overrides the default scorer tuning.
func WithScoreConfig(cfg solar.ScoreConfig) Option {
	return func(a *Assessor) {
		a.score = cfg
	}
}

// NewAssessor creates an Assessor. The provider may be nil, in which case
// every assessment uses the latitude-band fallback profile.
func NewAssessor(provider power.Provider, opts ...Option) *Assessor {
	a := &Assessor{
		provider: provider,
		score:    solar.DefaultScoreConfig(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Run executes the full pipeline for one request.
func (a *Assessor) Run(ctx context.Context, req model.AssessmentRequest) (*model.Assessment, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	year := req.Year
	if year == 0 {
		year = time.Now().Year()
	}

	irr, source := a.resolveIrradiance(ctx, req)

	layout := solar.PackPanels(req.Roof, req.Panel)
	systemKW := solar.SystemKW(layout.Panels, req.Panel.RatedW)

	forecast := solar.Forecast(systemKW, irr, year, req.Perf.PerformanceRatio, req.Perf.ShadingFactor)
	financial := solar.Evaluate(systemKW, forecast.AnnualKWh, req.Financial.CostPerKW, req.Financial.TariffPerKWh)
	suitability := a.score.Score(req.Roof.AreaM2(), irr, req.Perf.ShadingFactor, req.Perf.TiltDeg, req.Location.Latitude)

	assessment := &model.Assessment{
		Request:          req,
		Irradiance:       irr,
		IrradianceSource: source,
		MeanIrradiance:   irr.Mean(),
		Year:             year,
		Layout:           layout,
		SystemKW:         systemKW,
		Forecast:         forecast,
		Financial:        financial,
		Suitability:      suitability,
		Band:             solar.Band(suitability.Score),
	}
	assessment.Suggestions = suggestions(assessment)

	zap.L().Info("assessment complete",
		zap.Float64("lat", req.Location.Latitude),
		zap.Float64("lon", req.Location.Longitude),
		zap.Int("panels", layout.Panels),
		zap.Float64("system_kw", systemKW),
		zap.Float64("annual_kwh", forecast.AnnualKWh),
		zap.Float64("score", suitability.Score),
		zap.String("irradiance_source", string(source)),
	)

	return assessment, nil
}

// resolveIrradiance asks the provider for climatology and falls back to
// the latitude-band profile when it is unavailable.
func (a *Assessor) resolveIrradiance(ctx context.Context, req model.AssessmentRequest) (model.MonthlyIrradiance, model.IrradianceSource) {
	if !req.Offline && a.provider != nil {
		irr, err := a.provider.Monthly(ctx, req.Location.Latitude, req.Location.Longitude)
		if err == nil {
			return irr, model.SourcePower
		}
		if !errors.Is(err, power.ErrUnavailable) {
			zap.L().Warn("irradiance provider error, using fallback", zap.Error(err))
		}
	}
	return solar.FallbackProfile(req.Location.Latitude)
}

// validate checks boundary ranges. The core itself is total; bad inputs
// are rejected here, once, before they enter it.
func validate(req model.AssessmentRequest) error {
	switch {
	case !req.Location.Valid():
		return eris.Errorf("pipeline: coordinates out of range (%.4f, %.4f)",
			req.Location.Latitude, req.Location.Longitude)
	case req.Roof.WidthM <= 0 || req.Roof.HeightM <= 0:
		return eris.New("pipeline: roof dimensions must be positive")
	case req.Roof.ClearanceM < 0:
		return eris.New("pipeline: clearance must be non-negative")
	case req.Panel.WidthM <= 0 || req.Panel.HeightM <= 0 || req.Panel.RatedW <= 0:
		return eris.New("pipeline: panel dimensions and rating must be positive")
	case req.Panel.Orientation != model.Portrait && req.Panel.Orientation != model.Landscape:
		return eris.Errorf("pipeline: unknown orientation %q", req.Panel.Orientation)
	case req.Perf.PerformanceRatio <= 0 || req.Perf.PerformanceRatio > 1:
		return eris.New("pipeline: performance ratio must be in (0, 1]")
	case req.Perf.ShadingFactor < 0 || req.Perf.ShadingFactor > 0.8:
		return eris.New("pipeline: shading factor must be in [0, 0.8]")
	case req.Perf.TiltDeg < 0 || req.Perf.TiltDeg > 60:
		return eris.New("pipeline: tilt must be in [0, 60] degrees")
	case req.Financial.CostPerKW <= 0 || req.Financial.TariffPerKWh <= 0:
		return eris.New("pipeline: cost per kW and tariff must be positive")
	}
	return nil
}

// Suggestion thresholds, mirrored in the advisory text.
const (
	tinyRoofAreaM2   = 5.0
	highShading      = 0.4
	longPaybackYears = 12.0
)

// suggestions derives advisory strings from the finished assessment.
func suggestions(a *model.Assessment) []string {
	var out []string
	if a.Request.Roof.AreaM2() < tinyRoofAreaM2 {
		out = append(out, "Rooftop area is very small; installation may be uneconomical.")
	}
	if a.Request.Perf.ShadingFactor > highShading {
		out = append(out, "High shading detected; consider trimming trees or selecting another area.")
	}
	if a.Financial.PaybackYears > longPaybackYears {
		out = append(out, "Long payback period; consider increasing self-consumption or battery/storage subsidies to improve ROI.")
	}
	if len(out) == 0 {
		out = append(out, "Good site. Consider optimizing tilt and orientation for marginal gains.")
	}
	return out
}
