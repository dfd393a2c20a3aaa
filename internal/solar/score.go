package solar

import (
	"math"

	"github.com/solarmap/solarmap/internal/model"
)

// ScoreConfig holds every tunable of the suitability scorer. The four
// weights must sum to 1.0. DefaultScoreConfig is the single source of
// truth for the tuning constants; variants that need different clamps or
// weights override fields rather than re-deriving formulas.
type ScoreConfig struct {
	ResourceWeight float64 `yaml:"resource_weight" mapstructure:"resource_weight"`
	AreaWeight     float64 `yaml:"area_weight" mapstructure:"area_weight"`
	ShadeWeight    float64 `yaml:"shade_weight" mapstructure:"shade_weight"`
	TiltWeight     float64 `yaml:"tilt_weight" mapstructure:"tilt_weight"`

	// ResourceNeutral is used when no irradiance data is available.
	ResourceNeutral float64 `yaml:"resource_neutral" mapstructure:"resource_neutral"`
	ResourceMin     float64 `yaml:"resource_min" mapstructure:"resource_min"`
	ResourceMax     float64 `yaml:"resource_max" mapstructure:"resource_max"`

	AreaBase     float64 `yaml:"area_base" mapstructure:"area_base"`
	AreaBonusMax float64 `yaml:"area_bonus_max" mapstructure:"area_bonus_max"`

	ShadeMin float64 `yaml:"shade_min" mapstructure:"shade_min"`

	// TiltPenalty is the score lost per degree of offset from the ideal
	// tilt (≈ absolute latitude).
	TiltPenalty float64 `yaml:"tilt_penalty" mapstructure:"tilt_penalty"`
	TiltMin     float64 `yaml:"tilt_min" mapstructure:"tilt_min"`
}

// DefaultScoreConfig returns the standard scorer tuning.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		ResourceWeight:  0.35,
		AreaWeight:      0.25,
		ShadeWeight:     0.20,
		TiltWeight:      0.20,
		ResourceNeutral: 50,
		ResourceMin:     20,
		ResourceMax:     95,
		AreaBase:        30,
		AreaBonusMax:    65,
		ShadeMin:        10,
		TiltPenalty:     2.2,
		TiltMin:         40,
	}
}

// Score bands, kept stable across surfaces.
const (
	BandExcellent = "excellent"
	BandGood      = "good"
	BandModerate  = "moderate"
)

// Band maps a composite score to its qualitative band.
func Band(score float64) string {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 65:
		return BandGood
	default:
		return BandModerate
	}
}

// Score computes the composite 0-100 suitability score as a weighted sum
// of four saturating sub-scores: solar resource, rooftop area, shading,
// and tilt alignment with latitude. The result is rounded to one decimal.
// A zero-value irradiance series scores the neutral resource default.
func (c ScoreConfig) Score(roofAreaM2 float64, irr model.MonthlyIrradiance, shadingFactor, tiltDeg, latitudeDeg float64) model.SuitabilityResult {
	resource := c.ResourceNeutral
	if !irr.IsZero() {
		resource = clamp(20+(irr.Mean()-3)*18, c.ResourceMin, c.ResourceMax)
	}

	area := c.AreaBase + clamp((roofAreaM2-10)*1.5, 0, c.AreaBonusMax)

	shade := clamp(100-shadingFactor*100, c.ShadeMin, 100)

	idealOffset := math.Abs(math.Abs(latitudeDeg) - tiltDeg)
	tilt := clamp(100-idealOffset*c.TiltPenalty, c.TiltMin, 100)

	final := resource*c.ResourceWeight +
		area*c.AreaWeight +
		shade*c.ShadeWeight +
		tilt*c.TiltWeight

	return model.SuitabilityResult{Score: math.Round(final*10) / 10}
}

// Score computes the suitability score with the default tuning.
func Score(roofAreaM2 float64, irr model.MonthlyIrradiance, shadingFactor, tiltDeg, latitudeDeg float64) model.SuitabilityResult {
	return DefaultScoreConfig().Score(roofAreaM2, irr, shadingFactor, tiltDeg, latitudeDeg)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
