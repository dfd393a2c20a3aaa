package solar

import (
	"math"

	"github.com/solarmap/solarmap/internal/model"
)

// tropicalLatitudeCutoff is the |latitude| below which the tropical
// fallback profile applies.
const tropicalLatitudeCutoff = 30.0

// FallbackTropical is the static irradiance profile (kWh/m²/day, Jan..Dec)
// used for |lat| < 30° when the resource provider is unavailable.
var FallbackTropical = model.MonthlyIrradiance{
	4.5, 5.2, 6.0, 6.4, 6.5, 5.5, 4.8, 5.0, 5.8, 5.7, 5.0, 4.6,
}

// FallbackTemperate is the static profile for higher latitudes.
var FallbackTemperate = model.MonthlyIrradiance{
	3.8, 4.5, 5.5, 5.8, 6.0, 5.0, 4.2, 4.5, 5.0, 5.2, 4.5, 4.0,
}

// FallbackProfile selects the latitude-band fallback profile and reports
// which one was chosen.
func FallbackProfile(latitudeDeg float64) (model.MonthlyIrradiance, model.IrradianceSource) {
	if math.Abs(latitudeDeg) < tropicalLatitudeCutoff {
		return FallbackTropical, model.SourceFallbackTropical
	}
	return FallbackTemperate, model.SourceFallbackTemperate
}
