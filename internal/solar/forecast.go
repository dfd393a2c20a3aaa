package solar

import "github.com/solarmap/solarmap/internal/model"

// Forecast produces the monthly energy series for a system of the given
// capacity. Per month:
//
//	energy = systemKW × irradiance × daysInMonth × pr × (1 − shading)
//
// The year is an explicit input so February's length never drifts with
// the clock. Negative or zero capacity passes straight through; input
// validation belongs to the boundary layer.
func Forecast(systemKW float64, irr model.MonthlyIrradiance, year int, performanceRatio, shadingFactor float64) model.ForecastResult {
	days := DaysInMonths(year)

	var out model.ForecastResult
	for i := 0; i < model.MonthCount; i++ {
		e := systemKW * irr[i] * float64(days[i]) * performanceRatio * (1 - shadingFactor)
		out.MonthlyKWh[i] = e
		out.AnnualKWh += e
	}
	return out
}
