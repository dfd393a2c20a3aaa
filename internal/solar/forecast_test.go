package solar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solarmap/solarmap/internal/model"
)

func flatIrradiance(v float64) model.MonthlyIrradiance {
	var irr model.MonthlyIrradiance
	for i := range irr {
		irr[i] = v
	}
	return irr
}

func TestDaysInMonths_LeapYears(t *testing.T) {
	tests := []struct {
		year int
		feb  int
	}{
		{2023, 28},
		{2024, 29},
		{1900, 28}, // divisible by 100, not 400
		{2000, 29}, // divisible by 400
	}

	for _, tt := range tests {
		days := DaysInMonths(tt.year)
		assert.Equal(t, tt.feb, days[1], "year %d", tt.year)
		assert.Equal(t, 31, days[0])
		assert.Equal(t, 31, days[11])
	}
}

func TestForecast_ReferenceJanuary(t *testing.T) {
	// 6.4 kW, flat 5.5 kWh/m²/day, PR 0.75, 10% shading:
	// January = 6.4 × 5.5 × 31 × 0.75 × 0.9 ≈ 736.56 kWh.
	result := Forecast(6.4, flatIrradiance(5.5), 2023, 0.75, 0.1)

	assert.InDelta(t, 6.4*5.5*31*0.75*0.9, result.MonthlyKWh[0], 1e-6)
	assert.InDelta(t, 736.56, result.MonthlyKWh[0], 0.01)
}

func TestForecast_AnnualIsSum(t *testing.T) {
	result := Forecast(3.2, FallbackTropical, 2023, 0.8, 0.05)

	var sum float64
	for _, v := range result.MonthlyKWh {
		sum += v
	}
	assert.InDelta(t, sum, result.AnnualKWh, 1e-9)
}

func TestForecast_LinearInSystemSize(t *testing.T) {
	irr := FallbackTemperate
	base := Forecast(2.5, irr, 2024, 0.75, 0.1)
	doubled := Forecast(5.0, irr, 2024, 0.75, 0.1)

	assert.InDelta(t, 2*base.AnnualKWh, doubled.AnnualKWh, 1e-6)
	for i := range base.MonthlyKWh {
		assert.InDelta(t, 2*base.MonthlyKWh[i], doubled.MonthlyKWh[i], 1e-9)
	}
}

func TestForecast_ZeroSystem(t *testing.T) {
	result := Forecast(0, flatIrradiance(5.5), 2023, 0.75, 0.1)
	assert.Zero(t, result.AnnualKWh)
	for _, v := range result.MonthlyKWh {
		assert.Zero(t, v)
	}
}

func TestForecast_LeapFebruaryAddsADay(t *testing.T) {
	irr := flatIrradiance(5.0)
	leap := Forecast(1, irr, 2024, 1, 0)
	common := Forecast(1, irr, 2023, 1, 0)

	assert.InDelta(t, 5.0, leap.MonthlyKWh[1]-common.MonthlyKWh[1], 1e-9)
}
