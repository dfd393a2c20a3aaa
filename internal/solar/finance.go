package solar

import (
	"math"

	"github.com/solarmap/solarmap/internal/model"
)

// MinAnnualSavings is the floor applied to annual savings before the
// payback division. It keeps payback finite when savings are zero or
// negative; a huge payback signals "uneconomical" to the caller. Callers
// must not re-derive payback without this floor.
const MinAnnualSavings = 1.0

// Evaluate computes installation cost, annual savings, and payback period
// for a system of the given capacity and annual output.
func Evaluate(systemKW, annualKWh, costPerKW, tariff float64) model.FinancialResult {
	installCost := systemKW * costPerKW
	annualSavings := annualKWh * tariff

	return model.FinancialResult{
		InstallCost:   installCost,
		AnnualSavings: annualSavings,
		PaybackYears:  installCost / math.Max(annualSavings, MinAnnualSavings),
	}
}
