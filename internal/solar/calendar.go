// Package solar implements the estimation core: panel layout packing,
// monthly energy forecasting, financial evaluation, and suitability
// scoring. Every function is pure and safe for concurrent use.
package solar

import "github.com/solarmap/solarmap/internal/model"

// IsLeapYear applies the Gregorian rule: divisible by 4 and (not
// divisible by 100 or divisible by 400).
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonths returns the calendar-ordered day counts for the given
// year, with a leap-aware February.
func DaysInMonths(year int) [model.MonthCount]int {
	feb := 28
	if IsLeapYear(year) {
		feb = 29
	}
	return [model.MonthCount]int{31, feb, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
}
