package utils

import (
	"math"
	"time"
)

func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// EndOfDay matches the 23:59:59.999 upper bound the departure-date filter
// uses; millisecond precision is what the stored timestamps carry.
func EndOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, 999000000, t.Location())
}

// Round1 rounds to one decimal place. Used for aggregate user ratings.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
